package index

import (
	"errors"
	"testing"

	pb "github.com/qdrant/go-client/qdrant"

	"github.com/TalentForge/talentforge-mvp/engine/domain"
)

func TestPointIDDeterministic(t *testing.T) {
	a := PointID("jane@example.com")
	b := PointID("jane@example.com")
	if a != b {
		t.Fatalf("same key produced different point ids: %s vs %s", a, b)
	}
	if PointID("other@example.com") == a {
		t.Fatal("distinct keys produced the same point id")
	}
}

func TestHitFromPayloadExtractsEntityID(t *testing.T) {
	payload := map[string]*pb.Value{
		"entity_id": {Kind: &pb.Value_StringValue{StringValue: "jane@example.com"}},
		"name":      {Kind: &pb.Value_StringValue{StringValue: "Jane"}},
	}
	h := hitFromPayload(0.8, payload, nil)
	if h.ID != "jane@example.com" {
		t.Fatalf("expected entity id from payload, got %q", h.ID)
	}
	if h.Meta["name"] != "Jane" {
		t.Fatalf("expected name in meta, got %v", h.Meta)
	}
	if _, ok := h.Meta["entity_id"]; ok {
		t.Fatal("entity_id should not leak into meta")
	}
	if h.Score != 0.8 {
		t.Fatalf("unexpected score %v", h.Score)
	}
}

func TestCheckDims(t *testing.T) {
	s := &Store{dims: 3}
	if err := s.checkDims([]float32{1, 2, 3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := s.checkDims([]float32{1, 2})
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestCollectionMapping(t *testing.T) {
	s := &Store{names: map[domain.Kind]string{
		domain.KindCandidate: "candidates",
		domain.KindJob:       "jobs",
	}}
	if s.collection(domain.KindCandidate) != "candidates" {
		t.Fatal("wrong candidate collection")
	}
	if s.collection(domain.KindJob) != "jobs" {
		t.Fatal("wrong job collection")
	}
}
