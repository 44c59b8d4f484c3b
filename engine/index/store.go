// Package index owns all Qdrant operations for the two entity collections
// (candidates and jobs).
package index

import (
	"context"
	"fmt"

	pb "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/TalentForge/talentforge-mvp/engine/domain"
)

const entityIDKey = "entity_id"

// Store is the sole owner of all Qdrant operations.
type Store struct {
	conn        *grpc.ClientConn
	points      pb.PointsClient
	collections pb.CollectionsClient
	names       map[domain.Kind]string
	dims        int
}

// New creates a Store connected to Qdrant at the given gRPC address.
// dims is the embedding dimension every collection is created with; vectors
// of any other length are rejected before they reach Qdrant.
func New(addr string, candidateCollection, jobCollection string, dims int) (*Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("index: dial qdrant %s: %w", addr, err)
	}
	return &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		names: map[domain.Kind]string{
			domain.KindCandidate: candidateCollection,
			domain.KindJob:       jobCollection,
		},
		dims: dims,
	}, nil
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Dims returns the configured embedding dimension.
func (s *Store) Dims() int { return s.dims }

func (s *Store) collection(kind domain.Kind) string {
	return s.names[kind]
}

func (s *Store) checkDims(vec []float32) error {
	if len(vec) != s.dims {
		return fmt.Errorf("index: got %d-dim vector, collection expects %d: %w",
			len(vec), s.dims, domain.ErrDimensionMismatch)
	}
	return nil
}

// EnsureCollections creates both collections if they don't exist.
func (s *Store) EnsureCollections(ctx context.Context) error {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("index: list collections: %s: %w", err, domain.ErrIndexUnavailable)
	}
	existing := make(map[string]bool)
	for _, c := range list.GetCollections() {
		existing[c.GetName()] = true
	}

	for _, name := range s.names {
		if existing[name] {
			continue
		}
		d := uint64(s.dims)
		_, err = s.collections.Create(ctx, &pb.CreateCollection{
			CollectionName: name,
			VectorsConfig: &pb.VectorsConfig{
				Config: &pb.VectorsConfig_Params{
					Params: &pb.VectorParams{
						Size:     d,
						Distance: pb.Distance_Cosine,
					},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("index: create collection %s: %s: %w", name, err, domain.ErrIndexUnavailable)
		}
	}
	return nil
}

// Upsert stores an entity record. Idempotent by natural key: the point id is
// derived deterministically, so a second write for the same key overwrites.
func (s *Store) Upsert(ctx context.Context, kind domain.Kind, r Record) error {
	if err := s.checkDims(r.Embedding); err != nil {
		return err
	}

	payload := make(map[string]*pb.Value, len(r.Payload)+1)
	for k, val := range r.Payload {
		payload[k] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: val}}
	}
	payload[entityIDKey] = &pb.Value{Kind: &pb.Value_StringValue{StringValue: r.ID}}

	point := &pb.PointStruct{
		Id: &pb.PointId{
			PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(r.ID)},
		},
		Vectors: &pb.Vectors{
			VectorsOptions: &pb.Vectors_Vector{
				Vector: &pb.Vector{Data: r.Embedding},
			},
		},
		Payload: payload,
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection(kind),
		Wait:           &wait,
		Points:         []*pb.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("index: upsert %s %s: %s: %w", kind, r.ID, err, domain.ErrIndexUnavailable)
	}
	return nil
}

// Search performs a k-NN similarity search against the collection for kind.
// Payloads are returned; vectors are not (unnecessary downstream).
func (s *Store) Search(ctx context.Context, kind domain.Kind, embedding []float32, topK int) ([]Hit, error) {
	if err := s.checkDims(embedding); err != nil {
		return nil, err
	}

	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection(kind),
		Vector:         embedding,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("index: search %s: %s: %w", kind, err, domain.ErrIndexUnavailable)
	}

	results := make([]Hit, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		results[i] = hitFromPayload(r.GetScore(), r.GetPayload(), nil)
	}
	return results, nil
}

// Fetch retrieves a single entity by natural key, including its stored
// vector (the self-lookup-then-search pattern). Returns domain.ErrNotFound
// when the key is not indexed.
func (s *Store) Fetch(ctx context.Context, kind domain.Kind, naturalID string) (Hit, error) {
	resp, err := s.points.Get(ctx, &pb.GetPoints{
		CollectionName: s.collection(kind),
		Ids: []*pb.PointId{
			{PointIdOptions: &pb.PointId_Uuid{Uuid: PointID(naturalID)}},
		},
		WithPayload: &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
		WithVectors: &pb.WithVectorsSelector{SelectorOptions: &pb.WithVectorsSelector_Enable{Enable: true}},
	})
	if err != nil {
		return Hit{}, fmt.Errorf("index: fetch %s %s: %s: %w", kind, naturalID, err, domain.ErrIndexUnavailable)
	}

	points := resp.GetResult()
	if len(points) == 0 {
		return Hit{}, fmt.Errorf("index: %s %q: %w", kind, naturalID, domain.ErrNotFound)
	}

	p := points[0]
	return hitFromPayload(0, p.GetPayload(), p.GetVectors().GetVector().GetData()), nil
}

func hitFromPayload(score float32, payload map[string]*pb.Value, vector []float32) Hit {
	h := Hit{
		Score:  score,
		Vector: vector,
		Meta:   make(map[string]string, len(payload)),
	}
	for k, val := range payload {
		sv := val.GetStringValue()
		if k == entityIDKey {
			h.ID = sv
			continue
		}
		h.Meta[k] = sv
	}
	return h
}
