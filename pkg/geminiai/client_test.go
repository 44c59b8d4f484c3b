package geminiai

import (
	"testing"

	"google.golang.org/genai"
)

func TestCollectTextJoinsParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []*genai.Part{
				{Text: "  first  "},
				{Text: ""},
				{Text: "second"},
			}}},
		},
	}
	if got := collectText(resp); got != "first\nsecond" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestCollectTextSkipsNilCandidates(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			nil,
			{Content: nil},
			{Content: &genai.Content{Parts: []*genai.Part{nil, {Text: "ok"}}}},
		},
	}
	if got := collectText(resp); got != "ok" {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(t.Context(), "   ", "", ""); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestNilClientGuards(t *testing.T) {
	var c *Client
	if _, err := c.GenerateContent(t.Context(), "hi"); err == nil {
		t.Fatal("expected error from nil client")
	}
	if _, err := c.Embed(t.Context(), "hi"); err == nil {
		t.Fatal("expected error from nil client")
	}
	if c.Model() != "" {
		t.Fatal("expected empty model name from nil client")
	}
}
