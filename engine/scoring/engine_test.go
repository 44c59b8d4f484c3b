package scoring

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

// fakeGenerator routes replies by prompt content.
type fakeGenerator struct {
	scoreReply     string
	feedbackReply  string
	questionsReply string
	err            error
	calls          int
}

func (f *fakeGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	switch {
	case strings.Contains(prompt, "Assign a match score"):
		return f.scoreReply, nil
	case strings.Contains(prompt, "interview"):
		return f.questionsReply, nil
	default:
		return f.feedbackReply, nil
	}
}

func newTestEngine(gen Generator) *Engine {
	return NewEngine(gen, Options{RatePerSec: 1000, Burst: 1000}, slog.Default(), nil)
}

func TestAssessHappyPath(t *testing.T) {
	gen := &fakeGenerator{
		scoreReply:     `{"score": 82}`,
		feedbackReply:  `{"text": "Strong match.", "details": "Covers nearly everything."}`,
		questionsReply: `[{"question":"Q1?","rationale":"R1"},{"question":"Q2?","rationale":"R2"},{"question":"Q3?","rationale":"R3"}]`,
	}
	a := newTestEngine(gen).Assess(context.Background(), "React, 6 years", "5 years React", 0.5, true, true)

	if a.Degraded {
		t.Fatal("unexpected degradation")
	}
	if a.Score != 82 {
		t.Fatalf("score = %d, want 82", a.Score)
	}
	if a.Feedback.Category != CategoryHigh {
		t.Fatalf("category = %s, want high", a.Feedback.Category)
	}
	if len(a.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(a.Questions))
	}
}

func TestAssessFallsBackOnGeneratorError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model down")}
	a := newTestEngine(gen).Assess(context.Background(), "subject", "requirement", 0.6, true, true)

	if !a.Degraded {
		t.Fatal("expected degraded assessment")
	}
	if a.Score != 80 { // round((0.6+1)/2*100)
		t.Fatalf("score = %d, want 80 from vector remap", a.Score)
	}
	if a.Feedback != FallbackFeedback(80) {
		t.Fatalf("unexpected feedback: %+v", a.Feedback)
	}
	if len(a.Questions) != 3 {
		t.Fatalf("expected 3 fallback questions, got %d", len(a.Questions))
	}
}

func TestAssessWithoutVectorDefaultsTo50(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model down")}
	a := newTestEngine(gen).Assess(context.Background(), "s", "r", 0, false, false)
	if a.Score != 50 {
		t.Fatalf("score = %d, want 50", a.Score)
	}
	if a.Feedback.Category != CategoryMedium {
		t.Fatalf("category = %s, want medium", a.Feedback.Category)
	}
}

func TestAssessNilGeneratorAlwaysFallsBack(t *testing.T) {
	a := newTestEngine(nil).Assess(context.Background(), "s", "r", -1, true, true)
	if !a.Degraded {
		t.Fatal("expected degradation with nil generator")
	}
	if a.Score != 0 {
		t.Fatalf("score = %d, want 0 for cos=-1", a.Score)
	}
}

func TestAssessUnparseableScoreDegradesScoreOnly(t *testing.T) {
	gen := &fakeGenerator{
		scoreReply:    "I refuse to answer in JSON.",
		feedbackReply: `{"text": "Fine.", "details": "Fine indeed."}`,
	}
	a := newTestEngine(gen).Assess(context.Background(), "s", "r", 0, true, false)
	if !a.Degraded {
		t.Fatal("expected degraded flag from score parse failure")
	}
	if a.Score != 50 {
		t.Fatalf("score = %d, want 50 from remap of cos=0", a.Score)
	}
	// Feedback still came from the model, using the fallback score.
	if a.Feedback.Text != "Fine." {
		t.Fatalf("unexpected feedback: %+v", a.Feedback)
	}
}

func TestQuestionsPaddedToThree(t *testing.T) {
	gen := &fakeGenerator{
		scoreReply:     `{"score": 90}`,
		feedbackReply:  `{"text": "t", "details": "d"}`,
		questionsReply: `["Only one question?"]`,
	}
	a := newTestEngine(gen).Assess(context.Background(), "s", "r", 0, true, true)
	if len(a.Questions) != 3 {
		t.Fatalf("questions = %d, want 3 after padding", len(a.Questions))
	}
	if a.Questions[0].Question != "Only one question?" {
		t.Fatalf("model question should come first: %+v", a.Questions[0])
	}
}

func TestAssessNoQuestionsWhenNotRequested(t *testing.T) {
	gen := &fakeGenerator{
		scoreReply:    `{"score": 55}`,
		feedbackReply: `{"text": "t", "details": "d"}`,
	}
	a := newTestEngine(gen).Assess(context.Background(), "s", "r", 0, true, false)
	if a.Questions != nil {
		t.Fatalf("expected no questions, got %+v", a.Questions)
	}
	if gen.calls != 2 {
		t.Fatalf("expected 2 model calls, got %d", gen.calls)
	}
}
