package scoring

import "testing"

func TestCategoryOfStepFunction(t *testing.T) {
	tests := []struct {
		score int
		want  Category
	}{
		{0, CategoryLow},
		{39, CategoryLow},
		{40, CategoryMedium},
		{69, CategoryMedium},
		{70, CategoryHigh},
		{89, CategoryHigh},
		{90, CategoryExceptional},
		{100, CategoryExceptional},
	}
	for _, tt := range tests {
		if got := CategoryOf(tt.score); got != tt.want {
			t.Errorf("CategoryOf(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestCategoryOfTotalOverRange(t *testing.T) {
	valid := map[Category]bool{
		CategoryExceptional: true, CategoryHigh: true,
		CategoryMedium: true, CategoryLow: true,
	}
	for s := 0; s <= 100; s++ {
		if !valid[CategoryOf(s)] {
			t.Fatalf("CategoryOf(%d) produced unknown category %q", s, CategoryOf(s))
		}
	}
}

func TestNormalizeVectorScoreEndpoints(t *testing.T) {
	if got := NormalizeVectorScore(-1); got != 0 {
		t.Errorf("NormalizeVectorScore(-1) = %d, want 0", got)
	}
	if got := NormalizeVectorScore(1); got != 100 {
		t.Errorf("NormalizeVectorScore(1) = %d, want 100", got)
	}
	if got := NormalizeVectorScore(0); got != 50 {
		t.Errorf("NormalizeVectorScore(0) = %d, want 50", got)
	}
}

func TestNormalizeVectorScoreMonotonic(t *testing.T) {
	prev := -1
	for i := 0; i <= 200; i++ {
		cos := float32(i)/100 - 1
		got := NormalizeVectorScore(cos)
		if got < prev {
			t.Fatalf("not monotonic at cos=%v: %d < %d", cos, got, prev)
		}
		prev = got
	}
}

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		cat  Category
		want Badge
	}{
		{CategoryExceptional, BadgeDefault},
		{CategoryHigh, BadgeDefault},
		{CategoryMedium, BadgeSecondary},
		{CategoryLow, BadgeDestructive},
	}
	for _, tt := range tests {
		if got := BadgeFor(tt.cat); got != tt.want {
			t.Errorf("BadgeFor(%s) = %s, want %s", tt.cat, got, tt.want)
		}
	}
}

func TestFallbackScore(t *testing.T) {
	if got := FallbackScore(0.6, true); got != 80 {
		t.Errorf("FallbackScore(0.6) = %d, want 80", got)
	}
	if got := FallbackScore(0, false); got != 50 {
		t.Errorf("FallbackScore without vector = %d, want 50", got)
	}
}

func TestFallbackFeedbackMatchesBucket(t *testing.T) {
	for _, score := range []int{10, 45, 75, 95} {
		fb := FallbackFeedback(score)
		if fb.Category != CategoryOf(score) {
			t.Errorf("score %d: feedback category %s disagrees with CategoryOf %s",
				score, fb.Category, CategoryOf(score))
		}
		if fb.Text == "" || fb.Details == "" {
			t.Errorf("score %d: empty fallback feedback", score)
		}
	}
}

func TestFallbackQuestionsCount(t *testing.T) {
	qs := FallbackQuestions()
	if len(qs) != 3 {
		t.Fatalf("expected exactly 3 fallback questions, got %d", len(qs))
	}
	for i, q := range qs {
		if q.Question == "" || q.Rationale == "" {
			t.Errorf("question %d incomplete: %+v", i, q)
		}
	}
}
