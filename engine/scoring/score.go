// Package scoring produces match scores, feedback, and interview questions
// for a (candidate, job) text pair. The primary path asks a generative model
// and defensively parses its output; every operation degrades to a
// deterministic local fallback when the model fails.
package scoring

import "math"

// Category buckets a match score for presentation and feedback selection.
type Category string

const (
	CategoryExceptional Category = "exceptional"
	CategoryHigh        Category = "high"
	CategoryMedium      Category = "medium"
	CategoryLow         Category = "low"
)

// CategoryOf maps an integer score to its bucket. Breakpoints are inclusive
// lower bounds at 90, 70, and 40. This is the single source of truth for
// category derivation; categories are never cached apart from their score.
func CategoryOf(score int) Category {
	switch {
	case score >= 90:
		return CategoryExceptional
	case score >= 70:
		return CategoryHigh
	case score >= 40:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// Badge is the presentation tier a category renders as.
type Badge string

const (
	BadgeDefault     Badge = "default"
	BadgeSecondary   Badge = "secondary"
	BadgeDestructive Badge = "destructive"
)

// BadgeFor maps a category to its presentation tier.
func BadgeFor(c Category) Badge {
	switch c {
	case CategoryExceptional, CategoryHigh:
		return BadgeDefault
	case CategoryMedium:
		return BadgeSecondary
	default:
		return BadgeDestructive
	}
}

// NormalizeVectorScore remaps a cosine similarity in [-1, 1] onto the 0-100
// scale. Fallback-only: the LLM-judged score is authoritative whenever it is
// available.
func NormalizeVectorScore(cos float32) int {
	return clampScore(int(math.Round((float64(cos) + 1) / 2 * 100)))
}

func clampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
