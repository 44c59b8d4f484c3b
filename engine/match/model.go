// Package match runs similarity queries against the vector index and
// enriches every hit with an LLM assessment, caching the expensive part.
package match

import (
	"strings"

	"github.com/TalentForge/talentforge-mvp/engine/domain"
	"github.com/TalentForge/talentforge-mvp/engine/scoring"
)

// Query describes one matching request. Exactly one of Text and SourceID
// must be set: Text is embedded on the fly, SourceID names a stored entity
// of the opposite kind whose vector is reused.
type Query struct {
	// Target is the kind being searched for (the result side).
	Target domain.Kind
	// Text is a free-text query, embedded before searching.
	Text string
	// SourceID is the natural key of a stored entity of Target.Opposite().
	SourceID string
	// TopK limits the result count; zero means the default of 10.
	TopK int
	// FilterID restricts results to a single target entity.
	FilterID string
	// WithQuestions requests interview questions per match.
	WithQuestions bool
}

const defaultTopK = 10

// MatchResult is one enriched hit.
type MatchResult struct {
	ID          string             `json:"id"`
	VectorScore float32            `json:"vectorScore"`
	MatchScore  int                `json:"matchScore"`
	Feedback    scoring.Feedback   `json:"feedback"`
	Questions   []scoring.Question `json:"questions,omitempty"`
	// SharedSkills is the skill-graph overlap between the candidate and the
	// job, when both sides are known.
	SharedSkills []string          `json:"sharedSkills,omitempty"`
	Meta         map[string]string `json:"metadata,omitempty"`
	// Degraded marks results whose assessment fell back to the
	// deterministic path.
	Degraded bool `json:"-"`
}

// profileText reassembles the embeddable text of an entity from its stored
// payload, mirroring what ingest embedded.
func profileText(kind domain.Kind, meta map[string]string) string {
	if kind == domain.KindCandidate {
		return meta["skill_experience"]
	}
	return strings.TrimSpace(meta["title"] + " " + meta["description"])
}
