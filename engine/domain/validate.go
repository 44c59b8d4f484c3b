package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/TalentForge/talentforge-mvp/pkg/fn"
)

// Loose email shape check: local@domain.tld. Full RFC validation is not the
// point; this catches obvious garbage before it becomes a vector key.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const minProfileLength = 10

// ValidateCandidate validates a candidate before it is embedded and stored.
func ValidateCandidate(c Candidate) error {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return NewValidationError("email", email, ErrMissingEmail)
	}
	if !emailRegex.MatchString(email) {
		return NewValidationError("email", email, ErrInvalidEmail)
	}

	skills := strings.TrimSpace(c.SkillsExperience)
	if skills == "" {
		return NewValidationError("skills_experience", skills, ErrMissingSkills)
	}
	if utf8.RuneCountInString(skills) < minProfileLength {
		return NewValidationError("skills_experience", skills, ErrProfileTooShort)
	}

	return nil
}

// ValidateJob validates a job posting before it is embedded and stored.
// The ID is allowed to be empty; ingest generates one.
func ValidateJob(j Job) error {
	title := strings.TrimSpace(j.Title)
	if title == "" {
		return NewValidationError("title", title, ErrMissingTitle)
	}

	desc := strings.TrimSpace(j.Description)
	if desc == "" {
		return NewValidationError("description", desc, ErrMissingDescription)
	}
	if utf8.RuneCountInString(desc) < minProfileLength {
		return NewValidationError("description", desc, ErrProfileTooShort)
	}

	return nil
}

// ExtractSkills splits a free-text skills/requirements blob into individual
// skill tokens. Splits on commas, periods, and the word "and". Tokens over
// 60 runes are prose, not skills, and are dropped.
func ExtractSkills(text string) []string {
	tokens := fn.Map(skillSplitRegex.Split(text, -1), strings.TrimSpace)
	tokens = fn.Filter(tokens, func(s string) bool {
		return s != "" && utf8.RuneCountInString(s) <= 60
	})

	// Dedupe case-insensitively, keeping the first spelling seen.
	var skills []string
	seen := make(map[string]bool, len(tokens))
	for _, s := range tokens {
		if key := strings.ToLower(s); !seen[key] {
			seen[key] = true
			skills = append(skills, s)
		}
	}
	return skills
}

var skillSplitRegex = regexp.MustCompile(`,|\.|\band\b`)
