package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the matching engine. Handlers map these to HTTP status
// codes; everything else is a 500.
var (
	// ErrNotFound means an id-based lookup found no stored entity. Distinct
	// from a semantic query returning zero results, which is not an error.
	ErrNotFound = errors.New("entity not found")

	// ErrEmbeddingUnavailable means the embedding provider call failed.
	// Fatal to the request: a degraded vector produces meaningless matches.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrIndexUnavailable means the vector index could not be reached or is
	// misconfigured.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrDimensionMismatch means an embedding's length does not match the
	// index's configured dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// Sentinel errors for validation failures.
var (
	ErrMissingEmail       = errors.New("email is required")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrMissingTitle       = errors.New("title is required")
	ErrMissingDescription = errors.New("description is required")
	ErrMissingSkills      = errors.New("skills/experience is required")
	ErrProfileTooShort    = errors.New("profile text too short")
)

// ValidationError wraps a sentinel with field context.
type ValidationError struct {
	Field   string
	Value   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s (value=%q)", e.Wrapped, e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// NewValidationError creates a ValidationError.
func NewValidationError(field, value string, wrapped error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Wrapped: wrapped}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
