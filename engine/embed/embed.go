// Package embed defines the embedding provider abstraction. Two backends
// implement it (Ollama over HTTP, Gemini via the GenAI SDK); deployments
// select one by configuration, never both.
package embed

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math/rand"
)

// Provider converts free text into a fixed-dimension vector.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Name() string
}

// WithDegradedFallback wraps a provider so that embedding failures produce a
// deterministic degraded vector instead of an error. Opt-in only: matching
// quality collapses when the real provider is down, so every fallback is
// logged at warn level.
func WithDegradedFallback(p Provider, dims int, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &degradable{inner: p, dims: dims, logger: logger}
}

type degradable struct {
	inner  Provider
	dims   int
	logger *slog.Logger
}

func (d *degradable) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := d.inner.Embed(ctx, text)
	if err == nil {
		return vec, nil
	}
	d.logger.Warn("embedding provider failed, serving degraded vector",
		"provider", d.inner.Name(), "error", err)
	return DegradedVector(text, d.dims), nil
}

func (d *degradable) Name() string { return d.inner.Name() + "+degraded" }

// DegradedVector returns a pseudo-random unit-range vector seeded by the
// input text, so repeated calls for the same text agree. Only used behind an
// explicit opt-in when the provider is down; callers must log a warning.
func DegradedVector(text string, dims int) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	out := make([]float32, dims)
	for i := range out {
		out[i] = rng.Float32()*2 - 1
	}
	return out
}
