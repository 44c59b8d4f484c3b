// Package ingest is the write path: validated entities are embedded,
// upserted into the vector index, mirrored into the skill graph, and
// announced on NATS.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/TalentForge/talentforge-mvp/engine/domain"
	"github.com/TalentForge/talentforge-mvp/engine/embed"
	"github.com/TalentForge/talentforge-mvp/engine/index"
	"github.com/TalentForge/talentforge-mvp/pkg/metrics"
	"github.com/TalentForge/talentforge-mvp/pkg/natsutil"
	"github.com/TalentForge/talentforge-mvp/pkg/resilience"
)

const (
	// CandidateStoredSubject announces a stored candidate.
	CandidateStoredSubject = "talent.candidate.stored"
	// JobStoredSubject announces a stored job.
	JobStoredSubject = "talent.job.stored"
)

// StoredEvent is the payload published after a successful upsert.
type StoredEvent struct {
	Kind     domain.Kind `json:"kind"`
	ID       string      `json:"id"`
	Skills   []string    `json:"skills,omitempty"`
	StoredAt time.Time   `json:"stored_at"`
}

// Indexer is the slice of the vector store ingest writes to.
type Indexer interface {
	Upsert(ctx context.Context, kind domain.Kind, r index.Record) error
}

// SkillGraph mirrors stored entities into the graph.
type SkillGraph interface {
	SaveCandidate(ctx context.Context, email, name string, skills []string) error
	SaveJob(ctx context.Context, id, title string, skills []string) error
}

// Publisher emits stored events. The NATS-backed implementation is
// NewNATSPublisher; tests substitute their own.
type Publisher interface {
	Publish(ctx context.Context, subject string, event StoredEvent) error
}

type natsPublisher struct{ nc *nats.Conn }

// NewNATSPublisher wraps a NATS connection as a Publisher with trace
// propagation.
func NewNATSPublisher(nc *nats.Conn) Publisher {
	return &natsPublisher{nc: nc}
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, event StoredEvent) error {
	return natsutil.Publish(ctx, p.nc, subject, event)
}

// Pipeline runs the full write path for candidates and jobs.
type Pipeline struct {
	embedder embed.Provider
	idx      Indexer
	graph    SkillGraph // optional
	pub      Publisher  // optional
	limiter  *resilience.Limiter
	logger   *slog.Logger
	stored   map[domain.Kind]*metrics.Counter
}

// NewPipeline wires the write path. graph, pub, and reg may be nil; embedRate
// paces outbound embedding calls (calls per second, <=0 disables pacing).
func NewPipeline(embedder embed.Provider, idx Indexer, graph SkillGraph, pub Publisher, embedRate float64, logger *slog.Logger, reg *metrics.Registry) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = metrics.New()
	}
	var limiter *resilience.Limiter
	if embedRate > 0 {
		limiter = resilience.NewLimiter(resilience.LimiterOpts{Rate: embedRate, Burst: int(embedRate) + 1})
	}
	stored := make(map[domain.Kind]*metrics.Counter, 2)
	for _, kind := range []domain.Kind{domain.KindCandidate, domain.KindJob} {
		stored[kind] = reg.Counter(
			metrics.Labels("ingest_stored_total", "kind", string(kind)),
			"Entities stored through the ingest pipeline.")
	}
	return &Pipeline{
		embedder: embedder,
		idx:      idx,
		graph:    graph,
		pub:      pub,
		limiter:  limiter,
		logger:   logger,
		stored:   stored,
	}
}

// StoreCandidate validates and persists a candidate profile, keyed by email.
func (p *Pipeline) StoreCandidate(ctx context.Context, c domain.Candidate) error {
	if err := domain.ValidateCandidate(c); err != nil {
		return err
	}

	vector, err := p.embedText(ctx, c.ProfileText())
	if err != nil {
		return err
	}

	err = p.idx.Upsert(ctx, domain.KindCandidate, index.Record{
		ID:        c.Email,
		Embedding: vector,
		Payload:   c.Metadata(),
	})
	if err != nil {
		return err
	}

	skills := domain.ExtractSkills(c.SkillsExperience)
	if p.graph != nil {
		if err := p.graph.SaveCandidate(ctx, c.Email, c.Name, skills); err != nil {
			p.logger.Warn("skill graph save failed", "kind", domain.KindCandidate, "id", c.Email, "err", err)
		}
	}

	p.stored[domain.KindCandidate].Inc()
	p.publish(ctx, CandidateStoredSubject, StoredEvent{
		Kind:   domain.KindCandidate,
		ID:     c.Email,
		Skills: skills,
	})
	return nil
}

// StoreJob validates and persists a job posting. A missing ID gets a
// server-generated UUID; the resolved ID is returned either way.
func (p *Pipeline) StoreJob(ctx context.Context, j domain.Job) (string, error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if err := domain.ValidateJob(j); err != nil {
		return "", err
	}

	vector, err := p.embedText(ctx, j.ProfileText())
	if err != nil {
		return "", err
	}

	err = p.idx.Upsert(ctx, domain.KindJob, index.Record{
		ID:        j.ID,
		Embedding: vector,
		Payload:   j.Metadata(),
	})
	if err != nil {
		return "", err
	}

	skills := domain.ExtractSkills(j.Description)
	if p.graph != nil {
		if err := p.graph.SaveJob(ctx, j.ID, j.Title, skills); err != nil {
			p.logger.Warn("skill graph save failed", "kind", domain.KindJob, "id", j.ID, "err", err)
		}
	}

	p.stored[domain.KindJob].Inc()
	p.publish(ctx, JobStoredSubject, StoredEvent{
		Kind:   domain.KindJob,
		ID:     j.ID,
		Skills: skills,
	})
	return j.ID, nil
}

func (p *Pipeline) embedText(ctx context.Context, text string) ([]float32, error) {
	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	vector, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("ingest: embed profile: %s: %w", err, domain.ErrEmbeddingUnavailable)
	}
	return vector, nil
}

// publish emits the stored event; failures only log, the upsert already
// succeeded.
func (p *Pipeline) publish(ctx context.Context, subject string, event StoredEvent) {
	if p.pub == nil {
		return
	}
	event.StoredAt = time.Now().UTC()
	if err := p.pub.Publish(ctx, subject, event); err != nil {
		p.logger.Warn("stored event publish failed", "subject", subject, "id", event.ID, "err", err)
	}
}
