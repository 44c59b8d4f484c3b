package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/TalentForge/talentforge-mvp/engine/domain"
	"github.com/TalentForge/talentforge-mvp/engine/embed"
	"github.com/TalentForge/talentforge-mvp/engine/index"
	"github.com/TalentForge/talentforge-mvp/engine/scoring"
	"github.com/TalentForge/talentforge-mvp/pkg/fn"
	"github.com/TalentForge/talentforge-mvp/pkg/metrics"
)

var errBadQuery = errors.New("match: query needs exactly one of text or source id")

// Index is the slice of the vector store the orchestrator needs.
type Index interface {
	Search(ctx context.Context, kind domain.Kind, embedding []float32, topK int) ([]index.Hit, error)
	Fetch(ctx context.Context, kind domain.Kind, naturalID string) (index.Hit, error)
}

// Assessor produces the per-pair assessment.
type Assessor interface {
	Assess(ctx context.Context, subject, requirement string, cos float32, hasVector bool, withQuestions bool) scoring.Assessment
}

// SkillGraph exposes the candidate/job skill overlap lookup.
type SkillGraph interface {
	SharedSkills(ctx context.Context, email, jobID string) ([]string, error)
}

// Orchestrator runs the full matching pipeline: resolve the query vector,
// search the target collection, and enrich every hit.
type Orchestrator struct {
	idx      Index
	embedder embed.Provider
	scorer   Assessor
	graph    SkillGraph // optional
	cache    *Cache
	logger   *slog.Logger
	workers  int

	cacheHits    *metrics.Counter
	cacheMisses  *metrics.Counter
	matchSeconds *metrics.Histogram
}

// NewOrchestrator wires the pipeline. graph may be nil (skill overlap is
// then omitted); reg may be nil (metrics are then dropped).
func NewOrchestrator(idx Index, embedder embed.Provider, scorer Assessor, graph SkillGraph, cache *Cache, workers int, logger *slog.Logger, reg *metrics.Registry) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cache == nil {
		cache = NewCache(DefaultCacheTTL)
	}
	if workers <= 0 {
		workers = 5
	}
	if reg == nil {
		reg = metrics.New()
	}
	return &Orchestrator{
		idx:          idx,
		embedder:     embedder,
		scorer:       scorer,
		graph:        graph,
		cache:        cache,
		logger:       logger,
		workers:      workers,
		cacheHits:    reg.Counter("match_cache_hits_total", "Assessment cache hits."),
		cacheMisses:  reg.Counter("match_cache_misses_total", "Assessment cache misses."),
		matchSeconds: reg.Histogram("match_duration_seconds", "End-to-end match pipeline latency.", metrics.DefaultBuckets),
	}
}

// FindMatches resolves the query to a vector, searches the target
// collection, and returns enriched results sorted by match score descending.
// An empty index yields an empty slice and no error.
func (o *Orchestrator) FindMatches(ctx context.Context, q Query) ([]MatchResult, error) {
	start := time.Now()
	defer func() { o.matchSeconds.Since(start) }()

	ctx, span := otel.Tracer("engine/match").Start(ctx, "match.find")
	defer span.End()
	span.SetAttributes(
		attribute.String("match.target", string(q.Target)),
		attribute.Bool("match.by_text", q.Text != ""),
	)

	if (q.Text == "") == (q.SourceID == "") {
		return nil, errBadQuery
	}
	if q.TopK <= 0 {
		q.TopK = defaultTopK
	}

	vector, sourceText, err := o.resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	hits, err := o.search(ctx, q, vector)
	if err != nil {
		return nil, err
	}

	// The filter runs before the empty-hit shortcut: a single-pair lookup
	// whose target is absent is not-found even when the search came back
	// empty.
	if q.FilterID != "" {
		hits, err = filterHits(hits, q)
		if err != nil {
			return nil, err
		}
	}
	if len(hits) == 0 {
		return []MatchResult{}, nil
	}

	results := o.enrich(ctx, q, sourceText, hits)
	sortByScore(results)
	return results, nil
}

// resolve produces the query vector and the source-side text used for
// scoring prompts.
func (o *Orchestrator) resolve(ctx context.Context, q Query) ([]float32, string, error) {
	ctx, span := otel.Tracer("engine/match").Start(ctx, "match.resolve")
	defer span.End()

	if q.SourceID != "" {
		hit, err := o.idx.Fetch(ctx, q.Target.Opposite(), q.SourceID)
		if err != nil {
			return nil, "", err
		}
		return hit.Vector, profileText(q.Target.Opposite(), hit.Meta), nil
	}

	// Embedding a live query gets one retry before the request fails.
	result := fn.Retry(ctx, fn.RetryOpts{MaxAttempts: 2, InitialWait: 200 * time.Millisecond, MaxWait: time.Second},
		func(ctx context.Context) fn.Result[[]float32] {
			return fn.FromPair(o.embedder.Embed(ctx, q.Text))
		})
	vector, err := result.Unwrap()
	if err != nil {
		return nil, "", fmt.Errorf("match: embed query: %s: %w", err, domain.ErrEmbeddingUnavailable)
	}
	return vector, q.Text, nil
}

func (o *Orchestrator) search(ctx context.Context, q Query, vector []float32) ([]index.Hit, error) {
	ctx, span := otel.Tracer("engine/match").Start(ctx, "match.search")
	defer span.End()
	return o.idx.Search(ctx, q.Target, vector, q.TopK)
}

func filterHits(hits []index.Hit, q Query) ([]index.Hit, error) {
	for _, h := range hits {
		if h.ID == q.FilterID {
			return []index.Hit{h}, nil
		}
	}
	return nil, fmt.Errorf("match: %s %q not among top results: %w", q.Target, q.FilterID, domain.ErrNotFound)
}

// enrich assesses every hit concurrently. A failure in one hit's graph
// lookup or a degraded assessment never affects its siblings.
func (o *Orchestrator) enrich(ctx context.Context, q Query, sourceText string, hits []index.Hit) []MatchResult {
	ctx, span := otel.Tracer("engine/match").Start(ctx, "match.enrich")
	defer span.End()

	sourceKey := q.SourceID
	if sourceKey == "" {
		sourceKey = Fingerprint(q.Text)
	}

	return fn.ParMap(hits, o.workers, func(h index.Hit) MatchResult {
		r := MatchResult{ID: h.ID, VectorScore: h.Score, Meta: h.Meta}

		key := CacheKey{Source: sourceKey, Target: h.ID}
		if e, ok := o.cache.Get(key); ok && (!q.WithQuestions || len(e.Questions) > 0) {
			o.cacheHits.Inc()
			r.MatchScore = e.Score
			r.Feedback = e.Feedback
			// The category travels with its score, never independently.
			r.Feedback.Category = scoring.CategoryOf(e.Score)
			if q.WithQuestions {
				r.Questions = e.Questions
			}
			r.Degraded = e.Degraded
		} else {
			o.cacheMisses.Inc()
			subject, requirement := orient(q.Target, sourceText, profileText(q.Target, h.Meta))
			a := o.scorer.Assess(ctx, subject, requirement, h.Score, true, q.WithQuestions)
			r.MatchScore = a.Score
			r.Feedback = a.Feedback
			r.Questions = a.Questions
			r.Degraded = a.Degraded
			o.cache.Put(key, CacheEntry{
				Score:     a.Score,
				Feedback:  a.Feedback,
				Questions: a.Questions,
				Degraded:  a.Degraded,
			})
		}

		o.addSharedSkills(ctx, q, &r)
		return r
	})
}

// orient maps (source, target) onto the scoring engine's fixed
// candidate-side / job-side prompt slots.
func orient(target domain.Kind, sourceText, targetText string) (subject, requirement string) {
	if target == domain.KindCandidate {
		return targetText, sourceText
	}
	return sourceText, targetText
}

// addSharedSkills decorates a result with the skill-graph overlap when both
// the candidate email and the job id are known. Lookup failures only log.
func (o *Orchestrator) addSharedSkills(ctx context.Context, q Query, r *MatchResult) {
	if o.graph == nil || q.SourceID == "" {
		return
	}
	email, jobID := q.SourceID, r.ID
	if q.Target == domain.KindCandidate {
		email, jobID = r.ID, q.SourceID
	}
	skills, err := o.graph.SharedSkills(ctx, email, jobID)
	if err != nil {
		o.logger.Warn("shared-skill lookup failed", "email", email, "job_id", jobID, "err", err)
		return
	}
	r.SharedSkills = skills
}

func sortByScore(results []MatchResult) {
	// Stable: ties keep similarity order from the index.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchScore > results[j].MatchScore
	})
}
