package scoring

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/TalentForge/talentforge-mvp/pkg/fn"
	"github.com/TalentForge/talentforge-mvp/pkg/metrics"
	"github.com/TalentForge/talentforge-mvp/pkg/resilience"
)

var errNoGenerator = errors.New("no generator configured")

// Generator abstracts the generative model call.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Feedback is a structured explanation of a match score.
type Feedback struct {
	Text     string   `json:"text"`
	Category Category `json:"category"`
	Details  string   `json:"details"`
}

// Question is a single suggested interview question.
type Question struct {
	Question  string `json:"question"`
	Rationale string `json:"rationale,omitempty"`
}

// Assessment is the full scoring output for one (candidate, job) pair.
// Degraded is true when any part came from the deterministic fallback.
type Assessment struct {
	Score     int        `json:"score"`
	Feedback  Feedback   `json:"feedback"`
	Questions []Question `json:"questions,omitempty"`
	Degraded  bool       `json:"-"`
}

// Options configures the engine's call behaviour.
type Options struct {
	// CallTimeout bounds each individual model call.
	CallTimeout time.Duration
	// RatePerSec and Burst pace outbound model calls.
	RatePerSec float64
	Burst      int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		CallTimeout: 20 * time.Second,
		RatePerSec:  5,
		Burst:       10,
	}
}

// Engine scores candidate/job pairs via a generative model with
// deterministic degradation.
type Engine struct {
	gen       Generator
	limiter   *rate.Limiter
	breaker   *resilience.Breaker
	opts      Options
	logger    *slog.Logger
	fallbacks map[string]*metrics.Counter
}

// NewEngine creates an Engine around the given generator. A nil generator is
// allowed and forces the fallback path for every call (used when no API key
// is configured). A nil registry gets a private one.
func NewEngine(gen Generator, opts Options, logger *slog.Logger, reg *metrics.Registry) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = metrics.New()
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = DefaultOptions().CallTimeout
	}
	if opts.RatePerSec <= 0 {
		opts.RatePerSec = DefaultOptions().RatePerSec
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultOptions().Burst
	}
	fallbacks := make(map[string]*metrics.Counter, 3)
	for _, part := range []string{"score", "feedback", "questions"} {
		fallbacks[part] = reg.Counter(
			metrics.Labels("scoring_fallbacks_total", "part", part),
			"Assessments degraded to the deterministic fallback.")
	}
	return &Engine{
		gen:       gen,
		limiter:   rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst),
		breaker:   resilience.NewBreaker(resilience.DefaultBreakerOpts),
		opts:      opts,
		logger:    logger,
		fallbacks: fallbacks,
	}
}

// Assess produces the full scoring output for a pair. It never returns an
// error: model failures are absorbed per part, logged, and replaced with the
// deterministic fallback. cos is the vector similarity used by the score
// fallback; pass hasVector=false when no similarity is available.
func (e *Engine) Assess(ctx context.Context, subject, requirement string, cos float32, hasVector bool, withQuestions bool) Assessment {
	var a Assessment

	score, err := e.score(ctx, subject, requirement)
	if err != nil {
		a.Degraded = true
		score = FallbackScore(cos, hasVector)
		e.fallbacks["score"].Inc()
		e.logger.Warn("score degraded to fallback", "err", err, "fallback_score", score)
	}
	a.Score = score

	// Feedback and questions are independent calls; run them concurrently,
	// like the rest of the per-match enrichment.
	if withQuestions {
		degraded := fn.FanOut(
			func() bool {
				var d bool
				a.Feedback, d = e.feedbackOrFallback(ctx, subject, requirement, score)
				return d
			},
			func() bool {
				var d bool
				a.Questions, d = e.questionsOrFallback(ctx, subject, requirement, score)
				return d
			},
		)
		a.Degraded = a.Degraded || degraded[0] || degraded[1]
	} else {
		var d bool
		a.Feedback, d = e.feedbackOrFallback(ctx, subject, requirement, score)
		a.Degraded = a.Degraded || d
	}

	return a
}

func (e *Engine) feedbackOrFallback(ctx context.Context, subject, requirement string, score int) (Feedback, bool) {
	fb, err := e.feedback(ctx, subject, requirement, score)
	if err != nil {
		e.fallbacks["feedback"].Inc()
		e.logger.Warn("feedback degraded to fallback", "err", err, "score", score)
		return FallbackFeedback(score), true
	}
	return fb, false
}

func (e *Engine) questionsOrFallback(ctx context.Context, subject, requirement string, score int) ([]Question, bool) {
	qs, err := e.questions(ctx, subject, requirement, score)
	if err != nil {
		e.fallbacks["questions"].Inc()
		e.logger.Warn("questions degraded to fallback", "err", err, "score", score)
		return FallbackQuestions(), true
	}
	return qs, false
}

func (e *Engine) score(ctx context.Context, subject, requirement string) (int, error) {
	raw, err := e.generate(ctx, scorePrompt(subject, requirement))
	if err != nil {
		return 0, err
	}
	return parseScore(raw)
}

func (e *Engine) feedback(ctx context.Context, subject, requirement string, score int) (Feedback, error) {
	raw, err := e.generate(ctx, feedbackPrompt(subject, requirement, score))
	if err != nil {
		return Feedback{}, err
	}
	return parseFeedback(raw, score)
}

// questions pads or truncates to exactly three entries; short model replies
// are topped up with the generic fallbacks.
func (e *Engine) questions(ctx context.Context, subject, requirement string, score int) ([]Question, error) {
	raw, err := e.generate(ctx, questionsPrompt(subject, requirement, score))
	if err != nil {
		return nil, err
	}
	qs, err := parseQuestions(raw)
	if err != nil {
		return nil, err
	}
	if len(qs) > 3 {
		qs = qs[:3]
	}
	for _, filler := range FallbackQuestions() {
		if len(qs) >= 3 {
			break
		}
		qs = append(qs, filler)
	}
	return qs, nil
}

// generate runs one rate-limited, circuit-broken, time-bounded model call.
func (e *Engine) generate(ctx context.Context, prompt string) (string, error) {
	if e.gen == nil {
		return "", errNoGenerator
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
	defer cancel()

	result := resilience.CallResult(e.breaker, callCtx, func(ctx context.Context) fn.Result[string] {
		return fn.FromPair(e.gen.GenerateContent(ctx, prompt))
	})
	return result.Unwrap()
}
