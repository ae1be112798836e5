// Package engine orchestrates a recommendation request: it resolves the
// preferences, filters the catalog, scores and selects the survivors, and
// degrades to fallback sampling when filtering leaves too little.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/fallback"
	"github.com/okian/homespark/internal/domain/filter"
	"github.com/okian/homespark/internal/domain/format"
	"github.com/okian/homespark/internal/domain/model"
	"github.com/okian/homespark/internal/domain/scoring"
	"github.com/okian/homespark/internal/domain/selection"
	"github.com/okian/homespark/internal/domain/types"
	"github.com/okian/homespark/pkg/logger"
	"github.com/okian/homespark/pkg/metrics"
)

// Warning reports a preference value that matched no vocabulary entry. The
// dimension was left out of filtering and scoring.
type Warning struct {
	Dimension catalog.Dimension
	Input     string
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s %q: %v", w.Dimension, w.Input, catalog.ErrNoMatch)
}

// Unwrap lets errors.Is match catalog.ErrNoMatch.
func (w Warning) Unwrap() error { return catalog.ErrNoMatch }

// Result is the outcome of Recommend.
type Result struct {
	Recommendations []types.Recommendation
	// FallbackReason is nil on the scored path.
	FallbackReason error
	Widened        bool
	Bounds         filter.Bounds
	Candidates     int
	Warnings       []Warning
}

// Fallback reports whether the recommendations were sampled.
func (r Result) Fallback() bool { return r.FallbackReason != nil }

// Stats are cumulative engine counters.
type Stats struct {
	Requests   uint64
	Fallbacks  uint64
	Widenings  uint64
	Unresolved uint64
}

// Engine is safe for concurrent use. Everything except the fallback rng is
// read-only after New.
type Engine struct {
	cat       *catalog.Catalog
	encoder   catalog.Encoder
	filter    *filter.BudgetFilter
	scorer    scoring.Scorer
	selector  selection.Selector
	sampler   *fallback.Sampler
	formatter format.Formatter
	log       logger.Logger

	seed           int64
	maxCost        int
	minCandidates  int
	margin         int
	defaultResults int

	mu  sync.Mutex
	rng *rand.Rand

	requests   atomic.Uint64
	fallbacks  atomic.Uint64
	widenings  atomic.Uint64
	unresolved atomic.Uint64
}

// New creates an Engine over cat. A nil catalog is accepted; Recommend then
// fails with ErrEmptyCatalog.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		cat:            cat,
		scorer:         scoring.NewWeightedScorer(),
		selector:       selection.NewDiversitySelector(),
		formatter:      format.New(),
		log:            logger.GetOrNop().Named("engine"),
		maxCost:        filter.DefaultMaxCost,
		minCandidates:  filter.DefaultMinCandidates,
		margin:         fallback.DefaultMargin,
		defaultResults: DefaultResults,
	}
	for _, opt := range opts {
		opt(e)
	}
	// The artifact's own ceiling wins over the configured default; neither
	// may sit below the most expensive item.
	if cat != nil {
		if m := cat.Metadata().MaxCost; m > 0 {
			e.maxCost = m
		}
		e.maxCost = max(e.maxCost, cat.MaxCost())
	}

	if cat != nil {
		e.encoder = catalog.NewEncoder(cat)
	}
	e.filter = filter.New(filter.WithMinCandidates(e.minCandidates), filter.WithMaxCost(e.maxCost))
	e.sampler = fallback.New(fallback.WithMargin(e.margin), fallback.WithMaxCost(e.maxCost))

	seed := e.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	e.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // sampling does not need a cryptographic source

	return e
}

// Catalog returns the catalog the engine serves.
func (e *Engine) Catalog() *catalog.Catalog { return e.cat }

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Requests:   e.requests.Load(),
		Fallbacks:  e.fallbacks.Load(),
		Widenings:  e.widenings.Load(),
		Unresolved: e.unresolved.Load(),
	}
}

// Recommend returns up to n recommendations for prefs. n <= 0 selects the
// default count. A fallback result is preferred to an error whenever the
// catalog has any item.
func (e *Engine) Recommend(ctx context.Context, prefs model.Preferences, n int) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if e.cat == nil || e.cat.Len() == 0 {
		return Result{}, ErrEmptyCatalog
	}
	if err := prefs.Validate(); err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrInvalidPreferences, err)
	}
	if n <= 0 {
		n = e.defaultResults
	}

	start := time.Now()
	e.requests.Add(1)
	defer func() {
		metrics.RecordEngineLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	resolved := e.encoder.ResolveAll(prefs)
	out := Result{Warnings: e.warnings(ctx, prefs, resolved)}

	fr := e.filter.Filter(e.cat, prefs, resolved)
	out.Widened, out.Bounds, out.Candidates = fr.Widened, fr.Bounds, len(fr.Items)
	metrics.RecordCandidateCount(len(fr.Items))
	if fr.Widened {
		e.widenings.Add(1)
		metrics.RecordFilterWidening()
	}
	e.log.Debug(ctx, "filtered catalog",
		logger.Int("candidates", len(fr.Items)),
		logger.Bool("widened", fr.Widened),
		logger.Float64("min", fr.Bounds.Min),
		logger.Float64("max", fr.Bounds.Max),
	)

	if len(fr.Items) < n {
		return e.fallback(ctx, prefs, n, out, ErrInsufficientCandidates), nil
	}

	scored := scoring.ScoreAll(e.scorer, fr.Items, prefs, resolved)
	if len(scored) == 0 {
		return e.fallback(ctx, prefs, n, out, ErrNoViableCandidates), nil
	}

	picked := e.selector.Select(scored, n)
	out.Recommendations = make([]types.Recommendation, 0, len(picked))
	for rank, s := range picked {
		rec := e.formatter.Format(s.Item, s.Score, rank, prefs)
		metrics.RecordTierReturned(rec.MatchQuality)
		out.Recommendations = append(out.Recommendations, rec)
	}
	metrics.RecordRecommendation("scored")
	e.log.Debug(ctx, "selected recommendations",
		logger.Int("scored", len(scored)),
		logger.Int("returned", len(out.Recommendations)),
	)
	return out, nil
}

func (e *Engine) fallback(ctx context.Context, prefs model.Preferences, n int, out Result, reason error) Result {
	e.mu.Lock()
	sampled := e.sampler.Sample(e.cat, prefs, n, e.rng)
	e.mu.Unlock()

	out.FallbackReason = reason
	out.Recommendations = make([]types.Recommendation, 0, len(sampled))
	for rank, it := range sampled {
		rec := e.formatter.FormatFallback(it, rank, prefs)
		metrics.RecordTierReturned(rec.MatchQuality)
		out.Recommendations = append(out.Recommendations, rec)
	}

	e.fallbacks.Add(1)
	metrics.RecordFallback(reasonLabel(reason))
	metrics.RecordRecommendation("fallback")
	e.log.Warn(ctx, "using fallback sampling",
		logger.String("reason", reason.Error()),
		logger.Int("candidates", out.Candidates),
		logger.Int("requested", n),
		logger.Int("returned", len(out.Recommendations)),
	)
	return out
}

func (e *Engine) warnings(ctx context.Context, prefs model.Preferences, resolved catalog.Resolved) []Warning {
	var ws []Warning
	for _, d := range resolved.Unresolved() {
		w := Warning{Dimension: d, Input: prefs.Raw(d)}
		ws = append(ws, w)
		e.unresolved.Add(1)
		metrics.RecordUnresolvedDimension(d.String())
		e.log.Warn(ctx, "preference excluded", logger.String("dimension", d.String()), logger.String("input", w.Input))
	}
	return ws
}

func reasonLabel(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientCandidates):
		return "insufficient_candidates"
	case errors.Is(err, ErrNoViableCandidates):
		return "no_viable_candidates"
	default:
		return "unknown"
	}
}
