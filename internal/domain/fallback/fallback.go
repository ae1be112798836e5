// Package fallback draws an unscored best-effort result set when filtering
// cannot supply enough candidates.
package fallback

import (
	"math"
	"math/rand"

	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/model"
	"github.com/okian/homespark/internal/domain/selection"
)

// Fixed attributes of sampled items and the sampler defaults.
const (
	Confidence = 0.40
	Tier       = selection.Fair

	DefaultMargin  = 50
	DefaultMaxCost = 550
)

// Option applies a configuration option to the Sampler.
type Option func(*Sampler)

// WithMargin sets the absolute widening applied to each side of the budget.
func WithMargin(m int) Option {
	return func(s *Sampler) {
		if m >= 0 {
			s.margin = float64(m)
		}
	}
}

// WithMaxCost sets the cost ceiling used to clamp the widened range.
func WithMaxCost(c int) Option {
	return func(s *Sampler) {
		if c > 0 {
			s.maxCost = float64(c)
		}
	}
}

// Sampler draws items uniformly without replacement from a widened budget
// range, or from the whole catalog when that range is empty.
type Sampler struct {
	margin  float64
	maxCost float64
}

// New creates a Sampler.
func New(opts ...Option) *Sampler {
	s := &Sampler{margin: DefaultMargin, maxCost: DefaultMaxCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pool returns the items eligible for sampling.
func (s *Sampler) Pool(cat *catalog.Catalog, prefs model.Preferences) []catalog.Item {
	lo := math.Max(float64(prefs.BudgetMin)-s.margin, 0)
	hi := math.Min(float64(prefs.BudgetMax)+s.margin, math.Max(s.maxCost, float64(prefs.BudgetMax)))
	pool := cat.InCostRange(lo, hi)
	if len(pool) == 0 {
		return cat.Items()
	}
	return pool
}

// Sample draws min(n, |pool|) distinct items using rng.
func (s *Sampler) Sample(cat *catalog.Catalog, prefs model.Preferences, n int, rng *rand.Rand) []catalog.Item {
	pool := s.Pool(cat, prefs)
	if n <= 0 || len(pool) == 0 {
		return nil
	}
	k := min(n, len(pool))

	// Partial Fisher-Yates over an index permutation; the pool aliases
	// catalog storage and stays untouched.
	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	out := make([]catalog.Item, 0, k)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(idx)-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, pool[idx[i]])
	}
	return out
}
