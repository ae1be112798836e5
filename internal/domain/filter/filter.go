// Package filter narrows the catalog to items satisfying the hard
// constraints of a request: indoor/outdoor equality and the budget range.
package filter

import (
	"math"

	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/model"
)

// Defaults for the budget filter.
const (
	DefaultMinCandidates = 5
	DefaultMaxCost       = 550

	widenRatio   = 0.05
	widenMinimum = 25.0
)

// Bounds is an inclusive cost interval.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether cost lies within b.
func (b Bounds) Contains(cost int) bool {
	c := float64(cost)
	return c >= b.Min && c <= b.Max
}

// Result is the outcome of Filter.
type Result struct {
	Items   []catalog.Item
	Bounds  Bounds
	Widened bool
}

// Option applies a configuration option to the BudgetFilter.
type Option func(*BudgetFilter)

// WithMinCandidates sets the survivor count below which bounds are widened.
func WithMinCandidates(n int) Option {
	return func(f *BudgetFilter) {
		if n > 0 {
			f.minCandidates = n
		}
	}
}

// WithMaxCost sets the dataset-wide cost ceiling used to clamp widened bounds.
func WithMaxCost(c int) Option {
	return func(f *BudgetFilter) {
		if c > 0 {
			f.maxCost = float64(c)
		}
	}
}

// BudgetFilter applies the strict filter and, when too few items survive,
// a single symmetric widening of the cost bounds.
type BudgetFilter struct {
	minCandidates int
	maxCost       float64
}

// New creates a BudgetFilter.
func New(opts ...Option) *BudgetFilter {
	f := &BudgetFilter{
		minCandidates: DefaultMinCandidates,
		maxCost:       DefaultMaxCost,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Filter returns the catalog items matching prefs. The indoor/outdoor
// predicate applies only when that dimension resolved.
func (f *BudgetFilter) Filter(cat *catalog.Catalog, prefs model.Preferences, res catalog.Resolved) Result {
	io := res.Get(catalog.IndoorOutdoor)

	strict := Bounds{Min: float64(prefs.BudgetMin), Max: float64(prefs.BudgetMax)}
	items := apply(cat, strict, io)
	if len(items) >= f.minCandidates {
		return Result{Items: items, Bounds: strict}
	}

	flex := math.Max(widenRatio*prefs.Span(), widenMinimum)
	// The ceiling never cuts into the caller's own range.
	ceiling := math.Max(f.maxCost, strict.Max)
	widened := Bounds{
		Min: math.Max(strict.Min-flex, 0),
		Max: math.Min(strict.Max+flex, ceiling),
	}
	return Result{Items: apply(cat, widened, io), Bounds: widened, Widened: true}
}

func apply(cat *catalog.Catalog, b Bounds, io catalog.Resolution) []catalog.Item {
	inRange := cat.InCostRange(b.Min, b.Max)
	out := make([]catalog.Item, 0, len(inRange))
	for _, it := range inRange {
		if io.OK && it.IndoorOutdoorCode != io.Code {
			continue
		}
		out = append(out, it)
	}
	return out
}
