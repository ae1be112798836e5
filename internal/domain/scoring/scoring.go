// Package scoring computes a bounded match score for catalog items from
// weighted, independent sub-scores.
package scoring

import (
	"math"

	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/model"
)

// Weights are the additive terms of the score. With default weights a
// perfect match (every dimension, cost at the budget midpoint) totals 1.0.
type Weights struct {
	StyleMatch      float64
	StyleMismatch   float64
	RoomMatch       float64
	RoomMismatch    float64
	IndoorOutdoor   float64
	Climate         float64
	BudgetBase      float64 // in-range floor, reached at the budget edges
	BudgetProximity float64 // extra in-range credit, full at the midpoint
	BudgetOutside   float64 // full penalty once a whole range width away
}

// DefaultWeights returns the production weight table.
func DefaultWeights() Weights {
	return Weights{
		StyleMatch:      0.35,
		StyleMismatch:   -0.05,
		RoomMatch:       0.30,
		RoomMismatch:    -0.05,
		IndoorOutdoor:   0.08,
		Climate:         0.02,
		BudgetBase:      0.15,
		BudgetProximity: 0.10,
		BudgetOutside:   -0.20,
	}
}

// Scorer computes a score for one item.
type Scorer interface {
	Score(item catalog.Item, prefs model.Preferences, res catalog.Resolved) float64
}

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithWeights replaces the weight table.
func WithWeights(w Weights) Option {
	return func(s *WeightedScorer) {
		s.weights = w
	}
}

// WeightedScorer implements Scorer as a weighted sum of sub-scores.
type WeightedScorer struct {
	weights Weights
}

// NewWeightedScorer creates a scorer using DefaultWeights unless overridden.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the active weight table.
func (s *WeightedScorer) Weights() Weights { return s.weights }

// Score sums the sub-scores. A dimension that did not resolve contributes
// neither its match nor its mismatch term.
func (s *WeightedScorer) Score(item catalog.Item, prefs model.Preferences, res catalog.Resolved) float64 {
	w := s.weights
	score := 0.0

	if r := res.Get(catalog.Style); r.OK {
		if item.StyleCode == r.Code {
			score += w.StyleMatch
		} else {
			score += w.StyleMismatch
		}
	}
	if r := res.Get(catalog.RoomType); r.OK {
		if item.RoomTypeCode == r.Code {
			score += w.RoomMatch
		} else {
			score += w.RoomMismatch
		}
	}

	score += s.BudgetScore(item.Cost, prefs)

	if r := res.Get(catalog.IndoorOutdoor); r.OK && item.IndoorOutdoorCode == r.Code {
		score += w.IndoorOutdoor
	}
	if r := res.Get(catalog.Climate); r.OK && item.ClimateCode == r.Code {
		score += w.Climate
	}
	return score
}

// BudgetScore rewards in-range costs, most at the midpoint, and penalizes
// costs outside the range in proportion to their distance.
func (s *WeightedScorer) BudgetScore(cost int, prefs model.Preferences) float64 {
	w := s.weights
	c := float64(cost)
	lo, hi := float64(prefs.BudgetMin), float64(prefs.BudgetMax)

	if c >= lo && c <= hi {
		half := prefs.Span() / 2
		proximity := 1.0
		if half > 0 {
			proximity = 1 - math.Abs(c-prefs.Mid())/half
		}
		return w.BudgetBase + w.BudgetProximity*proximity
	}

	distance := lo - c
	if c > hi {
		distance = c - hi
	}
	span := math.Max(prefs.Span(), 1)
	return w.BudgetOutside * math.Min(distance/span, 1)
}

// ScoreAll scores items and keeps only finite, strictly positive scores.
// Input order is preserved.
func ScoreAll(s Scorer, items []catalog.Item, prefs model.Preferences, res catalog.Resolved) []model.ScoredItem {
	out := make([]model.ScoredItem, 0, len(items))
	for _, it := range items {
		v := s.Score(it, prefs, res)
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			continue
		}
		out = append(out, model.ScoredItem{Item: it, Score: v})
	}
	return out
}
