package engine

import (
	"github.com/okian/homespark/internal/domain/scoring"
	"github.com/okian/homespark/internal/domain/selection"
	"github.com/okian/homespark/pkg/logger"
)

// Defaults for the engine.
const (
	DefaultResults = 3
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithScorer replaces the weighted scorer.
func WithScorer(s scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithSelector replaces the diversity selector.
func WithSelector(s selection.Selector) Option {
	return func(e *Engine) {
		if s != nil {
			e.selector = s
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSeed seeds the fallback sampler. Zero selects a time-based seed.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithMaxCost sets the cost ceiling used to clamp widened ranges when the
// catalog metadata carries none.
func WithMaxCost(c int) Option {
	return func(e *Engine) {
		if c > 0 {
			e.maxCost = c
		}
	}
}

// WithMinCandidates sets the filter survivor count that triggers widening.
func WithMinCandidates(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minCandidates = n
		}
	}
}

// WithFallbackMargin sets the absolute widening used by fallback sampling.
func WithFallbackMargin(m int) Option {
	return func(e *Engine) {
		if m >= 0 {
			e.margin = m
		}
	}
}

// WithDefaultResults sets the result count used when a request asks for
// none.
func WithDefaultResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultResults = n
		}
	}
}
