package engine

import "errors"

// Sentinel kinds for engine errors.
var (
	// ErrEmptyCatalog is fatal for the request: nothing exists to recommend
	// or sample.
	ErrEmptyCatalog = errors.New("catalog has no items")
	// ErrInvalidPreferences wraps a preference validation failure.
	ErrInvalidPreferences = errors.New("invalid preferences")

	// Fallback reasons. They are reported on Result, never returned.
	ErrInsufficientCandidates = errors.New("fewer candidates than requested")
	ErrNoViableCandidates     = errors.New("no candidate scored above zero")
)
