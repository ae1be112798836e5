package service

import "errors"

var (
	// ErrEngineNotReady is returned when a request arrives before Start
	// loaded a catalog.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrNoSource is returned by Start when the service has no catalog source.
	ErrNoSource = errors.New("no catalog source configured")
)
