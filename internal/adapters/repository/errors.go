package repository

import "errors"

// Sentinel kinds for catalog source errors.
var (
	ErrUnknownSource     = errors.New("unknown catalog source")
	ErrMalformedArtifact = errors.New("malformed catalog artifact")
	ErrEmptyPath         = errors.New("catalog path is empty")
	ErrMissingColumn     = errors.New("required csv column missing")
)
