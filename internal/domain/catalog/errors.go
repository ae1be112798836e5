package catalog

import "errors"

// Sentinel kinds for catalog errors.
var (
	ErrVocabularyMismatch = errors.New("item value missing from vocabulary")
	ErrDuplicateItem      = errors.New("duplicate item id")
	ErrInvalidItem        = errors.New("invalid catalog item")
	ErrNoMatch            = errors.New("no vocabulary match")
)
