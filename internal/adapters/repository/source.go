// Package repository loads and persists the read-only recommendation catalog.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/homespark/internal/domain/catalog"
)

// Source kinds accepted by Open.
const (
	KindJSON   = "json"
	KindSQLite = "sqlite"
)

// Source provides the catalog once at startup.
type Source interface {
	// Load builds the catalog. Implementations validate the vocabulary
	// invariant through catalog.New.
	Load(ctx context.Context) (*catalog.Catalog, error)
	// Kind names the source for logs and metrics.
	Kind() string
}

// Open returns the source of the given kind reading from path.
func Open(kind, path string, opts ...Option) (Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, ErrEmptyPath
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindJSON:
		return NewFileSource(path), nil
	case KindSQLite:
		return &sqliteSource{path: path, opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, kind)
	}
}

// StaticSource serves an already built catalog.
type StaticSource struct {
	cat *catalog.Catalog
}

// NewStaticSource wraps cat.
func NewStaticSource(cat *catalog.Catalog) *StaticSource {
	return &StaticSource{cat: cat}
}

// Load returns the wrapped catalog.
func (s *StaticSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.cat, nil
}

// Kind returns "static".
func (s *StaticSource) Kind() string { return "static" }

// sqliteSource opens the database per Load and closes it afterwards.
type sqliteSource struct {
	path string
	opts []Option
}

func (s *sqliteSource) Load(ctx context.Context) (*catalog.Catalog, error) {
	store, err := NewSQLiteStore(s.path, s.opts...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = store.Close() }()
	return store.Load(ctx)
}

func (s *sqliteSource) Kind() string { return KindSQLite }
