// Package service provides the application context the HTTP API and the
// CLI depend on: the loaded catalog and the engine built over it.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/homespark/internal/adapters/repository"
	"github.com/okian/homespark/internal/domain/catalog"
	"github.com/okian/homespark/internal/domain/engine"
	"github.com/okian/homespark/internal/domain/model"
	"github.com/okian/homespark/pkg/logger"
	"github.com/okian/homespark/pkg/metrics"
)

// ModelInfo describes the loaded catalog.
type ModelInfo struct {
	Loaded       bool                `json:"model_loaded"`
	ModelType    string              `json:"model_type"`
	DatasetSize  int                 `json:"dataset_size"`
	Version      string              `json:"version"`
	TrainedOn    string              `json:"trained_on"`
	Vocabularies map[string][]string `json:"vocabularies,omitempty"`
}

// Service owns the catalog and engine. The engine is replaced wholesale on
// Start and Reload and never mutated in place.
type Service struct {
	mu sync.RWMutex

	source     repository.Source
	engineOpts []engine.Option
	engine     *engine.Engine

	started  bool
	loadedAt time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithEngineOptions passes options to every engine the service builds.
func WithEngineOptions(opts ...engine.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// New constructs a Service reading its catalog from src.
func New(src repository.Source, opts ...Option) *Service {
	s := &Service{source: src}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the catalog and builds the engine. Calling Start on a started
// service is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.GetOrNop().Named("service")
	}

	eng, err := s.load(ctx)
	if err != nil {
		return err
	}
	s.engine = eng
	s.started = true
	s.loadedAt = time.Now()
	return nil
}

// Reload loads the catalog again and swaps the engine. In-flight requests
// finish on the engine they started with. A failed reload keeps the old one.
func (s *Service) Reload(ctx context.Context) error {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return ErrEngineNotReady
	}

	eng, err := s.load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.engine = eng
	s.loadedAt = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *Service) load(ctx context.Context) (*engine.Engine, error) {
	if s.source == nil {
		return nil, ErrNoSource
	}
	log := s.logger
	if log == nil {
		log = logger.GetOrNop()
	}

	start := time.Now()
	cat, err := s.source.Load(ctx)
	elapsed := float64(time.Since(start).Microseconds()) / 1000
	if err != nil {
		metrics.RecordCatalogLoad(s.source.Kind(), "error", elapsed)
		metrics.RecordErrorByComponent("service", "catalog_load")
		log.Error(ctx, "catalog load failed", logger.String("source", s.source.Kind()), logger.Error(err))
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	metrics.RecordCatalogLoad(s.source.Kind(), "ok", elapsed)
	metrics.UpdateCatalogItems(cat.Len())

	if cat.Len() == 0 {
		log.Warn(ctx, "catalog is empty; recommendations will fail", logger.String("source", s.source.Kind()))
	}
	meta := cat.Metadata()
	log.Info(ctx, "catalog loaded",
		logger.String("source", s.source.Kind()),
		logger.Int("items", cat.Len()),
		logger.String("version", meta.Version),
		logger.String("model_type", meta.ModelType),
		logger.Float64("duration_ms", elapsed),
	)

	// The engine logs under its own name, not nested under the service's.
	opts := append([]engine.Option{engine.WithLogger(logger.GetOrNop().Named("engine"))}, s.engineOpts...)
	return engine.New(cat, opts...), nil
}

// Stop marks the service as not ready.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.engine = nil
	s.logger.Info(context.Background(), "recommendation service stopped")
}

// Ready reports whether Start succeeded and Stop has not been called.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

func (s *Service) current() (*engine.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started || s.engine == nil {
		return nil, ErrEngineNotReady
	}
	return s.engine, nil
}

// Recommend delegates to the current engine.
func (s *Service) Recommend(ctx context.Context, prefs model.Preferences, n int) (engine.Result, error) {
	eng, err := s.current()
	if err != nil {
		return engine.Result{}, err
	}
	return eng.Recommend(ctx, prefs, n)
}

// ModelInfo describes the loaded catalog. Before Start it reports
// Loaded=false and nothing else.
func (s *Service) ModelInfo() ModelInfo {
	eng, err := s.current()
	if err != nil {
		return ModelInfo{}
	}
	cat := eng.Catalog()
	meta := cat.Metadata()
	info := ModelInfo{
		Loaded:       true,
		ModelType:    meta.ModelType,
		DatasetSize:  cat.Len(),
		Version:      meta.Version,
		TrainedOn:    meta.TrainedOn,
		Vocabularies: make(map[string][]string, len(catalog.Dimensions)),
	}
	for _, d := range catalog.Dimensions {
		if v := cat.Vocabulary(d); v != nil {
			info.Vocabularies[d.String()] = v.Values()
		}
	}
	return info
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started": s.started,
	}
	if s.source != nil {
		stats["source"] = s.source.Kind()
	}
	if s.started && s.engine != nil {
		es := s.engine.Stats()
		stats["catalogItems"] = s.engine.Catalog().Len()
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
		stats["requests"] = es.Requests
		stats["fallbacks"] = es.Fallbacks
		stats["widenings"] = es.Widenings
		stats["unresolved"] = es.Unresolved
	}
	return stats
}
