package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/homespark/internal/adapters/http/api"
	"github.com/okian/homespark/internal/adapters/http/swagger"
	"github.com/okian/homespark/internal/adapters/repository"
	app "github.com/okian/homespark/internal/app"
	"github.com/okian/homespark/internal/config"
	"github.com/okian/homespark/internal/domain/engine"
	"github.com/okian/homespark/pkg/logger"
	"github.com/okian/homespark/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWithFormat(cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	loggerInstance := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := newService(cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "invalid catalog source", logger.Error(err))
		os.Exit(1)
	}
	// A missing or broken catalog keeps the process up; requests get 503
	// until a SIGHUP reload succeeds.
	if err := svc.Start(ctx); err != nil {
		loggerInstance.Error(ctx, "catalog not loaded; serving without a model",
			logger.String("catalog_path", cfg.CatalogPath), logger.Error(err))
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)
	go startServiceMetricsUpdater(ctx, svc)
	go reloadOnHangup(ctx, svc, loggerInstance)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newService builds the service over the configured catalog source.
func newService(cfg *config.Config, log logger.Logger) (*app.Service, error) {
	src, err := repository.Open(cfg.CatalogSource, cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	return app.New(src,
		app.WithLogger(log.Named("service")),
		app.WithEngineOptions(
			engine.WithMaxCost(cfg.CatalogMaxCost),
			engine.WithMinCandidates(cfg.MinCandidates),
			engine.WithFallbackMargin(cfg.FallbackMargin),
			engine.WithDefaultResults(cfg.DefaultMaxResults),
			engine.WithSeed(cfg.FallbackSeed),
		),
	), nil
}

// newHandler registers every route and wraps the mux in transport middleware.
func newHandler(ctx context.Context, cfg *config.Config, svc *app.Service) http.Handler {
	mux := http.NewServeMux()

	swagger.Register(ctx, mux)
	api.NewServer(svc,
		api.WithDefaultMaxResults(cfg.DefaultMaxResults),
		api.WithMaxResultsLimit(cfg.MaxResultsLimit),
		api.WithLogger(logger.GetOrNop().Named("api")),
	).Register(mux)

	mw := api.DefaultMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.CORSAllowedOrigins
	mw.RateLimitRequests = cfg.RateLimitRequests
	mw.RateLimitWindow = cfg.RateLimitWindow()
	return api.Wrap(mux, mw)
}

// reloadOnHangup reloads the catalog on every SIGHUP until ctx ends.
func reloadOnHangup(ctx context.Context, svc *app.Service, log logger.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			err := svc.Reload(ctx)
			if errors.Is(err, app.ErrEngineNotReady) {
				err = svc.Start(ctx)
			}
			if err != nil {
				log.Error(ctx, "catalog reload failed", logger.Error(err))
				continue
			}
			log.Info(ctx, "catalog reloaded", logger.Int("items", svc.ModelInfo().DatasetSize))
		}
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics refreshes the catalog gauge; it drops to zero while
// the service is not ready.
func updateServiceMetrics(svc *app.Service) {
	items, _ := svc.GetStats()["catalogItems"].(int)
	metrics.UpdateCatalogItems(items)
}
