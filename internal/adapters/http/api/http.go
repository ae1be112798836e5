// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	service "github.com/okian/homespark/internal/app"
	"github.com/okian/homespark/internal/domain/engine"
	"github.com/okian/homespark/internal/domain/model"
	"github.com/okian/homespark/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	// Ready reports whether a catalog is loaded.
	Ready() bool

	// Recommend runs the engine for one request.
	Recommend(ctx context.Context, prefs model.Preferences, n int) (engine.Result, error)

	// ModelInfo describes the loaded catalog.
	ModelInfo() service.ModelInfo
}

// Server wires HTTP routes for the business API.
type Server struct {
	rootHandler      *RootHandler
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	recommendHandler *RecommendHandler
	modelInfoHandler *ModelInfoHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Server{
		rootHandler:      NewRootHandler(deps, o.version),
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(deps),
		recommendHandler: NewRecommendHandler(deps, o),
		modelInfoHandler: NewModelInfoHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", MetricsMiddleware(s.rootHandler.HandleRoot, "root"))
	mux.HandleFunc("GET /api/health", MetricsMiddleware(s.healthHandler.HandleHealth, "health"))
	mux.HandleFunc("POST /api/recommendations", MetricsMiddleware(s.recommendHandler.HandleRecommend, "recommendations"))
	mux.HandleFunc("GET /api/model-info", MetricsMiddleware(s.modelInfoHandler.HandleModelInfo, "model_info"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("GET /metrics", MetricsHandler())
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.GetOrNop().Named("api").Debug(context.Background(), "write response failed", logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
