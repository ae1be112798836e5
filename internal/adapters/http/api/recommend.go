package api

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	service "github.com/okian/homespark/internal/app"
	"github.com/okian/homespark/internal/domain/engine"
	"github.com/okian/homespark/internal/domain/model"
	"github.com/okian/homespark/internal/domain/types"
	"github.com/okian/homespark/pkg/logger"
)

// RecommendDependencies defines the interface for recommendation requests.
type RecommendDependencies interface {
	Recommend(ctx context.Context, prefs model.Preferences, n int) (engine.Result, error)
	ModelInfo() service.ModelInfo
}

// RecommendHandler handles recommendation requests.
type RecommendHandler struct {
	deps           RecommendDependencies
	defaultResults int
	limit          int
	log            logger.Logger
	now            func() time.Time
}

// NewRecommendHandler creates a new recommendation handler.
func NewRecommendHandler(deps RecommendDependencies, o *options) *RecommendHandler {
	if o == nil {
		o = defaultOptions()
	}
	log := o.log
	if log == nil {
		log = logger.GetOrNop().Named("api")
	}
	return &RecommendHandler{
		deps:           deps,
		defaultResults: o.defaultResults,
		limit:          o.maxResultsLimit,
		log:            log,
		now:            time.Now,
	}
}

// recommendationRequest mirrors the OpenAPI schema for POST /api/recommendations.
type recommendationRequest struct {
	UserPreferences *userPreferences `json:"user_preferences" validate:"required"`
	RequestSettings *requestSettings `json:"request_settings"`
}

type userPreferences struct {
	BudgetMin       *int   `json:"budget_min" validate:"required,gte=0"`
	BudgetMax       *int   `json:"budget_max" validate:"required,gte=0"`
	StylePreference string `json:"style_preference" validate:"required"`
	RoomType        string `json:"room_type" validate:"required"`
	IndoorOutdoor   string `json:"indoor_outdoor" validate:"required"`
	Location        string `json:"location"`
	ClimateType     string `json:"climate_type" validate:"required"`
}

type requestSettings struct {
	MaxResults *int `json:"max_results"`
}

type warningResponse struct {
	Dimension string `json:"dimension"`
	Input     string `json:"input"`
	Message   string `json:"message"`
}

type recommendationResponse struct {
	RequestID        string                 `json:"request_id"`
	Recommendations  []types.Recommendation `json:"recommendations"`
	ModelType        string                 `json:"model_type"`
	ProcessingTimeMs float64                `json:"processing_time_ms"`
	TotalResults     int                    `json:"total_results"`
	Fallback         bool                   `json:"fallback"`
	Warnings         []warningResponse      `json:"warnings"`
}

// HandleRecommend handles POST /api/recommendations requests.
func (h *RecommendHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	start := h.now()
	ctx := r.Context()
	reqID := requestID(ctx)

	var req recommendationRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: invalid JSON body: %w", ErrBadRequest, err))
		return
	}
	prefs, n, err := h.toDomain(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_error", err)
		return
	}

	res, err := h.deps.Recommend(ctx, prefs, n)
	if err != nil {
		status, code := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.log.Error(ctx, "recommendation failed", logger.String("request_id", reqID), logger.Error(err))
		}
		writeError(w, status, code, err)
		return
	}

	warnings := make([]warningResponse, 0, len(res.Warnings))
	for _, wr := range res.Warnings {
		warnings = append(warnings, warningResponse{
			Dimension: wr.Dimension.String(),
			Input:     wr.Input,
			Message:   wr.Error(),
		})
	}
	recs := res.Recommendations
	if recs == nil {
		recs = []types.Recommendation{}
	}
	elapsed := float64(h.now().Sub(start).Microseconds()) / 1000

	writeJSON(w, http.StatusOK, recommendationResponse{
		RequestID:        reqID,
		Recommendations:  recs,
		ModelType:        h.deps.ModelInfo().ModelType,
		ProcessingTimeMs: math.Round(elapsed*100) / 100,
		TotalResults:     len(recs),
		Fallback:         res.Fallback(),
		Warnings:         warnings,
	})
}

func (h *RecommendHandler) toDomain(req recommendationRequest) (model.Preferences, int, error) {
	if err := validateStruct(req); err != nil {
		return model.Preferences{}, 0, err
	}
	p := req.UserPreferences
	if *p.BudgetMax < *p.BudgetMin {
		return model.Preferences{}, 0, &ValidationError{
			Fields: []string{"budget_max"},
			msgs:   []string{"budget_max must be greater than or equal to budget_min"},
		}
	}

	n := h.defaultResults
	if req.RequestSettings != nil && req.RequestSettings.MaxResults != nil {
		n = *req.RequestSettings.MaxResults
		if err := validateVar("max_results", n, fmt.Sprintf("gte=1,lte=%d", h.limit)); err != nil {
			return model.Preferences{}, 0, err
		}
	}

	return model.Preferences{
		BudgetMin:     *p.BudgetMin,
		BudgetMax:     *p.BudgetMax,
		Style:         p.StylePreference,
		RoomType:      p.RoomType,
		IndoorOutdoor: p.IndoorOutdoor,
		Climate:       p.ClimateType,
		Location:      p.Location,
	}, n, nil
}
