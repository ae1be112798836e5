package api

import (
	"errors"
	"net/http"

	service "github.com/okian/homespark/internal/app"
	"github.com/okian/homespark/internal/domain/engine"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
)

// statusFor maps an upstream error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEngineNotReady):
		return http.StatusServiceUnavailable, "engine_not_ready"
	case errors.Is(err, engine.ErrEmptyCatalog):
		return http.StatusServiceUnavailable, "empty_catalog"
	case errors.Is(err, engine.ErrInvalidPreferences):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
