package api

import (
	"net/http"

	service "github.com/okian/homespark/internal/app"
)

// ModelInfoProvider describes the loaded catalog.
type ModelInfoProvider interface {
	ModelInfo() service.ModelInfo
}

// ModelInfoHandler handles model-info requests.
type ModelInfoHandler struct {
	provider ModelInfoProvider
}

// NewModelInfoHandler creates a new model-info handler.
func NewModelInfoHandler(provider ModelInfoProvider) *ModelInfoHandler {
	return &ModelInfoHandler{provider: provider}
}

// HandleModelInfo handles GET /api/model-info. Before a catalog is loaded
// the body is just {"model_loaded": false}.
func (h *ModelInfoHandler) HandleModelInfo(w http.ResponseWriter, r *http.Request) {
	info := h.provider.ModelInfo()
	if !info.Loaded {
		writeJSON(w, http.StatusOK, map[string]bool{"model_loaded": false})
		return
	}
	writeJSON(w, http.StatusOK, info)
}
