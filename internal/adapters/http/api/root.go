package api

import "net/http"

// RootHandler serves the service banner.
type RootHandler struct {
	ready   ReadinessProvider
	version string
}

// NewRootHandler creates a new banner handler.
func NewRootHandler(ready ReadinessProvider, version string) *RootHandler {
	return &RootHandler{ready: ready, version: version}
}

type rootResponse struct {
	Message     string `json:"message"`
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Version     string `json:"version"`
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Message:     "HomeSpark recommendation API",
		Status:      "running",
		ModelLoaded: h.ready.Ready(),
		Version:     h.version,
	})
}
