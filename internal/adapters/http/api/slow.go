package api

import (
	"net/http"

	service "github.com/okian/devdash/internal/app"
)

type slowResponse struct {
	Message  string `json:"message"`
	Duration string `json:"duration"`
}

// SlowHandler handles the intentionally slow endpoint.
type SlowHandler struct {
	deps Dependencies
}

// NewSlowHandler creates a new slow handler.
func NewSlowHandler(deps Dependencies) *SlowHandler {
	return &SlowHandler{deps: deps}
}

// HandleSlow handles GET /api/slow requests.
func (h *SlowHandler) HandleSlow(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Slow(r.Context()); err != nil {
		w.WriteHeader(statusClientClosed)
		return
	}
	writeJSON(w, http.StatusOK, slowResponse{
		Message:  service.SlowMessage,
		Duration: service.SlowDurationText,
	})
}
