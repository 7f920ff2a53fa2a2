package api

import (
	"net/http"

	"github.com/okian/devdash/internal/domain/model"
)

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	health := h.deps.Health(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    health.Status,
		Timestamp: model.Timestamp(health.Time),
	})
}
