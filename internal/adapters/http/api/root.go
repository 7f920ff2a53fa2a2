package api

import (
	"net/http"

	"github.com/okian/devdash/internal/domain/model"
)

type infoResponse struct {
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// RootHandler handles root path requests.
type RootHandler struct {
	deps Dependencies
}

// NewRootHandler creates a new root handler.
func NewRootHandler(deps Dependencies) *RootHandler {
	return &RootHandler{deps: deps}
}

// HandleRoot handles GET / requests.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	info := h.deps.Info(r.Context())
	writeJSON(w, http.StatusOK, infoResponse{
		Message:   info.Message,
		Timestamp: model.Timestamp(info.Time),
		Uptime:    info.Uptime.Seconds(),
	})
}
