package api

import (
	"net/http"

	service "github.com/okian/devdash/internal/app"
	"github.com/okian/devdash/internal/domain/simulation"
)

// ErrorHandler handles the error simulation endpoint.
type ErrorHandler struct {
	deps Dependencies
}

// NewErrorHandler creates a new error simulation handler.
func NewErrorHandler(deps Dependencies) *ErrorHandler {
	return &ErrorHandler{deps: deps}
}

// HandleError handles GET /api/error requests.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request) {
	switch h.deps.SimulateError(r.Context()) {
	case simulation.OutcomeServerError:
		writeError(w, http.StatusInternalServerError, service.ServerErrorMessage)
	case simulation.OutcomeNotFound:
		writeError(w, http.StatusNotFound, service.NotFoundMessage)
	default:
		writeJSON(w, http.StatusOK, messageResponse{Message: service.ErrorSuccessMessage})
	}
}
