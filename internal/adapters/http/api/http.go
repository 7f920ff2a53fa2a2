// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/devdash/internal/app"
	"github.com/okian/devdash/internal/domain/model"
	"github.com/okian/devdash/internal/domain/simulation"
	"github.com/okian/devdash/pkg/logger"
	"github.com/okian/devdash/pkg/metrics"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Info(ctx context.Context) service.Info
	Health(ctx context.Context) service.Health
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, fields map[string]any) (map[string]any, error)
	Slow(ctx context.Context) error
	SimulateError(ctx context.Context) simulation.Outcome
}

// Instruments records request metrics and exposes them for scraping.
type Instruments interface {
	metrics.Recorder
	Handler() http.Handler
}

// Server wires HTTP routes for the demo API.
type Server struct {
	rootHandler    *RootHandler
	healthHandler  *HealthHandler
	usersHandler   *UsersHandler
	slowHandler    *SlowHandler
	errorHandler   *ErrorHandler
	metricsHandler http.Handler

	instruments    Instruments
	allowedOrigins []string
	logger         logger.Logger
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithLogger sets the logger used by the middleware chain.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAllowedOrigins sets the CORS origin list; "*" allows any origin.
func WithAllowedOrigins(origins []string) ServerOption {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, instruments Instruments, opts ...ServerOption) *Server {
	s := &Server{
		rootHandler:    NewRootHandler(deps),
		healthHandler:  NewHealthHandler(deps),
		usersHandler:   NewUsersHandler(deps),
		slowHandler:    NewSlowHandler(deps),
		errorHandler:   NewErrorHandler(deps),
		metricsHandler: instruments.Handler(),
		instruments:    instruments,
		allowedOrigins: []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /{$}", s.rootHandler.HandleRoot)
	mux.HandleFunc("GET /health", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /api/users", s.usersHandler.HandleListUsers)
	mux.HandleFunc("POST /api/users", s.usersHandler.HandleCreateUser)
	mux.HandleFunc("GET /api/slow", s.slowHandler.HandleSlow)
	mux.HandleFunc("GET /api/error", s.errorHandler.HandleError)
	mux.Handle("GET /metrics", s.metricsHandler)
}

// Handler wraps mux with the middleware every request passes through.
// MetricsMiddleware must sit directly outside the mux so it observes the
// matched pattern on the same *http.Request.
func (s *Server) Handler(mux *http.ServeMux) http.Handler {
	return Chain(mux,
		CORS(s.allowedOrigins),
		RequestID(),
		MetricsMiddleware(s.instruments, s.logger),
		Recover(s.logger),
	)
}

type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
