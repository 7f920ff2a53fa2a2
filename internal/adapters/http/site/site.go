// Package site serves the dashboard page rendered from the poller state.
package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/okian/devdash/internal/dashboard"
	"github.com/okian/devdash/pkg/logger"
)

// Error constants
var (
	ErrTemplate = errors.New("dashboard template parse failed")
	ErrRender   = errors.New("dashboard render failed")
)

// checkedAtLayout formats the "Last checked" time.
const checkedAtLayout = "15:04:05"

// StateSource supplies the latest polled state.
type StateSource interface {
	Snapshot() dashboard.State
}

// Link is an outbound monitoring tool link.
type Link struct {
	Title       string
	Description string
	URL         string
}

// Action is a button that fires a GET at an API path.
type Action struct {
	Label string
	Path  string
}

// Page holds the static content of the dashboard.
type Page struct {
	APIBaseURL    string
	MetricsURL    string
	GrafanaURL    string
	PrometheusURL string
	CadvisorURL   string
	Environment   string
	Version       string
	PollInterval  time.Duration
}

// Links returns the monitoring links in display order.
func (p Page) Links() []Link {
	return []Link{
		{Title: "Grafana", Description: "Dashboards & Visualization", URL: p.GrafanaURL},
		{Title: "Prometheus", Description: "Metrics & Alerting", URL: p.PrometheusURL},
		{Title: "API Metrics", Description: "Raw Prometheus Metrics", URL: p.MetricsURL},
		{Title: "cAdvisor", Description: "Container Metrics", URL: p.CadvisorURL},
	}
}

// Actions returns the API test buttons in display order.
func Actions() []Action {
	return []Action{
		{Label: "Test Health Check", Path: "/health"},
		{Label: "Test Get Users", Path: "/api/users"},
		{Label: "Test Slow Endpoint", Path: "/api/slow"},
		{Label: "Test Error Endpoint", Path: "/api/error"},
	}
}

type view struct {
	State          dashboard.State
	CheckedAt      string
	APIBaseURL     string
	Environment    string
	Version        string
	RefreshSeconds int
	Links          []Link
	Actions        []Action
}

// Handler renders the dashboard.
type Handler struct {
	tmpl   *template.Template
	page   Page
	states StateSource
	now    func() time.Time
	logger logger.Logger
}

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// WithLogger sets a custom logger for the handler.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler parses the embedded template.
func NewHandler(states StateSource, page Page, opts ...Option) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	if page.PollInterval <= 0 {
		page.PollInterval = dashboard.DefaultPollInterval
	}
	h := &Handler{
		tmpl:   tmpl,
		page:   page,
		states: states,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = logger.Named("site")
	}
	return h, nil
}

// Register attaches the dashboard routes to mux.
func Register(_ context.Context, mux *http.ServeMux, h *Handler) {
	if mux == nil {
		panic("mux is nil")
	}
	if h == nil {
		panic("handler is nil")
	}

	mux.HandleFunc("GET /{$}", h.HandlePage)
	mux.HandleFunc("GET /state", h.HandleState)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// HandlePage renders the dashboard with the latest state.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	refresh := int(h.page.PollInterval / time.Second)
	if refresh < 1 {
		refresh = 1
	}
	v := view{
		State:          h.states.Snapshot(),
		CheckedAt:      h.now().Format(checkedAtLayout),
		APIBaseURL:     h.page.APIBaseURL,
		Environment:    h.page.Environment,
		Version:        h.page.Version,
		RefreshSeconds: refresh,
		Links:          h.page.Links(),
		Actions:        Actions(),
	}

	var buf strings.Builder
	if err := h.tmpl.ExecuteTemplate(&buf, "dashboard.html", v); err != nil {
		h.logger.Error(r.Context(), "render dashboard", logger.Error(fmt.Errorf("%w: %w", ErrRender, err)))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(buf.String()))
}

// HandleState returns the latest state as JSON.
func (h *Handler) HandleState(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(h.states.Snapshot())
}
