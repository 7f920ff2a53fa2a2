// Package metrics owns the Prometheus registry of the demo API: request
// counters and latency histograms, the active connection gauge and the
// business operation counter.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Default metrics configuration constants.
const (
	DefaultServiceName = "devops-dashboard-api"

	// ServiceLabel is attached to every series exported by the registry.
	ServiceLabel = "app"
)

// Exported metric names.
const (
	HTTPRequestsTotal          = "http_requests_total"
	HTTPRequestDurationSeconds = "http_request_duration_seconds"
	ActiveConnections          = "active_connections"
	BusinessOperationsTotal    = "business_operations_total"
)

// DefaultDurationBuckets are the request latency buckets in seconds.
var DefaultDurationBuckets = []float64{0.1, 0.3, 0.5, 0.7, 1, 3, 5, 7, 10}

// Recorder is the instrument surface the HTTP layer depends on.
type Recorder interface {
	// ConnectionOpened marks a request as in flight and returns the new count.
	ConnectionOpened() int64
	// ConnectionClosed marks a request as finished and returns the new count.
	ConnectionClosed() int64
	// ObserveRequest counts a finished request and records its latency.
	ObserveRequest(method, route string, statusCode int, elapsed time.Duration)
	// RecordBusinessOperation counts one simulated business operation.
	RecordBusinessOperation(operationType string)
}

// Manager owns the Prometheus registry and the service instruments.
type Manager struct {
	serviceName       string
	defaultCollectors bool
	registry          *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	activeConnections   prometheus.Gauge
	businessOperations  *prometheus.CounterVec

	// mu keeps inFlight and the gauge in lockstep.
	mu       sync.Mutex
	inFlight int64
}

var _ Recorder = (*Manager)(nil)

// NewManager creates a Manager with its own registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		serviceName:       DefaultServiceName,
		defaultCollectors: true,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics registers all collectors behind the service label.
func (m *Manager) initializeMetrics() {
	reg := prometheus.WrapRegistererWith(prometheus.Labels{ServiceLabel: m.serviceName}, m.registry)

	if m.defaultCollectors {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	auto := promauto.With(reg)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Name: HTTPRequestsTotal,
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    HTTPRequestDurationSeconds,
			Help:    "Duration of HTTP requests in seconds",
			Buckets: DefaultDurationBuckets,
		},
		[]string{"method", "route", "status_code"},
	)

	m.activeConnections = auto.NewGauge(prometheus.GaugeOpts{
		Name: ActiveConnections,
		Help: "Number of active connections",
	})

	m.businessOperations = auto.NewCounterVec(
		prometheus.CounterOpts{
			Name: BusinessOperationsTotal,
			Help: "Total business operations",
		},
		[]string{"operation_type"},
	)
}

// ConnectionOpened increments the in-flight count and sets the gauge to it.
func (m *Manager) ConnectionOpened() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight++
	m.activeConnections.Set(float64(m.inFlight))
	return m.inFlight
}

// ConnectionClosed decrements the in-flight count and sets the gauge to it.
// The count never drops below zero.
func (m *Manager) ConnectionClosed() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight > 0 {
		m.inFlight--
	}
	m.activeConnections.Set(float64(m.inFlight))
	return m.inFlight
}

// InFlight returns the number of requests currently being handled.
func (m *Manager) InFlight() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inFlight
}

// ObserveRequest records one finished request under identical labels on the
// counter and the histogram.
func (m *Manager) ObserveRequest(method, route string, statusCode int, elapsed time.Duration) {
	code := strconv.Itoa(statusCode)
	m.httpRequests.WithLabelValues(method, route, code).Inc()
	m.httpRequestDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
}

// RecordBusinessOperation increments business_operations_total.
func (m *Manager) RecordBusinessOperation(operationType string) {
	m.businessOperations.WithLabelValues(operationType).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gather collects the current registry state.
func (m *Manager) Gather(_ context.Context) ([]*dto.MetricFamily, error) {
	mfs, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGather, err)
	}
	return mfs, nil
}
