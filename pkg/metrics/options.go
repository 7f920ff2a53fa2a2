package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithServiceName sets the value of the default "app" label.
func WithServiceName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.serviceName = name
		}
	}
}

// WithDefaultCollectors toggles the Go runtime and process collectors.
func WithDefaultCollectors(enabled bool) Option {
	return func(m *Manager) {
		m.defaultCollectors = enabled
	}
}

// WithPrometheusRegistry sets the registry instruments are registered on.
func WithPrometheusRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
