// Package config defines the process configuration shared by the API
// service, the dashboard and the traffic generator.
package config

import (
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the API listen address, e.g. ":3001".
	Addr string `koanf:"addr"`

	// ServiceName is attached to every exported metric as the "app" label.
	ServiceName string `koanf:"service_name"`

	// CORSAllowedOrigins is a comma separated origin list; "*" allows any origin.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`

	// Simulated latency bounds for the business endpoints.
	UsersDelayMaxMS  int `koanf:"users_delay_max_ms"`
	CreateDelayMaxMS int `koanf:"create_delay_max_ms"`
	SlowDelayMinMS   int `koanf:"slow_delay_min_ms"`
	SlowDelayMaxMS   int `koanf:"slow_delay_max_ms"`

	// WriteTimeoutMS bounds how long the API may take to write a response.
	// It must exceed SlowDelayMaxMS.
	WriteTimeoutMS int `koanf:"write_timeout_ms"`

	// DashboardAddr is the listen address of the dashboard page.
	DashboardAddr string `koanf:"dashboard_addr"`

	// APIBaseURL is where the dashboard reaches the API service.
	APIBaseURL string `koanf:"api_base_url"`

	// PollIntervalMS is the dashboard refresh period.
	PollIntervalMS int `koanf:"poll_interval_ms"`

	// RequestTimeoutMS bounds each dashboard request to the API.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// Outbound monitoring tool links rendered by the dashboard.
	GrafanaURL    string `koanf:"grafana_url"`
	PrometheusURL string `koanf:"prometheus_url"`
	CAdvisorURL   string `koanf:"cadvisor_url"`

	// Static display values for the dashboard cards.
	Environment string `koanf:"environment"`
	Version     string `koanf:"version"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":3001",
		ServiceName:        "devops-dashboard-api",
		CORSAllowedOrigins: "*",
		UsersDelayMaxMS:    500,
		CreateDelayMaxMS:   1000,
		SlowDelayMinMS:     2000,
		SlowDelayMaxMS:     5000,
		WriteTimeoutMS:     10000,
		DashboardAddr:      ":3002",
		APIBaseURL:         "http://localhost:3001",
		PollIntervalMS:     5000,
		RequestTimeoutMS:   10000,
		GrafanaURL:         "http://localhost:3000",
		PrometheusURL:      "http://localhost:9090",
		CAdvisorURL:        "http://localhost:8080",
		Environment:        "Production",
		Version:            "v1.0.0",
	}
}

// AllowedOrigins splits CORSAllowedOrigins into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// PollInterval returns PollIntervalMS as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// WriteTimeout returns WriteTimeoutMS as a duration.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMS) * time.Millisecond
}

// RequestTimeout returns RequestTimeoutMS as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// MetricsURL is the API's exposition endpoint as seen from the dashboard.
func (c *Config) MetricsURL() string {
	return strings.TrimRight(c.APIBaseURL, "/") + "/metrics"
}
