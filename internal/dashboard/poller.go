package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/okian/devdash/internal/domain/model"
	"github.com/okian/devdash/pkg/logger"
)

// DefaultPollInterval is the time between two polling cycles.
const DefaultPollInterval = 5 * time.Second

// API is what the poller reads from.
type API interface {
	Health(ctx context.Context) (HealthStatus, error)
	Info(ctx context.Context) (APIInfo, error)
	Users(ctx context.Context) ([]model.User, error)
}

// State is the last data the poller obtained. Zero values mean nothing has
// been fetched yet.
type State struct {
	HealthStatus string    `json:"health_status,omitempty"`
	UptimeSecs   float64   `json:"uptime_seconds"`
	HasUptime    bool      `json:"has_uptime"`
	LastPoll     time.Time `json:"last_poll"`
	LastError    string    `json:"last_error,omitempty"`
}

// HealthText returns the health status or "Unknown" before the first
// successful check.
func (s State) HealthText() string {
	if s.HealthStatus == "" {
		return "Unknown"
	}
	return s.HealthStatus
}

// UptimeText returns the formatted uptime.
func (s State) UptimeText() string {
	return FormatUptime(s.UptimeSecs)
}

// Poller periodically refreshes State from the API.
type Poller struct {
	api      API
	interval time.Duration
	logger   logger.Logger
	now      func() time.Time

	mu    sync.RWMutex
	state State
}

// PollerOption applies a configuration option to the Poller.
type PollerOption func(*Poller)

// WithInterval sets the time between polling cycles.
func WithInterval(d time.Duration) PollerOption {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithLogger sets a custom logger for the poller.
func WithLogger(l logger.Logger) PollerOption {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) PollerOption {
	return func(p *Poller) {
		if now != nil {
			p.now = now
		}
	}
}

// NewPoller creates a poller reading from api.
func NewPoller(api API, opts ...PollerOption) *Poller {
	p := &Poller{
		api:      api,
		interval: DefaultPollInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Named("poller")
	}
	return p
}

// Interval returns the time between polling cycles.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Run polls once immediately and then every interval until ctx is done.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info(ctx, "poller started", logger.Duration("interval", p.interval))
	defer p.logger.Info(context.WithoutCancel(ctx), "poller stopped")

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		_ = p.Poll(ctx)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Poll runs one cycle: health, then info, then users. The first failure is
// logged and ends the cycle; values already applied are kept. Nothing is
// applied once ctx is done.
func (p *Poller) Poll(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	health, err := p.api.Health(ctx)
	if err != nil {
		return p.fail(ctx, "health", err)
	}
	if !p.apply(ctx, func(s *State) { s.HealthStatus = health.Status }) {
		return ctx.Err()
	}

	info, err := p.api.Info(ctx)
	if err != nil {
		return p.fail(ctx, "info", err)
	}
	if !p.apply(ctx, func(s *State) {
		s.UptimeSecs = info.Uptime
		s.HasUptime = true
	}) {
		return ctx.Err()
	}

	if _, err := p.api.Users(ctx); err != nil {
		return p.fail(ctx, "users", err)
	}

	p.apply(ctx, func(s *State) {
		s.LastPoll = p.now()
		s.LastError = ""
	})
	return nil
}

// Snapshot returns a copy of the current state.
func (p *Poller) Snapshot() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// apply mutates state unless ctx is done and reports whether it did.
func (p *Poller) apply(ctx context.Context, fn func(*State)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	fn(&p.state)
	return true
}

func (p *Poller) fail(ctx context.Context, step string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	p.logger.Error(ctx, "error fetching data", logger.String("step", step), logger.Error(err))
	p.apply(ctx, func(s *State) { s.LastError = err.Error() })
	return err
}
