// Package service implements the simulated business operations behind the
// HTTP API: fixed payloads, random latency and random failures.
package service

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/okian/devdash/internal/domain/model"
	"github.com/okian/devdash/internal/domain/simulation"
	"github.com/okian/devdash/internal/domain/types"
	"github.com/okian/devdash/pkg/logger"
	"github.com/okian/devdash/pkg/metrics"
)

// Default simulated latencies.
const (
	defaultUsersDelayMax  = 500 * time.Millisecond
	defaultCreateDelayMax = 1000 * time.Millisecond
	defaultSlowDelayMin   = 2000 * time.Millisecond
	defaultSlowDelayMax   = 5000 * time.Millisecond
)

// Fixed response texts.
const (
	InfoMessage         = "DevOps Dashboard API"
	HealthyStatus       = "healthy"
	SlowMessage         = "This was a slow operation"
	SlowDurationText    = "2-5 seconds"
	ServerErrorMessage  = "Simulated server error"
	NotFoundMessage     = "Resource not found"
	ErrorSuccessMessage = "Operation successful"
)

// Info describes the running API.
type Info struct {
	Message string
	Time    time.Time
	Uptime  time.Duration
}

// Health is the result of a health check.
type Health struct {
	Status string
	Time   time.Time
}

// Service implements the API dependencies for the demo endpoints.
type Service struct {
	recorder  metrics.Recorder
	sim       *simulation.Simulator
	logger    logger.Logger
	now       func() time.Time
	startedAt time.Time

	usersDelayMax  time.Duration
	createDelayMax time.Duration
	slowDelayMin   time.Duration
	slowDelayMax   time.Duration
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithRecorder sets where business operations are counted.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Service) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithSimulator sets the source of random delays and outcomes.
func WithSimulator(sim *simulation.Simulator) Option {
	return func(s *Service) {
		if sim != nil {
			s.sim = sim
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithStartTime sets the instant uptime is measured from.
func WithStartTime(t time.Time) Option {
	return func(s *Service) {
		if !t.IsZero() {
			s.startedAt = t
		}
	}
}

// WithUsersDelay sets the upper bound of the GET /api/users delay.
func WithUsersDelay(maxDelay time.Duration) Option {
	return func(s *Service) {
		if maxDelay >= 0 {
			s.usersDelayMax = maxDelay
		}
	}
}

// WithCreateDelay sets the upper bound of the POST /api/users delay.
func WithCreateDelay(maxDelay time.Duration) Option {
	return func(s *Service) {
		if maxDelay >= 0 {
			s.createDelayMax = maxDelay
		}
	}
}

// WithSlowDelayRange sets the GET /api/slow delay range [minDelay, maxDelay).
func WithSlowDelayRange(minDelay, maxDelay time.Duration) Option {
	return func(s *Service) {
		if minDelay >= 0 && maxDelay >= minDelay {
			s.slowDelayMin = minDelay
			s.slowDelayMax = maxDelay
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		recorder:       nopRecorder{},
		sim:            simulation.New(),
		now:            time.Now,
		usersDelayMax:  defaultUsersDelayMax,
		createDelayMax: defaultCreateDelayMax,
		slowDelayMin:   defaultSlowDelayMin,
		slowDelayMax:   defaultSlowDelayMax,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.startedAt.IsZero() {
		s.startedAt = s.now()
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	return s
}

// Info reports the API banner, current time and uptime.
func (s *Service) Info(_ context.Context) Info {
	now := s.now()
	return Info{Message: InfoMessage, Time: now, Uptime: now.Sub(s.startedAt)}
}

// Health counts a health check and reports healthy.
func (s *Service) Health(_ context.Context) Health {
	s.record(types.OperationHealthCheck)
	return Health{Status: HealthyStatus, Time: s.now()}
}

// ListUsers counts a user fetch, waits up to the users delay and returns the
// fixture list.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	const op = "service.list_users"
	s.record(types.OperationUserFetch)

	if err := s.wait(ctx, op, 0, s.usersDelayMax); err != nil {
		return nil, err
	}
	return model.Users(), nil
}

// CreateUser counts a user creation, waits up to the create delay and echoes
// fields with a generated id and a creation timestamp. An "id" in fields
// takes precedence over the generated one; created_at is always server time.
func (s *Service) CreateUser(ctx context.Context, fields map[string]any) (map[string]any, error) {
	const op = "service.create_user"
	s.record(types.OperationUserCreate)

	if err := s.wait(ctx, op, 0, s.createDelayMax); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(fields)+2)
	out["id"] = s.sim.UserID()
	maps.Copy(out, fields)
	out["created_at"] = model.Timestamp(s.now())
	return out, nil
}

// Slow counts a slow operation and waits within the slow delay range.
func (s *Service) Slow(ctx context.Context) error {
	const op = "service.slow"
	s.record(types.OperationSlow)
	return s.wait(ctx, op, s.slowDelayMin, s.slowDelayMax)
}

// SimulateError counts an error simulation and draws its outcome.
func (s *Service) SimulateError(ctx context.Context) simulation.Outcome {
	s.record(types.OperationErrorSimulation)
	outcome := s.sim.ErrorOutcome()
	s.logger.Debug(ctx, "error simulation drawn", logger.String("outcome", outcome.String()))
	return outcome
}

func (s *Service) record(op types.OperationType) {
	s.recorder.RecordBusinessOperation(op.String())
}

func (s *Service) wait(ctx context.Context, op string, minDelay, maxDelay time.Duration) error {
	d, err := s.sim.Wait(ctx, minDelay, maxDelay)
	if err != nil {
		s.logger.Debug(ctx, "simulated delay abandoned", logger.String("op", op), logger.Duration("delay", d), logger.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

type nopRecorder struct{}

func (nopRecorder) ConnectionOpened() int64                           { return 0 }
func (nopRecorder) ConnectionClosed() int64                           { return 0 }
func (nopRecorder) ObserveRequest(string, string, int, time.Duration) {}
func (nopRecorder) RecordBusinessOperation(string)                    {}
