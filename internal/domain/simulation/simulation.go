// Package simulation produces the randomized latencies and outcomes of the
// demo endpoints.
package simulation

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Error simulation thresholds. Both are compared against the same draw.
const (
	serverErrorThreshold = 0.3
	notFoundThreshold    = 0.5
)

// maxGeneratedID bounds ids assigned to created users: [0, maxGeneratedID).
const maxGeneratedID = 1000

// Outcome is the result chosen for GET /api/error.
type Outcome int

// Possible error simulation outcomes.
const (
	OutcomeSuccess Outcome = iota
	OutcomeServerError
	OutcomeNotFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeServerError:
		return "server_error"
	case OutcomeNotFound:
		return "not_found"
	default:
		return "success"
	}
}

// Source yields uniform values in [0, 1).
type Source interface {
	Float64() float64
}

// SourceFunc adapts a function to Source.
type SourceFunc func() float64

// Float64 implements Source.
func (f SourceFunc) Float64() float64 { return f() }

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option applies a configuration option to the Simulator.
type Option func(*Simulator)

// WithSource replaces the random source, mostly for tests.
func WithSource(src Source) Option {
	return func(s *Simulator) {
		if src != nil {
			s.src = src
		}
	}
}

// WithSleep replaces the wait implementation, mostly for tests.
func WithSleep(fn SleepFunc) Option {
	return func(s *Simulator) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// Simulator draws random values and applies simulated latency.
type Simulator struct {
	mu    sync.Mutex
	src   Source
	sleep SleepFunc
}

// New creates a Simulator backed by math/rand/v2 and real timers.
func New(opts ...Option) *Simulator {
	s := &Simulator{
		src:   SourceFunc(rand.Float64),
		sleep: Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Float64 draws one uniform value in [0, 1).
func (s *Simulator) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Float64()
}

// Delay draws a duration uniformly from [minDelay, maxDelay).
func (s *Simulator) Delay(minDelay, maxDelay time.Duration) time.Duration {
	return DelayFor(s.Float64(), minDelay, maxDelay)
}

// Wait draws a delay from [minDelay, maxDelay) and blocks for it.
func (s *Simulator) Wait(ctx context.Context, minDelay, maxDelay time.Duration) (time.Duration, error) {
	d := s.Delay(minDelay, maxDelay)
	if err := s.sleep(ctx, d); err != nil {
		return d, err
	}
	return d, nil
}

// ErrorOutcome draws once and classifies the draw.
func (s *Simulator) ErrorOutcome() Outcome {
	return OutcomeFor(s.Float64())
}

// UserID draws an id in [0, 1000).
func (s *Simulator) UserID() int {
	return int(math.Floor(s.Float64() * maxGeneratedID))
}

// DelayFor maps a draw r in [0, 1) onto [minDelay, maxDelay).
func DelayFor(r float64, minDelay, maxDelay time.Duration) time.Duration {
	if maxDelay <= minDelay {
		return minDelay
	}
	return minDelay + time.Duration(r*float64(maxDelay-minDelay))
}

// OutcomeFor classifies a single draw: r < 0.3 is a server error, otherwise
// r < 0.5 is not found, otherwise success. Both comparisons use r, so the
// not-found branch covers [0.3, 0.5).
func OutcomeFor(r float64) Outcome {
	if r < serverErrorThreshold {
		return OutcomeServerError
	} else if r < notFoundThreshold {
		return OutcomeNotFound
	}
	return OutcomeSuccess
}

// Sleep waits for d honoring ctx cancellation.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("simulated delay interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}
