// Package traffic drives load against the demo API so its metrics have
// something to show.
package traffic

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/devdash/pkg/logger"
)

// Worker configuration constants.
const (
	workerChannelMultiplier = 2
	progressInterval        = time.Second
	percentageMultiplier    = 100
)

type job struct {
	seq      int
	endpoint Endpoint
}

// Run checks the API health, sends cfg.Requests requests spread over
// cfg.Workers workers and logs a summary. It returns the collected stats
// even when ctx ends the run early.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.Named("traffic")

	log.Info(ctx, "starting traffic run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Int("endpoints", len(cfg.Endpoints)),
		logger.Any("verbose", cfg.Verbose))

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := checkHealth(ctx, c); err != nil {
		return nil, err
	}
	log.Info(ctx, "api is healthy")

	stats := newStats()
	var sent atomic.Int64

	jobs := make(chan job, cfg.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for j := range jobs {
				if ctx.Err() != nil {
					return
				}
				res := c.send(ctx, j.endpoint, j.seq)
				stats.Add(res)
				sent.Add(1)

				if cfg.Verbose {
					log.Debug(ctx, "request sent",
						logger.Int("worker", workerID),
						logger.String("endpoint", res.Endpoint),
						logger.String("requestID", res.RequestID),
						logger.Int("status", res.Status),
						logger.Duration("latency", res.Latency),
						logger.Any("error", res.Err))
				}
			}
		}(i)
	}

	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Requests; i++ {
			j := job{seq: i, endpoint: cfg.Endpoints[i%len(cfg.Endpoints)]}
			select {
			case <-ctx.Done():
				return
			case jobs <- j:
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
wait:
	for {
		select {
		case <-done:
			break wait
		case <-ticker.C:
			log.Info(ctx, "progress", logger.Int64("sent", sent.Load()), logger.Int("total", cfg.Requests))
		}
	}

	stats.EndTime = time.Now()
	logSummary(context.WithoutCancel(ctx), log, stats)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("traffic run interrupted: %w", err)
	}
	return stats, nil
}

// checkHealth verifies the API answers GET /health with 200.
func checkHealth(ctx context.Context, c *client) error {
	res := c.send(ctx, EndpointHealth, 0)
	if res.Err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, res.Err)
	}
	if res.Status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, res.Status)
	}
	return nil
}

func logSummary(ctx context.Context, log logger.Logger, stats *Stats) {
	for _, name := range stats.EndpointNames() {
		e := stats.Endpoint(name)
		log.Info(ctx, "endpoint summary",
			logger.String("endpoint", name),
			logger.Int("sent", e.Sent),
			logger.Int("failed", e.Failed),
			logger.Any("statuses", e.Statuses),
			logger.Duration("meanLatency", e.MeanLatency()),
			logger.Duration("maxLatency", e.MaxLatency))
	}

	sent, failed := stats.Total()
	var successRate, requestsPerSecond float64
	if sent > 0 {
		successRate = float64(sent-failed) / float64(sent) * percentageMultiplier
	}
	if d := stats.Duration(); d > 0 {
		requestsPerSecond = float64(sent) / d.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("sent", sent),
		logger.Int("failed", failed),
		logger.Duration("duration", stats.Duration()),
		logger.Float64("responseRate", successRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
