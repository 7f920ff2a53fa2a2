package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/okian/devdash/internal/adapters/http/site"
	"github.com/okian/devdash/internal/config"
	"github.com/okian/devdash/internal/dashboard"
	"github.com/okian/devdash/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			_, _ = os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	loggerInstance := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	poller, handler, err := newDashboard(cfg)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build dashboard", logger.Error(err))
		os.Exit(1)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(ctx)
	}()

	mux := http.NewServeMux()
	site.Register(ctx, mux, handler)

	srv := &http.Server{
		Addr:              cfg.DashboardAddr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "dashboard listening",
			logger.String("addr", cfg.DashboardAddr),
			logger.String("api", cfg.APIBaseURL),
			logger.Duration("poll_interval", poller.Interval()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(context.WithoutCancel(ctx), "shutting down dashboard...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}
	wg.Wait()

	loggerInstance.Info(shutdownCtx, "dashboard stopped")
}

// newDashboard builds the poller and the page handler from cfg.
func newDashboard(cfg *config.Config) (*dashboard.Poller, *site.Handler, error) {
	client := dashboard.NewClient(cfg.APIBaseURL, dashboard.WithTimeout(cfg.RequestTimeout()))
	poller := dashboard.NewPoller(client, dashboard.WithInterval(cfg.PollInterval()))

	handler, err := site.NewHandler(poller, site.Page{
		APIBaseURL:    cfg.APIBaseURL,
		MetricsURL:    cfg.MetricsURL(),
		GrafanaURL:    cfg.GrafanaURL,
		PrometheusURL: cfg.PrometheusURL,
		CadvisorURL:   cfg.CAdvisorURL,
		Environment:   cfg.Environment,
		Version:       cfg.Version,
		PollInterval:  cfg.PollInterval(),
	})
	if err != nil {
		return nil, nil, err
	}
	return poller, handler, nil
}
