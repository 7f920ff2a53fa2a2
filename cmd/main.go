package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/okian/devdash/internal/adapters/http/api"
	"github.com/okian/devdash/internal/adapters/http/swagger"
	service "github.com/okian/devdash/internal/app"
	"github.com/okian/devdash/internal/config"
	"github.com/okian/devdash/internal/domain/simulation"
	"github.com/okian/devdash/pkg/logger"
	"github.com/okian/devdash/pkg/metrics"
)

// HTTP server timeout constants. The write timeout comes from config.
const (
	readTimeout       = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	startedAt := time.Now()

	// Initialize logging with defaults until the config says otherwise
	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			_, _ = os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
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

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	manager := metrics.NewManager(metrics.WithServiceName(cfg.ServiceName))
	families, err := manager.Gather(ctx)
	if err != nil {
		loggerInstance.Error(ctx, "metrics registry is inconsistent", logger.Error(err))
		os.Exit(1)
	}
	loggerInstance.Debug(ctx, "metrics registry ready", logger.Int("families", len(families)))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, cfg, manager, loggerInstance, startedAt),
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.WriteTimeout(),
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "API server listening",
			logger.String("url", listenURL(cfg.Addr)),
			logger.String("metrics", listenURL(cfg.Addr)+"/metrics"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(context.WithoutCancel(ctx), "shutting down server...",
		logger.Int64("in_flight", manager.InFlight()))

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(shutdownCtx, "server stopped")
}

// newHandler wires the service, the API routes and the docs behind the
// middleware chain. Uptime is reported from startedAt.
func newHandler(ctx context.Context, cfg *config.Config, manager *metrics.Manager, l logger.Logger, startedAt time.Time) http.Handler {
	svc := service.New(
		service.WithStartTime(startedAt),
		service.WithLogger(l.Named("service")),
		service.WithRecorder(manager),
		service.WithSimulator(simulation.New()),
		service.WithUsersDelay(time.Duration(cfg.UsersDelayMaxMS)*time.Millisecond),
		service.WithCreateDelay(time.Duration(cfg.CreateDelayMaxMS)*time.Millisecond),
		service.WithSlowDelayRange(
			time.Duration(cfg.SlowDelayMinMS)*time.Millisecond,
			time.Duration(cfg.SlowDelayMaxMS)*time.Millisecond,
		),
	)

	mux := http.NewServeMux()

	apiServer := api.NewServer(svc, manager,
		api.WithLogger(l.Named("http")),
		api.WithAllowedOrigins(cfg.AllowedOrigins()),
	)
	apiServer.Register(ctx, mux)
	swagger.Register(ctx, mux)

	return apiServer.Handler(mux)
}

// listenURL turns a listen address such as ":3001" into a local URL.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
