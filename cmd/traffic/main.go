package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/devdash/internal/traffic"
)

// Default configuration constants.
const (
	defaultBaseURL     = "http://localhost:3001"
	defaultRequests    = 500
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 10 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", defaultBaseURL, "Base URL of the API")
		requests  = flag.Int("requests", defaultRequests, "Number of requests to send")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		endpoints = flag.String("endpoints", "", "Comma separated endpoints (health,users,create,slow,error,root)")
		logFile   = flag.String("log", "", "Also write logs to this file")
		verbose   = flag.Bool("verbose", false, "Log every request")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		traffic.ShowHelp()
		return
	}

	if err := traffic.SetupLogging(*logFile, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	eps, err := traffic.ParseEndpoints(*endpoints)
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultTestTimeout)
	defer cancel()

	cfg := &traffic.Config{
		BaseURL:   *baseURL,
		Requests:  *requests,
		Workers:   *workers,
		Timeout:   *timeout,
		Endpoints: eps,
		LogFile:   *logFile,
		Verbose:   *verbose,
	}

	if _, err := traffic.Run(ctx, cfg); err != nil {
		_, _ = os.Stderr.WriteString("Traffic run failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
