package traffic

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/devdash/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging initializes the logger, teeing to logFile when one is given.
func SetupLogging(logFile string, verbose bool) error {
	var w io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}

	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		if err := logger.SetLevelString("debug"); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}
	}
	return nil
}

// ShowHelp prints usage information for the traffic tool.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`DevOps Dashboard Traffic Generator
==================================

Sends concurrent requests to the demo API so its metrics move.

Usage:
  go run ./cmd/traffic [options]

Options:
  -url string
        Base URL of the API (default "http://localhost:3001")
  -requests int
        Number of requests to send (default 500)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -endpoints string
        Comma separated list of health,users,create,slow,error,root (default all)
  -log string
        Also write logs to this file
  -verbose
        Log every request
  -help
        Show this help message

Examples:
  # Mixed traffic with default settings
  go run ./cmd/traffic

  # Hammer the error endpoint
  go run ./cmd/traffic -endpoints error -requests 2000 -workers 32
`)
}
