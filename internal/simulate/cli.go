package simulate

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/huddle/pkg/logger"
)

const logFilePermission = 0o600

// SetupLogging initializes the logger writing to stdout and, when logFile is
// set, to that file as well. The returned closer releases the file.
func SetupLogging(logFile string, verbose bool) (io.Closer, error) {
	level := "info"
	if verbose {
		level = "debug"
	}

	var (
		w      io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
		if err != nil {
			return nil, fmt.Errorf("failed to create log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	if err := logger.Init(logger.WithWriter(w), logger.WithLevel(level)); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return closer, nil
}

// ShowHelp prints usage information for the simulator.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Huddle Simulator
================

Drives simulated users against a running huddle service: sets explicit
preferences, submits biased interaction streams concurrently, waits for the
service to apply them and verifies per-user insights and recommendations.

Usage:
  go run ./cmd/simulate [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -users int
        Number of simulated users (default 100)
  -interactions int
        Interactions submitted per user (default 20)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -settle duration
        How long to wait for interactions to be applied (default 30s)
  -output string
        Write the generated plan to this JSON file
  -log string
        Also write logs to this file
  -verbose
        Enable debug logging
  -help
        Show this help message

Examples:
  go run ./cmd/simulate -users 500 -interactions 50 -workers 16
  go run ./cmd/simulate -url http://localhost:8080 -output plan.json
`)
}
