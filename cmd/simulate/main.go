package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/huddle/internal/simulate"
)

// Default configuration constants.
const (
	defaultNumUsers        = 100
	defaultInteractionsPer = 20
	defaultWorkers         = 2 // multiplier for runtime.NumCPU()
	defaultTimeout         = 30 * time.Second
	defaultSettleTimeout   = 30 * time.Second
	defaultRunTimeout      = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numUsers     = flag.Int("users", defaultNumUsers, "Number of simulated users")
		interactions = flag.Int("interactions", defaultInteractionsPer, "Interactions submitted per user")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		settle       = flag.Duration("settle", defaultSettleTimeout, "How long to wait for interactions to be applied")
		outputFile   = flag.String("output", "", "Write the generated plan to this JSON file")
		logFile      = flag.String("log", "", "Also write logs to this file")
		verbose      = flag.Bool("verbose", false, "Enable debug logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		simulate.ShowHelp(os.Stdout)
		return
	}

	closer, err := simulate.SetupLogging(*logFile, *verbose)
	if err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = closer.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	config := &simulate.Config{
		BaseURL:         *baseURL,
		NumUsers:        *numUsers,
		InteractionsPer: *interactions,
		Workers:         *workers,
		Timeout:         *timeout,
		SettleTimeout:   *settle,
		OutputFile:      *outputFile,
		Verbose:         *verbose,
	}

	if _, err := simulate.Run(ctx, config); err != nil {
		_, _ = os.Stderr.WriteString("Simulation failed: " + err.Error() + "\n")
		cancel()
		stop()
		_ = closer.Close()
		os.Exit(1) //nolint:gocritic // exitAfterDefer: deferred cleanup ran above
	}
}
