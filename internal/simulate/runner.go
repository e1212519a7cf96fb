package simulate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/okian/huddle/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
)

// ErrNotSettled is returned when the service did not apply every accepted
// interaction within the settle timeout.
var ErrNotSettled = errors.New("interactions not applied before settle timeout")

type eventList struct {
	Events []Event `json:"events"`
	Count  int     `json:"count"`
}

type serviceStats struct {
	Interactions int `json:"interactions"`
	Users        int `json:"users"`
}

// Run executes a complete simulation against a running service and returns
// the collected statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	client := newHTTPClient(config.BaseURL, config.Timeout)

	logger.Get().Info(ctx, "starting huddle simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", config.NumUsers),
		logger.Int("interactionsPerUser", config.InteractionsPer),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout))

	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	var catalog eventList
	if err := client.GetJSON(ctx, "/events", &catalog); err != nil {
		return stats, fmt.Errorf("catalog retrieval failed: %w", err)
	}

	users, err := generatePlan(ctx, config, catalog.Events, stats)
	if err != nil {
		return stats, fmt.Errorf("plan generation failed: %w", err)
	}

	if err := setPreferences(ctx, config, client, users); err != nil {
		return stats, fmt.Errorf("setting preferences failed: %w", err)
	}

	var before serviceStats
	if err := client.GetJSON(ctx, "/stats", &before); err != nil {
		return stats, fmt.Errorf("stats retrieval failed: %w", err)
	}

	perUser, err := submitInteractions(ctx, config, users, stats)
	if err != nil {
		return stats, fmt.Errorf("interaction submission failed: %w", err)
	}

	if err := waitForSettle(ctx, config, client, before.Interactions+stats.InteractionsAccepted, before.Interactions, stats); err != nil {
		return stats, err
	}

	if err := verifyUsers(ctx, config, client, users, perUser, stats); err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}

	if config.OutputFile != "" {
		if err := savePlanToFile(ctx, config.OutputFile, users); err != nil {
			logger.Get().Warn(ctx, "failed to save plan to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "simulation completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running. Any 200 counts, the
// endpoint serves Prometheus metrics.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	code, _, err := client.Do(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if code != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

func setPreferences(ctx context.Context, config *Config, client *HTTPClient, users []User) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))

	for _, u := range users {
		g.Go(func() error {
			body := map[string][]string{"preferences": u.Preferences}
			code, _, err := client.Do(gctx, http.MethodPut, "/users/"+u.ID+"/preferences", body)
			if err != nil {
				return err
			}
			if code != http.StatusOK {
				return fmt.Errorf("user %s: %w: %d", u.ID, ErrUnexpectedStatus, code)
			}
			return nil
		})
	}
	return g.Wait()
}

// waitForSettle polls /stats until the stored interaction count reaches
// target or the settle timeout elapses.
func waitForSettle(ctx context.Context, config *Config, client *HTTPClient, target, baseline int, stats *Stats) error {
	logger.Get().Info(ctx, "waiting for interactions to be applied", logger.Int("target", target))

	ctx, cancel := context.WithTimeout(ctx, config.SettleTimeout)
	defer cancel()

	ticker := time.NewTicker(SettlePollInterval)
	defer ticker.Stop()

	for {
		var current serviceStats
		if err := client.GetJSON(ctx, "/stats", &current); err == nil {
			stats.InteractionsApplied = current.Interactions - baseline
			if current.Interactions >= target {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %d of %d applied", ErrNotSettled, stats.InteractionsApplied, target-baseline)
		case <-ticker.C:
		}
	}
}

// savePlanToFile writes the generated users and their interactions as a JSON
// array.
func savePlanToFile(ctx context.Context, filename string, users []User) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "plan saved to file", logger.String("filename", filename))
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var acceptRate, perSecond, topHitRate float64

	if stats.InteractionsPlanned > 0 {
		acceptRate = float64(stats.InteractionsAccepted) / float64(stats.InteractionsPlanned) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.InteractionsAccepted) / stats.Duration.Seconds()
	}
	if stats.UsersVerified > 0 {
		topHitRate = float64(stats.PreferredTopHits) / float64(stats.UsersVerified) * PercentageMultiplier
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("usersCreated", stats.UsersCreated),
		logger.Int("interactionsPlanned", stats.InteractionsPlanned),
		logger.Int("interactionsAccepted", stats.InteractionsAccepted),
		logger.Int("interactionsDuplicate", stats.InteractionsDuplicate),
		logger.Int("interactionsFailed", stats.InteractionsFailed),
		logger.Int("interactionsApplied", stats.InteractionsApplied),
		logger.Int("usersVerified", stats.UsersVerified),
		logger.Int("usersMismatched", stats.UsersMismatched),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("interactionsPerSecond", perSecond),
		logger.Float64("preferredTopHitRate", topHitRate))
}
