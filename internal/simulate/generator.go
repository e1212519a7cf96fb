package simulate

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"slices"

	"github.com/google/uuid"
	"github.com/okian/huddle/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	maxPreferences     = 2
)

// Probabilities of the planned action, by whether the event matches the
// user's preferences.
const (
	preferredJoinChance = 0.6
	otherSkipChance     = 0.7
	leaveChance         = 0.05
)

// ErrEmptyCatalog is returned when there is nothing to interact with.
var ErrEmptyCatalog = errors.New("catalog has no events")

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// randomIndex returns a random index in [0, n).
func randomIndex(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generatePlan creates users with preferences drawn from the catalog's
// categories and a biased interaction sequence for each.
func generatePlan(ctx context.Context, config *Config, catalog []Event, stats *Stats) ([]User, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}
	logger.Get().Info(ctx, "generating simulation plan",
		logger.Int("users", config.NumUsers),
		logger.Int("interactionsPerUser", config.InteractionsPer))

	categories := distinctCategories(catalog)
	users := make([]User, config.NumUsers)
	for i := range users {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during plan generation: %w", err)
		}
		users[i] = generateUser(categories, catalog, config.InteractionsPer)
	}

	stats.UsersCreated = len(users)
	stats.InteractionsPlanned = len(users) * config.InteractionsPer
	logger.Get().Info(ctx, "generated plan", logger.Int("interactions", stats.InteractionsPlanned))
	return users, nil
}

func generateUser(categories []string, catalog []Event, n int) User {
	u := User{
		ID:           "sim-" + uuid.NewString(),
		Preferences:  pickPreferences(categories),
		Interactions: make([]Interaction, n),
	}
	for i := range u.Interactions {
		e := catalog[randomIndex(len(catalog))]
		u.Interactions[i] = Interaction{
			InteractionID: uuid.NewString(),
			EventID:       e.ID,
			Action:        pickAction(slices.Contains(u.Preferences, e.Category)),
		}
	}
	return u
}

func pickPreferences(categories []string) []string {
	if len(categories) == 0 {
		return nil
	}
	n := 1 + randomIndex(min(maxPreferences, len(categories)))
	pool := slices.Clone(categories)
	out := make([]string, 0, n)
	for range n {
		i := randomIndex(len(pool))
		out = append(out, pool[i])
		pool = slices.Delete(pool, i, i+1)
	}
	return out
}

// pickAction favours joins for preferred events and skips for the rest.
func pickAction(preferred bool) string {
	r := getRandomFloat()
	switch {
	case r < leaveChance:
		return "leave"
	case preferred && r < preferredJoinChance:
		return "join"
	case !preferred && r < otherSkipChance:
		return "skip"
	default:
		return "view"
	}
}

func distinctCategories(catalog []Event) []string {
	var out []string
	for _, e := range catalog {
		if e.Category != "" && !slices.Contains(out, e.Category) {
			out = append(out, e.Category)
		}
	}
	return out
}
