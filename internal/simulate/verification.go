package simulate

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/okian/huddle/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// ErrMismatch is returned when a user's recorded interaction count differs
// from the number the service accepted.
var ErrMismatch = errors.New("insights do not match accepted interactions")

// verifyUsers checks every user's insights against the accepted count and
// tallies how often the top recommendation falls in a preferred category.
func verifyUsers(ctx context.Context, config *Config, client *HTTPClient, users []User, accepted []int, stats *Stats) error {
	logger.Get().Info(ctx, "verifying users", logger.Int("users", len(users)))

	var verified, mismatched, topHits int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))

	for i, u := range users {
		g.Go(func() error {
			var in Insights
			if err := client.GetJSON(gctx, "/users/"+u.ID+"/insights", &in); err != nil {
				return err
			}
			if in.TotalInteractions != accepted[i] {
				atomic.AddInt64(&mismatched, 1)
				logger.Get().Warn(gctx, "insights mismatch",
					logger.String("userID", u.ID),
					logger.Int("want", accepted[i]),
					logger.Int("got", in.TotalInteractions))
			}

			var recs Recommendations
			if err := client.GetJSON(gctx, "/users/"+u.ID+"/recommendations", &recs); err != nil {
				return err
			}
			if topInPreferences(&recs, u.Preferences) {
				atomic.AddInt64(&topHits, 1)
			}
			atomic.AddInt64(&verified, 1)
			return nil
		})
	}
	err := g.Wait()

	stats.UsersVerified = int(verified)
	stats.UsersMismatched = int(mismatched)
	stats.PreferredTopHits = int(topHits)

	if err != nil {
		return err
	}
	if mismatched > 0 {
		return fmt.Errorf("%w: %d users", ErrMismatch, mismatched)
	}
	logger.Get().Info(ctx, "verification completed",
		logger.Int("verified", stats.UsersVerified),
		logger.Int("preferredTopHits", stats.PreferredTopHits))
	return nil
}

func topInPreferences(recs *Recommendations, preferences []string) bool {
	if recs.ColdStart || len(recs.Recommendations) == 0 {
		return false
	}
	return slices.Contains(preferences, recs.Recommendations[0].Event.Category)
}
