package simulate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/okian/huddle/pkg/logger"
)

// ErrUnexpectedStatus is returned when the service answers with a status the
// simulator does not expect.
var ErrUnexpectedStatus = errors.New("unexpected status")

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Do sends body (when non-nil) as JSON and returns the status code and the
// raw response body.
func (c *HTTPClient) Do(ctx context.Context, method, path string, body any) (int, []byte, error) {
	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, data, nil
}

// GetJSON decodes a 200 response from path into v.
func (c *HTTPClient) GetJSON(ctx context.Context, path string, v any) error {
	code, data, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if code != http.StatusOK {
		return fmt.Errorf("GET %s: %w: %d", path, ErrUnexpectedStatus, code)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

type submitResult int

const (
	resultAccepted submitResult = iota
	resultDuplicate
	resultFailed
)

// submitInteractions posts every planned interaction and returns the number
// accepted per user, indexed like users. Each user is handled by a single
// worker so a user's interactions arrive in plan order.
func submitInteractions(ctx context.Context, config *Config, users []User, stats *Stats) ([]int, error) {
	logger.Get().Info(ctx, "submitting interactions",
		logger.Int("users", len(users)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.BaseURL, config.Timeout)

	var accepted, duplicate, failed int64
	perUser := make([]int, len(users))

	idxChan := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for range max(config.Workers, 1) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxChan {
				u := users[i]
				for _, in := range u.Interactions {
					if ctx.Err() != nil {
						return
					}
					switch submitSingle(ctx, client, u.ID, in) {
					case resultAccepted:
						perUser[i]++
						atomic.AddInt64(&accepted, 1)
					case resultDuplicate:
						atomic.AddInt64(&duplicate, 1)
					case resultFailed:
						atomic.AddInt64(&failed, 1)
					}
				}
				if config.Verbose {
					logger.Get().Debug(ctx, "user submitted", logger.String("userID", u.ID))
				}
			}
		}()
	}

	go func() {
		defer close(idxChan)
		for i := range users {
			select {
			case <-ctx.Done():
				return
			case idxChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.InteractionsAccepted = int(atomic.LoadInt64(&accepted))
	stats.InteractionsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.InteractionsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "interaction submission completed",
		logger.Int("accepted", stats.InteractionsAccepted),
		logger.Int("duplicate", stats.InteractionsDuplicate),
		logger.Int("failed", stats.InteractionsFailed))

	if err := ctx.Err(); err != nil {
		return perUser, fmt.Errorf("submission interrupted: %w", err)
	}
	return perUser, nil
}

func submitSingle(ctx context.Context, client *HTTPClient, userID string, in Interaction) submitResult {
	code, data, err := client.Do(ctx, http.MethodPost, "/users/"+userID+"/interactions", in)
	if err != nil {
		return resultFailed
	}

	switch code {
	case http.StatusAccepted:
		return resultAccepted
	case http.StatusOK:
		var ack AckResponse
		if err := json.Unmarshal(data, &ack); err == nil && !ack.Duplicate {
			return resultAccepted
		}
		return resultDuplicate
	default:
		return resultFailed
	}
}
