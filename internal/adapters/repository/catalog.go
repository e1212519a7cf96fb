package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/pkg/metrics"
)

// MemoryCatalog is an in-memory Catalog that keeps insertion order.
type MemoryCatalog struct {
	mu     sync.RWMutex
	events []model.Event
	byID   map[string]int

	seed  []model.Event
	now   func() time.Time
	newID func() string
}

// NewMemoryCatalog creates a catalog with the given options.
func NewMemoryCatalog(opts ...CatalogOption) *MemoryCatalog {
	c := &MemoryCatalog{
		byID:  make(map[string]int),
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	for _, e := range c.seed {
		_, _ = c.Create(context.Background(), e)
	}
	c.seed = nil
	return c
}

// List implements Catalog.
func (c *MemoryCatalog) List(_ context.Context) []model.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Event, len(c.events))
	for i, e := range c.events {
		out[i] = e.Clone()
	}
	return out
}

// Get implements Catalog.
func (c *MemoryCatalog) Get(_ context.Context, id string) (model.Event, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return model.Event{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c.events[i].Clone(), nil
}

// Create implements Catalog.
func (c *MemoryCatalog) Create(_ context.Context, e model.Event) (model.Event, error) { //nolint:gocritic // hugeParam
	if err := validate(e); err != nil {
		return model.Event{}, err
	}
	e = e.Clone()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = c.now().UTC()
	}
	e.Attendees = max(0, min(e.Attendees, e.Capacity))

	c.mu.Lock()
	defer c.mu.Unlock()
	if e.ID == "" {
		e.ID = c.newID()
	}
	if _, dup := c.byID[e.ID]; dup {
		return model.Event{}, fmt.Errorf("%w: %s", ErrDuplicateEvent, e.ID)
	}
	c.byID[e.ID] = len(c.events)
	c.events = append(c.events, e)
	metrics.UpdateCatalogEvents(len(c.events))
	return e.Clone(), nil
}

// Join implements Catalog.
func (c *MemoryCatalog) Join(_ context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[id]
	if !ok {
		metrics.RecordCatalogOperation("join", "not_found")
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if c.events[i].Full() {
		metrics.RecordCatalogOperation("join", "full")
		return false, nil
	}
	c.events[i].Attendees++
	metrics.RecordCatalogOperation("join", "ok")
	return true, nil
}

// Leave implements Catalog.
func (c *MemoryCatalog) Leave(_ context.Context, id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i, ok := c.byID[id]
	if !ok {
		metrics.RecordCatalogOperation("leave", "not_found")
		return false, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if c.events[i].Attendees <= 0 {
		metrics.RecordCatalogOperation("leave", "empty")
		return false, nil
	}
	c.events[i].Attendees--
	metrics.RecordCatalogOperation("leave", "ok")
	return true, nil
}

// Count implements Catalog.
func (c *MemoryCatalog) Count(_ context.Context) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.events)
}

func validate(e model.Event) error { //nolint:gocritic // hugeParam
	switch {
	case strings.TrimSpace(e.Title) == "":
		return fmt.Errorf("%w: missing title", ErrInvalidEvent)
	case e.Capacity < 1:
		return fmt.Errorf("%w: capacity must be at least 1", ErrInvalidEvent)
	}
	return nil
}
