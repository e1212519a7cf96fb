package repository

import (
	"time"

	"github.com/okian/huddle/internal/domain/model"
)

// CatalogOption applies a configuration option to the MemoryCatalog.
type CatalogOption func(*MemoryCatalog)

// WithEvents seeds the catalog. Invalid or duplicate events are skipped.
func WithEvents(events []model.Event) CatalogOption {
	return func(c *MemoryCatalog) {
		c.seed = append(c.seed, events...)
	}
}

// WithClock sets the time source used for creation timestamps.
func WithClock(now func() time.Time) CatalogOption {
	return func(c *MemoryCatalog) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator sets the generator used for events created without an id.
func WithIDGenerator(gen func() string) CatalogOption {
	return func(c *MemoryCatalog) {
		if gen != nil {
			c.newID = gen
		}
	}
}
