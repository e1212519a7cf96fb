package service

import (
	"time"

	"github.com/okian/huddle/internal/domain/learning"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the total capacity of the interaction queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithPartitionCount sets the number of queue partitions and workers.
func WithPartitionCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.partitionCount = n
		}
	}
}

// WithDedupeSize sets how many interaction ids are remembered. Zero keeps
// every id.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxRecommendations caps the number of recommended events.
func WithMaxRecommendations(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRecommendations = n
		}
	}
}

// WithColdStartCount sets how many events a user without preferences gets.
func WithColdStartCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.coldStartCount = n
		}
	}
}

// WithResetMode sets how a model reset purges interactions.
func WithResetMode(mode string) Option {
	return func(s *Service) {
		s.resetMode = learning.ResetMode(mode)
	}
}

// WithCatalogEvents replaces the built-in reference events.
func WithCatalogEvents(events []model.Event) Option {
	return func(s *Service) {
		s.catalogEvents = events
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source for interaction timestamps and new events.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the generator for interaction ids.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}
