// Package config defines service configuration and loads it from defaults,
// an optional YAML file and HUDDLE_ environment variables.
package config

import (
	"context"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" validate:"required"`

	// QueueSize bounds the interaction queue across all partitions.
	QueueSize int `koanf:"queue_size" validate:"min=1"`

	// PartitionCount sets the number of queue partitions and learning workers.
	PartitionCount int `koanf:"partition_count" validate:"min=1,max=1024"`

	// DedupeSize bounds the remembered interaction ids. Zero means unbounded.
	DedupeSize int `koanf:"dedupe_size" validate:"min=0"`

	// MaxRecommendations caps a ranked recommendation list.
	MaxRecommendations int `koanf:"max_recommendations" validate:"min=1"`

	// ColdStartCount is how many catalog events a user without preferences gets.
	ColdStartCount int `koanf:"cold_start_count" validate:"min=1"`

	// ResetMode is "all" to purge every interaction of a user on reset, or
	// "first" to purge only the oldest one.
	ResetMode string `koanf:"reset_mode" validate:"oneof=all first"`

	// CatalogFile optionally points at a YAML file with seed events.
	// When empty the built-in demo events are used.
	CatalogFile string `koanf:"catalog_file"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0s"`
}

// New returns a Config holding the defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		QueueSize:          10_000,
		PartitionCount:     4,
		DedupeSize:         100_000,
		MaxRecommendations: 8,
		ColdStartCount:     3,
		ResetMode:          "all",
		ShutdownTimeout:    10 * time.Second,
	}
}
