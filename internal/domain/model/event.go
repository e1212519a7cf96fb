// Package model contains domain models passed between layers.
package model

import (
	"slices"
	"time"
)

// Event is a catalog entry users can view, join, skip or leave.
// Attendees never exceeds Capacity and never drops below zero.
type Event struct {
	ID          string    `json:"id" koanf:"id"`
	Title       string    `json:"title" koanf:"title"`
	Description string    `json:"description" koanf:"description"`
	Category    string    `json:"category" koanf:"category"`
	Location    string    `json:"location" koanf:"location"`
	Date        string    `json:"date" koanf:"date"` // YYYY-MM-DD
	Time        string    `json:"time" koanf:"time"` // HH:MM
	Capacity    int       `json:"capacity" koanf:"capacity"`
	Attendees   int       `json:"attendees" koanf:"attendees"`
	HostID      string    `json:"host_id" koanf:"host_id"`
	HostName    string    `json:"host_name" koanf:"host_name"`
	CreatedAt   time.Time `json:"created_at" koanf:"created_at"`
	Tags        []string  `json:"tags" koanf:"tags"`
}

// Clone returns a copy that shares no slices with e.
func (e Event) Clone() Event { //nolint:gocritic // hugeParam
	e.Tags = slices.Clone(e.Tags)
	return e
}

// Full reports whether the event has reached capacity.
func (e Event) Full() bool { //nolint:gocritic // hugeParam
	return e.Attendees >= e.Capacity
}

// Snapshot returns the fields the learning engine reads, frozen at call time.
func (e Event) Snapshot() Snapshot { //nolint:gocritic // hugeParam
	return Snapshot{
		Category:    e.Category,
		Tags:        slices.Clone(e.Tags),
		Title:       e.Title,
		Description: e.Description,
	}
}
