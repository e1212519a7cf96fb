// Package repository holds the in-memory interaction store and the event
// catalog.
package repository

import (
	"context"

	"github.com/okian/huddle/internal/domain/model"
)

// Store keeps the append-only interaction log and per-user profiles.
// It satisfies learning.Store.
type Store interface {
	// AppendInteraction adds a record to the log.
	AppendInteraction(ctx context.Context, in model.Interaction)
	// Interactions returns the user's records in append order.
	Interactions(ctx context.Context, userID string) []model.Interaction
	// RemoveInteractions purges the user's records, or only the oldest one
	// when firstOnly is set. It returns the number removed.
	RemoveInteractions(ctx context.Context, userID string, firstOnly bool) int

	// Profile returns a copy of the user's profile.
	Profile(ctx context.Context, userID string) (model.Profile, bool)
	// PutProfile replaces the user's profile.
	PutProfile(ctx context.Context, p model.Profile)
	// UpdateProfile runs fn under the user's lock, creating the profile when missing.
	UpdateProfile(ctx context.Context, userID string, fn func(p *model.Profile))
	// DeleteProfile removes the profile and reports whether it existed.
	DeleteProfile(ctx context.Context, userID string) bool

	// Users returns the number of profiles.
	Users(ctx context.Context) int
	// InteractionCount returns the total number of logged interactions.
	InteractionCount(ctx context.Context) int
}

// Catalog supplies candidate events and tracks attendance.
type Catalog interface {
	// List returns every event in insertion order.
	List(ctx context.Context) []model.Event
	// Get returns one event or ErrNotFound.
	Get(ctx context.Context, id string) (model.Event, error)
	// Create stores a new event, assigning an id and creation time when absent.
	Create(ctx context.Context, e model.Event) (model.Event, error)
	// Join increments attendance. It returns false when the event is full.
	Join(ctx context.Context, id string) (bool, error)
	// Leave decrements attendance. It returns false when nobody attends.
	Leave(ctx context.Context, id string) (bool, error)
	// Count returns the number of events.
	Count(ctx context.Context) int
}
