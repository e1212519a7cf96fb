package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/pkg/metrics"
)

// profileSlot guards one user's profile. A deleted slot is never written
// again; writers that lose the race fetch a fresh slot.
type profileSlot struct {
	mu      sync.Mutex
	p       model.Profile
	deleted bool
}

// MemoryStore is an in-memory Store with per-user profile locking.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]*profileSlot

	logMu sync.RWMutex
	log   map[string][]model.Interaction
	total int
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*profileSlot),
		log:      make(map[string][]model.Interaction),
	}
}

// AppendInteraction implements Store.
func (s *MemoryStore) AppendInteraction(_ context.Context, in model.Interaction) { //nolint:gocritic // hugeParam
	in.Snapshot.Tags = slices.Clone(in.Snapshot.Tags)

	s.logMu.Lock()
	s.log[in.UserID] = append(s.log[in.UserID], in)
	s.total++
	total := s.total
	s.logMu.Unlock()

	metrics.UpdateStoredInteractions(total)
}

// Interactions implements Store.
func (s *MemoryStore) Interactions(_ context.Context, userID string) []model.Interaction {
	s.logMu.RLock()
	defer s.logMu.RUnlock()
	return slices.Clone(s.log[userID])
}

// RemoveInteractions implements Store.
func (s *MemoryStore) RemoveInteractions(_ context.Context, userID string, firstOnly bool) int {
	s.logMu.Lock()
	records := s.log[userID]
	removed := len(records)
	switch {
	case removed == 0:
	case firstOnly && removed > 1:
		s.log[userID] = slices.Delete(records, 0, 1)
		removed = 1
	default:
		delete(s.log, userID)
	}
	s.total -= removed
	total := s.total
	s.logMu.Unlock()

	metrics.UpdateStoredInteractions(total)
	return removed
}

// InteractionCount implements Store.
func (s *MemoryStore) InteractionCount(_ context.Context) int {
	s.logMu.RLock()
	defer s.logMu.RUnlock()
	return s.total
}

// Profile implements Store.
func (s *MemoryStore) Profile(_ context.Context, userID string) (model.Profile, bool) {
	s.mu.RLock()
	slot, ok := s.profiles[userID]
	s.mu.RUnlock()
	if !ok {
		return model.Profile{}, false
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	if slot.deleted {
		return model.Profile{}, false
	}
	return slot.p.Clone(), true
}

// PutProfile implements Store.
func (s *MemoryStore) PutProfile(ctx context.Context, p model.Profile) { //nolint:gocritic // hugeParam
	replacement := p.Clone()
	s.UpdateProfile(ctx, p.UserID, func(cur *model.Profile) {
		*cur = replacement
	})
}

// UpdateProfile implements Store.
func (s *MemoryStore) UpdateProfile(_ context.Context, userID string, fn func(p *model.Profile)) {
	for {
		slot := s.slot(userID)
		slot.mu.Lock()
		if slot.deleted {
			slot.mu.Unlock()
			continue
		}
		fn(&slot.p)
		slot.mu.Unlock()
		return
	}
}

// DeleteProfile implements Store.
func (s *MemoryStore) DeleteProfile(_ context.Context, userID string) bool {
	s.mu.Lock()
	slot, ok := s.profiles[userID]
	delete(s.profiles, userID)
	users := len(s.profiles)
	s.mu.Unlock()

	if !ok {
		return false
	}
	slot.mu.Lock()
	slot.deleted = true
	slot.mu.Unlock()

	metrics.UpdateTrackedUsers(users)
	return true
}

// Users implements Store.
func (s *MemoryStore) Users(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// slot returns the user's slot, creating it when missing.
func (s *MemoryStore) slot(userID string) *profileSlot {
	s.mu.RLock()
	slot, ok := s.profiles[userID]
	s.mu.RUnlock()
	if ok {
		return slot
	}

	s.mu.Lock()
	slot, ok = s.profiles[userID]
	if !ok {
		slot = &profileSlot{p: model.NewProfile(userID)}
		s.profiles[userID] = slot
	}
	users := len(s.profiles)
	s.mu.Unlock()

	if !ok {
		metrics.UpdateTrackedUsers(users)
	}
	return slot
}
