// Package learning adjusts per-user term weights from observed interactions.
//
// Weights live in a single flat term -> weight map per user. Categories and
// tags share that map, so a tag can show up in category listings.
package learning

import (
	"context"
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/okian/huddle/internal/domain/model"
)

// userLockStripes is the number of mutexes users are hashed onto.
const userLockStripes = 64

// Weight bounds.
const (
	MinWeight = 0.1
	MaxWeight = 3.0
)

// Defaults differ per call site; each has its own name.
const (
	explicitPreferenceWeight = 1.0
	unseenCategoryWeight     = 0.5
	unseenTagWeight          = 0.3
	tagDeltaFactor           = 0.5

	discoveryCategoryBelow = 0.8
	discoveryCategoryFloor = 0.3
	discoveryCategoryStep  = 0.05
	discoveryTagBelow      = 0.5
	discoveryTagFloor      = 0.2
	discoveryTagStep       = 0.02

	topTermThreshold        = 0.8
	topTermLimit            = 5
	discoveredTermThreshold = 1.2
	discoveredTermLimit     = 3
)

var actionDeltas = map[model.Action]float64{ //nolint:gochecknoglobals // immutable lookup table
	model.ActionJoin:  0.3,
	model.ActionView:  0.1,
	model.ActionSkip:  -0.1,
	model.ActionLeave: -0.2,
}

// ResetMode selects how many interaction records Reset purges.
type ResetMode string

// Reset modes.
const (
	// ResetAll removes every interaction of the user.
	ResetAll ResetMode = "all"
	// ResetFirst removes only the oldest interaction of the user.
	ResetFirst ResetMode = "first"
)

// Store persists interactions and profiles. Implementations must make
// UpdateProfile atomic per user.
type Store interface {
	AppendInteraction(ctx context.Context, in model.Interaction)
	Interactions(ctx context.Context, userID string) []model.Interaction
	RemoveInteractions(ctx context.Context, userID string, firstOnly bool) int

	Profile(ctx context.Context, userID string) (model.Profile, bool)
	PutProfile(ctx context.Context, p model.Profile)
	// UpdateProfile runs fn on the user's profile, creating it when missing.
	UpdateProfile(ctx context.Context, userID string, fn func(p *model.Profile))
	DeleteProfile(ctx context.Context, userID string) bool
}

// TermWeight pairs a term with its weight.
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// Stats summarises a user's interactions and strongest terms.
type Stats struct {
	TotalInteractions     int          `json:"total_interactions"`
	JoinCount             int          `json:"join_count"`
	ViewCount             int          `json:"view_count"`
	SkipCount             int          `json:"skip_count"`
	LeaveCount            int          `json:"leave_count"`
	TopCategories         []TermWeight `json:"top_categories"`
	DiscoveredPreferences []string     `json:"discovered_preferences"`
}

// Engine applies interactions to profiles held in a Store.
//
// Writes for one user are serialized: Record, Initialize and Reset each run
// their store calls under the user's stripe lock, so a reset never lands
// between appending an interaction and applying it.
type Engine struct {
	store     Store
	resetMode ResetMode
	locks     [userLockStripes]sync.Mutex
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithResetMode sets how Reset purges interactions. Unknown modes are ignored.
func WithResetMode(mode ResetMode) Option {
	return func(e *Engine) {
		if mode == ResetAll || mode == ResetFirst {
			e.resetMode = mode
		}
	}
}

// NewEngine creates an Engine backed by store.
func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		resetMode: ResetAll,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Initialize replaces the user's profile with one seeded from the explicit
// preferences, each at weight 1.0.
func (e *Engine) Initialize(ctx context.Context, userID string, preferences []string) {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	p := model.NewProfile(userID)
	for _, pref := range preferences {
		if pref == "" {
			continue
		}
		if _, dup := p.Weights[pref]; !dup {
			p.Preferences = append(p.Preferences, pref)
		}
		p.Set(pref, explicitPreferenceWeight)
	}
	e.store.PutProfile(ctx, p)
}

// Record appends the interaction and updates the user's weights from it.
func (e *Engine) Record(ctx context.Context, in model.Interaction) { //nolint:gocritic // hugeParam
	mu := e.userLock(in.UserID)
	mu.Lock()
	defer mu.Unlock()

	e.store.AppendInteraction(ctx, in)
	e.store.UpdateProfile(ctx, in.UserID, func(p *model.Profile) {
		apply(p, in.Action, in.Snapshot)
	})
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	return &e.locks[xxhash.Sum64String(userID)%userLockStripes]
}

// apply runs the base update, the discovery pass and the final clamp.
func apply(p *model.Profile, action model.Action, s model.Snapshot) { //nolint:gocritic // hugeParam
	delta := actionDeltas[action]

	p.Set(s.Category, p.Weight(s.Category, unseenCategoryWeight)+delta)
	for _, tag := range s.Tags {
		p.Set(tag, p.Weight(tag, unseenTagWeight)+delta*tagDeltaFactor)
	}

	if action.Positive() {
		if w := p.Weight(s.Category, 0); w == 0 || w < discoveryCategoryBelow {
			p.Set(s.Category, p.Weight(s.Category, discoveryCategoryFloor)+discoveryCategoryStep)
		}
		for _, tag := range s.Tags {
			if w := p.Weight(tag, 0); w == 0 || w < discoveryTagBelow {
				p.Set(tag, p.Weight(tag, discoveryTagFloor)+discoveryTagStep)
			}
		}
	}

	p.Weights[s.Category] = clamp(p.Weights[s.Category])
	for _, tag := range s.Tags {
		p.Weights[tag] = clamp(p.Weights[tag])
	}
}

func clamp(w float64) float64 {
	return max(MinWeight, min(MaxWeight, w))
}

// Profile returns the user's profile, or an empty one for unknown users.
func (e *Engine) Profile(ctx context.Context, userID string) model.Profile {
	if p, ok := e.store.Profile(ctx, userID); ok {
		return p
	}
	return model.NewProfile(userID)
}

// Weights returns a copy of the user's weight map. Unknown users get an
// empty map.
func (e *Engine) Weights(ctx context.Context, userID string) map[string]float64 {
	return e.Profile(ctx, userID).Weights
}

// Stats returns interaction counts and the strongest terms for the user.
func (e *Engine) Stats(ctx context.Context, userID string) Stats {
	st := Stats{
		TopCategories:         []TermWeight{},
		DiscoveredPreferences: []string{},
	}
	for _, in := range e.store.Interactions(ctx, userID) {
		st.TotalInteractions++
		switch in.Action {
		case model.ActionJoin:
			st.JoinCount++
		case model.ActionView:
			st.ViewCount++
		case model.ActionSkip:
			st.SkipCount++
		case model.ActionLeave:
			st.LeaveCount++
		}
	}

	p := e.Profile(ctx, userID)
	for _, term := range p.Terms {
		w := p.Weights[term]
		if w > topTermThreshold {
			st.TopCategories = append(st.TopCategories, TermWeight{Term: term, Weight: w})
		}
		if w > discoveredTermThreshold && len(st.DiscoveredPreferences) < discoveredTermLimit {
			st.DiscoveredPreferences = append(st.DiscoveredPreferences, term)
		}
	}
	sort.SliceStable(st.TopCategories, func(i, j int) bool {
		return st.TopCategories[i].Weight > st.TopCategories[j].Weight
	})
	if len(st.TopCategories) > topTermLimit {
		st.TopCategories = st.TopCategories[:topTermLimit]
	}
	return st
}

// Reset deletes the user's profile and purges interactions according to
// the configured ResetMode. It returns the number of purged interactions.
func (e *Engine) Reset(ctx context.Context, userID string) int {
	mu := e.userLock(userID)
	mu.Lock()
	defer mu.Unlock()

	e.store.DeleteProfile(ctx, userID)
	return e.store.RemoveInteractions(ctx, userID, e.resetMode == ResetFirst)
}
