// Package matching scores candidate events against a user's preferences and
// learned weights, and ranks them.
package matching

import (
	"slices"
	"sort"
	"strings"

	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/domain/taxonomy"
)

// Scoring constants.
const (
	categoryPoints   = 10
	tagPoints        = 3
	textPoints       = 2
	bonusPoints      = 8
	discoveryBonus   = 5
	discoveryAbove   = 1.5
	defaultTerm      = 1.0
	defaultTag       = 0.5
	defaultColdStart = 3
	defaultMax       = 8
)

// bonusRule adds bonusPoints * weight(pref) when pref is an explicit
// preference and match holds.
type bonusRule struct {
	pref  string
	match func(e *model.Event, title string) bool
}

var bonusRules = []bonusRule{ //nolint:gochecknoglobals // immutable rule table
	{taxonomy.Vegan, func(e *model.Event, title string) bool {
		return hasTag(e, "vegan") || strings.Contains(title, "vegan")
	}},
	{taxonomy.AnimalRights, func(e *model.Event, _ string) bool {
		return e.Category == taxonomy.AnimalRights || hasTag(e, "animals")
	}},
	{taxonomy.Pride, func(e *model.Event, _ string) bool {
		return hasTag(e, "pride") || hasTag(e, "lgbtq")
	}},
	{taxonomy.Hunting, func(e *model.Event, title string) bool {
		return hasTag(e, "hunting") || strings.Contains(title, "hunting")
	}},
	{taxonomy.Environmental, func(e *model.Event, _ string) bool {
		return e.Category == taxonomy.Environmental || hasTag(e, "environment")
	}},
}

// Result is a ranked event and its relevance score.
type Result struct {
	Event model.Event `json:"event"`
	Score float64     `json:"score"`
}

// Ranking is the output of Rank.
type Ranking struct {
	Results []Result `json:"results"`
	// ColdStart is set when the user had no explicit preferences and the
	// results are unscored catalog order.
	ColdStart bool `json:"cold_start"`
}

// Matcher ranks events. It holds no per-user state and is safe for
// concurrent use.
type Matcher struct {
	coldStart  int
	maxResults int
}

// Option applies a configuration option to the Matcher.
type Option func(*Matcher)

// WithColdStartCount sets how many catalog events a user without
// preferences receives.
func WithColdStartCount(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.coldStart = n
		}
	}
}

// WithMaxResults caps the ranked list length.
func WithMaxResults(n int) Option {
	return func(m *Matcher) {
		if n > 0 {
			m.maxResults = n
		}
	}
}

// New creates a Matcher.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		coldStart:  defaultColdStart,
		maxResults: defaultMax,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Rank scores every candidate and returns the best ones, highest first.
// Events scoring zero or less are dropped; equal scores keep catalog order.
func (m *Matcher) Rank(p *model.Profile, events []model.Event) Ranking {
	if len(p.Preferences) == 0 {
		n := min(m.coldStart, len(events))
		out := make([]Result, n)
		for i := range n {
			out[i] = Result{Event: events[i].Clone()}
		}
		return Ranking{Results: out, ColdStart: true}
	}

	out := make([]Result, 0, len(events))
	for i := range events {
		if s := m.Score(p, &events[i]); s > 0 {
			out = append(out, Result{Event: events[i].Clone(), Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > m.maxResults {
		out = out[:m.maxResults]
	}
	return Ranking{Results: out}
}

// Score computes the relevance of e for the profile.
func (m *Matcher) Score(p *model.Profile, e *model.Event) float64 {
	var score float64
	prefs := p.Preferences

	if slices.Contains(prefs, e.Category) {
		score += categoryPoints * p.Weight(e.Category, defaultTerm)
	}

	lowerPrefs := make([]string, len(prefs))
	for i, pref := range prefs {
		lowerPrefs[i] = strings.ToLower(pref)
	}

	for _, tag := range e.Tags {
		lt := strings.ToLower(tag)
		for _, lp := range lowerPrefs {
			if strings.Contains(lt, lp) || strings.Contains(lp, lt) {
				score += tagPoints * p.Weight(tag, defaultTag)
				break
			}
		}
	}

	title := strings.ToLower(e.Title)
	description := strings.ToLower(e.Description)
	for i, pref := range prefs {
		if strings.Contains(title, lowerPrefs[i]) || strings.Contains(description, lowerPrefs[i]) {
			score += textPoints * p.Weight(pref, defaultTerm)
		}
	}

	for _, r := range bonusRules {
		if slices.Contains(prefs, r.pref) && r.match(e, title) {
			score += bonusPoints * p.Weight(r.pref, defaultTerm)
		}
	}

	if p.Weight(e.Category, 0) > discoveryAbove {
		score += discoveryBonus
	}
	return score
}

func hasTag(e *model.Event, want string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}
