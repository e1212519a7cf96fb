package model

import (
	"maps"
	"slices"
)

// Profile is a user's explicit preferences plus learned term weights.
//
// Weights is a flat term -> weight map; categories, tags and free keywords
// share it. Terms records the order in which terms were first written so
// that listings derived from the map are reproducible.
type Profile struct {
	UserID      string
	Preferences []string
	Weights     map[string]float64
	Terms       []string
}

// NewProfile returns an empty profile for userID.
func NewProfile(userID string) Profile {
	return Profile{
		UserID:  userID,
		Weights: make(map[string]float64),
	}
}

// Weight returns the weight of term, or def when the term is unset.
// A stored zero counts as unset.
func (p *Profile) Weight(term string, def float64) float64 {
	if w, ok := p.Weights[term]; ok && w != 0 {
		return w
	}
	return def
}

// Set writes the weight of term, remembering first-write order.
func (p *Profile) Set(term string, w float64) {
	if p.Weights == nil {
		p.Weights = make(map[string]float64)
	}
	if _, ok := p.Weights[term]; !ok {
		p.Terms = append(p.Terms, term)
	}
	p.Weights[term] = w
}

// Clone returns a deep copy.
func (p *Profile) Clone() Profile {
	out := Profile{
		UserID:      p.UserID,
		Preferences: slices.Clone(p.Preferences),
		Terms:       slices.Clone(p.Terms),
		Weights:     maps.Clone(p.Weights),
	}
	if out.Weights == nil {
		out.Weights = make(map[string]float64)
	}
	return out
}
