// Package categorize infers an event category from its title, description
// and tags by scoring every taxonomy category against the text.
package categorize

import (
	"sort"
	"strings"

	"github.com/okian/huddle/internal/domain/taxonomy"
)

// Scoring constants.
const (
	phraseMatchPoints    = 2
	firstWordMatchPoints = 1
	defaultSuggestions   = 3
)

// Source tells how a category was inferred.
type Source string

// Inference sources.
const (
	SourceKeyword Source = "keyword"
	SourceContext Source = "context"
	SourceDefault Source = "default"
)

// contextRule maps any of its triggers to a category. Rules are evaluated
// in order and the first hit wins.
type contextRule struct {
	triggers []string
	category string
}

var contextRules = []contextRule{ //nolint:gochecknoglobals // immutable rule table
	{[]string{"volunteer", "help", "service"}, taxonomy.CommunityService},
	{[]string{"learn", "teach", "education"}, taxonomy.Education},
	{[]string{"food", "cook", "meal"}, taxonomy.Cooking},
	{[]string{"outdoor", "nature", "park"}, taxonomy.OutdoorSports},
	{[]string{"art", "creative", "design"}, taxonomy.Art},
	{[]string{"music", "sound", "concert"}, taxonomy.Music},
	{[]string{"tech", "computer", "digital"}, taxonomy.Technology},
	{[]string{"health", "fitness", "exercise"}, taxonomy.Fitness},
	{[]string{"business", "professional", "career"}, taxonomy.Business},
	{[]string{"social", "community", "group"}, taxonomy.CommunityService},
}

// CategoryScore is the keyword score of one category.
type CategoryScore struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
}

// Analysis is the full result of categorizing a piece of text.
type Analysis struct {
	Category    string          `json:"category"`
	Source      Source          `json:"source"`
	Suggestions []string        `json:"suggestions"`
	Scores      []CategoryScore `json:"scores"` // positive scores only, best first
}

type keyword struct {
	phrase    string
	firstWord string
}

type entry struct {
	name     string
	keywords []keyword
}

// Engine scores text against a fixed taxonomy. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	entries        []entry
	fallback       string
	maxSuggestions int
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCategories replaces the built-in taxonomy.
func WithCategories(categories []taxonomy.Category) Option {
	return func(e *Engine) {
		if len(categories) > 0 {
			e.entries = buildEntries(categories)
		}
	}
}

// WithMaxSuggestions caps the number of suggestions.
func WithMaxSuggestions(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSuggestions = n
		}
	}
}

// New creates an Engine over the built-in taxonomy.
func New(opts ...Option) *Engine {
	e := &Engine{
		entries:        buildEntries(taxonomy.All()),
		fallback:       taxonomy.CommunityService,
		maxSuggestions: defaultSuggestions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func buildEntries(categories []taxonomy.Category) []entry {
	entries := make([]entry, len(categories))
	for i, c := range categories {
		kws := make([]keyword, len(c.Keywords))
		for j, k := range c.Keywords {
			phrase := strings.ToLower(k)
			kws[j] = keyword{phrase: phrase, firstWord: strings.Split(phrase, " ")[0]}
		}
		entries[i] = entry{name: c.Name, keywords: kws}
	}
	return entries
}

// Infer returns the best category for the text.
func (e *Engine) Infer(title, description string, tags []string) string {
	category, _ := e.infer(blob(title, description, tags))
	return category
}

// Suggest returns up to three categories with a positive keyword score,
// best first. It never falls back to contextual rules.
func (e *Engine) Suggest(title, description string, tags []string) []string {
	return e.suggestions(e.ranked(blob(title, description, tags)))
}

// Analyze returns the inferred category together with suggestions and the
// positive category scores.
func (e *Engine) Analyze(title, description string, tags []string) Analysis {
	text := blob(title, description, tags)
	category, source := e.infer(text)
	ranked := e.ranked(text)
	return Analysis{
		Category:    category,
		Source:      source,
		Suggestions: e.suggestions(ranked),
		Scores:      ranked,
	}
}

func (e *Engine) infer(text string) (string, Source) {
	best, bestScore := "", 0
	for _, en := range e.entries {
		// Strictly greater keeps the first category on ties.
		if s := en.score(text); s > bestScore {
			best, bestScore = en.name, s
		}
	}
	if bestScore > 0 {
		return best, SourceKeyword
	}
	for _, r := range contextRules {
		for _, t := range r.triggers {
			if strings.Contains(text, t) {
				return r.category, SourceContext
			}
		}
	}
	return e.fallback, SourceDefault
}

// ranked returns the positive scores sorted best first, taxonomy order on ties.
func (e *Engine) ranked(text string) []CategoryScore {
	out := make([]CategoryScore, 0, len(e.entries))
	for _, en := range e.entries {
		if s := en.score(text); s > 0 {
			out = append(out, CategoryScore{Category: en.name, Score: s})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (e *Engine) suggestions(ranked []CategoryScore) []string {
	n := min(len(ranked), e.maxSuggestions)
	out := make([]string, n)
	for i := range n {
		out[i] = ranked[i].Category
	}
	return out
}

// score sums phrase and first-word hits. Both checks may fire for the same
// keyword.
func (en *entry) score(text string) int {
	score := 0
	for _, k := range en.keywords {
		if strings.Contains(text, k.phrase) {
			score += phraseMatchPoints
		}
		if strings.Contains(text, k.firstWord) {
			score += firstWordMatchPoints
		}
	}
	return score
}

func blob(title, description string, tags []string) string {
	return strings.ToLower(title + " " + description + " " + strings.Join(tags, " "))
}
