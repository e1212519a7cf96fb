package model

import (
	"slices"
	"strings"
	"time"
)

// Action is an observed engagement with an event.
type Action string

// Supported actions.
const (
	ActionJoin  Action = "join"
	ActionView  Action = "view"
	ActionSkip  Action = "skip"
	ActionLeave Action = "leave"
)

// Actions lists every supported action in a stable order.
var Actions = []Action{ActionJoin, ActionView, ActionSkip, ActionLeave} //nolint:gochecknoglobals // fixed set

// ParseAction converts s into an Action. The second return value is false
// for unknown actions.
func ParseAction(s string) (Action, bool) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Actions, a) {
		return a, true
	}
	return "", false
}

// Positive reports whether the action signals interest.
func (a Action) Positive() bool {
	return a == ActionJoin || a == ActionView
}

// Snapshot holds the event fields copied into an interaction so later
// edits of the event do not change what was learned from it.
type Snapshot struct {
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

// Interaction is one entry of the append-only interaction log.
type Interaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	EventID   string    `json:"event_id"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
}
