package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL         string        // Base URL of the service
	NumUsers        int           // Number of simulated users
	InteractionsPer int           // Interactions submitted per user
	Workers         int           // Number of concurrent workers
	Timeout         time.Duration // HTTP request timeout
	SettleTimeout   time.Duration // How long to wait for interactions to be applied
	OutputFile      string        // Output file for the generated plan
	Verbose         bool          // Enable verbose logging
}

// Event is the subset of a catalog event the simulator needs.
type Event struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// Interaction is one planned submission.
type Interaction struct {
	InteractionID string `json:"interaction_id"`
	EventID       string `json:"event_id"`
	Action        string `json:"action"`
}

// User is a simulated user with explicit preferences and a planned
// interaction sequence.
type User struct {
	ID           string        `json:"user_id"`
	Preferences  []string      `json:"preferences"`
	Interactions []Interaction `json:"interactions"`
}

// AckResponse represents the response from an interaction submission.
type AckResponse struct {
	Status        string `json:"status"`
	InteractionID string `json:"interaction_id"`
	Duplicate     bool   `json:"duplicate"`
}

// Insights mirrors GET /users/{id}/insights.
type Insights struct {
	UserID            string `json:"user_id"`
	TotalInteractions int    `json:"total_interactions"`
	JoinCount         int    `json:"join_count"`
	ViewCount         int    `json:"view_count"`
	SkipCount         int    `json:"skip_count"`
	LeaveCount        int    `json:"leave_count"`
}

// Recommendations mirrors GET /users/{id}/recommendations.
type Recommendations struct {
	UserID          string `json:"user_id"`
	ColdStart       bool   `json:"cold_start"`
	Recommendations []struct {
		Event Event   `json:"event"`
		Score float64 `json:"score"`
	} `json:"recommendations"`
}

// Stats holds run statistics.
type Stats struct {
	UsersCreated          int
	InteractionsPlanned   int
	InteractionsAccepted  int
	InteractionsDuplicate int
	InteractionsFailed    int
	InteractionsApplied   int
	UsersVerified         int
	UsersMismatched       int
	PreferredTopHits      int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
