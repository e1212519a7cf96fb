// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"
	service "github.com/okian/huddle/internal/app"
	"github.com/okian/huddle/internal/domain/categorize"
	"github.com/okian/huddle/internal/domain/learning"
	"github.com/okian/huddle/internal/domain/matching"
	"github.com/okian/huddle/internal/domain/model"
	"github.com/okian/huddle/internal/validation"
)

const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. *service.Service satisfies it.
type Dependencies interface {
	Categorize(ctx context.Context, title, description string, tags []string) categorize.Analysis

	ListEvents(ctx context.Context) []model.Event
	GetEvent(ctx context.Context, id string) (model.Event, error)
	CreateEvent(ctx context.Context, e model.Event) (model.Event, error)
	JoinEvent(ctx context.Context, userID, eventID string) (service.Receipt, error)
	LeaveEvent(ctx context.Context, userID, eventID string) (service.Receipt, error)

	InitPreferences(ctx context.Context, userID string, preferences []string) (model.Profile, error)
	Profile(ctx context.Context, userID string) model.Profile
	SubmitInteraction(ctx context.Context, sub service.Submission) (service.Receipt, error)
	Recommend(ctx context.Context, userID string) matching.Ranking
	Weights(ctx context.Context, userID string) map[string]float64
	Insights(ctx context.Context, userID string) learning.Stats
	ResetModel(ctx context.Context, userID string) int
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	categorizeHandler *CategorizeHandler
	eventsHandler     *EventsHandler
	usersHandler      *UsersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		categorizeHandler: NewCategorizeHandler(deps),
		eventsHandler:     NewEventsHandler(deps),
		usersHandler:      NewUsersHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /categories", MetricsMiddleware(s.categorizeHandler.HandleListCategories, "categories"))
	mux.HandleFunc("POST /categorize", MetricsMiddleware(s.categorizeHandler.HandleCategorize, "categorize"))

	mux.HandleFunc("GET /events", MetricsMiddleware(s.eventsHandler.HandleListEvents, "events"))
	mux.HandleFunc("POST /events", MetricsMiddleware(s.eventsHandler.HandleCreateEvent, "events"))
	mux.HandleFunc("GET /events/{id}", MetricsMiddleware(s.eventsHandler.HandleGetEvent, "event"))
	mux.HandleFunc("POST /events/{id}/join", MetricsMiddleware(s.eventsHandler.HandleJoin, "event_join"))
	mux.HandleFunc("POST /events/{id}/leave", MetricsMiddleware(s.eventsHandler.HandleLeave, "event_leave"))

	mux.HandleFunc("GET /users/{id}/preferences", MetricsMiddleware(s.usersHandler.HandleGetPreferences, "preferences"))
	mux.HandleFunc("PUT /users/{id}/preferences", MetricsMiddleware(s.usersHandler.HandlePutPreferences, "preferences"))
	mux.HandleFunc("POST /users/{id}/interactions", MetricsMiddleware(s.usersHandler.HandlePostInteraction, "interactions"))
	mux.HandleFunc("GET /users/{id}/recommendations", MetricsMiddleware(s.usersHandler.HandleRecommendations, "recommendations"))
	mux.HandleFunc("GET /users/{id}/weights", MetricsMiddleware(s.usersHandler.HandleWeights, "weights"))
	mux.HandleFunc("GET /users/{id}/insights", MetricsMiddleware(s.usersHandler.HandleInsights, "insights"))
	mux.HandleFunc("DELETE /users/{id}/model", MetricsMiddleware(s.usersHandler.HandleResetModel, "model_reset"))
}

type ackResponse struct {
	Status        string `json:"status"`
	InteractionID string `json:"interaction_id"`
	Duplicate     bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code, name := status(err)
	resp := errorResponse{Code: name, Message: http.StatusText(code)}
	if err != nil {
		resp.Message = err.Error()
	}
	var verr *validation.Error
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
	}
	writeJSON(w, code, resp)
}

// decode reads a JSON body into v and validates it. Unknown fields are
// rejected.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return validation.Struct(v)
}
