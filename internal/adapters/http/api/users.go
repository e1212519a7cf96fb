package api

import (
	"net/http"
	"strings"

	service "github.com/okian/huddle/internal/app"
	"github.com/okian/huddle/internal/domain/learning"
	"github.com/okian/huddle/internal/domain/matching"
	"github.com/okian/huddle/internal/domain/model"
)

// UsersHandler handles preference, interaction and recommendation requests.
type UsersHandler struct {
	deps Dependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps Dependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

type preferencesRequest struct {
	Preferences []string `json:"preferences" validate:"max=50,dive,required,max=100"`
}

type interactionRequest struct {
	InteractionID string `json:"interaction_id" validate:"max=100"`
	EventID       string `json:"event_id" validate:"required,max=100"`
	Action        string `json:"action" validate:"required,action"`
}

type profileResponse struct {
	UserID      string             `json:"user_id"`
	Preferences []string           `json:"preferences"`
	Weights     map[string]float64 `json:"weights"`
}

type recommendationsResponse struct {
	UserID          string            `json:"user_id"`
	ColdStart       bool              `json:"cold_start"`
	Recommendations []matching.Result `json:"recommendations"`
}

type weightsResponse struct {
	UserID  string             `json:"user_id"`
	Weights map[string]float64 `json:"weights"`
}

type insightsResponse struct {
	UserID string `json:"user_id"`
	learning.Stats
}

type resetResponse struct {
	UserID string `json:"user_id"`
	Purged int    `json:"purged_interactions"`
}

func newProfileResponse(p model.Profile) profileResponse { //nolint:gocritic // hugeParam
	resp := profileResponse{UserID: p.UserID, Preferences: p.Preferences, Weights: p.Weights}
	if resp.Preferences == nil {
		resp.Preferences = []string{}
	}
	return resp
}

// userID returns the path user id or writes a 400.
func userID(w http.ResponseWriter, r *http.Request, op string) (string, bool) {
	id := r.PathValue("id")
	if strings.TrimSpace(id) == "" {
		writeError(w, NewKind(op, ErrBadRequest))
		return "", false
	}
	return id, true
}

// HandleGetPreferences handles GET /users/{id}/preferences requests.
func (h *UsersHandler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, "api.get_preferences")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(h.deps.Profile(r.Context(), id)))
}

// HandlePutPreferences handles PUT /users/{id}/preferences requests.
func (h *UsersHandler) HandlePutPreferences(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_preferences"
	id, ok := userID(w, r, op)
	if !ok {
		return
	}
	var req preferencesRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.InitPreferences(r.Context(), id, req.Preferences)
	if err != nil {
		writeError(w, fromService(op, err))
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(p))
}

// HandlePostInteraction handles POST /users/{id}/interactions requests.
// Duplicates are acknowledged with 200, new interactions with 202.
func (h *UsersHandler) HandlePostInteraction(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_interaction"
	id, ok := userID(w, r, op)
	if !ok {
		return
	}
	var req interactionRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	receipt, err := h.deps.SubmitInteraction(r.Context(), service.Submission{
		ID:      req.InteractionID,
		UserID:  id,
		EventID: req.EventID,
		Action:  model.Action(req.Action),
	})
	if err != nil {
		writeError(w, fromService(op, err))
		return
	}
	if receipt.Duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", InteractionID: receipt.InteractionID, Duplicate: true})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", InteractionID: receipt.InteractionID})
}

// HandleRecommendations handles GET /users/{id}/recommendations requests.
func (h *UsersHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, "api.recommendations")
	if !ok {
		return
	}
	ranking := h.deps.Recommend(r.Context(), id)
	resp := recommendationsResponse{UserID: id, ColdStart: ranking.ColdStart, Recommendations: ranking.Results}
	if resp.Recommendations == nil {
		resp.Recommendations = []matching.Result{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleWeights handles GET /users/{id}/weights requests.
func (h *UsersHandler) HandleWeights(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, "api.weights")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, weightsResponse{UserID: id, Weights: h.deps.Weights(r.Context(), id)})
}

// HandleInsights handles GET /users/{id}/insights requests.
func (h *UsersHandler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, "api.insights")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, insightsResponse{UserID: id, Stats: h.deps.Insights(r.Context(), id)})
}

// HandleResetModel handles DELETE /users/{id}/model requests.
func (h *UsersHandler) HandleResetModel(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r, "api.reset_model")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resetResponse{UserID: id, Purged: h.deps.ResetModel(r.Context(), id)})
}
