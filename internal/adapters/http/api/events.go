package api

import (
	"context"
	"net/http"

	service "github.com/okian/huddle/internal/app"
	"github.com/okian/huddle/internal/domain/model"
)

// EventsHandler handles catalog requests.
type EventsHandler struct {
	deps Dependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps Dependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// eventRequest mirrors the OpenAPI schema for POST /events. An empty
// category is inferred.
type eventRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Category    string   `json:"category" validate:"max=100"`
	Location    string   `json:"location" validate:"max=200"`
	Date        string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time        string   `json:"time" validate:"omitempty,datetime=15:04"`
	Capacity    int      `json:"capacity" validate:"required,min=1"`
	Attendees   int      `json:"attendees" validate:"min=0"`
	HostID      string   `json:"host_id" validate:"max=100"`
	HostName    string   `json:"host_name" validate:"max=100"`
	Tags        []string `json:"tags" validate:"max=20,dive,required,max=50"`
}

type attendRequest struct {
	UserID string `json:"user_id" validate:"required,max=100"`
}

type eventsResponse struct {
	Events []model.Event `json:"events"`
	Count  int           `json:"count"`
}

// HandleListEvents handles GET /events requests.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events := h.deps.ListEvents(r.Context())
	writeJSON(w, http.StatusOK, eventsResponse{Events: events, Count: len(events)})
}

// HandleCreateEvent handles POST /events requests.
func (h *EventsHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_event"
	var req eventRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	e, err := h.deps.CreateEvent(r.Context(), model.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Capacity:    req.Capacity,
		Attendees:   req.Attendees,
		HostID:      req.HostID,
		HostName:    req.HostName,
		Tags:        req.Tags,
	})
	if err != nil {
		writeError(w, fromService(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// HandleGetEvent handles GET /events/{id} requests.
func (h *EventsHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_event"
	e, err := h.deps.GetEvent(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, fromService(op, err))
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleJoin handles POST /events/{id}/join requests.
func (h *EventsHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	h.attend(w, r, "api.join_event", h.deps.JoinEvent)
}

// HandleLeave handles POST /events/{id}/leave requests.
func (h *EventsHandler) HandleLeave(w http.ResponseWriter, r *http.Request) {
	h.attend(w, r, "api.leave_event", h.deps.LeaveEvent)
}

func (h *EventsHandler) attend(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, userID, eventID string) (service.Receipt, error),
) {
	var req attendRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	receipt, err := fn(r.Context(), req.UserID, r.PathValue("id"))
	if err != nil {
		writeError(w, fromService(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", InteractionID: receipt.InteractionID})
}
