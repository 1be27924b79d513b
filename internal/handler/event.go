package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/msomdec/eventhub/internal/service"
)

const msgRegistered = "Successfully registered for the event"

// EventHandler handles event and registration HTTP requests. Every route it
// serves sits behind RequireAuth.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// HandleList returns all events.
// GET /api/events
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toEventDTOs(events))
}

// HandleGet returns a single event.
// GET /api/events/{id}
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	event, err := h.events.Get(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toEventDTO(event))
}

// HandleCreate creates an event organized by the caller.
// POST /api/events
// Request:  {"title":"...","description":"...","date":"2030-06-01T18:00:00Z","location":"..."}
// Response: 201 event
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeEvent(w, r)
	if !ok {
		return
	}

	event, err := h.events.Create(r.Context(), UserFromContext(r.Context()), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toEventDTO(event))
}

// HandleUpdate replaces an event's fields. Organizer only.
// PUT /api/events/{id}
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}
	in, ok := decodeEvent(w, r)
	if !ok {
		return
	}

	event, err := h.events.Update(r.Context(), UserFromContext(r.Context()), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toEventDTO(event))
}

// HandleDelete removes an event. Organizer only.
// DELETE /api/events/{id}
// Response: 204 No Content
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	if err := h.events.Delete(r.Context(), UserFromContext(r.Context()), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRegister registers the caller for an event.
// POST /api/events/{id}/register
// Response: 201 {"message":"...","registration_id":1}
func (h *EventHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	id, ok := eventID(w, r)
	if !ok {
		return
	}

	reg, err := h.events.Register(r.Context(), UserFromContext(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, registrationResponse{Message: msgRegistered, RegistrationID: reg.ID})
}

// HandleMyEvents returns the events the caller is registered for.
// GET /api/registrations/my-events
func (h *EventHandler) HandleMyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.RegisteredEvents(r.Context(), UserFromContext(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toEventDTOs(events))
}

// eventID parses the {id} path parameter. Values that do not fit an int64
// answer 404 like any other unknown event.
func eventID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusNotFound, msgNotFound)
		return 0, false
	}
	return id, true
}

func decodeEvent(w http.ResponseWriter, r *http.Request) (service.EventInput, bool) {
	var req eventRequest
	if !decodeBody(w, r, &req) {
		return service.EventInput{}, false
	}
	return req.toInput(), true
}
