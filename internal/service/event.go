package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/msomdec/eventhub/internal/domain"
	"github.com/msomdec/eventhub/internal/metrics"
	"github.com/rs/zerolog"
)

const msgDateFormat = "Datetime has wrong format. Use RFC 3339, e.g. 2030-06-01T18:00:00Z."

// eventDateLayouts are tried in order. Values without an offset are UTC.
var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// EventInput carries the client-editable fields of an event. The organizer
// is always the authenticated caller. Date is the raw client value and is
// parsed during validation.
type EventInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Date        string `json:"date" validate:"required"`
	Location    string `json:"location" validate:"max=200"`
}

// EventService handles event CRUD with ownership checks, and registrations.
type EventService struct {
	events        domain.EventRepository
	registrations domain.RegistrationRepository
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(events domain.EventRepository, registrations domain.RegistrationRepository, logger zerolog.Logger) *EventService {
	return &EventService{
		events:        events,
		registrations: registrations,
		validate:      newValidator(),
		logger:        logger.With().Str("component", "events").Logger(),
	}
}

// List returns every event.
func (s *EventService) List(ctx context.Context, caller *domain.User) ([]domain.Event, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.events.List(ctx)
}

// Get returns a single event.
func (s *EventService) Get(ctx context.Context, caller *domain.User, id int64) (*domain.Event, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.events.GetByID(ctx, id)
}

// Create validates the input and stores a new event organized by caller.
func (s *EventService) Create(ctx context.Context, caller *domain.User, in EventInput) (*domain.Event, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	in, date, err := s.checkEventInput(in)
	if err != nil {
		return nil, err
	}

	event := &domain.Event{
		Title:       in.Title,
		Description: in.Description,
		Date:        date,
		Location:    in.Location,
		OrganizerID: caller.ID,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	metrics.EventOperationsTotal.WithLabelValues("create").Inc()
	s.logger.Info().Int64("event_id", event.ID).Int64("organizer_id", caller.ID).Msg("event created")
	return event, nil
}

// Update replaces all mutable fields of an event. Only the organizer may
// update it; the organizer itself never changes. Unknown events and
// non-organizers are rejected before the input is looked at.
func (s *EventService) Update(ctx context.Context, caller *domain.User, id int64, in EventInput) (*domain.Event, error) {
	event, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	in, date, err := s.checkEventInput(in)
	if err != nil {
		return nil, err
	}

	event.Title = in.Title
	event.Description = in.Description
	event.Date = date
	event.Location = in.Location
	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	metrics.EventOperationsTotal.WithLabelValues("update").Inc()
	s.logger.Info().Int64("event_id", event.ID).Msg("event updated")
	return event, nil
}

// Delete removes an event and its registrations. Only the organizer may
// delete it.
func (s *EventService) Delete(ctx context.Context, caller *domain.User, id int64) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.events.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	metrics.EventOperationsTotal.WithLabelValues("delete").Inc()
	s.logger.Info().Int64("event_id", id).Msg("event deleted")
	return nil
}

// Register signs caller up for an event. A second registration for the same
// event yields domain.ErrAlreadyRegistered.
func (s *EventService) Register(ctx context.Context, caller *domain.User, eventID int64) (*domain.Registration, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	exists, err := s.registrations.Exists(ctx, caller.ID, eventID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyRegistered
	}

	reg := &domain.Registration{UserID: caller.ID, EventID: eventID}
	if err := s.registrations.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	metrics.RegistrationsTotal.Inc()
	s.logger.Info().Int64("event_id", eventID).Int64("user_id", caller.ID).Msg("registered for event")
	return reg, nil
}

// RegisteredEvents returns the events caller is registered for.
func (s *EventService) RegisteredEvents(ctx context.Context, caller *domain.User) ([]domain.Event, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	return s.registrations.ListEventsByUser(ctx, caller.ID)
}

// owned loads an event and checks that caller organizes it.
func (s *EventService) owned(ctx context.Context, caller *domain.User, id int64) (*domain.Event, error) {
	if caller == nil {
		return nil, domain.ErrUnauthenticated
	}
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != caller.ID {
		return nil, domain.ErrForbidden
	}
	return event, nil
}

// checkEventInput trims the input, runs its validate tags and parses the
// date. Tag violations and a malformed date are reported together.
func (s *EventService) checkEventInput(in EventInput) (EventInput, time.Time, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	in.Date = strings.TrimSpace(in.Date)

	err := validateStruct(s.validate, in)
	if in.Date == "" {
		return in, time.Time{}, err
	}

	date, ok := parseEventDate(in.Date)
	if !ok {
		var verr *domain.ValidationError
		switch {
		case err == nil:
			err = domain.NewFieldError("date", msgDateFormat)
		case errors.As(err, &verr):
			verr.Fields["date"] = append(verr.Fields["date"], msgDateFormat)
		}
	}
	if err != nil {
		return in, time.Time{}, err
	}
	return in, date, nil
}

func parseEventDate(raw string) (time.Time, bool) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
