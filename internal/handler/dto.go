package handler

import (
	"time"

	"github.com/msomdec/eventhub/internal/domain"
	"github.com/msomdec/eventhub/internal/service"
)

// UserDTO is the JSON representation of a user.
type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// EventDTO is the JSON representation of an event. Organizer is the
// organizing user's ID.
type EventDTO struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Organizer   int64  `json:"organizer"`
}

func toEventDTO(e *domain.Event) EventDTO {
	return EventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.UTC().Format(time.RFC3339),
		Location:    e.Location,
		Organizer:   e.OrganizerID,
	}
}

func toEventDTOs(events []domain.Event) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i := range events {
		dtos[i] = toEventDTO(&events[i])
	}
	return dtos
}

// eventRequest is the body accepted by create and update. Any organizer
// field sent by the client is ignored.
type eventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

func (req eventRequest) toInput() service.EventInput {
	return service.EventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	}
}

// signupResponse is returned by a successful signup.
type signupResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// registrationResponse is returned by a successful event registration.
type registrationResponse struct {
	Message        string `json:"message"`
	RegistrationID int64  `json:"registration_id"`
}
