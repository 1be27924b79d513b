package domain

import (
	"context"
	"time"
)

// Registration records that a user intends to attend an event.
type Registration struct {
	ID           int64
	UserID       int64
	EventID      int64
	RegisteredAt time.Time
}

// RegistrationRepository defines persistence operations for registrations.
type RegistrationRepository interface {
	// Create inserts a registration. Returns ErrAlreadyRegistered when the
	// (user, event) pair already exists.
	Create(ctx context.Context, reg *Registration) error
	Exists(ctx context.Context, userID, eventID int64) (bool, error)
	// ListEventsByUser returns the events the user is registered for.
	ListEventsByUser(ctx context.Context, userID int64) ([]Event, error)
}
