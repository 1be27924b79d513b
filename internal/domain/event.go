package domain

import (
	"context"
	"time"
)

// Event is a scheduled happening owned by its organizer.
type Event struct {
	ID          int64
	Title       string
	Description string
	Date        time.Time
	Location    string
	OrganizerID int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	// Update replaces the mutable fields (title, description, date, location).
	// The organizer is never changed.
	Update(ctx context.Context, event *Event) error
	// Delete removes the event and, through the schema, its registrations.
	Delete(ctx context.Context, id int64) error
}
