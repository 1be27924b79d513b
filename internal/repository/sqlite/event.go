package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/eventhub/internal/domain"
)

const eventColumns = `e.id, e.title, e.description, e.date, e.location, e.organizer_id, e.created_at, e.updated_at`

// eventRepo implements domain.EventRepository using SQLite.
type eventRepo struct {
	db *sql.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner, e *domain.Event) error {
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location,
		&e.OrganizerID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return err
	}
	e.Date = e.Date.UTC()
	return nil
}

func (r *eventRepo) Create(ctx context.Context, event *domain.Event) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO events (title, description, date, location, organizer_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.Title, event.Description, event.Date.UTC(), event.Location, event.OrganizerID, now, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("%w: organizer %d", domain.ErrNotFound, event.OrganizerID)
		}
		return fmt.Errorf("insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get event id: %w", err)
	}

	event.ID = id
	event.Date = event.Date.UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	e := &domain.Event{}
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = ?`, id)
	if err := scanEvent(row, e); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *eventRepo) List(ctx context.Context) ([]domain.Event, error) {
	return queryEvents(ctx, r.db, `SELECT `+eventColumns+` FROM events e ORDER BY e.date, e.id`)
}

func (r *eventRepo) Update(ctx context.Context, event *domain.Event) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET title = ?, description = ?, date = ?, location = ?, updated_at = ?
		 WHERE id = ?`,
		event.Title, event.Description, event.Date.UTC(), event.Location, now, event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	event.Date = event.Date.UTC()
	event.UpdatedAt = now
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func queryEvents(ctx context.Context, db *sql.DB, query string, args ...any) ([]domain.Event, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
