package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/eventhub/internal/domain"
)

const eventColumns = `e.id, e.title, e.description, e.date, e.location, e.organizer_id, e.created_at, e.updated_at`

type eventRepo struct {
	pool *pgxpool.Pool
}

func scanEvent(row pgx.Row, e *domain.Event) error {
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location,
		&e.OrganizerID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return err
	}
	e.Date = e.Date.UTC()
	return nil
}

func (r *eventRepo) Create(ctx context.Context, event *domain.Event) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO events (title, description, date, location, organizer_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		event.Title, event.Description, event.Date.UTC(), event.Location, event.OrganizerID,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if hasSQLState(err, foreignKeyViolation) {
			return fmt.Errorf("%w: organizer %d", domain.ErrNotFound, event.OrganizerID)
		}
		return fmt.Errorf("insert event: %w", err)
	}
	event.Date = event.Date.UTC()
	return nil
}

func (r *eventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	e := &domain.Event{}
	row := r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events e WHERE e.id = $1`, id)
	if err := scanEvent(row, e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

func (r *eventRepo) List(ctx context.Context) ([]domain.Event, error) {
	return queryEvents(ctx, r.pool, `SELECT `+eventColumns+` FROM events e ORDER BY e.date, e.id`)
}

func (r *eventRepo) Update(ctx context.Context, event *domain.Event) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE events SET title = $1, description = $2, date = $3, location = $4, updated_at = now()
		 WHERE id = $5
		 RETURNING updated_at`,
		event.Title, event.Description, event.Date.UTC(), event.Location, event.ID,
	).Scan(&event.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	event.Date = event.Date.UTC()
	return nil
}

func (r *eventRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func queryEvents(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]domain.Event, error) {
	rows, err := pool.Query(ctx, query, args...)
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
