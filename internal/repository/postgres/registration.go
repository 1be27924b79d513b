package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/eventhub/internal/domain"
)

type registrationRepo struct {
	pool *pgxpool.Pool
}

func (r *registrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO registrations (user_id, event_id) VALUES ($1, $2)
		 RETURNING id, registered_at`,
		reg.UserID, reg.EventID,
	).Scan(&reg.ID, &reg.RegisteredAt)
	if err != nil {
		switch {
		case hasSQLState(err, uniqueViolation):
			return domain.ErrAlreadyRegistered
		case hasSQLState(err, foreignKeyViolation):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (r *registrationRepo) Exists(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

func (r *registrationRepo) ListEventsByUser(ctx context.Context, userID int64) ([]domain.Event, error) {
	return queryEvents(ctx, r.pool,
		`SELECT `+eventColumns+`
		 FROM registrations r JOIN events e ON e.id = r.event_id
		 WHERE r.user_id = $1
		 ORDER BY r.registered_at, r.id`, userID)
}
