package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/msomdec/eventhub/internal/domain"
)

// registrationRepo implements domain.RegistrationRepository using SQLite.
type registrationRepo struct {
	db *sql.DB
}

func (r *registrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO registrations (user_id, event_id, registered_at) VALUES (?, ?, ?)`,
		reg.UserID, reg.EventID, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrAlreadyRegistered
		}
		if isForeignKeyError(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert registration: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get registration id: %w", err)
	}
	reg.ID = id
	reg.RegisteredAt = now
	return nil
}

func (r *registrationRepo) Exists(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM registrations WHERE user_id = ? AND event_id = ?)`,
		userID, eventID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check registration: %w", err)
	}
	return exists, nil
}

func (r *registrationRepo) ListEventsByUser(ctx context.Context, userID int64) ([]domain.Event, error) {
	return queryEvents(ctx, r.db,
		`SELECT `+eventColumns+`
		 FROM registrations r JOIN events e ON e.id = r.event_id
		 WHERE r.user_id = ?
		 ORDER BY r.registered_at, r.id`, userID)
}
