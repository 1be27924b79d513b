package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/eventhub/internal/domain"
)

// tokenRepo implements domain.TokenRepository using SQLite.
type tokenRepo struct {
	db *sql.DB
}

func (r *tokenRepo) Create(ctx context.Context, token *domain.AuthToken) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (key, user_id, created_at) VALUES (?, ?, ?)`,
		token.Key, token.UserID, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateToken
		}
		if isForeignKeyError(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert auth token: %w", err)
	}
	token.CreatedAt = now
	return nil
}

func (r *tokenRepo) GetByKey(ctx context.Context, key string) (*domain.AuthToken, error) {
	return r.getOne(ctx, "key = ?", key)
}

func (r *tokenRepo) GetByUser(ctx context.Context, userID int64) (*domain.AuthToken, error) {
	return r.getOne(ctx, "user_id = ?", userID)
}

func (r *tokenRepo) getOne(ctx context.Context, where string, arg any) (*domain.AuthToken, error) {
	t := &domain.AuthToken{}
	err := r.db.QueryRowContext(ctx,
		`SELECT key, user_id, created_at FROM auth_tokens WHERE `+where, arg,
	).Scan(&t.Key, &t.UserID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get auth token: %w", err)
	}
	return t, nil
}
