package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/eventhub/internal/domain"
)

type tokenRepo struct {
	pool *pgxpool.Pool
}

func (r *tokenRepo) Create(ctx context.Context, token *domain.AuthToken) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO auth_tokens (key, user_id) VALUES ($1, $2) RETURNING created_at`,
		token.Key, token.UserID,
	).Scan(&token.CreatedAt)
	if err != nil {
		switch {
		case hasSQLState(err, uniqueViolation):
			return domain.ErrDuplicateToken
		case hasSQLState(err, foreignKeyViolation):
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert auth token: %w", err)
	}
	return nil
}

func (r *tokenRepo) GetByKey(ctx context.Context, key string) (*domain.AuthToken, error) {
	return r.getOne(ctx, `WHERE key = $1`, key)
}

func (r *tokenRepo) GetByUser(ctx context.Context, userID int64) (*domain.AuthToken, error) {
	return r.getOne(ctx, `WHERE user_id = $1`, userID)
}

func (r *tokenRepo) getOne(ctx context.Context, where string, arg any) (*domain.AuthToken, error) {
	t := &domain.AuthToken{}
	err := r.pool.QueryRow(ctx,
		`SELECT key, user_id, created_at FROM auth_tokens `+where, arg,
	).Scan(&t.Key, &t.UserID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get auth token: %w", err)
	}
	return t, nil
}
