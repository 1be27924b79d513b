package domain

import (
	"context"
	"time"
)

// AuthToken is the bearer credential bound to exactly one user.
type AuthToken struct {
	Key       string
	UserID    int64
	CreatedAt time.Time
}

// TokenRepository persists auth tokens. A user has at most one token.
type TokenRepository interface {
	// Create inserts a token. Returns ErrDuplicateToken if the user already has one.
	Create(ctx context.Context, token *AuthToken) error
	GetByKey(ctx context.Context, key string) (*AuthToken, error)
	GetByUser(ctx context.Context, userID int64) (*AuthToken, error)
}
