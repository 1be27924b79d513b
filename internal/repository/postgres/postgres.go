package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/msomdec/eventhub/internal/domain"
	"github.com/rs/zerolog"
)

// SQLSTATE codes the repositories translate into domain errors.
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// DB wraps a pgx connection pool and hands out the repositories backed by it.
// It implements domain.Store.
type DB struct {
	Pool *pgxpool.Pool
	url  string
}

// New connects to Postgres and verifies the connection.
func New(ctx context.Context, databaseURL string, maxConns int) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool, url: databaseURL}, nil
}

// Migrate applies all pending schema migrations.
func (d *DB) Migrate(ctx context.Context) error {
	if err := MigrateUp(d.url); err != nil {
		return err
	}
	zerolog.Ctx(ctx).Info().Msg("postgres migrations applied")
	return nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

func (d *DB) Close() error {
	d.Pool.Close()
	return nil
}

func (d *DB) Users() domain.UserRepository {
	return &userRepo{pool: d.Pool}
}

func (d *DB) Tokens() domain.TokenRepository {
	return &tokenRepo{pool: d.Pool}
}

func (d *DB) Events() domain.EventRepository {
	return &eventRepo{pool: d.Pool}
}

func (d *DB) Registrations() domain.RegistrationRepository {
	return &registrationRepo{pool: d.Pool}
}

func hasSQLState(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
