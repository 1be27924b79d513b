package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation (SQLite, Postgres) owns its own migration files and
// strategy, so the entire backend is swappable.
type Database interface {
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Store bundles a Database with the repositories backed by it.
type Store interface {
	Database
	Users() UserRepository
	Tokens() TokenRepository
	Events() EventRepository
	Registrations() RegistrationRepository
}
