package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/msomdec/eventhub/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Each :memory: connection is its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	return db
}

func TestRunMigrations(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first migration run: %v", err)
	}

	// Verify the schema by inserting a user, an event and a registration.
	if _, err := db.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)",
		"tester", "test@example.com", "hash123",
	); err != nil {
		t.Fatalf("insert into users: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO events (title, date, organizer_id) VALUES (?, ?, ?)",
		"Launch", "2024-12-31 00:00:00", 1,
	); err != nil {
		t.Fatalf("insert into events: %v", err)
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO registrations (user_id, event_id) VALUES (?, ?)", 1, 1,
	); err != nil {
		t.Fatalf("insert into registrations: %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count == 0 {
		t.Fatal("expected at least one migration recorded in schema_migrations")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("second run (idempotent): %v", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if count != 4 {
		t.Fatalf("expected 4 migration records, got %d", count)
	}
}

func TestRegistrationPairIsUnique(t *testing.T) {
	db := openMemoryDB(t)
	ctx := context.Background()

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("run: %v", err)
	}
	stmts := []string{
		"INSERT INTO users (username, password_hash) VALUES ('a', 'h')",
		"INSERT INTO events (title, date, organizer_id) VALUES ('E', '2025-01-01 00:00:00', 1)",
		"INSERT INTO registrations (user_id, event_id) VALUES (1, 1)",
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			t.Fatalf("%s: %v", stmt, err)
		}
	}

	if _, err := db.ExecContext(ctx, "INSERT INTO registrations (user_id, event_id) VALUES (1, 1)"); err == nil {
		t.Fatal("expected unique constraint violation for duplicate registration")
	}
}
