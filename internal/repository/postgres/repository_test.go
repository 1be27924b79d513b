package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/msomdec/eventhub/internal/domain"
	"github.com/msomdec/eventhub/internal/repository/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, db *postgres.DB, username string) *domain.User {
	t.Helper()
	u := &domain.User{Username: username, Email: username + "@example.com", PasswordHash: "hash"}
	require.NoError(t, db.Users().Create(context.Background(), u))
	return u
}

func createEvent(t *testing.T, db *postgres.DB, organizerID int64, title string, date time.Time) *domain.Event {
	t.Helper()
	e := &domain.Event{Title: title, Date: date, Location: "Hall", OrganizerID: organizerID}
	require.NoError(t, db.Events().Create(context.Background(), e))
	return e
}

func TestUsers(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := createUser(t, db, "alice")
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	err := db.Users().Create(ctx, &domain.User{Username: "alice", PasswordHash: "x"})
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)

	got, err := db.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = db.Users().GetByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTokens(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := createUser(t, db, "bob")
	require.NoError(t, db.Tokens().Create(ctx, &domain.AuthToken{Key: "k1", UserID: u.ID}))

	err := db.Tokens().Create(ctx, &domain.AuthToken{Key: "k2", UserID: u.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicateToken)

	tok, err := db.Tokens().GetByUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "k1", tok.Key)

	_, err = db.Tokens().GetByKey(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEvents(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := createUser(t, db, "carol")
	later := createEvent(t, db, u.ID, "Later", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	sooner := createEvent(t, db, u.ID, "Sooner", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))

	events, err := db.Events().List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, sooner.ID, events[0].ID)
	assert.Equal(t, later.ID, events[1].ID)

	later.Title = "Much later"
	require.NoError(t, db.Events().Update(ctx, later))
	got, err := db.Events().GetByID(ctx, later.ID)
	require.NoError(t, err)
	assert.Equal(t, "Much later", got.Title)
	assert.Equal(t, u.ID, got.OrganizerID)

	require.NoError(t, db.Events().Delete(ctx, later.ID))
	assert.ErrorIs(t, db.Events().Delete(ctx, later.ID), domain.ErrNotFound)
	assert.ErrorIs(t, db.Events().Update(ctx, later), domain.ErrNotFound)
}

func TestRegistrations(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	host := createUser(t, db, "host")
	guest := createUser(t, db, "guest")
	e := createEvent(t, db, host.ID, "Party", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))

	events, err := db.Registrations().ListEventsByUser(ctx, guest.ID)
	require.NoError(t, err)
	assert.Empty(t, events)

	require.NoError(t, db.Registrations().Create(ctx, &domain.Registration{UserID: guest.ID, EventID: e.ID}))
	err = db.Registrations().Create(ctx, &domain.Registration{UserID: guest.ID, EventID: e.ID})
	assert.ErrorIs(t, err, domain.ErrAlreadyRegistered)

	err = db.Registrations().Create(ctx, &domain.Registration{UserID: guest.ID, EventID: 4242})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	events, err = db.Registrations().ListEventsByUser(ctx, guest.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, e.ID, events[0].ID)

	require.NoError(t, db.Events().Delete(ctx, e.ID))
	exists, err := db.Registrations().Exists(ctx, guest.ID, e.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
