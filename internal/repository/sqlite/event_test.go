package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/eventhub/internal/domain"
	"github.com/msomdec/eventhub/internal/repository/sqlite"
)

func createTestEvent(t *testing.T, db *sqlite.DB, organizerID int64, title string, date time.Time) *domain.Event {
	t.Helper()
	event := &domain.Event{
		Title:       title,
		Description: title + " description",
		Date:        date,
		Location:    "Main Hall",
		OrganizerID: organizerID,
	}
	if err := db.Events().Create(context.Background(), event); err != nil {
		t.Fatalf("create event %s: %v", title, err)
	}
	return event
}

func TestEventRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	organizer := createTestUser(t, db, "organizer")
	date := time.Date(2024, 12, 31, 18, 30, 0, 0, time.FixedZone("CET", 3600))
	event := createTestEvent(t, db, organizer.ID, "New Year", date)

	if event.ID == 0 {
		t.Fatal("expected event ID to be set")
	}

	got, err := db.Events().GetByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "New Year" {
		t.Fatalf("expected title New Year, got %q", got.Title)
	}
	if got.OrganizerID != organizer.ID {
		t.Fatalf("expected organizer %d, got %d", organizer.ID, got.OrganizerID)
	}
	if !got.Date.Equal(date) {
		t.Fatalf("expected date %v, got %v", date, got.Date)
	}
	if got.Date.Location() != time.UTC {
		t.Fatalf("expected date in UTC, got %v", got.Date.Location())
	}
}

func TestEventRepository_GetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Events().GetByID(context.Background(), 999)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventRepository_List(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	empty, err := db.Events().List(ctx)
	if err != nil {
		t.Fatalf("List empty: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	u := createTestUser(t, db, "lister")
	later := createTestEvent(t, db, u.ID, "Later", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	sooner := createTestEvent(t, db, u.ID, "Sooner", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))

	events, err := db.Events().List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != sooner.ID || events[1].ID != later.ID {
		t.Fatalf("expected events ordered by date, got %d then %d", events[0].ID, events[1].ID)
	}
}

func TestEventRepository_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := createTestUser(t, db, "updater")
	event := createTestEvent(t, db, u.ID, "Draft", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	event.Title = "Final"
	event.Description = ""
	event.Location = "Annex"
	event.Date = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	if err := db.Events().Update(ctx, event); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := db.Events().GetByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "Final" || got.Description != "" || got.Location != "Annex" {
		t.Fatalf("unexpected fields after update: %+v", got)
	}
	if !got.Date.Equal(event.Date) {
		t.Fatalf("expected date %v, got %v", event.Date, got.Date)
	}
	if got.OrganizerID != u.ID {
		t.Fatalf("organizer changed to %d", got.OrganizerID)
	}
}

func TestEventRepository_Update_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Events().Update(context.Background(), &domain.Event{ID: 12345, Title: "x", Date: time.Now()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEventRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	u := createTestUser(t, db, "deleter")
	event := createTestEvent(t, db, u.ID, "Gone", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	if err := db.Events().Delete(ctx, event.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Events().GetByID(ctx, event.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := db.Events().Delete(ctx, event.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
