package diary

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"fieldbook/internal/repository"
)

func setupDiaryService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:diary_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(
		gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open sqlite db: %v", err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}
	return NewService(repository.NewDiaryRepository(db))
}

func TestCreateEntryWithBearings(t *testing.T) {
	svc := setupDiaryService(t)
	ctx := context.Background()

	e, err := svc.Create(ctx, "proj-1", "user-1", CreateEntryRequest{
		Title:    "Traverse day 3",
		Body:     "Closed the loop at station 7.",
		Bearings: []string{`120°15'30.6"`, `N 45°00'00" E`},
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(e.Bearings) != 2 {
		t.Fatalf("bearings not stored: %+v", e.Bearings)
	}

	got, err := svc.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Bearings[1] != `N 45°00'00" E` {
		t.Fatalf("bearing round trip failed: %q", got.Bearings[1])
	}
}

func TestCreateEntryRejectsBadBearing(t *testing.T) {
	svc := setupDiaryService(t)

	_, err := svc.Create(context.Background(), "proj-1", "user-1", CreateEntryRequest{
		Title:    "Bad data",
		Bearings: []string{"120.5"},
	})
	if !errors.Is(err, ErrInvalidBearing) {
		t.Fatalf("expected ErrInvalidBearing, got %v", err)
	}
}

func TestUpdateEntryAuthorOnly(t *testing.T) {
	svc := setupDiaryService(t)
	ctx := context.Background()

	e, _ := svc.Create(ctx, "proj-1", "author", CreateEntryRequest{Title: "Original"})

	title := "Edited"
	if _, err := svc.Update(ctx, e.ID, "intruder", UpdateEntryRequest{Title: &title}); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor, got %v", err)
	}

	updated, err := svc.Update(ctx, e.ID, "author", UpdateEntryRequest{Title: &title})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Title != "Edited" {
		t.Fatalf("title not updated: %q", updated.Title)
	}
}

func TestUpdateEntryValidatesReplacementBearings(t *testing.T) {
	svc := setupDiaryService(t)
	ctx := context.Background()

	e, _ := svc.Create(ctx, "proj-1", "author", CreateEntryRequest{
		Title:    "With bearings",
		Bearings: []string{`090°00'00"`},
	})

	if _, err := svc.Update(ctx, e.ID, "author", UpdateEntryRequest{Bearings: []string{"not a bearing"}}); !errors.Is(err, ErrInvalidBearing) {
		t.Fatalf("expected ErrInvalidBearing, got %v", err)
	}

	// Failed update must not clobber the stored bearings.
	got, _ := svc.GetByID(ctx, e.ID)
	if len(got.Bearings) != 1 || got.Bearings[0] != `090°00'00"` {
		t.Fatalf("stored bearings corrupted: %+v", got.Bearings)
	}
}

func TestListByProjectOrdersByEntryDate(t *testing.T) {
	svc := setupDiaryService(t)
	ctx := context.Background()

	older := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)
	svc.Create(ctx, "proj-1", "author", CreateEntryRequest{Title: "First", EntryDate: &older})
	svc.Create(ctx, "proj-1", "author", CreateEntryRequest{Title: "Second", EntryDate: &newer})
	svc.Create(ctx, "proj-other", "author", CreateEntryRequest{Title: "Elsewhere"})

	entries, err := svc.ListByProject(ctx, "proj-1")
	if err != nil {
		t.Fatalf("ListByProject returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Title != "Second" {
		t.Fatalf("expected newest entry first, got %q", entries[0].Title)
	}
}

func TestDeleteEntry(t *testing.T) {
	svc := setupDiaryService(t)
	ctx := context.Background()

	e, _ := svc.Create(ctx, "proj-1", "author", CreateEntryRequest{Title: "Gone soon"})

	if err := svc.Delete(ctx, e.ID, "intruder"); !errors.Is(err, ErrNotAuthor) {
		t.Fatalf("expected ErrNotAuthor, got %v", err)
	}
	if err := svc.Delete(ctx, e.ID, "author"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := svc.GetByID(ctx, e.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
