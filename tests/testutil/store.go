package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// SeedItem inserts an item with the given fields and returns it with its
// assigned id.
func SeedItem(t *testing.T, s *store.SQLiteStore, title string, completed bool, p model.Priority, due *time.Time) model.Item {
	t.Helper()

	item := model.Item{
		Title:     title,
		Completed: completed,
		Priority:  p,
		DueDate:   due,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.AddItem(context.Background(), &item); err != nil {
		t.Fatalf("seeding item %q: %v", title, err)
	}
	return item
}
