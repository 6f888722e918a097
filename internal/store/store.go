package store

import (
	"context"
	"errors"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
)

// ErrNotFound is returned when an id-addressed operation finds no matching
// row: the item does not exist, or it sits on the wrong side of the
// soft-delete split for that operation.
var ErrNotFound = errors.New("item not found")

// View selects which half of the soft-delete split a query runs against.
// The two halves are disjoint; a single query never mixes them.
type View int

const (
	ViewActive View = iota
	ViewDeleted
)

// Store defines the persistence interface for items. Every mutation is
// committed synchronously before the call returns.
type Store interface {
	// GetItem retrieves an active (non-deleted) item by id.
	GetItem(ctx context.Context, id int64) (*model.Item, error)

	// GetItemAny retrieves an item by id regardless of its deleted state.
	GetItemAny(ctx context.Context, id int64) (*model.Item, error)

	// AddItem inserts a new item and fills in its assigned id.
	AddItem(ctx context.Context, item *model.Item) error

	// UpdateItem replaces the mutable fields of an active item.
	UpdateItem(ctx context.Context, item model.Item) error

	// SoftDeleteItem flags an active item as deleted and stamps deleted_at.
	// It reports false, with no error, when the item is missing or already
	// deleted.
	SoftDeleteItem(ctx context.Context, id int64) (bool, error)

	// RestoreItem clears the deleted flag and timestamp of a deleted item
	// and returns the restored row.
	RestoreItem(ctx context.Context, id int64) (*model.Item, error)

	// ListItems runs the query contract against one view, returning the
	// requested page and the size of the filtered set.
	ListItems(ctx context.Context, view View, f query.Filter) ([]model.Item, int, error)

	Close() error
}
