// Package service implements the item lifecycle over the store: creation
// with normalization and defaulting, full-field update, completion toggle,
// soft delete, and restore. Inputs are boundary-validated before they arrive
// here; operations apply business rules, not validation.
package service

import (
	"context"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
)

// Service is the business-level contract over the item store.
type Service interface {
	// Create normalizes and persists a new item.
	Create(ctx context.Context, req CreateRequest) (*model.Item, error)

	// Update replaces the mutable fields of an active item in full.
	Update(ctx context.Context, id int64, req UpdateRequest) (*model.Item, error)

	// Toggle flips the completion flag of an active item.
	Toggle(ctx context.Context, id int64) (*model.Item, error)

	// Delete soft-deletes an active item. It reports false when the item
	// is missing or already deleted.
	Delete(ctx context.Context, id int64) (bool, error)

	// Restore moves a soft-deleted item back into the active set.
	Restore(ctx context.Context, id int64) (*model.Item, error)

	// Get retrieves a single active item.
	Get(ctx context.Context, id int64) (*model.Item, error)

	// GetDeleted retrieves a single soft-deleted item.
	GetDeleted(ctx context.Context, id int64) (*model.Item, error)

	// List pages through the active items matching the filter.
	List(ctx context.Context, f query.Filter) ([]model.Item, int, error)

	// ListDeleted pages through the soft-deleted items matching the filter.
	ListDeleted(ctx context.Context, f query.Filter) ([]model.Item, int, error)
}
