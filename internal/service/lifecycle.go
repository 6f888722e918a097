package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
	"github.com/nhle/todo-service/internal/store"
)

// Lifecycle is the Service implementation backed by a store.Store.
type Lifecycle struct {
	store store.Store
	log   *log.Logger

	// now supplies creation timestamps; tests pin it.
	now func() time.Time
}

var _ Service = (*Lifecycle)(nil)

// NewLifecycle builds a Lifecycle over the given store. A nil logger
// silences service logging.
func NewLifecycle(s store.Store, logger *log.Logger) *Lifecycle {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Lifecycle{
		store: s,
		log:   logger,
		now:   time.Now,
	}
}

// Create normalizes and persists a new item. Title and description are
// trimmed, priority defaults to Medium when absent, and the creation
// timestamp is stamped here, once, in UTC.
func (l *Lifecycle) Create(ctx context.Context, req CreateRequest) (*model.Item, error) {
	priority := model.PriorityMedium
	if req.Priority != nil {
		priority = *req.Priority
	}

	item := model.Item{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   l.now().UTC(),
		DueDate:     req.DueDate,
		Priority:    priority,
	}

	if err := l.store.AddItem(ctx, &item); err != nil {
		return nil, err
	}

	l.log.Info("item created", "id", item.ID, "priority", item.Priority)
	return &item, nil
}

// Update replaces the mutable fields of an active item in full. A request
// without a due date clears any stored one.
func (l *Lifecycle) Update(ctx context.Context, id int64, req UpdateRequest) (*model.Item, error) {
	item, err := l.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Title = strings.TrimSpace(req.Title)
	item.Description = strings.TrimSpace(req.Description)
	item.Completed = req.IsCompleted
	item.DueDate = req.DueDate
	item.Priority = req.Priority

	if err := l.store.UpdateItem(ctx, *item); err != nil {
		return nil, err
	}

	l.log.Debug("item updated", "id", id)
	return item, nil
}

// Toggle flips the completion flag of an active item and returns the new
// state.
func (l *Lifecycle) Toggle(ctx context.Context, id int64) (*model.Item, error) {
	item, err := l.store.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Completed = !item.Completed
	if err := l.store.UpdateItem(ctx, *item); err != nil {
		return nil, err
	}

	l.log.Debug("item toggled", "id", id, "completed", item.Completed)
	return item, nil
}

// Delete soft-deletes an active item. Missing and already-deleted items
// both report false.
func (l *Lifecycle) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := l.store.SoftDeleteItem(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		l.log.Info("item soft-deleted", "id", id)
	}
	return deleted, nil
}

// Restore moves a soft-deleted item back into the active set with all its
// fields intact.
func (l *Lifecycle) Restore(ctx context.Context, id int64) (*model.Item, error) {
	item, err := l.store.RestoreItem(ctx, id)
	if err != nil {
		return nil, err
	}

	l.log.Info("item restored", "id", id)
	return item, nil
}

// Get retrieves a single active item.
func (l *Lifecycle) Get(ctx context.Context, id int64) (*model.Item, error) {
	return l.store.GetItem(ctx, id)
}

// GetDeleted retrieves a single soft-deleted item, the detail fetch behind
// the deleted listing. An id that exists but is still active reports not
// found, the same as a missing one.
func (l *Lifecycle) GetDeleted(ctx context.Context, id int64) (*model.Item, error) {
	item, err := l.store.GetItemAny(ctx, id)
	if err != nil {
		return nil, err
	}
	if !item.Deleted {
		return nil, store.ErrNotFound
	}
	return item, nil
}

// List pages through the active items matching the filter.
func (l *Lifecycle) List(ctx context.Context, f query.Filter) ([]model.Item, int, error) {
	return l.store.ListItems(ctx, store.ViewActive, f)
}

// ListDeleted pages through the soft-deleted items matching the filter.
func (l *Lifecycle) ListDeleted(ctx context.Context, f query.Filter) ([]model.Item, int, error) {
	return l.store.ListItems(ctx, store.ViewDeleted, f)
}
