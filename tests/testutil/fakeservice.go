package testutil

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
	"github.com/nhle/todo-service/internal/service"
	"github.com/nhle/todo-service/internal/store"
)

// FakeService is an in-memory implementation of service.Service for testing
// HTTP handlers without a database.
type FakeService struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]model.Item

	// Error injection for testing
	CreateErr      error
	UpdateErr      error
	ToggleErr      error
	DeleteErr      error
	RestoreErr     error
	GetErr         error
	GetDeletedErr  error
	ListErr        error
	ListDeletedErr error
}

var _ service.Service = (*FakeService)(nil)

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID: 1,
		items:  make(map[int64]model.Item),
	}
}

// Create implements service.Service.
func (f *FakeService) Create(ctx context.Context, req service.CreateRequest) (*model.Item, error) {
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	priority := model.PriorityMedium
	if req.Priority != nil {
		priority = *req.Priority
	}

	item := model.Item{
		ID:          f.nextID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   time.Now().UTC(),
		DueDate:     req.DueDate,
		Priority:    priority,
	}
	f.nextID++
	f.items[item.ID] = item
	return &item, nil
}

// Update implements service.Service.
func (f *FakeService) Update(ctx context.Context, id int64, req service.UpdateRequest) (*model.Item, error) {
	if f.UpdateErr != nil {
		return nil, f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[id]
	if !ok || item.Deleted {
		return nil, store.ErrNotFound
	}

	item.Title = strings.TrimSpace(req.Title)
	item.Description = strings.TrimSpace(req.Description)
	item.Completed = req.IsCompleted
	item.DueDate = req.DueDate
	item.Priority = req.Priority
	f.items[id] = item
	return &item, nil
}

// Toggle implements service.Service.
func (f *FakeService) Toggle(ctx context.Context, id int64) (*model.Item, error) {
	if f.ToggleErr != nil {
		return nil, f.ToggleErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[id]
	if !ok || item.Deleted {
		return nil, store.ErrNotFound
	}

	item.Completed = !item.Completed
	f.items[id] = item
	return &item, nil
}

// Delete implements service.Service.
func (f *FakeService) Delete(ctx context.Context, id int64) (bool, error) {
	if f.DeleteErr != nil {
		return false, f.DeleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[id]
	if !ok || item.Deleted {
		return false, nil
	}

	now := time.Now().UTC()
	item.Deleted = true
	item.DeletedAt = &now
	f.items[id] = item
	return true, nil
}

// Restore implements service.Service.
func (f *FakeService) Restore(ctx context.Context, id int64) (*model.Item, error) {
	if f.RestoreErr != nil {
		return nil, f.RestoreErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[id]
	if !ok || !item.Deleted {
		return nil, store.ErrNotFound
	}

	item.Deleted = false
	item.DeletedAt = nil
	f.items[id] = item
	return &item, nil
}

// Get implements service.Service.
func (f *FakeService) Get(ctx context.Context, id int64) (*model.Item, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	item, ok := f.items[id]
	if !ok || item.Deleted {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

// GetDeleted implements service.Service.
func (f *FakeService) GetDeleted(ctx context.Context, id int64) (*model.Item, error) {
	if f.GetDeletedErr != nil {
		return nil, f.GetDeletedErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()

	item, ok := f.items[id]
	if !ok || !item.Deleted {
		return nil, store.ErrNotFound
	}
	return &item, nil
}

// List implements service.Service.
func (f *FakeService) List(ctx context.Context, q query.Filter) ([]model.Item, int, error) {
	if f.ListErr != nil {
		return nil, 0, f.ListErr
	}
	items, total := query.Apply(f.snapshot(false), q)
	return items, total, nil
}

// ListDeleted implements service.Service.
func (f *FakeService) ListDeleted(ctx context.Context, q query.Filter) ([]model.Item, int, error) {
	if f.ListDeletedErr != nil {
		return nil, 0, f.ListDeletedErr
	}
	items, total := query.Apply(f.snapshot(true), q)
	return items, total, nil
}

// snapshot collects one view of the items in ascending id order.
func (f *FakeService) snapshot(deleted bool) []model.Item {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var items []model.Item
	for _, item := range f.items {
		if item.Deleted == deleted {
			items = append(items, item)
		}
	}
	slices.SortFunc(items, func(a, b model.Item) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return items
}
