package client

import (
	"cmp"
	"context"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
	"github.com/nhle/todo-service/internal/service"
)

// Defaults for the refresh loop and the page-through population.
const (
	DefaultRefreshInterval = 60 * time.Second
	DefaultBatchSize       = 100
)

// MirrorOptions configures a Mirror. Zero values fall back to the defaults.
type MirrorOptions struct {
	RefreshInterval time.Duration
	BatchSize       int
	Logger          *log.Logger
}

// Mirror keeps a full local copy of the active and deleted item sets and
// answers queries from it without touching the network. Mutations go to the
// server first and patch the copy only on success, so the cache never drifts
// ahead of a failed call. Reads keep serving the previous snapshot while a
// refresh is in flight.
type Mirror struct {
	client   *Client
	log      *log.Logger
	interval time.Duration
	batch    int

	mu       sync.RWMutex
	active   []model.Item
	deleted  []model.Item
	loaded   bool
	lastSync time.Time
	lastErr  error

	triggerCh chan struct{}
}

// Status reports the health of the mirror's dataset.
type Status struct {
	Loaded       bool
	LastSync     time.Time
	LastError    error
	ActiveCount  int
	DeletedCount int
}

// NewMirror creates a Mirror over the given client. Call Load to populate it
// and Start to keep it fresh.
func NewMirror(c *Client, opts MirrorOptions) *Mirror {
	interval := opts.RefreshInterval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	batch := opts.BatchSize
	if batch <= 0 || batch > query.MaxPageSize {
		batch = DefaultBatchSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Mirror{
		client:    c,
		log:       logger,
		interval:  interval,
		batch:     batch,
		triggerCh: make(chan struct{}, 1),
	}
}

// Load populates both cached sets by paging through the full dataset, then
// swaps the new snapshot in atomically. It can be called again at any time;
// readers keep the previous snapshot until the swap.
func (m *Mirror) Load(ctx context.Context) error {
	active, err := m.fetchAll(ctx, m.client.List)
	if err != nil {
		m.recordError(err)
		return err
	}
	deleted, err := m.fetchAll(ctx, m.client.ListDeleted)
	if err != nil {
		m.recordError(err)
		return err
	}

	m.mu.Lock()
	m.active = active
	m.deleted = deleted
	m.loaded = true
	m.lastSync = time.Now()
	m.lastErr = nil
	m.mu.Unlock()

	m.log.Debug("cache loaded", "active", len(active), "deleted", len(deleted))
	return nil
}

// Start runs the background refresh loop until ctx is cancelled: a full
// reload every interval plus any Refetch triggers. A failed refresh keeps
// the stale snapshot and records the error.
func (m *Mirror) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.refresh(ctx)
			case <-m.triggerCh:
				m.refresh(ctx)
			}
		}
	}()
}

// Refetch asks the refresh loop for an immediate reload. It never blocks;
// the trigger is dropped when a reload is already pending.
func (m *Mirror) Refetch() {
	select {
	case m.triggerCh <- struct{}{}:
	default:
	}
}

func (m *Mirror) refresh(ctx context.Context) {
	if err := m.Load(ctx); err != nil {
		m.log.Warn("cache refresh failed; serving stale data", "err", err)
	}
}

// fetchAll pages through one view until the running count reaches the
// reported total or a page comes back empty, then canonicalizes to ascending
// id order so local queries break sort ties exactly like the server does.
func (m *Mirror) fetchAll(
	ctx context.Context,
	list func(context.Context, query.Filter) (*model.ItemPage, error),
) ([]model.Item, error) {
	items := make([]model.Item, 0)
	for page := 1; ; page++ {
		f := query.NewFilter()
		f.Page = page
		f.PageSize = m.batch

		resp, err := list(ctx, f)
		if err != nil {
			return nil, err
		}
		items = append(items, resp.Items...)
		if len(resp.Items) == 0 || len(items) >= resp.TotalCount {
			break
		}
	}

	slices.SortFunc(items, compareByID)
	return items, nil
}

// Query answers a filter from the cached active set without a network call.
// The results match what the server would return for the same filter.
func (m *Mirror) Query(f query.Filter) ([]model.Item, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return query.Apply(m.active, f)
}

// QueryDeleted answers a filter from the cached deleted set.
func (m *Mirror) QueryDeleted(f query.Filter) ([]model.Item, int) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return query.Apply(m.deleted, f)
}

// Get returns the cached active item with the given id.
func (m *Mirror) Get(id int64) (*model.Item, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := range m.active {
		if m.active[i].ID == id {
			item := m.active[i]
			return &item, true
		}
	}
	return nil, false
}

// Snapshot returns copies of both cached sets, each in ascending id order.
// The copies are detached from the cache and safe to hold across refreshes.
func (m *Mirror) Snapshot() (active, deleted []model.Item) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Clone(m.active), slices.Clone(m.deleted)
}

// Status reports whether the mirror has loaded, when it last synced, and the
// size of both cached sets.
func (m *Mirror) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Status{
		Loaded:       m.loaded,
		LastSync:     m.lastSync,
		LastError:    m.lastErr,
		ActiveCount:  len(m.active),
		DeletedCount: len(m.deleted),
	}
}

// Create adds an item through the API and, on success, inserts the returned
// row into the cached active set.
func (m *Mirror) Create(ctx context.Context, req service.CreateRequest) (*model.Item, error) {
	item, err := m.client.Create(ctx, req)
	if err != nil {
		return nil, err
	}

	m.patch(func() {
		m.active = upsertByID(m.active, *item)
	})
	return item, nil
}

// Update replaces an item through the API and patches the cached copy.
func (m *Mirror) Update(ctx context.Context, id int64, req service.UpdateRequest) (*model.Item, error) {
	item, err := m.client.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}

	m.patch(func() {
		m.active = upsertByID(m.active, *item)
	})
	return item, nil
}

// Toggle flips an item's completion through the API and patches the cached
// copy with the returned state.
func (m *Mirror) Toggle(ctx context.Context, id int64) (*model.Item, error) {
	item, err := m.client.Toggle(ctx, id)
	if err != nil {
		return nil, err
	}

	m.patch(func() {
		m.active = upsertByID(m.active, *item)
	})
	return item, nil
}

// Delete soft-deletes an item through the API and moves the cached copy to
// the deleted set. The 204 response carries no body, so the deletion
// timestamp is stamped locally and trued up by the next refresh.
func (m *Mirror) Delete(ctx context.Context, id int64) error {
	if err := m.client.Delete(ctx, id); err != nil {
		return err
	}

	now := time.Now().UTC()
	m.patch(func() {
		item, rest, ok := takeByID(m.active, id)
		if !ok {
			return
		}
		m.active = rest
		item.Deleted = true
		item.DeletedAt = &now
		m.deleted = upsertByID(m.deleted, item)
	})
	return nil
}

// Restore brings an item back through the API and moves the cached copy to
// the active set.
func (m *Mirror) Restore(ctx context.Context, id int64) (*model.Item, error) {
	item, err := m.client.Restore(ctx, id)
	if err != nil {
		return nil, err
	}

	m.patch(func() {
		if _, rest, ok := takeByID(m.deleted, id); ok {
			m.deleted = rest
		}
		m.active = upsertByID(m.active, *item)
	})
	return item, nil
}

// patch applies one cache mutation under the write lock. Patches are
// serialized: concurrent edits to the same item resolve to whichever
// applied last, matching the server's last-write-wins behavior.
func (m *Mirror) patch(apply func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	apply()
}

func (m *Mirror) recordError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

func compareByID(a, b model.Item) int {
	return cmp.Compare(a.ID, b.ID)
}

// upsertByID adds or replaces an item, keeping ascending id order.
func upsertByID(items []model.Item, item model.Item) []model.Item {
	i, found := slices.BinarySearchFunc(items, item, compareByID)
	if found {
		items[i] = item
		return items
	}
	return slices.Insert(items, i, item)
}

// takeByID removes an item by id, returning the removed value.
func takeByID(items []model.Item, id int64) (model.Item, []model.Item, bool) {
	for i := range items {
		if items[i].ID == id {
			item := items[i]
			return item, slices.Delete(items, i, i+1), true
		}
	}
	return model.Item{}, items, false
}
