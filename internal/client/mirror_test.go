package client

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
	"github.com/nhle/todo-service/internal/service"
)

func newTestMirror(t *testing.T, opts MirrorOptions) (*Mirror, *Client, *testBackendHandle) {
	t.Helper()

	c, fake := newTestBackend(t)
	return NewMirror(c, opts), c, &testBackendHandle{fake: fake}
}

// testBackendHandle mutates the backend behind the mirror's back, the way
// another API consumer would.
type testBackendHandle struct {
	fake interface {
		Create(ctx context.Context, req service.CreateRequest) (*model.Item, error)
	}
}

func (h *testBackendHandle) addItem(t *testing.T, title string) *model.Item {
	t.Helper()
	item, err := h.fake.Create(context.Background(), service.CreateRequest{Title: title})
	if err != nil {
		t.Fatalf("seeding backend item: %v", err)
	}
	return item
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestMirrorLoadPagesThroughDataset(t *testing.T) {
	m, _, backend := newTestMirror(t, MirrorOptions{BatchSize: 3})

	for i := 1; i <= 7; i++ {
		backend.addItem(t, fmt.Sprintf("item %d", i))
	}

	if err := m.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	st := m.Status()
	if !st.Loaded {
		t.Error("Loaded = false after Load")
	}
	if st.ActiveCount != 7 {
		t.Errorf("ActiveCount = %d, want 7", st.ActiveCount)
	}
	if st.LastSync.IsZero() {
		t.Error("LastSync not set")
	}
}

func TestMirrorQueryMatchesServer(t *testing.T) {
	m, c, _ := newTestMirror(t, MirrorOptions{})
	ctx := context.Background()

	// A mixed dataset: priorities, completion states, due dates and gaps.
	for i := 1; i <= 12; i++ {
		req := service.CreateRequest{Title: fmt.Sprintf("item %02d", i)}
		p := model.Priority(i % 3)
		req.Priority = &p
		if i%4 != 0 {
			due := time.Now().UTC().AddDate(0, 0, 14-i)
			req.DueDate = &due
		}
		item, err := m.Create(ctx, req)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if i%2 == 0 {
			if _, err := m.Toggle(ctx, item.ID); err != nil {
				t.Fatalf("Toggle: %v", err)
			}
		}
	}
	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	completed := true
	high := model.PriorityHigh
	filters := map[string]func(*query.Filter){
		"default":       func(f *query.Filter) {},
		"completed":     func(f *query.Filter) { f.Completed = &completed },
		"priority high": func(f *query.Filter) { f.Priority = &high },
		"due ascending": func(f *query.Filter) { f.SortBy = query.SortDueDate; f.SortDescending = false },
		"title desc":    func(f *query.Filter) { f.SortBy = query.SortTitle; f.SortDescending = true },
		"page 2 size 3": func(f *query.Filter) { f.Page = 2; f.PageSize = 3 },
	}

	for name, mutate := range filters {
		t.Run(name, func(t *testing.T) {
			f := query.NewFilter()
			mutate(&f)

			remote, err := c.List(ctx, f)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			local, total := m.Query(f)

			if total != remote.TotalCount {
				t.Errorf("total = %d, server says %d", total, remote.TotalCount)
			}
			if len(local) != len(remote.Items) {
				t.Fatalf("len = %d, server returned %d", len(local), len(remote.Items))
			}
			for i := range local {
				if local[i].ID != remote.Items[i].ID {
					t.Errorf("position %d: id = %d, server has %d", i, local[i].ID, remote.Items[i].ID)
				}
			}
		})
	}
}

func TestMirrorCreatePatchesCache(t *testing.T) {
	m, _, _ := newTestMirror(t, MirrorOptions{})
	ctx := context.Background()

	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	item, err := m.Create(ctx, service.CreateRequest{Title: "instant"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Visible in the cache without any refresh.
	got, ok := m.Get(item.ID)
	if !ok {
		t.Fatal("created item not in cache")
	}
	if got.Title != "instant" {
		t.Errorf("Title = %q, want %q", got.Title, "instant")
	}
}

func TestMirrorDeleteMovesAcrossSets(t *testing.T) {
	m, _, _ := newTestMirror(t, MirrorOptions{})
	ctx := context.Background()

	item, err := m.Create(ctx, service.CreateRequest{Title: "leaving"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := m.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, ok := m.Get(item.ID); ok {
		t.Error("deleted item still in the active cache")
	}
	deleted, total := m.QueryDeleted(query.NewFilter())
	if total != 1 || deleted[0].ID != item.ID {
		t.Fatalf("deleted cache = %+v (total %d), want item %d", deleted, total, item.ID)
	}
	if !deleted[0].Deleted || deleted[0].DeletedAt == nil {
		t.Errorf("deleted cache entry missing flags: %+v", deleted[0])
	}
}

func TestMirrorRestoreMovesBack(t *testing.T) {
	m, _, _ := newTestMirror(t, MirrorOptions{})
	ctx := context.Background()

	item, err := m.Create(ctx, service.CreateRequest{Title: "boomerang"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Delete(ctx, item.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	restored, err := m.Restore(ctx, item.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Deleted || restored.DeletedAt != nil {
		t.Errorf("restored item still flagged: %+v", restored)
	}

	if _, ok := m.Get(item.ID); !ok {
		t.Error("restored item missing from the active cache")
	}
	if _, total := m.QueryDeleted(query.NewFilter()); total != 0 {
		t.Errorf("deleted cache total = %d, want 0", total)
	}
}

func TestMirrorSnapshotIsDetached(t *testing.T) {
	m, _, _ := newTestMirror(t, MirrorOptions{})
	ctx := context.Background()

	kept, err := m.Create(ctx, service.CreateRequest{Title: "kept"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	binned, err := m.Create(ctx, service.CreateRequest{Title: "binned"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Delete(ctx, binned.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	active, deleted := m.Snapshot()
	if len(active) != 1 || active[0].ID != kept.ID {
		t.Errorf("active snapshot = %+v, want only item %d", active, kept.ID)
	}
	if len(deleted) != 1 || deleted[0].ID != binned.ID {
		t.Errorf("deleted snapshot = %+v, want only item %d", deleted, binned.ID)
	}

	// The snapshot does not follow later cache changes.
	if _, err := m.Restore(ctx, binned.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(deleted) != 1 {
		t.Errorf("snapshot changed after restore: %+v", deleted)
	}
}

func TestMirrorToggleUpdatesCache(t *testing.T) {
	m, _, _ := newTestMirror(t, MirrorOptions{})
	ctx := context.Background()

	item, err := m.Create(ctx, service.CreateRequest{Title: "flip"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := m.Toggle(ctx, item.ID); err != nil {
		t.Fatalf("Toggle: %v", err)
	}

	got, ok := m.Get(item.ID)
	if !ok {
		t.Fatal("item missing from cache")
	}
	if !got.Completed {
		t.Error("cache not patched with toggled state")
	}
}

func TestMirrorFailedMutationLeavesCacheAlone(t *testing.T) {
	m, _, _ := newTestMirror(t, MirrorOptions{})
	ctx := context.Background()

	item, err := m.Create(ctx, service.CreateRequest{Title: "untouched"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// An invalid update is rejected by the server; the cache keeps the old
	// state.
	if _, err := m.Update(ctx, item.ID, service.UpdateRequest{Title: ""}); err == nil {
		t.Fatal("expected validation error")
	}

	got, ok := m.Get(item.ID)
	if !ok {
		t.Fatal("item missing from cache")
	}
	if got.Title != "untouched" {
		t.Errorf("Title = %q, cache was patched on failure", got.Title)
	}
}

func TestMirrorServesStaleOnRefreshFailure(t *testing.T) {
	c, fake := newTestBackend(t)
	m := NewMirror(c, MirrorOptions{})
	ctx := context.Background()

	if _, err := m.Create(ctx, service.CreateRequest{Title: "survivor"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	fake.ListErr = errors.New("backend down")
	if err := m.Load(ctx); err == nil {
		t.Fatal("expected refresh failure")
	}

	// The previous snapshot keeps serving reads.
	if _, total := m.Query(query.NewFilter()); total != 1 {
		t.Errorf("total = %d, want the stale snapshot", total)
	}
	st := m.Status()
	if st.LastError == nil {
		t.Error("LastError not recorded")
	}
	if !st.Loaded {
		t.Error("Loaded flipped off by a failed refresh")
	}
}

func TestMirrorRefetchPicksUpRemoteChanges(t *testing.T) {
	m, _, backend := newTestMirror(t, MirrorOptions{RefreshInterval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	if err := m.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	m.Start(ctx)

	// Another consumer writes directly to the backend.
	backend.addItem(t, "out of band")

	if st := m.Status(); st.ActiveCount != 0 {
		t.Fatalf("ActiveCount = %d before refetch, want 0", st.ActiveCount)
	}

	m.Refetch()
	waitFor(t, 2*time.Second, func() bool {
		return m.Status().ActiveCount == 1
	})
}
