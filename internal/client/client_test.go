package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nhle/todo-service/internal/api"
	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
	"github.com/nhle/todo-service/internal/service"
	"github.com/nhle/todo-service/tests/testutil"
)

// newTestBackend serves the real handler stack over a fake service and
// returns a client pointed at it.
func newTestBackend(t *testing.T) (*Client, *testutil.FakeService) {
	t.Helper()

	fake := testutil.NewFakeService()
	srv := api.NewServer(fake, model.ServerConfig{}, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return NewClient(ts.URL, 5*time.Second), fake
}

func TestClientCreateAndGet(t *testing.T) {
	c, _ := newTestBackend(t)
	ctx := context.Background()

	due := time.Now().UTC().AddDate(0, 0, 3).Truncate(time.Second)
	p := model.PriorityHigh
	created, err := c.Create(ctx, service.CreateRequest{
		Title:       "sync the docs",
		Description: "before friday",
		DueDate:     &due,
		Priority:    &p,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("no id assigned")
	}

	got, err := c.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "sync the docs" || got.Priority != model.PriorityHigh {
		t.Errorf("got %+v, want title/priority round-tripped", got)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("DueDate = %v, want %v", got.DueDate, due)
	}
}

func TestClientListPaging(t *testing.T) {
	c, _ := newTestBackend(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := c.Create(ctx, service.CreateRequest{Title: "bulk"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	f := query.NewFilter()
	f.Page = 2
	f.PageSize = 2

	page, err := c.List(ctx, f)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.TotalCount != 5 {
		t.Errorf("totalCount = %d, want 5", page.TotalCount)
	}
	if len(page.Items) != 2 {
		t.Errorf("len(items) = %d, want 2", len(page.Items))
	}
	if page.Page != 2 || page.PageSize != 2 {
		t.Errorf("page metadata = %d/%d, want 2/2", page.Page, page.PageSize)
	}
}

func TestClientNotFound(t *testing.T) {
	c, _ := newTestBackend(t)

	_, err := c.Get(context.Background(), 999)
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound = false for %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err is %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound || apiErr.Type != model.ErrorTypeNotFound {
		t.Errorf("envelope = %+v, want 404/NotFound", apiErr)
	}
}

func TestClientValidationError(t *testing.T) {
	c, _ := newTestBackend(t)

	_, err := c.Create(context.Background(), service.CreateRequest{Title: "   "})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsValidation(err) {
		t.Fatalf("IsValidation = false for %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err is %T, want *APIError", err)
	}
	if len(apiErr.Fields["Title"]) == 0 {
		t.Errorf("Fields = %v, want a Title violation", apiErr.Fields)
	}
	if !strings.Contains(apiErr.Error(), "Title") {
		t.Errorf("Error() = %q, want it to name the field", apiErr.Error())
	}
}

func TestClientDelete(t *testing.T) {
	c, _ := newTestBackend(t)
	ctx := context.Background()

	created, err := c.Create(ctx, service.CreateRequest{Title: "short lived"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	// The item is gone from the active view and a repeat delete misses.
	if _, err := c.Get(ctx, created.ID); !IsNotFound(err) {
		t.Errorf("Get after delete = %v, want not-found", err)
	}
	if err := c.Delete(ctx, created.ID); !IsNotFound(err) {
		t.Errorf("second Delete = %v, want not-found", err)
	}

	// It shows up via the deleted listing and can be restored.
	page, err := c.ListDeleted(ctx, query.NewFilter())
	if err != nil {
		t.Fatalf("ListDeleted: %v", err)
	}
	if page.TotalCount != 1 || page.Items[0].ID != created.ID {
		t.Fatalf("deleted page = %+v, want item %d", page, created.ID)
	}

	restored, err := c.Restore(ctx, created.ID)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Deleted || restored.DeletedAt != nil {
		t.Errorf("restored item still flagged: %+v", restored)
	}
}

func TestClientGetDeleted(t *testing.T) {
	c, _ := newTestBackend(t)
	ctx := context.Background()

	created, err := c.Create(ctx, service.CreateRequest{Title: "in the bin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Only soft-deleted items are visible through the deleted detail path.
	if _, err := c.GetDeleted(ctx, created.ID); !IsNotFound(err) {
		t.Errorf("GetDeleted before delete = %v, want not-found", err)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := c.GetDeleted(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetDeleted: %v", err)
	}
	if got.ID != created.ID || !got.Deleted {
		t.Errorf("got %+v, want the deleted item", got)
	}
}

func TestClientRetriesRateLimit(t *testing.T) {
	var calls int
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.ItemPage{Items: []model.Item{}, Page: 1, PageSize: 10})
	}))
	t.Cleanup(ts.Close)

	c := NewClient(ts.URL, 5*time.Second)
	if _, err := c.List(context.Background(), query.NewFilter()); err != nil {
		t.Fatalf("List after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestClientDecodesNonEnvelopeErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(ts.Close)

	c := NewClient(ts.URL, 5*time.Second)
	_, err := c.List(context.Background(), query.NewFilter())
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err is %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway || apiErr.Message != "bad gateway" {
		t.Errorf("envelope = %+v, want raw 502 body", apiErr)
	}
}
