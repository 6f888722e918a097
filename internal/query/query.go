// Package query implements the filter, sort, and pagination contract shared
// by the SQLite store and the client-side cache mirror. Both execution sites
// feed their item sets through Apply, so the same filter over the same data
// yields the same page everywhere.
package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nhle/todo-service/internal/model"
)

// Sort keys accepted by Apply. Matching is case-insensitive; anything else
// falls back to SortCreatedAt.
const (
	SortTitle     = "title"
	SortDueDate   = "duedate"
	SortPriority  = "priority"
	SortCompleted = "iscompleted"
	SortCreatedAt = "createdat"
)

// Pagination bounds.
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Filter selects, orders, and pages an item set. Nil pointer fields leave
// the corresponding predicate unapplied.
type Filter struct {
	Completed      *bool
	Priority       *model.Priority
	SortBy         string
	SortDescending bool
	Page           int
	PageSize       int
}

// NewFilter returns a Filter with the documented defaults: creation time
// descending (newest first), page 1, page size 10.
func NewFilter() Filter {
	return Filter{
		SortDescending: true,
		Page:           DefaultPage,
		PageSize:       DefaultPageSize,
	}
}

// IsSortKey reports whether s names a recognized sort field. The empty
// string is accepted and means the default key.
func IsSortKey(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", SortTitle, SortDueDate, SortPriority, SortCompleted, SortCreatedAt:
		return true
	}
	return false
}

// Matches reports whether the item passes the filter's completion and
// priority predicates. It is idempotent: running it over an already-filtered
// set removes nothing.
func Matches(item model.Item, f Filter) bool {
	if f.Completed != nil && item.Completed != *f.Completed {
		return false
	}
	if f.Priority != nil && item.Priority != *f.Priority {
		return false
	}
	return true
}

// Apply runs the full query contract over items: filter, count, stable sort,
// then paginate. The returned count is the size of the filtered set before
// pagination, so it does not depend on Page or PageSize. The input slice is
// never reordered; callers pass items in ascending id order so that sort
// ties resolve identically at every execution site.
func Apply(items []model.Item, f Filter) ([]model.Item, int) {
	filtered := make([]model.Item, 0, len(items))
	for _, item := range items {
		if Matches(item, f) {
			filtered = append(filtered, item)
		}
	}
	total := len(filtered)

	key := sortKey(f.SortBy)
	slices.SortStableFunc(filtered, func(a, b model.Item) int {
		return compareItems(a, b, key, f.SortDescending)
	})

	page := f.Page
	if page < DefaultPage {
		page = DefaultPage
	}
	size := f.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	start := (page - 1) * size
	if start >= total {
		return []model.Item{}, total
	}
	end := start + size
	if end > total {
		end = total
	}
	return filtered[start:end], total
}

// sortKey canonicalizes a user-supplied sort field name.
func sortKey(s string) string {
	switch k := strings.ToLower(strings.TrimSpace(s)); k {
	case SortTitle, SortDueDate, SortPriority, SortCompleted:
		return k
	default:
		return SortCreatedAt
	}
}

// compareItems orders two items by the given key. Items without a due date
// always sort after items that have one, in both directions, so the gap rows
// land in the same place no matter where the query runs.
func compareItems(a, b model.Item, key string, desc bool) int {
	if key == SortDueDate {
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return 0
		case a.DueDate == nil:
			return 1
		case b.DueDate == nil:
			return -1
		}
	}

	c := compareField(a, b, key)
	if desc {
		c = -c
	}
	return c
}

func compareField(a, b model.Item, key string) int {
	switch key {
	case SortTitle:
		return cmp.Compare(a.Title, b.Title)
	case SortDueDate:
		return a.DueDate.Compare(*b.DueDate)
	case SortPriority:
		return cmp.Compare(a.Priority, b.Priority)
	case SortCompleted:
		return compareBool(a.Completed, b.Completed)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// compareBool orders false before true.
func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	default:
		return 1
	}
}
