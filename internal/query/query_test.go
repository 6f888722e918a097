package query_test

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
)

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// newItem builds a test item whose creation time advances with its id.
// A negative dueOffset leaves the due date unset.
func newItem(id int64, completed bool, p model.Priority, dueOffset int) model.Item {
	it := model.Item{
		ID:        id,
		Title:     fmt.Sprintf("item %d", id),
		Completed: completed,
		Priority:  p,
		CreatedAt: base.Add(time.Duration(id) * time.Minute),
	}
	if dueOffset >= 0 {
		due := base.AddDate(0, 0, dueOffset)
		it.DueDate = &due
	}
	return it
}

func sampleItems() []model.Item {
	return []model.Item{
		newItem(1, false, model.PriorityLow, 5),
		newItem(2, true, model.PriorityHigh, 1),
		newItem(3, false, model.PriorityMedium, -1),
		newItem(4, true, model.PriorityMedium, 3),
		newItem(5, false, model.PriorityHigh, -1),
	}
}

func ids(items []model.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestApplyFiltersCompletion(t *testing.T) {
	f := query.NewFilter()
	completed := true
	f.Completed = &completed

	items, total := query.Apply(sampleItems(), f)

	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	for _, it := range items {
		if !it.Completed {
			t.Errorf("item %d is not completed", it.ID)
		}
	}
}

func TestApplyFiltersPriority(t *testing.T) {
	f := query.NewFilter()
	p := model.PriorityHigh
	f.Priority = &p

	items, total := query.Apply(sampleItems(), f)

	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	// Default sort is creation time descending.
	if got, want := ids(items), []int64{5, 2}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestApplyCombinesFilters(t *testing.T) {
	f := query.NewFilter()
	completed := false
	p := model.PriorityHigh
	f.Completed = &completed
	f.Priority = &p

	items, total := query.Apply(sampleItems(), f)

	if total != 1 {
		t.Fatalf("total = %d, want 1", total)
	}
	if items[0].ID != 5 {
		t.Errorf("id = %d, want 5", items[0].ID)
	}
}

func TestApplyDefaultSortNewestFirst(t *testing.T) {
	items, total := query.Apply(sampleItems(), query.NewFilter())

	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if got, want := ids(items), []int64{5, 4, 3, 2, 1}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestApplySortDueDateAscendingMissingLast(t *testing.T) {
	f := query.NewFilter()
	f.SortBy = query.SortDueDate
	f.SortDescending = false

	items, _ := query.Apply(sampleItems(), f)

	if got, want := ids(items), []int64{2, 4, 1, 3, 5}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestApplySortDueDateDescendingMissingStillLast(t *testing.T) {
	f := query.NewFilter()
	f.SortBy = query.SortDueDate
	f.SortDescending = true

	items, _ := query.Apply(sampleItems(), f)

	if got, want := ids(items), []int64{1, 4, 2, 3, 5}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestApplySortTitleCaseInsensitiveKey(t *testing.T) {
	items := sampleItems()
	items[0].Title = "zebra"
	items[1].Title = "apple"
	items[2].Title = "mango"
	items[3].Title = "apple"
	items[4].Title = "kiwi"

	f := query.NewFilter()
	f.SortBy = "Title"
	f.SortDescending = false

	got, _ := query.Apply(items, f)

	// The two "apple" rows tie; the stable sort keeps them in id order.
	if gotIDs, want := ids(got), []int64{2, 4, 5, 3, 1}; !slices.Equal(gotIDs, want) {
		t.Errorf("ids = %v, want %v", gotIDs, want)
	}
}

func TestApplySortPriorityDescendingStableTies(t *testing.T) {
	f := query.NewFilter()
	f.SortBy = query.SortPriority
	f.SortDescending = true

	items, _ := query.Apply(sampleItems(), f)

	if got, want := ids(items), []int64{2, 5, 3, 4, 1}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestApplySortCompletedAscending(t *testing.T) {
	f := query.NewFilter()
	f.SortBy = query.SortCompleted
	f.SortDescending = false

	items, _ := query.Apply(sampleItems(), f)

	if got, want := ids(items), []int64{1, 3, 5, 2, 4}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestApplyUnknownSortKeyFallsBackToCreatedAt(t *testing.T) {
	f := query.NewFilter()
	f.SortBy = "bogus"

	items, _ := query.Apply(sampleItems(), f)

	if got, want := ids(items), []int64{5, 4, 3, 2, 1}; !slices.Equal(got, want) {
		t.Errorf("ids = %v, want %v", got, want)
	}
}

func TestApplyPagination(t *testing.T) {
	items := make([]model.Item, 0, 25)
	for i := 1; i <= 25; i++ {
		items = append(items, newItem(int64(i), false, model.PriorityMedium, -1))
	}

	f := query.NewFilter()
	f.SortDescending = false
	f.Page = 3
	f.PageSize = 10

	got, total := query.Apply(items, f)

	if total != 25 {
		t.Fatalf("total = %d, want 25", total)
	}
	if gotIDs, want := ids(got), []int64{21, 22, 23, 24, 25}; !slices.Equal(gotIDs, want) {
		t.Errorf("ids = %v, want %v", gotIDs, want)
	}
}

func TestApplyPagesPartitionFilteredSet(t *testing.T) {
	items := make([]model.Item, 0, 23)
	for i := 1; i <= 23; i++ {
		items = append(items, newItem(int64(i), i%3 == 0, model.PriorityLow, -1))
	}

	completed := false
	f := query.NewFilter()
	f.Completed = &completed
	f.PageSize = 4

	_, total := query.Apply(items, f)
	if total != 16 {
		t.Fatalf("total = %d, want 16", total)
	}

	// Walking every page rebuilds the filtered set with each id exactly once.
	seen := make(map[int64]int)
	var got []int64
	for page := 1; (page-1)*f.PageSize < total; page++ {
		f.Page = page
		pageItems, pageTotal := query.Apply(items, f)
		if pageTotal != total {
			t.Errorf("page %d: total = %d, want %d", page, pageTotal, total)
		}
		for _, it := range pageItems {
			seen[it.ID]++
			got = append(got, it.ID)
		}
	}

	if len(got) != total {
		t.Fatalf("concatenated %d items across pages, want %d", len(got), total)
	}
	for id, n := range seen {
		if n != 1 {
			t.Errorf("item %d appeared %d times", id, n)
		}
	}
}

func TestApplyTotalCountIndependentOfPage(t *testing.T) {
	items := make([]model.Item, 0, 25)
	for i := 1; i <= 25; i++ {
		items = append(items, newItem(int64(i), i%2 == 0, model.PriorityMedium, -1))
	}

	completed := true
	for page := 1; page <= 4; page++ {
		f := query.NewFilter()
		f.Completed = &completed
		f.Page = page
		f.PageSize = 5

		_, total := query.Apply(items, f)
		if total != 12 {
			t.Errorf("page %d: total = %d, want 12", page, total)
		}
	}
}

func TestApplyPageBeyondRange(t *testing.T) {
	f := query.NewFilter()
	f.Page = 99

	items, total := query.Apply(sampleItems(), f)

	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("items = %v, want empty non-nil slice", items)
	}
}

func TestApplyClampsPageBounds(t *testing.T) {
	items := make([]model.Item, 0, 120)
	for i := 1; i <= 120; i++ {
		items = append(items, newItem(int64(i), false, model.PriorityLow, -1))
	}

	f := query.NewFilter()
	f.Page = 0
	f.PageSize = 500

	got, total := query.Apply(items, f)

	if total != 120 {
		t.Fatalf("total = %d, want 120", total)
	}
	if len(got) != query.MaxPageSize {
		t.Errorf("len = %d, want %d", len(got), query.MaxPageSize)
	}
}

func TestApplyEmptyInput(t *testing.T) {
	items, total := query.Apply(nil, query.NewFilter())

	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if len(items) != 0 {
		t.Errorf("items = %v, want empty", items)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	items := sampleItems()
	f := query.NewFilter()
	f.SortBy = query.SortTitle

	query.Apply(items, f)

	if got, want := ids(items), []int64{1, 2, 3, 4, 5}; !slices.Equal(got, want) {
		t.Errorf("input reordered to %v", got)
	}
}

func TestApplyIdempotentOverFilteredSet(t *testing.T) {
	f := query.NewFilter()
	completed := false
	f.Completed = &completed

	first, total1 := query.Apply(sampleItems(), f)
	second, total2 := query.Apply(first, f)

	if total1 != total2 {
		t.Errorf("totals differ: %d vs %d", total1, total2)
	}
	if !slices.Equal(ids(first), ids(second)) {
		t.Errorf("pages differ: %v vs %v", ids(first), ids(second))
	}
}

func TestIsSortKey(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"title", true},
		{"DueDate", true},
		{"PRIORITY", true},
		{"isCompleted", true},
		{"createdAt", true},
		{" title ", true},
		{"id", false},
		{"unknown", false},
	}

	for _, tc := range cases {
		if got := query.IsSortKey(tc.in); got != tc.want {
			t.Errorf("IsSortKey(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
