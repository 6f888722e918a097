package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nhle/todo-service/internal/model"
)

// dueDateLayout is the calendar-date format accepted by --due.
const dueDateLayout = "2006-01-02"

// FormatItem writes one item line: id, completion marker, title, and
// annotations for non-default priority, due date, and deletion time.
//
//	  42 [x] ship the release  (high)  due 2026-09-01
func FormatItem(w io.Writer, item model.Item) {
	mark := ' '
	if item.Completed {
		mark = 'x'
	}
	fmt.Fprintf(w, "%4d [%c] %s", item.ID, mark, normalizeTitle(item.Title))

	if item.Priority != model.PriorityMedium {
		fmt.Fprintf(w, "  (%s)", strings.ToLower(item.Priority.String()))
	}
	if item.DueDate != nil {
		fmt.Fprintf(w, "  due %s", item.DueDate.Format(dueDateLayout))
	}
	if item.DeletedAt != nil {
		fmt.Fprintf(w, "  deleted %s", item.DeletedAt.Format(dueDateLayout))
	}
	fmt.Fprintln(w)
}

// FormatPageSummary writes the trailer under a listing: how much of the
// filtered set this page covers.
func FormatPageSummary(w io.Writer, shown, total, page int) {
	if total == 0 {
		fmt.Fprintln(w, "no items")
		return
	}
	fmt.Fprintf(w, "(%d of %d items, page %d)\n", shown, total, page)
}

// normalizeTitle flattens newlines so one item stays on one line. Titles are
// validated non-empty at the API boundary, but cached or hand-built data may
// still be blank.
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// parseItemID parses the single positional id argument of item-addressed
// commands.
func parseItemID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("item id required")
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("expected one item id, got %d arguments", len(args))
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid item id: %s", args[0])
	}
	return id, nil
}

// parsePriority accepts the level names and their wire numbers.
func parsePriority(s string) (model.Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "0":
		return model.PriorityLow, nil
	case "medium", "1":
		return model.PriorityMedium, nil
	case "high", "2":
		return model.PriorityHigh, nil
	}
	return 0, fmt.Errorf("invalid priority: %s (use low, medium, or high)", s)
}

// parseDueDate parses a calendar date into a UTC midnight timestamp.
func parseDueDate(s string) (time.Time, error) {
	t, err := time.Parse(dueDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date: %s (use YYYY-MM-DD)", s)
	}
	return t.UTC(), nil
}
