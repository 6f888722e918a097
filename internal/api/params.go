package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
)

// pathID parses the {id} path segment. A non-numeric id behaves like an
// unmatched route, so callers answer it with 404 rather than a validation
// failure.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil
}

// parseListFilter builds a query filter from the URL parameters, reporting
// every unparseable or out-of-range value as a field violation. Absent
// parameters keep the filter defaults.
func parseListFilter(values url.Values) (query.Filter, fieldErrors) {
	f := query.NewFilter()
	fe := fieldErrors{}

	if raw := values.Get("isCompleted"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fe.add("IsCompleted", "isCompleted must be true or false")
		} else {
			f.Completed = &v
		}
	}

	if raw := values.Get("priority"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !model.Priority(n).IsValid() {
			fe.add("Priority", "priority must be 0 (Low), 1 (Medium), or 2 (High)")
		} else {
			p := model.Priority(n)
			f.Priority = &p
		}
	}

	if raw := values.Get("sortBy"); raw != "" {
		if !query.IsSortKey(raw) {
			fe.add("SortBy", "sortBy must be one of title, dueDate, priority, isCompleted, createdAt")
		} else {
			f.SortBy = raw
		}
	}

	if raw := values.Get("sortDescending"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fe.add("SortDescending", "sortDescending must be true or false")
		} else {
			f.SortDescending = v
		}
	}

	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fe.add("Page", "page must be an integer")
		case n < 1:
			fe.add("Page", "page must be at least 1")
		default:
			f.Page = n
		}
	}

	if raw := values.Get("pageSize"); raw != "" {
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			fe.add("PageSize", "pageSize must be an integer")
		case n < 1 || n > query.MaxPageSize:
			fe.add("PageSize", fmt.Sprintf("pageSize must be between 1 and %d", query.MaxPageSize))
		default:
			f.PageSize = n
		}
	}

	return f, fe
}
