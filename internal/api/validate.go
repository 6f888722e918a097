package api

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nhle/todo-service/internal/service"
)

// Validation limits for item payloads.
const (
	titleMaxLen       = 200
	descriptionMaxLen = 1000

	// dueDateGrace widens the "today or later" rule against UTC so that a
	// client a few timezones behind UTC can still submit its local today.
	dueDateGrace = 12 * time.Hour
)

// fieldErrors collects rule violations keyed by field name. Every rule is
// checked so a response reports all violations at once.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, message string) {
	fe[field] = append(fe[field], message)
}

// validateCreate checks a create payload against all field rules.
func (s *Server) validateCreate(req service.CreateRequest) fieldErrors {
	fe := fieldErrors{}
	validateTitle(fe, req.Title)
	validateDescription(fe, req.Description)
	s.validateDueDate(fe, req.DueDate)
	if req.Priority != nil && !req.Priority.IsValid() {
		fe.add("Priority", "priority must be 0 (Low), 1 (Medium), or 2 (High)")
	}
	return fe
}

// validateUpdate checks a full-replacement payload against all field rules.
func (s *Server) validateUpdate(req service.UpdateRequest) fieldErrors {
	fe := fieldErrors{}
	validateTitle(fe, req.Title)
	validateDescription(fe, req.Description)
	s.validateDueDate(fe, req.DueDate)
	if !req.Priority.IsValid() {
		fe.add("Priority", "priority must be 0 (Low), 1 (Medium), or 2 (High)")
	}
	return fe
}

func validateTitle(fe fieldErrors, title string) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		fe.add("Title", "title is required")
		return
	}
	if utf8.RuneCountInString(trimmed) > titleMaxLen {
		fe.add("Title", fmt.Sprintf("title must be at most %d characters", titleMaxLen))
	}
}

func validateDescription(fe fieldErrors, description string) {
	if utf8.RuneCountInString(strings.TrimSpace(description)) > descriptionMaxLen {
		fe.add("Description", fmt.Sprintf("description must be at most %d characters", descriptionMaxLen))
	}
}

// validateDueDate accepts any due date on or after the start of the UTC day
// shifted back by the grace window. Absent due dates are always valid.
func (s *Server) validateDueDate(fe fieldErrors, due *time.Time) {
	if due == nil {
		return
	}
	earliest := startOfDay(s.now().UTC().Add(-dueDateGrace))
	if due.Before(earliest) {
		fe.add("DueDate", "due date must be today or later")
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
