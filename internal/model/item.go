package model

import (
	"fmt"
	"time"
)

// Priority is the urgency level of an item. The integer values are the wire
// representation: 0 for Low, 1 for Medium, 2 for High.
type Priority int

const (
	PriorityLow    Priority = 0
	PriorityMedium Priority = 1
	PriorityHigh   Priority = 2
)

// IsValid reports whether p is one of the three defined levels.
func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// String returns the display name of the priority level.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// Item is a single todo entry. Soft deletion keeps the row in storage:
// Deleted flags it, DeletedAt records when, and DeletedAt is set exactly
// while Deleted is true. ID and CreatedAt never change after creation.
type Item struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description,omitempty" db:"description"`
	Completed   bool       `json:"isCompleted" db:"completed"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	DueDate     *time.Time `json:"dueDate,omitempty" db:"due_date"`
	Priority    Priority   `json:"priority" db:"priority"`
	Deleted     bool       `json:"isDeleted" db:"deleted"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// ItemPage is one page of query results together with the size of the whole
// filtered set. TotalCount reflects filtering only, never pagination.
type ItemPage struct {
	Items      []Item `json:"items"`
	TotalCount int    `json:"totalCount"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
}
