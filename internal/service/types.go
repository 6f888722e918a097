package service

import (
	"time"

	"github.com/nhle/todo-service/internal/model"
)

// CreateRequest carries the client-supplied fields for a new item. A nil
// Priority means the default, Medium.
type CreateRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Priority    *model.Priority `json:"priority,omitempty"`
}

// UpdateRequest carries a full replacement of an item's mutable fields.
// Every field is written as given; an omitted optional field clears the
// stored value.
type UpdateRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	IsCompleted bool           `json:"isCompleted"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Priority    model.Priority `json:"priority"`
}
