package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nhle/todo-service/internal/model"
	"github.com/nhle/todo-service/internal/query"
)

// GetItem retrieves an active item by id.
func (s *SQLiteStore) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	return s.getItem(ctx, "SELECT * FROM items WHERE id = ? AND deleted = 0", id)
}

// GetItemAny retrieves an item by id regardless of its deleted state.
func (s *SQLiteStore) GetItemAny(ctx context.Context, id int64) (*model.Item, error) {
	return s.getItem(ctx, "SELECT * FROM items WHERE id = ?", id)
}

func (s *SQLiteStore) getItem(ctx context.Context, q string, id int64) (*model.Item, error) {
	row := s.db.QueryRowxContext(ctx, q, id)

	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting item %d: %w", id, err)
	}

	return &item, nil
}

// AddItem inserts a new item and fills in the id assigned by the database.
// All field values, including CreatedAt, are stored exactly as provided.
func (s *SQLiteStore) AddItem(ctx context.Context, item *model.Item) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO items (
			title, description, completed, created_at,
			due_date, priority, deleted, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.Title, item.Description, boolToInt(item.Completed), item.CreatedAt,
		item.DueDate, int(item.Priority), boolToInt(item.Deleted), item.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading new item id: %w", err)
	}
	item.ID = id

	return nil
}

// UpdateItem replaces the mutable fields of an active item: title,
// description, completed, due date, and priority. Identity and lifecycle
// fields are never touched here.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item model.Item) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE items SET
			title = ?, description = ?, completed = ?, due_date = ?, priority = ?
		WHERE id = ? AND deleted = 0`,
		item.Title, item.Description, boolToInt(item.Completed),
		item.DueDate, int(item.Priority),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item %d: %w", item.ID, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDeleteItem flags an active item as deleted and stamps deleted_at.
// Missing and already-deleted items both report false; callers treat the two
// cases the same way.
func (s *SQLiteStore) SoftDeleteItem(ctx context.Context, id int64) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE items SET deleted = 1, deleted_at = ? WHERE id = ? AND deleted = 0",
		time.Now().UTC(), id,
	)
	if err != nil {
		return false, fmt.Errorf("soft-deleting item %d: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// RestoreItem moves a soft-deleted item back into the active view and
// returns the restored row.
func (s *SQLiteStore) RestoreItem(ctx context.Context, id int64) (*model.Item, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE items SET deleted = 0, deleted_at = NULL WHERE id = ? AND deleted = 1",
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("restoring item %d: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, ErrNotFound
	}

	return s.GetItem(ctx, id)
}

// ListItems selects one view's rows, narrowed by the indexed completion and
// priority columns, then hands the set to the shared query engine for
// counting, ordering, and pagination. Rows are read in ascending id order so
// sort ties resolve exactly as they do for the client-side cache.
func (s *SQLiteStore) ListItems(
	ctx context.Context,
	view View,
	f query.Filter,
) ([]model.Item, int, error) {
	conditions := []string{"deleted = ?"}
	args := []interface{}{boolToInt(view == ViewDeleted)}

	if f.Completed != nil {
		conditions = append(conditions, "completed = ?")
		args = append(args, boolToInt(*f.Completed))
	}
	if f.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, int(*f.Priority))
	}

	q := "SELECT * FROM items WHERE " + strings.Join(conditions, " AND ") + " ORDER BY id"

	rows, err := s.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("reading item rows: %w", err)
	}

	page, total := query.Apply(items, f)
	return page, total, nil
}
