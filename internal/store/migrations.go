package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS items (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	completed   INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	created_at  DATETIME NOT NULL,
	due_date    DATETIME,
	priority    INTEGER NOT NULL DEFAULT 1 CHECK(priority BETWEEN 0 AND 2),
	deleted     INTEGER NOT NULL DEFAULT 0 CHECK(deleted IN (0, 1)),
	deleted_at  DATETIME,
	CHECK((deleted = 0 AND deleted_at IS NULL) OR (deleted = 1 AND deleted_at IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_items_deleted ON items(deleted);
CREATE INDEX IF NOT EXISTS idx_items_completed ON items(deleted, completed);
CREATE INDEX IF NOT EXISTS idx_items_priority ON items(deleted, priority);
CREATE INDEX IF NOT EXISTS idx_items_due_date ON items(due_date);
CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
