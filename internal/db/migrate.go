package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list re-runs on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// parent_id carries no foreign key: orphaned rows must stay readable so
// validation can report them.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		start_date  TEXT,
		end_date    TEXT,
		progress    INTEGER NOT NULL DEFAULT 0 CHECK (progress BETWEEN 0 AND 100),
		type        TEXT NOT NULL DEFAULT 'task' CHECK (type IN ('task', 'project', 'milestone')),
		parent_id   TEXT,
		order_index INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks (parent_id, order_index)`,
	`ALTER TABLE tasks ADD COLUMN start_date2 TEXT`,
	`ALTER TABLE tasks ADD COLUMN end_date2 TEXT`,
	`ALTER TABLE tasks ADD COLUMN fields TEXT`,
}
