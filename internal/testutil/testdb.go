package testutil

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
)

// NewTestDB creates an in-memory SQLite database with the schema applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.Memory)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// SeedTasks inserts tasks in order; order_index follows slice position.
// Children lists are not stored; the source derives them from parents.
func SeedTasks(t *testing.T, database *sql.DB, tasks ...domain.Task) {
	t.Helper()
	ctx := context.Background()
	for i, task := range tasks {
		var fields any
		if len(task.Fields) > 0 {
			b, err := json.Marshal(task.Fields)
			if err != nil {
				t.Fatalf("encoding fields of %s: %v", task.ID, err)
			}
			fields = string(b)
		}
		_, err := database.ExecContext(ctx,
			`INSERT INTO tasks (id, name, start_date, end_date, start_date2, end_date2, progress, type, parent_id, order_index, fields)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			task.ID,
			task.Name,
			nullable(domain.FormatDate(task.StartDate)),
			nullable(domain.FormatDate(task.EndDate)),
			nullable(domain.FormatDate(task.StartDate2)),
			nullable(domain.FormatDate(task.EndDate2)),
			task.Progress,
			string(task.Type.OrDefault()),
			nullable(task.Parent),
			i,
			fields,
		)
		if err != nil {
			t.Fatalf("seeding task %s: %v", task.ID, err)
		}
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
