package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/hierarchy"
)

const taskColumns = `id, name, start_date, end_date, start_date2, end_date2, progress, type, parent_id, fields`

// SQLiteTaskSource reads the tasks table of a SQLite database. It never
// writes.
type SQLiteTaskSource struct {
	uow  db.UnitOfWork
	path string
}

// NewSQLiteTaskSource creates a source over an open database. path is
// only reported for watching.
func NewSQLiteTaskSource(uow db.UnitOfWork, path string) *SQLiteTaskSource {
	return &SQLiteTaskSource{uow: uow, path: path}
}

func (s *SQLiteTaskSource) Path() string { return s.path }

// Load reads every task inside one transaction. Children lists are
// derived from parent_id in order_index order.
func (s *SQLiteTaskSource) Load(ctx context.Context) (*Snapshot, error) {
	var tasks []domain.Task
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		rows, err := tx.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks ORDER BY order_index, rowid`)
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return err
			}
			tasks = append(tasks, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return &Snapshot{Tasks: hierarchy.LinkChildren(tasks)}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(sc scanner) (domain.Task, error) {
	var (
		t                                  domain.Task
		start, end, start2, end2, parentID sql.NullString
		typ                                string
		fields                             sql.NullString
	)
	if err := sc.Scan(&t.ID, &t.Name, &start, &end, &start2, &end2, &t.Progress, &typ, &parentID, &fields); err != nil {
		return domain.Task{}, fmt.Errorf("scanning task: %w", err)
	}

	var err error
	if t.StartDate, err = parseNullableDate(start); err != nil {
		return domain.Task{}, fmt.Errorf("task %s: start_date: %w", t.ID, err)
	}
	if t.EndDate, err = parseNullableDate(end); err != nil {
		return domain.Task{}, fmt.Errorf("task %s: end_date: %w", t.ID, err)
	}
	if t.StartDate2, err = parseNullableDate(start2); err != nil {
		return domain.Task{}, fmt.Errorf("task %s: start_date2: %w", t.ID, err)
	}
	if t.EndDate2, err = parseNullableDate(end2); err != nil {
		return domain.Task{}, fmt.Errorf("task %s: end_date2: %w", t.ID, err)
	}
	if t.Type, err = domain.ParseTaskType(typ); err != nil {
		return domain.Task{}, fmt.Errorf("task %s: %w", t.ID, err)
	}
	if parentID.Valid {
		t.Parent = parentID.String
	}
	if t.Fields, err = parseFields(fields); err != nil {
		return domain.Task{}, fmt.Errorf("task %s: %w", t.ID, err)
	}
	return t, nil
}
