package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantt/internal/db"
)

func openUoW(t *testing.T) (*db.SQLiteUnitOfWork, db.DBTX) {
	t.Helper()
	database, err := db.OpenDB(db.Memory)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return db.NewSQLiteUnitOfWork(database), database
}

func countTasks(t *testing.T, q db.DBTX) int {
	t.Helper()
	var n int
	require.NoError(t, q.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM tasks`).Scan(&n))
	return n
}

func insertTask(ctx context.Context, tx db.DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO tasks (id, name) VALUES (?, ?)`, id, "task "+id)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, raw := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		return insertTask(ctx, tx, "a")
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countTasks(t, raw))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, raw := openUoW(t)
	sentinel := errors.New("deliberate failure")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertTask(ctx, tx, "a"); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, 0, countTasks(t, raw))
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, raw := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertTask(ctx, tx, "a")
			panic("boom")
		})
	})
	assert.Equal(t, 0, countTasks(t, raw))
}

func TestWithinTx_ReadsSeeOwnSnapshot(t *testing.T) {
	uow, _ := openUoW(t)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		require.NoError(t, insertTask(ctx, tx, "a"))
		require.NoError(t, insertTask(ctx, tx, "b"))
		assert.Equal(t, 2, countTasks(t, tx))
		return nil
	})
	require.NoError(t, err)
}
