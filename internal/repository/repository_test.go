package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/testutil"
)

func TestMemoryTaskRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepo(nil)
	a := testutil.NewTestTask("A", testutil.WithID("a"))

	require.NoError(t, repo.Create(ctx, a))
	assert.ErrorIs(t, repo.Create(ctx, a), ErrDuplicateID)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)

	got.Name = "A2"
	require.NoError(t, repo.Update(ctx, got))
	got, _ = repo.GetByID(ctx, "a")
	assert.Equal(t, "A2", got.Name)

	assert.ErrorIs(t, repo.Update(ctx, domain.Task{ID: "zzz"}), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.GetByID(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "a"), ErrNotFound)
}

func TestMemoryTaskRepo_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	seed := []domain.Task{{ID: "p", Name: "P", Children: []string{"c"}}}
	repo := NewMemoryTaskRepo(seed)

	seed[0].Children[0] = "mutated"
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "c", list[0].Children[0])

	list[0].Children[0] = "mutated"
	again, _ := repo.List(ctx)
	assert.Equal(t, "c", again[0].Children[0])
}

func TestMemoryTaskRepo_RevisionAndApply(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepo([]domain.Task{{ID: "a"}})
	assert.Equal(t, uint64(0), repo.Revision())

	require.NoError(t, repo.Replace(ctx, []domain.Task{{ID: "b"}, {ID: "c"}}))
	assert.Equal(t, uint64(1), repo.Revision())

	boom := errors.New("boom")
	err := repo.Apply(ctx, func(tasks []domain.Task) ([]domain.Task, error) {
		return tasks[:1], boom
	})
	assert.ErrorIs(t, err, boom)
	list, _ := repo.List(ctx)
	assert.Len(t, list, 2, "failed apply leaves collection unchanged")
	assert.Equal(t, uint64(1), repo.Revision())

	require.NoError(t, repo.Apply(ctx, func(tasks []domain.Task) ([]domain.Task, error) {
		return tasks[1:], nil
	}))
	list, _ = repo.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, uint64(2), repo.Revision())
}

func TestMemoryTaskRepo_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryTaskRepo(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = repo.Create(ctx, testutil.NewTestTask("t"))
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.List(ctx)
		}()
	}
	wg.Wait()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 20)
	assert.Equal(t, uint64(20), repo.Revision())
}

func TestSQLiteTaskSource_Load(t *testing.T) {
	database := testutil.NewTestDB(t)
	root := testutil.NewTestTask("Root", testutil.WithID("r"), testutil.WithType(domain.TaskTypeProject),
		testutil.WithField("owner", "kim"))
	child1 := testutil.NewTestTask("One", testutil.WithID("c1"), testutil.WithParent("r"), testutil.WithProgress(30))
	child2 := testutil.NewTestTask("Two", testutil.WithID("c2"), testutil.WithParent("r"),
		testutil.WithSecondaryDates(testutil.Date(2025, 2, 1), testutil.Date(2025, 2, 3)))
	orphan := domain.Task{ID: "o", Name: "Orphan", Parent: "ghost"}
	testutil.SeedTasks(t, database, root, child1, child2, orphan)

	src := NewSQLiteTaskSource(testutil.NewTestUoW(database), "tasks.db")
	snap, err := src.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, snap.Tasks, 4)
	got := snap.Tasks[0]
	assert.Equal(t, []string{"c1", "c2"}, got.Children)
	assert.Equal(t, domain.TaskTypeProject, got.Type)
	assert.Equal(t, "kim", got.Fields["owner"])
	assert.Equal(t, testutil.BaseDate, got.StartDate)

	assert.Equal(t, 30, snap.Tasks[1].Progress)
	assert.True(t, snap.Tasks[2].HasSecondaryRange())
	assert.True(t, snap.Tasks[3].StartDate.IsZero(), "NULL dates stay missing")
	assert.Equal(t, "ghost", snap.Tasks[3].Parent)
	assert.Equal(t, "tasks.db", src.Path())
}

func TestSQLiteTaskSource_BadDate(t *testing.T) {
	database := testutil.NewTestDB(t)
	_, err := database.Exec(`INSERT INTO tasks (id, name, start_date) VALUES ('x', 'X', 'soon')`)
	require.NoError(t, err)

	_, err = NewSQLiteTaskSource(testutil.NewTestUoW(database), "").Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "task x: start_date")
}

func TestSQLiteTaskSource_TxFailure(t *testing.T) {
	boom := errors.New("db unavailable")
	_, err := NewSQLiteTaskSource(testutil.FailingUoW{Err: boom}, "").Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestOpenSource(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plan.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"id":"a","name":"A","startDate":"2025-01-06","endDate":"2025-01-08"}]`), 0o644))

	src, closer, err := OpenSource(file)
	require.NoError(t, err)
	defer closer.Close()
	snap, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Tasks, 1)

	_, _, err = OpenSource(filepath.Join(dir, "absent.db"))
	require.Error(t, err)

	assert.True(t, IsDatabasePath("x.SQLITE"))
	assert.False(t, IsDatabasePath("x.yaml"))
}
