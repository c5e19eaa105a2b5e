package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskType(t *testing.T) {
	cases := map[string]TaskType{
		"":          TaskTypeTask,
		"task":      TaskTypeTask,
		"Project":   TaskTypeProject,
		"MILESTONE": TaskTypeMilestone,
	}
	for in, want := range cases {
		got, err := ParseTaskType(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got)
	}

	_, err := ParseTaskType("epic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid task type")
}

func TestTask_Clone_DoesNotShare(t *testing.T) {
	orig := Task{ID: "a", Children: []string{"b"}, Fields: map[string]any{"owner": "kim"}}
	c := orig.Clone()
	c.Children[0] = "z"
	c.Fields["owner"] = "lee"

	assert.Equal(t, "b", orig.Children[0])
	assert.Equal(t, "kim", orig.Fields["owner"])
}

func TestTask_Field(t *testing.T) {
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "1",
		Name:      "Design",
		StartDate: start,
		Progress:  40,
		Fields:    map[string]any{"priority": 2, "empty": nil},
	}

	v, ok := task.Field("startDate")
	require.True(t, ok)
	assert.Equal(t, start, v)

	_, ok = task.Field("endDate")
	assert.False(t, ok, "missing date is unset")

	v, ok = task.Field("priority")
	require.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = task.Field("empty")
	assert.False(t, ok)

	v, ok = task.Field("type")
	require.True(t, ok)
	assert.Equal(t, "task", v)
}

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, ClampProgress(-5))
	assert.Equal(t, 55, ClampProgress(55))
	assert.Equal(t, 100, ClampProgress(130))
}

func TestTask_ValidateEdit(t *testing.T) {
	d := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, Task{Name: "x", StartDate: d, EndDate: d}.ValidateEdit())

	err := Task{Name: "  ", StartDate: d, EndDate: d}.ValidateEdit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")

	err = Task{Name: "x", EndDate: d}.ValidateEdit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "start")

	err = Task{Name: "x", StartDate: d}.ValidateEdit()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end")
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("2025-02-28T17:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = ParseDate("28/02/2025")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestDateOf_KeepsZero(t *testing.T) {
	assert.True(t, DateOf(time.Time{}).IsZero())
	assert.Equal(t, "", FormatDate(time.Time{}))
}

func TestTasksByID_LaterDuplicateWins(t *testing.T) {
	m := TasksByID([]Task{{ID: "a", Name: "first"}, {ID: "a", Name: "second"}})
	assert.Equal(t, "second", m["a"].Name)
}

func TestCoalesceAndDeref(t *testing.T) {
	assert.Equal(t, "b", Coalesce("", "b", "c"))
	assert.Equal(t, "", Coalesce[string]())
	assert.Equal(t, 3, Coalesce(0, 3))

	no := false
	assert.True(t, Deref(true, nil))
	assert.False(t, Deref(true, &no))
}
