package timeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantt/internal/domain"
)

// fourWeeks covers Mon 6 Jan 2025 through Sun 2 Feb 2025.
func fourWeeks(t *testing.T) []WeekRange {
	t.Helper()
	weeks := CalculateWeeklyRanges(span(day(2025, 1, 6), day(2025, 2, 2)))
	require.Len(t, weeks, 4)
	return weeks
}

func task(start, end time.Time) domain.Task {
	return domain.Task{ID: "t", Name: "t", StartDate: start, EndDate: end}
}

func TestTaskBarStyle_WithinGrid(t *testing.T) {
	weeks := fourWeeks(t)

	got := TaskBarStyle(task(day(2025, 1, 8), day(2025, 1, 15)), weeks, 150)

	assert.InDelta(t, 2.0/7*150, got.Left, 1e-9)
	assert.InDelta(t, 150.0, got.Width, 1e-9)
}

func TestTaskBarStyle_SingleDayHitsMinimumWidth(t *testing.T) {
	weeks := fourWeeks(t)

	got := TaskBarStyle(task(day(2025, 1, 6), day(2025, 1, 6)), weeks, 150)

	assert.Equal(t, 0.0, got.Left)
	assert.Equal(t, MinBarWidth, got.Width)
	assert.Equal(t, "0px", got.LeftPx())
	assert.Equal(t, "10px", got.WidthPx())
}

func TestTaskBarStyle_StartBeforeGridUsesFirstUpcomingWeek(t *testing.T) {
	weeks := fourWeeks(t)

	got := TaskBarStyle(task(day(2025, 1, 1), day(2025, 1, 14)), weeks, 150)

	assert.Equal(t, 0.0, got.Left)
	assert.InDelta(t, 150+150.0/7, got.Width, 1e-9)
}

func TestTaskBarStyle_EndAfterGridUsesLastWeek(t *testing.T) {
	weeks := fourWeeks(t)

	got := TaskBarStyle(task(day(2025, 1, 27), day(2025, 3, 1)), weeks, 150)

	assert.InDelta(t, 450.0, got.Left, 1e-9)
	assert.InDelta(t, 150.0, got.Width, 1e-9)
}

func TestTaskBarStyle_EntirelyAfterGrid(t *testing.T) {
	weeks := fourWeeks(t)

	got := TaskBarStyle(task(day(2025, 3, 1), day(2025, 3, 3)), weeks, 150)

	assert.InDelta(t, 150.0, got.Left, 1e-9)
	assert.InDelta(t, 450.0, got.Width, 1e-9)
}

func TestTaskBarStyle_EmptyWeeks(t *testing.T) {
	got := TaskBarStyle(task(day(2025, 1, 8), day(2025, 1, 15)), nil, 150)

	assert.Equal(t, BarStyle{}, got)
	assert.Equal(t, "0px", got.LeftPx())
	assert.Equal(t, "0px", got.WidthPx())
}

func TestTaskBarStyle_NonPositiveWidthFallsBackToDefault(t *testing.T) {
	weeks := fourWeeks(t)
	tk := task(day(2025, 1, 13), day(2025, 1, 20))

	assert.Equal(t, TaskBarStyle(tk, weeks, DefaultWeekColumnWidth), TaskBarStyle(tk, weeks, 0))
	assert.Equal(t, TaskBarStyle(tk, weeks, DefaultWeekColumnWidth), TaskBarStyle(tk, weeks, -20))
}

func TestTaskBarStyle_MissingDateIsMinimumBarAtOrigin(t *testing.T) {
	weeks := fourWeeks(t)

	got := TaskBarStyle(task(time.Time{}, day(2025, 1, 15)), weeks, 150)

	assert.Equal(t, BarStyle{Left: 0, Width: MinBarWidth}, got)
}

func TestTaskBarStyle_CustomWidthScales(t *testing.T) {
	weeks := fourWeeks(t)
	tk := task(day(2025, 1, 13), day(2025, 1, 27))

	narrow := TaskBarStyle(tk, weeks, 70)
	wide := TaskBarStyle(tk, weeks, 140)

	assert.InDelta(t, narrow.Left*2, wide.Left, 1e-9)
	assert.InDelta(t, narrow.Width*2, wide.Width, 1e-9)
}

func TestSecondaryBarStyle(t *testing.T) {
	weeks := fourWeeks(t)

	_, ok := SecondaryBarStyle(task(day(2025, 1, 6), day(2025, 1, 8)), weeks, 150)
	assert.False(t, ok)

	tk := task(day(2025, 1, 6), day(2025, 1, 8))
	tk.StartDate2 = day(2025, 1, 13)
	tk.EndDate2 = day(2025, 1, 19)

	got, ok := SecondaryBarStyle(tk, weeks, 150)
	require.True(t, ok)
	assert.InDelta(t, 150.0, got.Left, 1e-9)
	assert.InDelta(t, 6.0/7*150, got.Width, 1e-9)
}

func TestMilestoneMarker(t *testing.T) {
	m := MilestoneMarker(BarStyle{Left: 300, Width: 10})
	assert.Equal(t, BarStyle{Left: 292, Width: MilestoneSize}, m)
}

func TestBarStyle_PixelStrings(t *testing.T) {
	b := BarStyle{Left: 42.5, Width: 150}
	assert.Equal(t, "42.5px", b.LeftPx())
	assert.Equal(t, "150px", b.WidthPx())
	assert.Equal(t, 192.5, b.Right())
}

func TestTaskBarStyle_LeftIsMonotonicInStart(t *testing.T) {
	weeks := CalculateWeeklyRanges(span(day(2024, 12, 30), day(2026, 1, 4)))
	base := day(2025, 1, 1)

	for _, length := range []int{0, 1, 4, 6, 13, 30} {
		prev := TaskBarStyle(task(base, base.AddDate(0, 0, length)), weeks, 150)
		for offset := 1; offset <= 300; offset++ {
			start := base.AddDate(0, 0, offset)
			cur := TaskBarStyle(task(start, start.AddDate(0, 0, length)), weeks, 150)
			require.LessOrEqual(t, prev.Left, cur.Left, "length %d, start %s", length, FormatDateFull(start))
			prev = cur
		}
	}
}
