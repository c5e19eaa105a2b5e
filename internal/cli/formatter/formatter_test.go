package formatter

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/hierarchy"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/alexanderramin/gantt/internal/timeline"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func chartLayout(t *testing.T, expanded ...string) *service.Layout {
	t.Helper()
	d := testutil.Date
	repo := repository.NewMemoryTaskRepo(testutil.Forest(
		testutil.NewTestTask("Release", testutil.WithID("p"), testutil.WithType(domain.TaskTypeProject),
			testutil.WithDates(d(2025, 1, 6), d(2025, 1, 17))),
		testutil.NewTestTask("Implement", testutil.WithID("a"), testutil.WithParent("p"),
			testutil.WithDates(d(2025, 1, 6), d(2025, 1, 12)), testutil.WithProgress(50)),
		testutil.NewTestTask("Sign-off", testutil.WithID("m"), testutil.WithParent("p"),
			testutil.WithType(domain.TaskTypeMilestone), testutil.WithDates(d(2025, 1, 15), d(2025, 1, 15))),
	))
	layout, err := service.NewLayoutService(repo).Compute(context.Background(), service.LayoutRequest{
		Expanded: hierarchy.NewExpandedSet(expanded...),
		EndYear:  2025,
		Today:    d(2025, 1, 1),
	})
	require.NoError(t, err)
	return layout
}

func TestFit(t *testing.T) {
	assert.Equal(t, "abc  ", Fit("abc", 5))
	assert.Equal(t, "abc…", Fit("abcdef", 4))
	assert.Equal(t, "abcd", Fit("abcd", 4))
	assert.Equal(t, "", Fit("abc", 0))
}

func TestExpandMarker(t *testing.T) {
	assert.Equal(t, "  ", ExpandMarker(domain.Row{}))
	assert.Equal(t, "▸ ", ExpandMarker(domain.Row{HasChildren: true}))
	assert.Equal(t, "▾ ", ExpandMarker(domain.Row{HasChildren: true, IsExpanded: true}))
}

func TestRenderChart(t *testing.T) {
	layout := chartLayout(t, "p")
	out := stripANSI(RenderChart(layout, ChartOptions{WeekWidth: 7, FirstWeek: 2, Weeks: 3, Cursor: -1}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)

	assert.Contains(t, lines[0], "Task name")
	assert.Contains(t, lines[0], "January 2025")
	assert.Contains(t, lines[1], "6 Jan")
	assert.Contains(t, lines[1], "20 Jan")
	assert.NotContains(t, lines[1], "30 Dec", "weeks before the window are hidden")

	assert.Contains(t, lines[2], "▾ Release")
	assert.Contains(t, lines[3], "    Implement")
	assert.Contains(t, lines[3], "2025-01-06")
	assert.Contains(t, lines[3], "7", "duration column")
	assert.Contains(t, lines[3], glyphDone)
	assert.Contains(t, lines[3], glyphTodo)
	assert.Contains(t, lines[4], glyphMilestone)
	assert.NotContains(t, lines[4], glyphTodo)
}

func TestRenderChart_Collapsed(t *testing.T) {
	out := stripANSI(RenderChart(chartLayout(t), ChartOptions{Cursor: 0}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[2], "▸ Release")
}

func TestRenderChart_Panes(t *testing.T) {
	layout := chartLayout(t, "p")

	tableOnly := stripANSI(RenderChart(layout, ChartOptions{HideTimeline: true, Cursor: -1}))
	assert.NotContains(t, tableOnly, "January")
	assert.Contains(t, tableOnly, "Implement")

	gridOnly := stripANSI(RenderChart(layout, ChartOptions{HideTable: true, Weeks: 4, Cursor: -1}))
	assert.NotContains(t, gridOnly, "Task name")
	assert.Contains(t, gridOnly, "December 2024")
}

func TestRenderBarLine_ClipsOutsideWindow(t *testing.T) {
	r := service.LayoutRow{Bar: timeline.BarStyle{Left: 0, Width: 150}}
	assert.Equal(t, strings.Repeat(" ", 14), stripANSI(renderBarLine(r, 14, 7.0/150, 300)))

	r = service.LayoutRow{Bar: timeline.BarStyle{Left: 300, Width: 10}}
	line := stripANSI(renderBarLine(r, 14, 7.0/150, 300))
	assert.True(t, strings.HasPrefix(line, glyphTodo), "a narrow bar still covers one cell")
}

func TestTreeItemsAndRenderTree(t *testing.T) {
	rows := []domain.Row{
		{Task: domain.Task{Name: "Root"}, Level: 0, HasChildren: true, IsExpanded: true},
		{Task: domain.Task{Name: "One"}, Level: 1, HasChildren: true},
		{Task: domain.Task{Name: "Two"}, Level: 1},
		{Task: domain.Task{Name: "Other"}, Level: 0},
	}
	items := TreeItems(rows, func(r domain.Row) string {
		if r.Name == "Two" {
			return "5 days"
		}
		return ""
	})
	assert.False(t, items[0].IsLast)
	assert.False(t, items[1].IsLast)
	assert.True(t, items[2].IsLast)
	assert.True(t, items[1].Collapsed)

	out := stripANSI(RenderTree(items))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Root", lines[0])
	assert.Equal(t, "├─ One ▸", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "└─ Two"))
	assert.True(t, strings.HasSuffix(lines[2], "[ 5 days ]"))
	assert.Equal(t, "Other", lines[3])
	assert.Empty(t, RenderTree(nil))
}

func TestRenderTable(t *testing.T) {
	out := stripANSI(RenderTable([]string{"A", "Long"}, [][]string{{"xyz", "1"}, {"q"}}))
	assert.Equal(t, "A    Long\n───  ────\nxyz  1\nq    \n", out)
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderProgress(t *testing.T) {
	assert.Equal(t, "[████░░░░░░]  45%", stripANSI(RenderProgress(45, 10)))
	assert.Equal(t, "[██████████] 100%", stripANSI(RenderProgress(140, 10)))
	assert.Equal(t, "[░░]   0%", stripANSI(RenderProgress(-3, 0)))
}

func TestFormatIssues(t *testing.T) {
	assert.Contains(t, stripANSI(FormatIssues(nil)), "consistent")

	out := stripANSI(FormatIssues(hierarchy.Validate([]domain.Task{{ID: "a", Parent: "ghost"}})))
	assert.Contains(t, out, "missing_parent")
	assert.Contains(t, out, "1 issue(s)")
}

func TestFormatWeeksAndRows(t *testing.T) {
	layout := chartLayout(t, "p")

	weeks := stripANSI(FormatWeeks(layout.Weeks[:3]))
	assert.Contains(t, weeks, "DECEMBER 2024")
	assert.Contains(t, weeks, "JANUARY 2025")
	assert.Contains(t, weeks, "2025-01-06")
	assert.Contains(t, weeks, "3 weeks")
	assert.Contains(t, stripANSI(FormatWeeks(nil)), "Empty timeline")

	rows := stripANSI(FormatRows(layout))
	assert.Contains(t, rows, "└─ Sign-off")
	assert.Contains(t, rows, "2025-01-06 → 2025-01-12  left 300px")
}

func TestFormatTaskDetail(t *testing.T) {
	task := testutil.NewTestTask("Ship", testutil.WithProgress(70))
	out := stripANSI(FormatTaskDetail(task))
	assert.Contains(t, out, "Ship")
	assert.Contains(t, out, "● task")
	assert.Contains(t, out, "7 days")
	assert.Contains(t, out, "70%")
	assert.Contains(t, stripANSI(DateSpan(task.StartDate, domain.Task{}.EndDate)), "no dates")
}

func TestRenderBox(t *testing.T) {
	out := stripANSI(RenderBox("tasks.json", "All good"))
	lines := strings.Split(out, "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.True(t, strings.HasPrefix(lines[0], "╭"))
	assert.Contains(t, out, "TASKS.JSON")
	assert.Contains(t, out, "All good")

	assert.NotContains(t, stripANSI(RenderBox("", "x")), "\n\n")
}
