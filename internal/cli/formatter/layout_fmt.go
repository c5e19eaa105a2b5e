package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/hierarchy"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/timeline"
)

// FormatRows renders the visible rows as a tree with dates and geometry.
func FormatRows(layout *service.Layout) string {
	if len(layout.Rows) == 0 {
		return Dim("No visible tasks.") + "\n"
	}
	rows := make([]domain.Row, len(layout.Rows))
	for i, r := range layout.Rows {
		rows[i] = r.Row
	}
	geometry := make(map[string]timeline.BarStyle, len(layout.Rows))
	for _, r := range layout.Rows {
		geometry[r.ID] = r.Bar
	}
	items := TreeItems(rows, func(r domain.Row) string {
		bar := geometry[r.ID]
		span := "no dates"
		if r.HasDates() {
			span = timeline.FormatDateFull(r.StartDate) + " → " + timeline.FormatDateFull(r.EndDate)
		}
		return fmt.Sprintf("%s  left %s  width %s", span, bar.LeftPx(), bar.WidthPx())
	})
	return RenderTree(items)
}

// FormatWeeks lists month groups with their weeks.
func FormatWeeks(weeks []timeline.WeekRange) string {
	if len(weeks) == 0 {
		return Dim("Empty timeline.") + "\n"
	}
	var b strings.Builder
	for _, m := range timeline.MonthGroups(weeks) {
		b.WriteString(Header(m.Label))
		b.WriteString("\n")
		rows := make([][]string, 0, m.WeekCount)
		for i := m.StartIndex; i < m.StartIndex+m.WeekCount; i++ {
			w := weeks[i]
			rows = append(rows, []string{
				strconv.Itoa(i),
				timeline.FormatDateFull(w.Start),
				timeline.FormatDateFull(w.End),
				timeline.WeekLabel(w),
			})
		}
		b.WriteString(RenderTable([]string{"#", "Start", "End", "Label"}, rows))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("%d weeks", len(weeks))))
	return b.String()
}

// FormatIssues lists forest validation issues, or a success line.
func FormatIssues(issues []hierarchy.Issue) string {
	if len(issues) == 0 {
		return StyleGreen.Render("✔ Task hierarchy is consistent.") + "\n"
	}
	var b strings.Builder
	for _, is := range issues {
		fmt.Fprintf(&b, "%s %s %s\n", StyleRed.Render("✖"), StyleYellow.Render(string(is.Kind)), is.Message)
	}
	fmt.Fprintf(&b, "%s\n", Dim(fmt.Sprintf("%d issue(s)", len(issues))))
	return b.String()
}

// FormatWarnings renders layout warnings under a dim heading.
func FormatWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleYellow.Render("warnings:") + "\n")
	for _, w := range warnings {
		b.WriteString("  " + Dim("•") + " " + w + "\n")
	}
	return b.String()
}

// FormatTaskDetail renders one task for the TUI status line and the
// delete confirmation.
func FormatTaskDetail(t domain.Task) string {
	parts := []string{
		Bold(t.Name),
		TypeBadge(t.Type),
		DateSpan(t.StartDate, t.EndDate),
	}
	if t.HasDates() {
		parts = append(parts, Dim(FormatDays(timeline.GetDuration(t.StartDate, t.EndDate))))
	}
	parts = append(parts, RenderProgress(t.Progress, 10))
	return strings.Join(parts, "  ")
}
