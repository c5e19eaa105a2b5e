package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/gantt/internal/column"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/timeline"
)

// PixelsPerChar converts column pixel widths into terminal cells.
const PixelsPerChar = 8

const (
	glyphDone      = "█"
	glyphTodo      = "▒"
	glyphSecondary = "─"
	glyphMilestone = "◆"
	indentPerLevel = 2
)

// ChartOptions sizes a terminal rendering of a layout.
type ChartOptions struct {
	Columns []column.Column
	// WeekWidth is the number of cells per week column.
	WeekWidth int
	// FirstWeek and Weeks select the visible window of the week axis.
	FirstWeek int
	Weeks     int
	// Cursor highlights one row; -1 for none.
	Cursor       int
	HideTimeline bool
	HideTable    bool
}

func (o ChartOptions) withDefaults(total int) ChartOptions {
	if len(o.Columns) == 0 {
		o.Columns = column.Defaults()
	}
	if o.WeekWidth < 3 {
		o.WeekWidth = 7
	}
	o.FirstWeek = max(0, min(o.FirstWeek, total-1))
	if o.Weeks <= 0 || o.FirstWeek+o.Weeks > total {
		o.Weeks = total - o.FirstWeek
	}
	return o
}

// ColumnChars is the terminal width of a table column.
func ColumnChars(c column.Column) int {
	return max(4, c.EffectiveWidth()/PixelsPerChar)
}

// RenderChart renders the table and the week grid side by side: two
// header lines, then one line per layout row.
func RenderChart(layout *service.Layout, opts ChartOptions) string {
	opts = opts.withDefaults(len(layout.Weeks))

	var table, grid []string
	if !opts.HideTable {
		table = renderTablePane(layout, opts)
	}
	if !opts.HideTimeline && len(layout.Weeks) > 0 {
		grid = renderGridPane(layout, opts)
	}

	n := max(len(table), len(grid))
	var b strings.Builder
	for i := 0; i < n; i++ {
		var parts []string
		if i < len(table) {
			parts = append(parts, table[i])
		}
		if i < len(grid) {
			parts = append(parts, grid[i])
		}
		b.WriteString(strings.TrimRight(strings.Join(parts, StyleDim.Render("│")), " "))
		b.WriteString("\n")
	}
	return b.String()
}

func renderTablePane(layout *service.Layout, opts ChartOptions) []string {
	lines := make([]string, 0, len(layout.Rows)+2)

	var head, sep strings.Builder
	for _, c := range opts.Columns {
		w := ColumnChars(c)
		head.WriteString(StyleHeader.Render(Fit(c.Label, w)))
		sep.WriteString(StyleDim.Render(strings.Repeat("─", w)))
	}
	lines = append(lines, head.String(), sep.String())

	for i, r := range layout.Rows {
		if i == opts.Cursor {
			lines = append(lines, StyleCursor.Render(tableLine(r, opts.Columns, false)))
			continue
		}
		lines = append(lines, tableLine(r, opts.Columns, true))
	}
	return lines
}

func tableLine(r service.LayoutRow, cols []column.Column, styled bool) string {
	var line strings.Builder
	for _, c := range cols {
		text := column.Cell(r.Row, c)
		if c.IsTree() {
			text = strings.Repeat(" ", r.Level*indentPerLevel) + ExpandMarker(r.Row) + text
		}
		cell := Fit(text, ColumnChars(c))
		if styled && c.IsTree() {
			cell = TypeStyle(r.Type).Render(cell)
		}
		line.WriteString(cell)
	}
	return line.String()
}

func renderGridPane(layout *service.Layout, opts ChartOptions) []string {
	weeks := layout.Weeks[opts.FirstWeek : opts.FirstWeek+opts.Weeks]
	cells := opts.WeekWidth * len(weeks)
	scale := float64(opts.WeekWidth) / layout.WeekColumnWidth
	origin := float64(opts.FirstWeek) * layout.WeekColumnWidth

	lines := make([]string, 0, len(layout.Rows)+2)

	var months strings.Builder
	for _, m := range timeline.MonthGroups(weeks) {
		months.WriteString(StyleBlue.Render(Fit(m.Label, m.WeekCount*opts.WeekWidth)))
	}
	var days strings.Builder
	for _, w := range weeks {
		days.WriteString(StyleDim.Render(Fit(timeline.WeekLabel(w), opts.WeekWidth)))
	}
	lines = append(lines, months.String(), days.String())

	for _, r := range layout.Rows {
		lines = append(lines, renderBarLine(r, cells, scale, origin))
	}
	return lines
}

// renderBarLine maps pixel geometry onto cells. Bars outside the window
// are clipped; a visible bar always covers at least one cell.
func renderBarLine(r service.LayoutRow, cells int, scale, origin float64) string {
	line := make([]string, cells)
	for i := range line {
		line[i] = " "
	}
	span := func(b timeline.BarStyle) (int, int) {
		from := int((b.Left - origin) * scale)
		to := int((b.Right() - origin) * scale)
		if to <= from {
			to = from + 1
		}
		return max(0, from), min(cells, to)
	}

	if r.Secondary != nil {
		from, to := span(*r.Secondary)
		for i := from; i < to; i++ {
			line[i] = StylePurple.Render(glyphSecondary)
		}
	}

	if r.Marker != nil {
		center := timeline.BarStyle{Left: r.Marker.Left + r.Marker.Width/2, Width: 0}
		from, _ := span(center)
		if from < cells && center.Left >= origin {
			line[from] = StyleYellow.Render(glyphMilestone)
		}
		return strings.Join(line, "")
	}

	from, to := span(r.Bar)
	if from < to {
		total := max(1, int(r.Bar.Width*scale))
		done := total * domain.ClampProgress(r.Progress) / 100
		start := int((r.Bar.Left - origin) * scale)
		for i := from; i < to; i++ {
			if i-start < done {
				line[i] = StyleGreen.Render(glyphDone)
			} else {
				line[i] = TypeStyle(r.Type).Render(glyphTodo)
			}
		}
	}
	return strings.Join(line, "")
}

// ExpandMarker is the tree marker of a row: ▾ open, ▸ closed, none for
// leaves.
func ExpandMarker(r domain.Row) string {
	switch {
	case !r.HasChildren:
		return "  "
	case r.IsExpanded:
		return "▾ "
	default:
		return "▸ "
	}
}

// Fit pads or truncates s to exactly w cells.
func Fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= w {
		return s + strings.Repeat(" ", w-lipgloss.Width(s))
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > w {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
