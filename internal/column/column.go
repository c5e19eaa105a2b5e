// Package column describes the table columns of the chart and how each
// cell renders to text. It belongs to the rendering layer; the layout
// core never depends on it.
package column

import (
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/timeline"
)

const (
	// DefaultWidth counts for columns that declare no width.
	DefaultWidth = 120
	// IndentPerLevel is the tree indentation of the name column.
	IndentPerLevel = 20
)

// RenderFunc renders one cell.
type RenderFunc func(row domain.Row, col Column) string

// Renderer selects how a column's cells are produced. It is either
// DefaultRender or CustomRender.
type Renderer interface {
	render(row domain.Row, col Column) string
}

// DefaultRender formats the field named by the column key.
type DefaultRender struct{}

// CustomRender delegates to a caller-supplied function.
type CustomRender struct {
	Fn RenderFunc
}

func (DefaultRender) render(row domain.Row, col Column) string {
	return defaultCell(row, col.Key)
}

func (c CustomRender) render(row domain.Row, col Column) string {
	if c.Fn == nil {
		return defaultCell(row, col.Key)
	}
	return c.Fn(row, col)
}

type Column struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Width    int      `json:"width,omitempty"`
	Fixed    bool     `json:"fixed,omitempty"`
	Sortable bool     `json:"sortable"`
	Render   Renderer `json:"-"`
}

// EffectiveWidth is Width, or DefaultWidth when unset.
func (c Column) EffectiveWidth() int {
	if c.Width <= 0 {
		return DefaultWidth
	}
	return c.Width
}

// IsTree reports whether the column carries the indented task name with
// its expand marker.
func (c Column) IsTree() bool {
	return c.Fixed && c.Key == "name"
}

// Defaults is the column set used when none is configured.
func Defaults() []Column {
	return []Column{
		{Key: "name", Label: "Task name", Width: 200, Fixed: true, Sortable: true},
		{Key: "startDate", Label: "Start time", Width: 120, Sortable: true},
		{Key: "duration", Label: "Duration", Width: 120, Sortable: true},
	}
}

// TotalWidth sums the effective widths of cols.
func TotalWidth(cols []Column) int {
	total := 0
	for _, c := range cols {
		total += c.EffectiveWidth()
	}
	return total
}

// Find returns the column with key.
func Find(cols []Column, key string) (Column, bool) {
	for _, c := range cols {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// MinWidth is the narrowest a resized column gets.
const MinWidth = 40

// Resize fits cols into tableWidth pixels. Fixed columns keep their width;
// the others share the remainder in proportion to their own widths.
func Resize(cols []Column, tableWidth int) []Column {
	out := slices.Clone(cols)
	fixed, flexible := 0, 0
	for _, c := range cols {
		if c.Fixed {
			fixed += c.EffectiveWidth()
		} else {
			flexible += c.EffectiveWidth()
		}
	}
	if flexible == 0 {
		return out
	}
	rest := max(0, tableWidth-fixed)
	for i, c := range out {
		if !c.Fixed {
			out[i].Width = max(MinWidth, c.EffectiveWidth()*rest/flexible)
		}
	}
	return out
}

// Cell renders row under col, ignoring any chart-wide override.
func Cell(row domain.Row, col Column) string {
	return RenderCell(row, col, nil)
}

// RenderCell picks the first available renderer: the tree column shows the
// task name, then a chart-wide override, then the column's renderer, then
// the default for the key.
func RenderCell(row domain.Row, col Column, override RenderFunc) string {
	if col.IsTree() {
		return row.Name
	}
	if override != nil {
		return override(row, col)
	}
	if col.Render != nil {
		return col.Render.render(row, col)
	}
	return defaultCell(row, col.Key)
}

// Indent is the left padding of the tree column for row, in pixels.
func Indent(row domain.Row) int {
	return row.Level * IndentPerLevel
}

func defaultCell(row domain.Row, key string) string {
	switch key {
	case "startDate", "endDate", "startDate2", "endDate2":
		v, _ := row.Field(key)
		t, _ := v.(time.Time)
		return timeline.FormatDateFull(t)
	case "duration":
		if !row.HasDates() {
			return ""
		}
		return strconv.Itoa(timeline.GetDuration(row.StartDate, row.EndDate))
	case "level":
		return strconv.Itoa(row.Level)
	}
	v, ok := row.Field(key)
	if !ok {
		return ""
	}
	return formatValue(v)
}

// formatValue renders falsy values as the empty string.
func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if !x {
			return ""
		}
		return "true"
	case int:
		if x == 0 {
			return ""
		}
		return strconv.Itoa(x)
	case float64:
		if x == 0 {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return timeline.FormatDateFull(x)
	}
	return fmt.Sprint(v)
}
