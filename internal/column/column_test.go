package column

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/gantt/internal/domain"
)

func sampleRow() domain.Row {
	return domain.Row{
		Task: domain.Task{
			ID:        "7",
			Name:      "Write docs",
			StartDate: time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC),
			Fields:    map[string]any{"assignee": "Ana", "estimate": 2.5},
		},
		Level: 2,
	}
}

func TestDefaults(t *testing.T) {
	cols := Defaults()
	assert.Equal(t, []string{"name", "startDate", "duration"}, []string{cols[0].Key, cols[1].Key, cols[2].Key})
	assert.True(t, cols[0].Fixed)
	assert.Equal(t, 440, TotalWidth(cols))
}

func TestTotalWidth_MissingWidthCountsAsDefault(t *testing.T) {
	cols := []Column{{Key: "a", Width: 50}, {Key: "b"}}
	assert.Equal(t, 170, TotalWidth(cols))
}

func TestCell_DefaultsByKey(t *testing.T) {
	row := sampleRow()

	assert.Equal(t, "Write docs", Cell(row, Column{Key: "name", Fixed: true}))
	assert.Equal(t, "2025-03-03", Cell(row, Column{Key: "startDate"}))
	assert.Equal(t, "2025-03-07", Cell(row, Column{Key: "endDate"}))
	assert.Equal(t, "5", Cell(row, Column{Key: "duration"}))
	assert.Equal(t, "Ana", Cell(row, Column{Key: "assignee"}))
	assert.Equal(t, "2.5", Cell(row, Column{Key: "estimate"}))
	assert.Equal(t, "", Cell(row, Column{Key: "progress"}), "zero renders empty")
	assert.Equal(t, "", Cell(row, Column{Key: "missing"}))
}

func TestRenderCell_Precedence(t *testing.T) {
	row := sampleRow()
	upper := CustomRender{Fn: func(r domain.Row, c Column) string { return strings.ToUpper(r.Name) }}
	override := func(r domain.Row, c Column) string { return "override:" + c.Key }

	col := Column{Key: "name", Render: upper}
	assert.Equal(t, "WRITE DOCS", RenderCell(row, col, nil))
	assert.Equal(t, "override:name", RenderCell(row, col, override))

	tree := Column{Key: "name", Fixed: true, Render: upper}
	assert.Equal(t, "Write docs", RenderCell(row, tree, override), "tree column always shows the name")

	assert.Equal(t, "2025-03-03", RenderCell(row, Column{Key: "startDate", Render: DefaultRender{}}, nil))
	assert.Equal(t, "2025-03-03", RenderCell(row, Column{Key: "startDate", Render: CustomRender{}}, nil))
}

func TestIndentAndFind(t *testing.T) {
	assert.Equal(t, 40, Indent(sampleRow()))

	c, ok := Find(Defaults(), "duration")
	assert.True(t, ok)
	assert.Equal(t, "Duration", c.Label)

	_, ok = Find(Defaults(), "nope")
	assert.False(t, ok)
}

func TestResize(t *testing.T) {
	widths := func(cols []Column) []int {
		out := make([]int, len(cols))
		for i, c := range cols {
			out[i] = c.EffectiveWidth()
		}
		return out
	}

	assert.Equal(t, []int{200, 120, 120}, widths(Resize(Defaults(), 440)))
	assert.Equal(t, []int{200, 240, 240}, widths(Resize(Defaults(), 680)))
	assert.Equal(t, []int{200, MinWidth, MinWidth}, widths(Resize(Defaults(), 150)))

	orig := Defaults()
	Resize(orig, 680)
	assert.Equal(t, 120, orig[1].Width, "input is not modified")

	onlyFixed := []Column{{Key: "name", Width: 200, Fixed: true}}
	assert.Equal(t, []int{200}, widths(Resize(onlyFixed, 50)))
}
