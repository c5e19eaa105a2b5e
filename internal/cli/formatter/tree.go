package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/gantt/internal/domain"
)

// TreeItem is one line of a tree display.
type TreeItem struct {
	Title     string
	Level     int
	IsLast    bool
	Type      domain.TaskType
	Collapsed bool
	Detail    string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

// TreeItems converts flattened rows into tree lines. IsLast is derived
// from the next row at the same or a shallower level.
func TreeItems(rows []domain.Row, detail func(domain.Row) string) []TreeItem {
	items := make([]TreeItem, len(rows))
	for i, r := range rows {
		last := true
		for _, next := range rows[i+1:] {
			if next.Level < r.Level {
				break
			}
			if next.Level == r.Level {
				last = false
				break
			}
		}
		items[i] = TreeItem{
			Title:     r.Name,
			Level:     r.Level,
			IsLast:    last,
			Type:      r.Type,
			Collapsed: r.HasChildren && !r.IsExpanded,
		}
		if detail != nil {
			items[i].Detail = detail(r)
		}
	}
	return items
}

// RenderTree renders items with box-drawing connectors and right-aligned
// detail badges. Collapsed branches get a ▸ suffix.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	// open[l] is true while an ancestor at level l still has siblings below.
	var open []bool
	for idx, item := range items {
		var prefix strings.Builder
		for l := 1; l < item.Level; l++ {
			if l < len(open) && open[l] {
				prefix.WriteString(treePipe)
			} else {
				prefix.WriteString(treeBlank)
			}
		}
		if item.Level > 0 {
			if item.IsLast {
				prefix.WriteString(treeCorner)
			} else {
				prefix.WriteString(treeBranch)
			}
		}
		for len(open) <= item.Level {
			open = append(open, false)
		}
		open[item.Level] = !item.IsLast

		title := TypeStyle(item.Type).Render(item.Title)
		if item.Collapsed {
			title += Dim(" ▸")
		}
		contents[idx] = StyleDim.Render(prefix.String()) + title
		widest = max(widest, lipgloss.Width(contents[idx]))
	}

	var b strings.Builder
	for i, item := range items {
		b.WriteString(contents[i])
		if item.Detail != "" {
			pad := widest - lipgloss.Width(contents[i])
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render("[ "+item.Detail+" ]"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
