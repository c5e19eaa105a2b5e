// Package formatter renders layouts, rows and diagnostics for the terminal.
package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/gantt/internal/domain"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
	ColorCursor = lipgloss.Color("#504945")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleCursor = lipgloss.NewStyle().Foreground(ColorFg).Background(ColorCursor).Bold(true)
)

// TypeStyle colors a task by its type: projects bold, milestones yellow.
func TypeStyle(t domain.TaskType) lipgloss.Style {
	switch t.OrDefault() {
	case domain.TaskTypeProject:
		return StyleBold
	case domain.TaskTypeMilestone:
		return StyleYellow
	default:
		return StyleBlue
	}
}

// TypeBadge returns a short colored label such as "◆ milestone".
func TypeBadge(t domain.TaskType) string {
	switch t.OrDefault() {
	case domain.TaskTypeProject:
		return StyleBold.Render("■ project")
	case domain.TaskTypeMilestone:
		return StyleYellow.Render("◆ milestone")
	default:
		return StyleBlue.Render("● task")
	}
}

// Header renders a section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
