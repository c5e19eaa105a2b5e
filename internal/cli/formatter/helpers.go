package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/gantt/internal/timeline"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2)

	if title != "" {
		return boxStyle.Render(StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatDays renders an inclusive day count: "1 day", "12 days".
func FormatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// DateSpan renders "2025-01-06 → 2025-01-10", or "no dates" when either
// end is missing.
func DateSpan(start, end time.Time) string {
	if start.IsZero() || end.IsZero() {
		return Dim("no dates")
	}
	return timeline.FormatDateFull(start) + Dim(" → ") + timeline.FormatDateFull(end)
}
