package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/domain"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a task progress value (0..100) like
// [████░░░░]  45%. Colors: green from 66, yellow from 33, red below.
func RenderProgress(progress, width int) string {
	p := domain.ClampProgress(progress)
	width = max(2, width)

	filled := width * p / 100
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case p < 33:
		style = StyleRed
	case p < 66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3d%%", style.Render(bar), p)
}
