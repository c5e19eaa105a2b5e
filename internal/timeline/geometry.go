package timeline

import (
	"strconv"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
)

const (
	// DefaultWeekColumnWidth is used whenever the caller passes a
	// non-positive width.
	DefaultWeekColumnWidth = 150.0
	// MinBarWidth keeps very short tasks visible.
	MinBarWidth = 10.0
	// MilestoneSize is the side of the fixed milestone marker.
	MilestoneSize = 16.0
)

const week = 7 * 24 * time.Hour

// BarStyle is the horizontal placement of a bar inside the week grid, in
// pixels from the grid origin.
type BarStyle struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

func (b BarStyle) LeftPx() string  { return px(b.Left) }
func (b BarStyle) WidthPx() string { return px(b.Width) }

// Right is the pixel edge where the bar ends.
func (b BarStyle) Right() float64 { return b.Left + b.Width }

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// TaskBarStyle places the task's primary date range on the grid.
func TaskBarStyle(task domain.Task, weeks []WeekRange, weekColumnWidth float64) BarStyle {
	return rangeBarStyle(task.StartDate, task.EndDate, weeks, weekColumnWidth)
}

// SecondaryBarStyle places the optional second range. ok is false when
// the task has no second range.
func SecondaryBarStyle(task domain.Task, weeks []WeekRange, weekColumnWidth float64) (style BarStyle, ok bool) {
	if !task.HasSecondaryRange() {
		return BarStyle{}, false
	}
	return rangeBarStyle(task.StartDate2, task.EndDate2, weeks, weekColumnWidth), true
}

// MilestoneMarker is the fixed-size marker centred on the bar's left edge.
func MilestoneMarker(b BarStyle) BarStyle {
	return BarStyle{Left: b.Left - MilestoneSize/2, Width: MilestoneSize}
}

func rangeBarStyle(start, end time.Time, weeks []WeekRange, weekColumnWidth float64) BarStyle {
	if len(weeks) == 0 {
		return BarStyle{}
	}
	w := normalizeWidth(weekColumnWidth)
	if start.IsZero() || end.IsZero() {
		return BarStyle{Left: 0, Width: MinBarWidth}
	}

	si := startWeekIndex(start, weeks)
	ei := endWeekIndex(end, weeks)

	startFrac := clamp01(float64(start.Sub(weeks[si].Start)) / float64(week))
	endFrac := clamp01(float64(end.Sub(weeks[ei].Start)) / float64(week))

	left := float64(si)*w + startFrac*w
	width := float64(ei-si)*w + endFrac*w - startFrac*w

	return BarStyle{
		Left:  max(0, left),
		Width: max(MinBarWidth, width),
	}
}

// startWeekIndex is the first week containing d, else the closest week
// starting after d, else 0.
func startWeekIndex(d time.Time, weeks []WeekRange) int {
	for i, w := range weeks {
		if w.Contains(d) {
			return i
		}
	}
	idx := -1
	for i, w := range weeks {
		if d.Before(w.Start) && (idx == -1 || w.Start.Before(weeks[idx].Start)) {
			idx = i
		}
	}
	if idx == -1 {
		return 0
	}
	return idx
}

// endWeekIndex is the last week containing d, else the week with the
// latest end among those ending after d, else the last week.
func endWeekIndex(d time.Time, weeks []WeekRange) int {
	idx := -1
	for i, w := range weeks {
		if w.Contains(d) {
			idx = i
		}
	}
	if idx != -1 {
		return idx
	}
	for i, w := range weeks {
		if d.Before(w.End) && (idx == -1 || w.End.After(weeks[idx].End)) {
			idx = i
		}
	}
	if idx == -1 {
		return len(weeks) - 1
	}
	return idx
}

func clamp01(f float64) float64 {
	return max(0, min(1, f))
}

func normalizeWidth(w float64) float64 {
	if w <= 0 {
		return DefaultWeekColumnWidth
	}
	return w
}
