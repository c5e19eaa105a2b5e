package timeline

import "time"

// MonthGroup is a run of consecutive weeks whose starts share a month.
type MonthGroup struct {
	Label      string     `json:"label"`
	Year       int        `json:"year"`
	Month      time.Month `json:"month"`
	StartIndex int        `json:"startIndex"`
	WeekCount  int        `json:"weekCount"`
}

// MonthGroups builds the upper header row of the grid.
func MonthGroups(weeks []WeekRange) []MonthGroup {
	var groups []MonthGroup
	for i, w := range weeks {
		y, m := w.Start.Year(), w.Start.Month()
		if n := len(groups); n > 0 && groups[n-1].Year == y && groups[n-1].Month == m {
			groups[n-1].WeekCount++
			continue
		}
		groups = append(groups, MonthGroup{
			Label:      MonthLabel(w.Start),
			Year:       y,
			Month:      m,
			StartIndex: i,
			WeekCount:  1,
		})
	}
	return groups
}

// WeekLabel is the lower header label of a week column.
func WeekLabel(w WeekRange) string {
	return FormatDateShort(w.Start)
}

// GridWidth is the full pixel width of the week grid.
func GridWidth(weeks []WeekRange, weekColumnWidth float64) float64 {
	return float64(len(weeks)) * normalizeWidth(weekColumnWidth)
}
