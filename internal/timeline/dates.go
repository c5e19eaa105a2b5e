// Package timeline turns task dates into the daily axis, the weekly grid
// and the pixel geometry of each bar.
package timeline

import (
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
)

// DefaultEndYear is the last year shown when the caller does not pick one.
const DefaultEndYear = 2028

// MinYear and MaxYearsAhead bound the axis the layout pipeline accepts:
// no day before January 1 of MinYear, and no end year more than
// MaxYearsAhead past the current year.
const (
	MinYear       = 1970
	MaxYearsAhead = 100
)

// leadDays is how far the axis starts before the earliest relevant date.
const leadDays = 7

// WeekRange is one Monday-to-Sunday column of the grid.
type WeekRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether d falls on a day of the week, inclusive.
func (w WeekRange) Contains(d time.Time) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// CalculateTimelineDates returns one date per calendar day from seven days
// before min(earliest start, today) through December 31 of endYear. Tasks
// without a start date do not move the lower bound. The result is empty
// when the lower bound falls after the upper bound.
func CalculateTimelineDates(tasks []domain.Task, endYear int, today time.Time) []time.Time {
	earliest := domain.DateOf(today)
	for _, t := range tasks {
		if t.StartDate.IsZero() {
			continue
		}
		if s := domain.DateOf(t.StartDate); s.Before(earliest) {
			earliest = s
		}
	}

	lower := domain.AddDays(earliest, -leadDays)
	upper := time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	if lower.After(upper) {
		return []time.Time{}
	}

	days := int(upper.Sub(lower).Hours()/24) + 1
	dates := make([]time.Time, 0, days)
	for d := lower; !d.After(upper); d = domain.AddDays(d, 1) {
		dates = append(dates, d)
	}
	return dates
}

// TimelineDates is CalculateTimelineDates against the local clock.
func TimelineDates(tasks []domain.Task, endYear int) []time.Time {
	return CalculateTimelineDates(tasks, endYear, domain.Today())
}

// CalculateWeeklyRanges partitions the axis into contiguous Monday-start
// weeks. The first week starts on the Monday on or before dates[0] and
// weeks are emitted while their start is not after the last date.
func CalculateWeeklyRanges(dates []time.Time) []WeekRange {
	if len(dates) == 0 {
		return []WeekRange{}
	}

	first := domain.DateOf(dates[0])
	last := domain.DateOf(dates[len(dates)-1])

	start := domain.AddDays(first, -mondayOffset(first.Weekday()))
	weeks := make([]WeekRange, 0, int(last.Sub(start).Hours()/24/7)+1)
	for !start.After(last) {
		weeks = append(weeks, WeekRange{Start: start, End: domain.AddDays(start, 6)})
		start = domain.AddDays(start, 7)
	}
	return weeks
}

// mondayOffset is the number of days between the Monday of d's week and d.
func mondayOffset(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}
