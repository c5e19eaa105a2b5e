package timeline

import (
	"fmt"
	"math"
	"time"
)

var shortMonths = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// GetDuration is the inclusive day count between two dates:
// ceil(|end - start| / 1 day) + 1. Argument order does not matter.
func GetDuration(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	return int(math.Ceil(diff.Hours()/24)) + 1
}

// FormatDateFull renders YYYY-MM-DD from the value's own calendar fields.
func FormatDateFull(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	y, m, d := t.Date()
	return fmt.Sprintf("%04d-%02d-%02d", y, int(m), d)
}

// FormatDateShort renders "D Mon", e.g. "5 May".
func FormatDateShort(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s", t.Day(), shortMonths[t.Month()-1])
}

// MonthLabel renders "May 2025".
func MonthLabel(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s %d", t.Month(), t.Year())
}
