package hierarchy

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/timeline"
)

type Direction int

const (
	Asc Direction = iota
	Desc
)

func (d Direction) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// ParseDirection accepts "asc" and "desc"; blank means Asc.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Asc, nil
	case "desc":
		return Desc, nil
	}
	return Asc, fmt.Errorf("invalid sort direction %q (expected asc or desc)", s)
}

func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SortState is the active sort column and direction. The zero value means
// unsorted.
type SortState struct {
	Key string    `json:"key"`
	Dir Direction `json:"dir"`
}

// Toggle selects key: the active key flips direction, any other key
// starts ascending.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key {
		if s.Dir == Asc {
			return SortState{Key: key, Dir: Desc}
		}
		return SortState{Key: key, Dir: Asc}
	}
	return SortState{Key: key, Dir: Asc}
}

func (s SortState) Active() bool { return s.Key != "" }

func (s SortState) Apply(rows []domain.Row) []domain.Row {
	return SortRows(rows, s.Key, s.Dir)
}

type groupKey struct {
	level  int
	parent string
}

// SortRows reorders sibling groups below the root level by key and
// rebuilds the list parent-first. Roots keep their input order. An empty
// key returns rows unchanged.
//
// Rows are grouped by (level, parent) and regrouped under their parent by
// the parent pointer, so rows not reachable from a level-0 root are
// dropped.
func SortRows(rows []domain.Row, key string, dir Direction) []domain.Row {
	if key == "" {
		return rows
	}

	var order []groupKey
	groups := make(map[groupKey][]domain.Row)
	for _, r := range rows {
		k := groupKey{level: r.Level, parent: r.Parent}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], r)
	}

	for _, k := range order {
		g := groups[k]
		if k.level == 0 || len(g) < 2 {
			continue
		}
		slices.SortStableFunc(g, func(a, b domain.Row) int {
			c := compareRows(a, b, key)
			if dir == Desc {
				return -c
			}
			return c
		})
	}

	byID := make(map[string]domain.Row, len(rows))
	for _, k := range order {
		for _, r := range groups[k] {
			if _, seen := byID[r.ID]; !seen {
				byID[r.ID] = r
			}
		}
	}

	out := make([]domain.Row, 0, len(rows))
	done := make(map[string]bool, len(rows))
	var emit func(id string)
	emit = func(id string) {
		if done[id] {
			return
		}
		r, ok := byID[id]
		if !ok {
			return
		}
		out = append(out, r)
		done[id] = true
		for _, child := range groups[groupKey{level: r.Level + 1, parent: id}] {
			emit(child.ID)
		}
	}

	for _, r := range rows {
		if r.Level == 0 && r.Parent == "" {
			emit(r.ID)
		}
	}
	return out
}

func compareRows(a, b domain.Row, key string) int {
	switch key {
	case "startDate":
		return cmp.Compare(millis(a.StartDate), millis(b.StartDate))
	case "endDate":
		return cmp.Compare(millis(a.EndDate), millis(b.EndDate))
	case "duration":
		return cmp.Compare(duration(a.Task), duration(b.Task))
	case "name":
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}

	av, bv := rowValue(a, key), rowValue(b, key)
	if an, ok := toNumber(av); ok {
		if bn, ok := toNumber(bv); ok {
			return cmp.Compare(an, bn)
		}
	}
	return cmp.Compare(toText(av), toText(bv))
}

func rowValue(r domain.Row, key string) any {
	if key == "level" {
		return r.Level
	}
	v, ok := r.Field(key)
	if !ok {
		return nil
	}
	return v
}

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func duration(t domain.Task) int {
	if !t.HasDates() {
		return 0
	}
	return timeline.GetDuration(t.StartDate, t.EndDate)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toText(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.ToLower(s)
	case time.Time:
		return timeline.FormatDateFull(s)
	}
	return strings.ToLower(fmt.Sprint(v))
}
