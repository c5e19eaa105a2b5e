package importer

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/hierarchy"
)

// wireKeys are the task attributes with a fixed meaning; every other key
// is kept in Task.Fields.
var wireKeys = map[string]bool{
	"id": true, "name": true, "startDate": true, "endDate": true,
	"startDate2": true, "endDate2": true, "progress": true, "type": true,
	"parent": true, "children": true,
}

// Convert turns a schema-valid decoded document into domain tasks.
// Children lists missing from the document are derived from parent
// pointers. Returns a slice of all conversion errors found.
func Convert(raw any) (*Document, []error) {
	var (
		items    []any
		expanded []any
	)
	switch v := raw.(type) {
	case []any:
		items = v
	case map[string]any:
		items, _ = v["tasks"].([]any)
		expanded, _ = v["expanded"].([]any)
	default:
		return nil, []error{fmt.Errorf("task document must be a list of tasks or an object with a tasks list")}
	}

	var errs []error
	doc := &Document{Tasks: make([]domain.Task, 0, len(items))}
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Errorf("tasks[%d]: expected an object", i))
			continue
		}
		task, taskErrs := FromWire(m)
		for _, err := range taskErrs {
			errs = append(errs, fmt.Errorf("tasks[%d].%w", i, err))
		}
		doc.Tasks = append(doc.Tasks, task)
	}
	for i, v := range expanded {
		id, err := idString(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("expanded[%d]: %w", i, err))
			continue
		}
		doc.Expanded = append(doc.Expanded, id)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	doc.Tasks = hierarchy.LinkChildren(doc.Tasks)
	return doc, nil
}

// FromWire converts one wire-format task object. Errors name the
// offending key.
func FromWire(m map[string]any) (domain.Task, []error) {
	var errs []error
	fail := func(key string, err error) {
		errs = append(errs, fmt.Errorf("%s: %w", key, err))
	}

	var t domain.Task
	var err error
	if t.ID, err = idString(m["id"]); err != nil {
		fail("id", err)
	}
	if name, ok := m["name"].(string); ok {
		t.Name = name
	} else if m["name"] != nil {
		fail("name", fmt.Errorf("expected a string"))
	}

	dates := []struct {
		key string
		dst *time.Time
	}{
		{"startDate", &t.StartDate},
		{"endDate", &t.EndDate},
		{"startDate2", &t.StartDate2},
		{"endDate2", &t.EndDate2},
	}
	for _, d := range dates {
		if *d.dst, err = dateValue(m[d.key]); err != nil {
			fail(d.key, err)
		}
	}

	if v, ok := m["progress"]; ok && v != nil {
		n, ok := number(v)
		if !ok {
			fail("progress", fmt.Errorf("expected a number"))
		} else {
			t.Progress = int(math.Round(n))
		}
	}
	if v, ok := m["type"].(string); ok {
		if t.Type, err = domain.ParseTaskType(v); err != nil {
			fail("type", err)
		}
	}
	t.Type = t.Type.OrDefault()

	if v := m["parent"]; !noParent(v) {
		if t.Parent, err = idString(v); err != nil {
			fail("parent", err)
		}
	}
	if v, ok := m["children"].([]any); ok {
		for i, c := range v {
			id, err := idString(c)
			if err != nil {
				fail(fmt.Sprintf("children[%d]", i), err)
				continue
			}
			t.Children = append(t.Children, id)
		}
	}

	for k, v := range m {
		if wireKeys[k] {
			continue
		}
		if t.Fields == nil {
			t.Fields = make(map[string]any)
		}
		t.Fields[k] = normalize(v)
	}
	return t, errs
}

// ToWire renders a task in the document format: camelCase keys, dates as
// YYYY-MM-DD, passthrough fields merged at the top level.
func ToWire(t domain.Task) map[string]any {
	m := make(map[string]any, len(t.Fields)+8)
	for k, v := range t.Fields {
		m[k] = v
	}
	m["id"] = t.ID
	m["name"] = t.Name
	m["startDate"] = domain.FormatDate(t.StartDate)
	m["endDate"] = domain.FormatDate(t.EndDate)
	if t.HasSecondaryRange() {
		m["startDate2"] = domain.FormatDate(t.StartDate2)
		m["endDate2"] = domain.FormatDate(t.EndDate2)
	}
	m["progress"] = t.Progress
	m["type"] = string(t.Type.OrDefault())
	if t.Parent != "" {
		m["parent"] = t.Parent
	} else {
		m["parent"] = nil
	}
	m["children"] = append([]string{}, t.Children...)
	return m
}

// ToWireList renders a whole collection with ToWire.
func ToWireList(tasks []domain.Task) []map[string]any {
	out := make([]map[string]any, len(tasks))
	for i, t := range tasks {
		out[i] = ToWire(t)
	}
	return out
}

// noParent reports whether a parent value marks a root: null, the empty
// string, or the number 0.
func noParent(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case json.Number:
		n, err := x.Float64()
		return err == nil && n == 0
	}
	n, ok := number(v)
	return ok && n == 0
}

func idString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		if x == "" {
			return "", fmt.Errorf("id must not be empty")
		}
		return x, nil
	case json.Number:
		if _, err := x.Int64(); err != nil {
			return "", fmt.Errorf("id %s is not an integer", x)
		}
		return x.String(), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		if x != math.Trunc(x) {
			return "", fmt.Errorf("id %v is not an integer", x)
		}
		return strconv.FormatInt(int64(x), 10), nil
	case nil:
		return "", fmt.Errorf("id is required")
	}
	return "", fmt.Errorf("id must be a string or integer, got %T", v)
}

func dateValue(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, nil
	case string:
		return domain.ParseDate(x)
	case time.Time:
		return domain.DateOf(x), nil
	}
	return time.Time{}, fmt.Errorf("expected a date string, got %T", v)
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// normalize turns json.Number into int or float64 so passthrough values
// compare as numbers when sorting.
func normalize(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
		return int(i)
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
