package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

type TaskType string

const (
	TaskTypeTask      TaskType = "task"
	TaskTypeProject   TaskType = "project"
	TaskTypeMilestone TaskType = "milestone"
)

// ValidTaskTypes is the canonical set of accepted task type strings.
var ValidTaskTypes = map[string]bool{
	"task": true, "project": true, "milestone": true,
}

// ParseTaskType accepts the canonical type names case-insensitively.
// An empty string parses as TaskTypeTask.
func ParseTaskType(s string) (TaskType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TaskTypeTask, nil
	}
	if !ValidTaskTypes[s] {
		return "", fmt.Errorf("invalid task type %q (expected task, project or milestone)", s)
	}
	return TaskType(s), nil
}

// OrDefault maps the empty type to TaskTypeTask.
func (t TaskType) OrDefault() TaskType {
	if t == "" {
		return TaskTypeTask
	}
	return t
}

// Task is one entry of the caller-owned collection. Zero dates mean the
// date is missing. Parent is empty for roots.
type Task struct {
	ID         string
	Name       string
	StartDate  time.Time
	EndDate    time.Time
	StartDate2 time.Time
	EndDate2   time.Time
	Progress   int
	Type       TaskType
	Parent     string
	Children   []string

	// Fields carries passthrough data (assignee, priority, ...) the layout
	// never interprets beyond sorting and cell rendering.
	Fields map[string]any
}

// IsBranch reports whether the task lists any children.
func (t Task) IsBranch() bool { return len(t.Children) > 0 }

func (t Task) IsRoot() bool { return t.Parent == "" }

func (t Task) IsMilestone() bool { return t.Type == TaskTypeMilestone }

// HasDates reports whether both primary dates are present.
func (t Task) HasDates() bool { return !t.StartDate.IsZero() && !t.EndDate.IsZero() }

// HasSecondaryRange reports whether both secondary dates are present.
func (t Task) HasSecondaryRange() bool { return !t.StartDate2.IsZero() && !t.EndDate2.IsZero() }

// Clone returns a deep copy so callers can hand tasks out without sharing
// the Children slice or Fields map.
func (t Task) Clone() Task {
	c := t
	c.Children = slices.Clone(t.Children)
	if t.Fields != nil {
		c.Fields = maps.Clone(t.Fields)
	}
	return c
}

// Field resolves a column key to a value: built-in attributes first, then
// Fields. The second result is false when the key is unknown or unset.
func (t Task) Field(key string) (any, bool) {
	switch key {
	case "id":
		return t.ID, true
	case "name":
		return t.Name, true
	case "startDate":
		return t.StartDate, !t.StartDate.IsZero()
	case "endDate":
		return t.EndDate, !t.EndDate.IsZero()
	case "startDate2":
		return t.StartDate2, !t.StartDate2.IsZero()
	case "endDate2":
		return t.EndDate2, !t.EndDate2.IsZero()
	case "progress":
		return t.Progress, true
	case "type":
		return string(t.Type.OrDefault()), true
	case "parent":
		return t.Parent, t.Parent != ""
	}
	v, ok := t.Fields[key]
	return v, ok && v != nil
}

// ClampProgress limits p to the 0..100 range.
func ClampProgress(p int) int {
	return max(0, min(100, p))
}

// ValidateEdit checks the fields a user edit must carry: a name and both
// primary dates.
func (t Task) ValidateEdit() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("task name is required")
	}
	if t.StartDate.IsZero() {
		return fmt.Errorf("start date is required")
	}
	if t.EndDate.IsZero() {
		return fmt.Errorf("end date is required")
	}
	return nil
}

// Row is one visible line of the chart: a copy of the task plus the
// display state derived by flattening.
type Row struct {
	Task
	Level       int
	IsExpanded  bool
	HasChildren bool
}

// TasksByID indexes tasks by id. Later duplicates overwrite earlier ones.
func TasksByID(tasks []Task) map[string]Task {
	m := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		m[t.ID] = t
	}
	return m
}
