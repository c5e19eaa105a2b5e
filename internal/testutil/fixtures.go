package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/hierarchy"
)

// Date builds a UTC calendar date.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BaseDate is the Monday fixtures start on unless told otherwise.
var BaseDate = Date(2025, time.January, 6)

type TaskOption func(*domain.Task)

func WithID(id string) TaskOption {
	return func(t *domain.Task) {
		t.ID = id
	}
}

func WithParent(id string) TaskOption {
	return func(t *domain.Task) {
		t.Parent = id
	}
}

func WithDates(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartDate = start
		t.EndDate = end
	}
}

func WithSecondaryDates(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartDate2 = start
		t.EndDate2 = end
	}
}

func WithType(typ domain.TaskType) TaskOption {
	return func(t *domain.Task) {
		t.Type = typ
	}
}

func WithProgress(p int) TaskOption {
	return func(t *domain.Task) {
		t.Progress = p
	}
}

func WithField(key string, v any) TaskOption {
	return func(t *domain.Task) {
		if t.Fields == nil {
			t.Fields = make(map[string]any)
		}
		t.Fields[key] = v
	}
}

// NewTestTask builds a one-week task starting on BaseDate.
func NewTestTask(name string, opts ...TaskOption) domain.Task {
	t := domain.Task{
		ID:        uuid.New().String(),
		Name:      name,
		StartDate: BaseDate,
		EndDate:   BaseDate.AddDate(0, 0, 6),
		Type:      domain.TaskTypeTask,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Forest fills children lists from the parent pointers of tasks.
func Forest(tasks ...domain.Task) []domain.Task {
	return hierarchy.LinkChildren(tasks)
}
