package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/hierarchy"
	"github.com/alexanderramin/gantt/internal/repository"
)

// NewTask is the input for Add. An empty Parent adds a root.
type NewTask struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Progress  int
	Type      domain.TaskType
	Parent    string
}

// TaskEdit replaces the editable attributes of an existing task. Nil
// Progress and Type keep the current values.
type TaskEdit struct {
	ID        string
	Name      string
	StartDate time.Time
	EndDate   time.Time
	Progress  *int
	Type      *domain.TaskType
}

type taskService struct {
	tasks    repository.TaskRepo
	observer UseCaseObserver
}

func NewTaskService(tasks repository.TaskRepo, observers ...UseCaseObserver) TaskService {
	return &taskService{
		tasks:    tasks,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) List(ctx context.Context) ([]domain.Task, error) {
	return s.tasks.List(ctx)
}

func (s *taskService) Get(ctx context.Context, id string) (domain.Task, error) {
	t, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return domain.Task{}, fmt.Errorf("getting task %s: %w", id, err)
	}
	return t, nil
}

func (s *taskService) Add(ctx context.Context, in NewTask) (created domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"parent": in.Parent}
	defer observe(ctx, s.observer, "add-task", startedAt, fields, &err)

	task := domain.Task{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		StartDate: domain.DateOf(in.StartDate),
		EndDate:   domain.DateOf(in.EndDate),
		Progress:  domain.ClampProgress(in.Progress),
		Type:      in.Type.OrDefault(),
		Parent:    in.Parent,
	}
	if err := task.ValidateEdit(); err != nil {
		return domain.Task{}, fmt.Errorf("%w: %w", ErrInvalidTask, err)
	}
	if task.EndDate.Before(task.StartDate) {
		return domain.Task{}, fmt.Errorf("%w: end date is before start date", ErrInvalidTask)
	}

	err = s.tasks.Apply(ctx, func(tasks []domain.Task) ([]domain.Task, error) {
		if task.Parent != "" {
			i := indexOf(tasks, task.Parent)
			if i < 0 {
				return nil, fmt.Errorf("parent %s: %w", task.Parent, repository.ErrNotFound)
			}
			tasks[i].Children = append(tasks[i].Children, task.ID)
		}
		return append(tasks, task), nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	fields["task_id"] = task.ID
	return task, nil
}

func (s *taskService) Update(ctx context.Context, edit TaskEdit) (updated domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": edit.ID}
	defer observe(ctx, s.observer, "update-task", startedAt, fields, &err)

	err = s.tasks.Apply(ctx, func(tasks []domain.Task) ([]domain.Task, error) {
		i := indexOf(tasks, edit.ID)
		if i < 0 {
			return nil, fmt.Errorf("task %s: %w", edit.ID, repository.ErrNotFound)
		}
		t := tasks[i]
		t.Name = strings.TrimSpace(edit.Name)
		t.StartDate = domain.DateOf(edit.StartDate)
		t.EndDate = domain.DateOf(edit.EndDate)
		if edit.Progress != nil {
			t.Progress = domain.ClampProgress(*edit.Progress)
		}
		if edit.Type != nil {
			t.Type = edit.Type.OrDefault()
		}
		if err := t.ValidateEdit(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTask, err)
		}
		if t.EndDate.Before(t.StartDate) {
			return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidTask)
		}
		tasks[i] = t
		updated = t.Clone()
		return tasks, nil
	})
	if err != nil {
		return domain.Task{}, err
	}
	return updated, nil
}

func (s *taskService) Remove(ctx context.Context, id string) (removed []string, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id}
	defer observe(ctx, s.observer, "remove-task", startedAt, fields, &err)

	err = s.tasks.Apply(ctx, func(tasks []domain.Task) ([]domain.Task, error) {
		if indexOf(tasks, id) < 0 {
			return nil, fmt.Errorf("task %s: %w", id, repository.ErrNotFound)
		}
		removed = subtree(tasks, id)
		gone := make(map[string]bool, len(removed))
		for _, r := range removed {
			gone[r] = true
		}
		kept := tasks[:0]
		for _, t := range tasks {
			if gone[t.ID] {
				continue
			}
			t.Children = slices.DeleteFunc(t.Children, func(c string) bool { return gone[c] })
			kept = append(kept, t)
		}
		return kept, nil
	})
	if err != nil {
		return nil, err
	}
	fields["removed"] = len(removed)
	return removed, nil
}

func (s *taskService) Reload(ctx context.Context, tasks []domain.Task) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"tasks": len(tasks)}
	defer observe(ctx, s.observer, "reload-tasks", startedAt, fields, &err)

	return s.tasks.Replace(ctx, hierarchy.LinkChildren(tasks))
}

func indexOf(tasks []domain.Task, id string) int {
	return slices.IndexFunc(tasks, func(t domain.Task) bool { return t.ID == id })
}

// subtree returns id followed by all descendants reachable through
// children lists and parent pointers, depth first.
func subtree(tasks []domain.Task, id string) []string {
	byID := domain.TasksByID(tasks)
	byParent := make(map[string][]string)
	for _, t := range tasks {
		if t.Parent != "" {
			byParent[t.Parent] = append(byParent[t.Parent], t.ID)
		}
	}
	seen := map[string]bool{}
	var out []string
	var walk func(string)
	walk = func(cur string) {
		if _, ok := byID[cur]; !ok || seen[cur] {
			return
		}
		seen[cur] = true
		out = append(out, cur)
		for _, c := range byID[cur].Children {
			walk(c)
		}
		for _, c := range byParent[cur] {
			walk(c)
		}
	}
	walk(id)
	return out
}
