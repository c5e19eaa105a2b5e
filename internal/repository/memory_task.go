package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/alexanderramin/gantt/internal/domain"
)

// MemoryTaskRepo implements TaskRepo over an in-process slice. Safe for
// concurrent use.
type MemoryTaskRepo struct {
	mu       sync.RWMutex
	tasks    []domain.Task
	revision uint64
}

// NewMemoryTaskRepo creates a repo seeded with copies of tasks.
func NewMemoryTaskRepo(tasks []domain.Task) *MemoryTaskRepo {
	return &MemoryTaskRepo{tasks: cloneTasks(tasks)}
}

func (r *MemoryTaskRepo) List(ctx context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneTasks(r.tasks), nil
}

func (r *MemoryTaskRepo) GetByID(ctx context.Context, id string) (domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		return r.tasks[i].Clone(), nil
	}
	return domain.Task{}, fmt.Errorf("task %q: %w", id, ErrNotFound)
}

func (r *MemoryTaskRepo) Create(ctx context.Context, t domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexOf(t.ID) >= 0 {
		return fmt.Errorf("task %q: %w", t.ID, ErrDuplicateID)
	}
	r.tasks = append(r.tasks, t.Clone())
	r.revision++
	return nil
}

func (r *MemoryTaskRepo) Update(ctx context.Context, t domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(t.ID)
	if i < 0 {
		return fmt.Errorf("task %q: %w", t.ID, ErrNotFound)
	}
	r.tasks[i] = t.Clone()
	r.revision++
	return nil
}

func (r *MemoryTaskRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("task %q: %w", id, ErrNotFound)
	}
	r.tasks = append(r.tasks[:i:i], r.tasks[i+1:]...)
	r.revision++
	return nil
}

func (r *MemoryTaskRepo) Replace(ctx context.Context, tasks []domain.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks = cloneTasks(tasks)
	r.revision++
	return nil
}

func (r *MemoryTaskRepo) Apply(ctx context.Context, fn func(tasks []domain.Task) ([]domain.Task, error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := fn(cloneTasks(r.tasks))
	if err != nil {
		return err
	}
	r.tasks = cloneTasks(next)
	r.revision++
	return nil
}

func (r *MemoryTaskRepo) Revision() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.revision
}

// indexOf returns the position of the first task with id, or -1.
func (r *MemoryTaskRepo) indexOf(id string) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
