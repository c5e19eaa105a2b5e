package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/gantt/internal/domain"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")
)

// TaskRepo is the caller-owned canonical task collection of a session.
// Implementations hand out copies; callers never share slices with the
// repo.
type TaskRepo interface {
	List(ctx context.Context) ([]domain.Task, error)
	GetByID(ctx context.Context, id string) (domain.Task, error)
	Create(ctx context.Context, t domain.Task) error
	Update(ctx context.Context, t domain.Task) error
	Delete(ctx context.Context, id string) error
	Replace(ctx context.Context, tasks []domain.Task) error

	// Apply runs fn on a copy of the collection and stores its result
	// atomically. An error from fn leaves the collection unchanged.
	Apply(ctx context.Context, fn func(tasks []domain.Task) ([]domain.Task, error)) error

	// Revision increases on every successful change.
	Revision() uint64
}

// Snapshot is one consistent read of a task source.
type Snapshot struct {
	Tasks    []domain.Task
	Expanded []string
}

// TaskSource reads a task collection from outside the process.
type TaskSource interface {
	Load(ctx context.Context) (*Snapshot, error)
	// Path is the watched location of the source.
	Path() string
}
