package service

import (
	"context"
	"errors"

	"github.com/alexanderramin/gantt/internal/domain"
)

var (
	// ErrInvalidTask marks edits rejected by validation.
	ErrInvalidTask = errors.New("invalid task")
	// ErrInvalidLayout marks layout requests whose timeline would fall
	// outside the supported years.
	ErrInvalidLayout = errors.New("invalid layout request")
)

type LayoutService interface {
	Compute(ctx context.Context, req LayoutRequest) (*Layout, error)
}

type TaskService interface {
	List(ctx context.Context) ([]domain.Task, error)
	Get(ctx context.Context, id string) (domain.Task, error)
	Add(ctx context.Context, in NewTask) (domain.Task, error)
	Update(ctx context.Context, edit TaskEdit) (domain.Task, error)
	// Remove deletes a task with its descendants and returns their ids.
	Remove(ctx context.Context, id string) ([]string, error)
	// Reload replaces the whole collection, e.g. after the source changed.
	Reload(ctx context.Context, tasks []domain.Task) error
}
