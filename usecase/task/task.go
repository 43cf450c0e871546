package task

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/taskmind/backend/domain"
	"github.com/taskmind/backend/repository"
)

// UseCase exposes the contracted task views and direct CRUD on top of the
// storage layer.
type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

// ListActive returns undone tasks, pinned first, then soonest deadline first.
func (uc *UseCase) ListActive(ctx context.Context) ([]domain.Task, error) {
	return uc.tasks.ListActive(ctx)
}

// ListUrgent returns undone tasks due within the caller-supplied window.
func (uc *UseCase) ListUrgent(ctx context.Context, window time.Duration) ([]domain.Task, error) {
	bound := time.Now().Add(window).UnixMilli()
	return uc.tasks.ListUrgent(ctx, bound)
}

// ListRange returns tasks whose window lies inside [start, end], both in
// epoch milliseconds.
func (uc *UseCase) ListRange(ctx context.Context, start, end int64) ([]domain.Task, error) {
	if end < start {
		return nil, domain.ErrInvalidPayload
	}
	return uc.tasks.ListRange(ctx, repository.RangeFilter{StartAfter: start, EndBefore: end})
}

// GetTask returns one task together with its subtasks.
func (uc *UseCase) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, id)
}

func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	return uc.tasks.Create(ctx, task)
}

func (uc *UseCase) UpdateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, id string) error {
	return uc.tasks.Delete(ctx, id)
}
