package repository

import (
	"context"

	"github.com/taskmind/backend/domain"
)

// RangeFilter bounds the range view: tasks whose window fits inside it.
type RangeFilter struct {
	StartAfter int64
	EndBefore  int64
}

// TaskRepository is the storage contract the extraction and reconciliation
// pipelines write through and the query views read through.
//
// Ordering is part of the contract, not an implementation detail: ListActive
// orders by pinned descending then deadline ascending, ListUrgent and
// ListRange by deadline ascending. Any engine substituted underneath must
// reproduce these orderings exactly, including the pinned-then-deadline
// tie-break, because first-row semantics drive notification logic.
type TaskRepository interface {
	// GetByID returns the task together with its subtasks.
	GetByID(ctx context.Context, id string) (*domain.Task, error)

	// ListActive returns all tasks with is_done = false, pinned first,
	// then soonest deadline first.
	ListActive(ctx context.Context) ([]domain.Task, error)

	// ListUrgent returns active tasks whose deadline is at or before the
	// given epoch-millis bound, soonest first. The bound is supplied by the
	// caller (now + urgency window); it is never hardcoded here.
	ListUrgent(ctx context.Context, deadlineBefore int64) ([]domain.Task, error)

	// ListRange returns tasks whose start time and deadline both fall
	// inside the filter, ordered by deadline ascending.
	ListRange(ctx context.Context, filter RangeFilter) ([]domain.Task, error)

	// ListAll returns every task with its subtasks, for export.
	ListAll(ctx context.Context) ([]domain.Task, error)

	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// CreateIfAbsent inserts the task (with subtasks) unless a task with the
	// same identity tuple already exists. It reports whether an insert
	// happened. Implementations must make the identity check race-safe, for
	// example with a unique constraint, rather than check-then-act.
	CreateIfAbsent(ctx context.Context, task *domain.Task) (bool, error)

	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
