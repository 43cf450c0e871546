package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskmind/backend/domain"
	"github.com/taskmind/backend/repository"
)

// TaskRepository is an in-memory TaskRepository honoring the same ordering
// contract as the Postgres implementation. It backs tests and single-node
// setups that run without a database.
type TaskRepository struct {
	mu       sync.RWMutex
	tasks    map[string]*domain.Task
	identity map[domain.Identity]string
	seq      int64

	// FailNextCreate makes the next insert fail with the given error,
	// simulating a storage fault mid-reconciliation.
	FailNextCreate error
}

// NewTaskRepository returns an empty in-memory repository.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks:    make(map[string]*domain.Task),
		identity: make(map[domain.Identity]string),
	}
}

func (r *TaskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := cloneTask(task)
	return &clone, nil
}

func (r *TaskRepository) ListActive(ctx context.Context) ([]domain.Task, error) {
	return r.snapshot(func(t *domain.Task) bool { return !t.IsDone }, byPinnedThenDeadline), nil
}

func (r *TaskRepository) ListUrgent(ctx context.Context, deadlineBefore int64) ([]domain.Task, error) {
	return r.snapshot(func(t *domain.Task) bool {
		return !t.IsDone && t.Deadline <= deadlineBefore
	}, byDeadline), nil
}

func (r *TaskRepository) ListRange(ctx context.Context, filter repository.RangeFilter) ([]domain.Task, error) {
	return r.snapshot(func(t *domain.Task) bool {
		return t.StartTime >= filter.StartAfter && t.Deadline <= filter.EndBefore
	}, byDeadline), nil
}

func (r *TaskRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	return r.snapshot(func(*domain.Task) bool { return true }, byCreation), nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.Title == "" {
		return nil, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.insertLocked(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *TaskRepository) CreateIfAbsent(ctx context.Context, task *domain.Task) (bool, error) {
	if task == nil || task.Title == "" {
		return false, domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	task.Normalize(time.Now())
	if _, exists := r.identity[domain.IdentityOf(task)]; exists {
		return false, nil
	}
	if err := r.insertLocked(task); err != nil {
		return false, err
	}
	return true, nil
}

func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[task.ID]
	if !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.identity, domain.IdentityOf(existing))

	task.UpdatedAt = time.Now()
	task.CreatedAt = existing.CreatedAt
	clone := cloneTask(task)
	r.tasks[task.ID] = &clone
	r.identity[domain.IdentityOf(&clone)] = task.ID
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.identity, domain.IdentityOf(task))
	delete(r.tasks, id)
	return nil
}

func (r *TaskRepository) insertLocked(task *domain.Task) error {
	if r.FailNextCreate != nil {
		err := r.FailNextCreate
		r.FailNextCreate = nil
		return err
	}

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Normalize(time.Now())
	r.seq++
	task.CreatedAt = time.Now().Add(time.Duration(r.seq)) // keep insertion order distinct
	task.UpdatedAt = task.CreatedAt
	for i := range task.Subtasks {
		if task.Subtasks[i].ID == "" {
			task.Subtasks[i].ID = uuid.NewString()
		}
		task.Subtasks[i].TaskID = task.ID
	}

	clone := cloneTask(task)
	r.tasks[task.ID] = &clone
	r.identity[domain.IdentityOf(&clone)] = task.ID
	return nil
}

func (r *TaskRepository) snapshot(keep func(*domain.Task) bool, less func(a, b *domain.Task) bool) []domain.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Task
	for _, task := range r.tasks {
		if keep(task) {
			out = append(out, cloneTask(task))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

func byPinnedThenDeadline(a, b *domain.Task) bool {
	if a.IsPinned != b.IsPinned {
		return a.IsPinned
	}
	return a.Deadline < b.Deadline
}

func byDeadline(a, b *domain.Task) bool {
	return a.Deadline < b.Deadline
}

func byCreation(a, b *domain.Task) bool {
	return a.CreatedAt.Before(b.CreatedAt)
}

func cloneTask(t *domain.Task) domain.Task {
	clone := *t
	if len(t.Subtasks) > 0 {
		clone.Subtasks = append([]domain.Subtask(nil), t.Subtasks...)
	}
	return clone
}
