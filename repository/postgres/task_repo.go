package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskmind/backend/domain"
	"github.com/taskmind/backend/repository"
)

const taskColumns = `id, title, description, start_time, deadline, type, original_text, is_pinned, is_done, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
// The tasks table carries a unique index on (title, start_time, deadline) so
// the reconciliation identity check cannot race concurrent imports.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	task, err := scanTask(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	subtasks, err := r.subtasksFor(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	task.Subtasks = subtasks
	return task, nil
}

func (r *taskRepository) ListActive(ctx context.Context) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE is_done = FALSE
	ORDER BY is_pinned DESC, deadline ASC
	`
	return r.list(ctx, query)
}

func (r *taskRepository) ListUrgent(ctx context.Context, deadlineBefore int64) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE is_done = FALSE AND deadline <= $1
	ORDER BY deadline ASC
	`
	return r.list(ctx, query, deadlineBefore)
}

func (r *taskRepository) ListRange(ctx context.Context, filter repository.RangeFilter) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE start_time >= $1 AND deadline <= $2
	ORDER BY deadline ASC
	`
	return r.list(ctx, query, filter.StartAfter, filter.EndBefore)
}

func (r *taskRepository) ListAll(ctx context.Context) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at ASC`
	tasks, err := r.list(ctx, query)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		subtasks, err := r.subtasksFor(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Subtasks = subtasks
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil || task.Title == "" {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Normalize(time.Now())

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const query = `
	INSERT INTO tasks (id, title, description, start_time, deadline, type, original_text, is_pinned, is_done)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`
	if err := tx.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.StartTime,
		task.Deadline,
		string(task.Type),
		task.OriginalText,
		task.IsPinned,
		task.IsDone,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	if err := insertSubtasks(ctx, tx, task); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) CreateIfAbsent(ctx context.Context, task *domain.Task) (bool, error) {
	if task == nil || task.Title == "" {
		return false, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Normalize(time.Now())

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	// The unique index on (title, start_time, deadline) is the identity
	// guard; a concurrent insert of the same tuple lands on DO NOTHING.
	const query = `
	INSERT INTO tasks (id, title, description, start_time, deadline, type, original_text, is_pinned, is_done)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (title, start_time, deadline) DO NOTHING
	`
	tag, err := tx.Exec(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.StartTime,
		task.Deadline,
		string(task.Type),
		task.OriginalText,
		task.IsPinned,
		task.IsDone,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	if err := insertSubtasks(ctx, tx, task); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		start_time = $4,
		deadline = $5,
		type = $6,
		is_pinned = $7,
		is_done = $8,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.StartTime,
		task.Deadline,
		string(task.Type),
		task.IsPinned,
		task.IsDone,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) list(ctx context.Context, query string, args ...interface{}) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) subtasksFor(ctx context.Context, taskID string) ([]domain.Subtask, error) {
	const query = `
	SELECT id, task_id, title, is_done, created_at
	FROM subtasks
	WHERE task_id = $1
	ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subtasks []domain.Subtask
	for rows.Next() {
		var st domain.Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Title, &st.IsDone, &st.CreatedAt); err != nil {
			return nil, err
		}
		subtasks = append(subtasks, st)
	}
	return subtasks, rows.Err()
}

func insertSubtasks(ctx context.Context, tx pgx.Tx, task *domain.Task) error {
	const query = `
	INSERT INTO subtasks (id, task_id, title, is_done)
	VALUES ($1, $2, $3, $4)
	`
	for i := range task.Subtasks {
		st := &task.Subtasks[i]
		if st.ID == "" {
			st.ID = uuid.NewString()
		}
		st.TaskID = task.ID
		if _, err := tx.Exec(ctx, query, st.ID, st.TaskID, st.Title, st.IsDone); err != nil {
			return err
		}
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var taskType string

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.StartTime,
		&task.Deadline,
		&taskType,
		&task.OriginalText,
		&task.IsPinned,
		&task.IsDone,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Type = domain.ParseTaskType(taskType)
	return &task, nil
}
