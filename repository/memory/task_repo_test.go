package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmind/backend/domain"
	"github.com/taskmind/backend/repository"
)

func mustCreate(t *testing.T, repo *TaskRepository, task domain.Task) domain.Task {
	t.Helper()
	created, err := repo.Create(context.Background(), &task)
	require.NoError(t, err)
	return *created
}

func TestListActive_OrderingContract(t *testing.T) {
	repo := NewTaskRepository()
	base := time.Now().UnixMilli()

	mustCreate(t, repo, domain.Task{Title: "late unpinned", StartTime: base, Deadline: base + 5000})
	mustCreate(t, repo, domain.Task{Title: "done", StartTime: base, Deadline: base + 100, IsDone: true})
	mustCreate(t, repo, domain.Task{Title: "late pinned", StartTime: base, Deadline: base + 4000, IsPinned: true})
	mustCreate(t, repo, domain.Task{Title: "soon unpinned", StartTime: base, Deadline: base + 1000})
	mustCreate(t, repo, domain.Task{Title: "soon pinned", StartTime: base, Deadline: base + 2000, IsPinned: true})

	tasks, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 4)

	// Pinned precede unpinned; within each group deadlines are non-decreasing.
	titles := []string{tasks[0].Title, tasks[1].Title, tasks[2].Title, tasks[3].Title}
	assert.Equal(t, []string{"soon pinned", "late pinned", "soon unpinned", "late unpinned"}, titles)
	for _, task := range tasks {
		assert.False(t, task.IsDone)
	}
}

func TestListUrgent_WindowSubsetOfActive(t *testing.T) {
	repo := NewTaskRepository()
	now := time.Now()
	window := 24 * time.Hour
	bound := now.Add(window).UnixMilli()

	mustCreate(t, repo, domain.Task{Title: "due in 1h", StartTime: now.UnixMilli(), Deadline: now.Add(time.Hour).UnixMilli()})
	mustCreate(t, repo, domain.Task{Title: "due in 12h", StartTime: now.UnixMilli(), Deadline: now.Add(12 * time.Hour).UnixMilli(), IsPinned: true})
	mustCreate(t, repo, domain.Task{Title: "due in 48h", StartTime: now.UnixMilli(), Deadline: now.Add(48 * time.Hour).UnixMilli()})
	mustCreate(t, repo, domain.Task{Title: "done soon", StartTime: now.UnixMilli(), Deadline: now.Add(time.Hour).UnixMilli(), IsDone: true})

	urgent, err := repo.ListUrgent(context.Background(), bound)
	require.NoError(t, err)
	require.Len(t, urgent, 2)
	// Urgent view ignores pinning: deadline ascending only.
	assert.Equal(t, "due in 1h", urgent[0].Title)
	assert.Equal(t, "due in 12h", urgent[1].Title)

	// Exactly the active subset within the window.
	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	var expected []string
	for _, task := range active {
		if task.Deadline <= bound {
			expected = append(expected, task.Title)
		}
	}
	assert.ElementsMatch(t, expected, []string{urgent[0].Title, urgent[1].Title})
}

func TestListRange(t *testing.T) {
	repo := NewTaskRepository()
	base := int64(1_000_000)

	mustCreate(t, repo, domain.Task{Title: "inside", StartTime: base + 100, Deadline: base + 900})
	mustCreate(t, repo, domain.Task{Title: "starts before", StartTime: base - 100, Deadline: base + 500})
	mustCreate(t, repo, domain.Task{Title: "ends after", StartTime: base + 100, Deadline: base + 1100})
	mustCreate(t, repo, domain.Task{Title: "inside earlier", StartTime: base + 50, Deadline: base + 200})

	tasks, err := repo.ListRange(context.Background(), repository.RangeFilter{StartAfter: base, EndBefore: base + 1000})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "inside earlier", tasks[0].Title)
	assert.Equal(t, "inside", tasks[1].Title)
}

func TestCreateIfAbsent_IdentityTuple(t *testing.T) {
	repo := NewTaskRepository()
	base := time.Now().UnixMilli()

	first := &domain.Task{Title: "dentist", StartTime: base, Deadline: base + 1000}
	inserted, err := repo.CreateIfAbsent(context.Background(), first)
	require.NoError(t, err)
	assert.True(t, inserted)

	t.Run("same tuple skips", func(t *testing.T) {
		dup := &domain.Task{Title: "dentist", StartTime: base, Deadline: base + 1000}
		inserted, err := repo.CreateIfAbsent(context.Background(), dup)
		require.NoError(t, err)
		assert.False(t, inserted)
	})

	t.Run("different deadline inserts", func(t *testing.T) {
		other := &domain.Task{Title: "dentist", StartTime: base, Deadline: base + 2000}
		inserted, err := repo.CreateIfAbsent(context.Background(), other)
		require.NoError(t, err)
		assert.True(t, inserted)
	})

	t.Run("different title inserts", func(t *testing.T) {
		other := &domain.Task{Title: "dentist follow-up", StartTime: base, Deadline: base + 1000}
		inserted, err := repo.CreateIfAbsent(context.Background(), other)
		require.NoError(t, err)
		assert.True(t, inserted)
	})
}

func TestGetByID_DetailWithSubtasks(t *testing.T) {
	repo := NewTaskRepository()
	base := time.Now().UnixMilli()

	created := mustCreate(t, repo, domain.Task{
		Title:     "release",
		StartTime: base,
		Deadline:  base + 1000,
		Subtasks:  []domain.Subtask{{Title: "tag"}, {Title: "announce"}},
	})

	got, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, got.Subtasks, 2)
	assert.Equal(t, created.ID, got.Subtasks[0].TaskID)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestUpdateAndDelete(t *testing.T) {
	repo := NewTaskRepository()
	base := time.Now().UnixMilli()
	created := mustCreate(t, repo, domain.Task{Title: "draft", StartTime: base, Deadline: base + 1000})

	created.IsDone = true
	require.NoError(t, repo.Update(context.Background(), &created))

	active, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, repo.Delete(context.Background(), created.ID))
	assert.ErrorIs(t, repo.Delete(context.Background(), created.ID), domain.ErrTaskNotFound)
}
