package domain

import (
	"strings"
	"time"
)

// TaskType is the closed category set tasks are classified into.
type TaskType string

const (
	TaskTypeWork   TaskType = "WORK"
	TaskTypeLife   TaskType = "LIFE"
	TaskTypeStudy  TaskType = "STUDY"
	TaskTypeUrgent TaskType = "URGENT"
	TaskTypeHealth TaskType = "HEALTH"
)

// ParseTaskType maps a raw category token to a TaskType. Unknown or malformed
// tokens fall back to WORK so extraction never fails on a category alone.
func ParseTaskType(raw string) TaskType {
	switch TaskType(strings.ToUpper(strings.TrimSpace(raw))) {
	case TaskTypeLife:
		return TaskTypeLife
	case TaskTypeStudy:
		return TaskTypeStudy
	case TaskTypeUrgent:
		return TaskTypeUrgent
	case TaskTypeHealth:
		return TaskTypeHealth
	default:
		return TaskTypeWork
	}
}

// Task is the canonical structured record produced by extraction and consumed
// by reconciliation and queries. StartTime and Deadline are epoch milliseconds.
type Task struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	StartTime    int64     `json:"start_time"`
	Deadline     int64     `json:"deadline"`
	Type         TaskType  `json:"type"`
	OriginalText string    `json:"original_text,omitempty"`
	IsPinned     bool      `json:"is_pinned"`
	IsDone       bool      `json:"is_done"`
	Subtasks     []Subtask `json:"subtasks,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Subtask is a dependent sub-item of a task, composed by foreign key.
type Subtask struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	Title     string    `json:"title"`
	IsDone    bool      `json:"is_done"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the tuple that decides whether two records denote the same task.
// Two tasks match only if title, start time and deadline are all identical.
type Identity struct {
	Title     string
	StartTime int64
	Deadline  int64
}

// IdentityOf extracts the reconciliation identity of a task.
func IdentityOf(t *Task) Identity {
	if t == nil {
		return Identity{}
	}
	return Identity{Title: t.Title, StartTime: t.StartTime, Deadline: t.Deadline}
}

// Normalize applies the timestamp defaulting rules so a task is never stored
// without valid timestamps: missing start defaults to now, missing deadline to
// start + 24h, and an inverted window is repaired to start + 1h.
func (t *Task) Normalize(now time.Time) {
	if t == nil {
		return
	}
	nowMs := now.UnixMilli()
	if t.StartTime <= 0 {
		t.StartTime = nowMs
	}
	if t.Deadline <= 0 {
		t.Deadline = t.StartTime + 24*time.Hour.Milliseconds()
	}
	if t.Deadline < t.StartTime {
		t.Deadline = t.StartTime + time.Hour.Milliseconds()
	}
	t.Type = ParseTaskType(string(t.Type))
}
