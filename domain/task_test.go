package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseTaskType(t *testing.T) {
	cases := map[string]TaskType{
		"WORK":     TaskTypeWork,
		"life":     TaskTypeLife,
		" Study ":  TaskTypeStudy,
		"URGENT":   TaskTypeUrgent,
		"HeAlTh":   TaskTypeHealth,
		"":         TaskTypeWork,
		"chores":   TaskTypeWork,
		"work!!":   TaskTypeWork,
		"worklife": TaskTypeWork,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseTaskType(raw), "token %q", raw)
	}
}

func TestNormalize(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	nowMs := now.UnixMilli()

	t.Run("zero timestamps default to now and now+24h", func(t *testing.T) {
		task := Task{Title: "t"}
		task.Normalize(now)
		assert.Equal(t, nowMs, task.StartTime)
		assert.Equal(t, nowMs+24*time.Hour.Milliseconds(), task.Deadline)
	})

	t.Run("missing deadline defaults to start+24h", func(t *testing.T) {
		task := Task{Title: "t", StartTime: nowMs + 5000}
		task.Normalize(now)
		assert.Equal(t, nowMs+5000, task.StartTime)
		assert.Equal(t, nowMs+5000+24*time.Hour.Milliseconds(), task.Deadline)
	})

	t.Run("inverted window repaired to one hour", func(t *testing.T) {
		task := Task{Title: "t", StartTime: nowMs, Deadline: nowMs - 1000}
		task.Normalize(now)
		assert.Equal(t, nowMs, task.StartTime)
		assert.Equal(t, nowMs+time.Hour.Milliseconds(), task.Deadline)
	})

	t.Run("valid window untouched", func(t *testing.T) {
		task := Task{Title: "t", StartTime: nowMs, Deadline: nowMs + 500, Type: TaskTypeHealth}
		task.Normalize(now)
		assert.Equal(t, nowMs, task.StartTime)
		assert.Equal(t, nowMs+500, task.Deadline)
		assert.Equal(t, TaskTypeHealth, task.Type)
	})

	t.Run("unknown type coerced to WORK", func(t *testing.T) {
		task := Task{Title: "t", StartTime: nowMs, Deadline: nowMs + 500, Type: TaskType("banana")}
		task.Normalize(now)
		assert.Equal(t, TaskTypeWork, task.Type)
	})
}

func TestIdentityOf(t *testing.T) {
	a := &Task{ID: "x", Title: "same", StartTime: 1, Deadline: 2, Description: "left"}
	b := &Task{ID: "y", Title: "same", StartTime: 1, Deadline: 2, Description: "right"}
	c := &Task{ID: "z", Title: "same", StartTime: 1, Deadline: 3}

	assert.Equal(t, IdentityOf(a), IdentityOf(b))
	assert.NotEqual(t, IdentityOf(a), IdentityOf(c))
	assert.Equal(t, Identity{}, IdentityOf(nil))
}
