package chatapi

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmind/backend/domain"
)

func fixedClient(now time.Time) *Client {
	c := NewClient(Config{Name: "test"}, nil)
	c.now = func() time.Time { return now }
	return c
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `[{"title":"a"}]`, `[{"title":"a"}]`},
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"plain fence", "```\n[1,2]\n```", "[1,2]"},
		{"surrounding whitespace", "  ```json\n[]\n```  ", "[]"},
		{"no trailing fence", "```json\n[]", "[]"},
		{"single line fence", "```json[]```", "[]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stripCodeFence(tc.in))
		})
	}
}

func TestParseContent_TimestampDefaults(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)
	c := fixedClient(now)

	t.Run("no times mentioned", func(t *testing.T) {
		tasks := c.parseContent(`[{"title": "water plants"}]`, "water plants", now)
		require.Len(t, tasks, 1)
		assert.Equal(t, now.UnixMilli(), tasks[0].StartTime)
		assert.Equal(t, now.Add(24*time.Hour).UnixMilli(), tasks[0].Deadline)
	})

	t.Run("single end time", func(t *testing.T) {
		tasks := c.parseContent(
			`[{"title": "meeting", "startTime": "2026-08-30 10:00", "endTime": "2026-08-31 15:00"}]`,
			"meeting tomorrow 3pm", now)
		require.Len(t, tasks, 1)
		end := time.Date(2026, 8, 31, 15, 0, 0, 0, time.Local)
		assert.Equal(t, now.UnixMilli(), tasks[0].StartTime)
		assert.Equal(t, end.UnixMilli(), tasks[0].Deadline)
	})

	t.Run("mangled end token shrinks to one hour", func(t *testing.T) {
		tasks := c.parseContent(
			`[{"title": "call", "startTime": "2026-08-30 14:00", "endTime": "sometime later"}]`,
			"call", now)
		require.Len(t, tasks, 1)
		start := time.Date(2026, 8, 30, 14, 0, 0, 0, time.Local)
		assert.Equal(t, start.UnixMilli(), tasks[0].StartTime)
		assert.Equal(t, start.Add(time.Hour).UnixMilli(), tasks[0].Deadline)
	})

	t.Run("both tokens mangled", func(t *testing.T) {
		tasks := c.parseContent(
			`[{"title": "x", "startTime": "garbage", "endTime": "also garbage"}]`,
			"x", now)
		require.Len(t, tasks, 1)
		assert.Equal(t, now.UnixMilli(), tasks[0].StartTime)
		assert.Equal(t, now.Add(time.Hour).UnixMilli(), tasks[0].Deadline)
	})

	t.Run("mangled start token falls back to now", func(t *testing.T) {
		tasks := c.parseContent(
			`[{"title": "gym", "startTime": "next tuesday-ish", "endTime": "2026-08-30 18:00"}]`,
			"gym", now)
		require.Len(t, tasks, 1)
		end := time.Date(2026, 8, 30, 18, 0, 0, 0, time.Local)
		assert.Equal(t, now.UnixMilli(), tasks[0].StartTime)
		assert.Equal(t, end.UnixMilli(), tasks[0].Deadline)
	})
}

func TestParseContent_FieldDefaults(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.Local)
	c := fixedClient(now)

	t.Run("unknown type falls back to WORK", func(t *testing.T) {
		for _, raw := range []string{"CHORES", "", "work-life", "42"} {
			tasks := c.parseContent(`[{"title": "t", "type": "`+raw+`"}]`, "t", now)
			require.Len(t, tasks, 1)
			assert.Equal(t, domain.TaskTypeWork, tasks[0].Type, "type token %q", raw)
		}
	})

	t.Run("known types case-insensitive", func(t *testing.T) {
		tasks := c.parseContent(`[{"title": "t", "type": "health"}]`, "t", now)
		require.Len(t, tasks, 1)
		assert.Equal(t, domain.TaskTypeHealth, tasks[0].Type)
	})

	t.Run("missing description defaults to empty", func(t *testing.T) {
		tasks := c.parseContent(`[{"title": "t"}]`, "t", now)
		require.Len(t, tasks, 1)
		assert.Equal(t, "", tasks[0].Description)
	})

	t.Run("element without title is skipped", func(t *testing.T) {
		tasks := c.parseContent(
			`[{"description": "orphan"}, {"title": "kept"}, {"title": "  "}]`,
			"input", now)
		require.Len(t, tasks, 1)
		assert.Equal(t, "kept", tasks[0].Title)
	})

	t.Run("original text carried verbatim", func(t *testing.T) {
		source := "明天下午三点开会"
		tasks := c.parseContent(`[{"title": "开会"}]`, source, now)
		require.Len(t, tasks, 1)
		assert.Equal(t, source, tasks[0].OriginalText)
	})
}

func TestBuildSystemPrompt_EmbedsCurrentTime(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 30, 0, 0, time.Local)
	prompt := buildSystemPrompt(now)
	assert.Contains(t, prompt, "2026-08-30 10:30")
	assert.Contains(t, prompt, "WORK, LIFE, STUDY, URGENT, HEALTH")
}
