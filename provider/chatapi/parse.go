package chatapi

import (
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskmind/backend/domain"
)

// rawTask is the loosely-typed intermediate shape decoded from the model
// reply. Every field except title is optional; each maps independently so one
// bad field cannot invalidate the whole record.
type rawTask struct {
	Title       string `json:"title"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// parseContent turns the completion content into task records. Content that
// is not a JSON array, fenced or bare, yields an empty list: malformed model
// output is not an API error, and an empty task list is a valid outcome.
func (c *Client) parseContent(content, sourceText string, now time.Time) []domain.Task {
	var raw []rawTask
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &raw); err != nil {
		c.logger.Warn("unparsable model output, treating as no tasks",
			zap.String("provider", c.cfg.Name),
			zap.Error(err))
		return []domain.Task{}
	}

	tasks := make([]domain.Task, 0, len(raw))
	for _, item := range raw {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		start, startOK := parseLocalTime(item.StartTime)
		end, endOK := parseLocalTime(item.EndTime)
		if !startOK {
			start = now
		}
		if !endOK {
			if item.EndTime != "" {
				// A mangled end token shrinks to a one hour window; the
				// 24h default is only for input that mentioned no time.
				end = start.Add(time.Hour)
			} else {
				end = start.Add(24 * time.Hour)
			}
		}

		task := domain.Task{
			Title:        title,
			Description:  strings.TrimSpace(item.Description),
			StartTime:    start.UnixMilli(),
			Deadline:     end.UnixMilli(),
			Type:         domain.ParseTaskType(item.Type),
			OriginalText: sourceText,
		}
		task.Normalize(now)
		tasks = append(tasks, task)
	}
	return tasks
}

func parseLocalTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(timeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// stripCodeFence removes the Markdown code-fence wrapper language models
// commonly put around JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
