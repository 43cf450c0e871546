package domain

import "time"

// HistorySource identifies what kind of input produced an extraction attempt.
type HistorySource string

const (
	HistorySourceVoice   HistorySource = "VOICE"
	HistorySourceText    HistorySource = "TEXT"
	HistorySourceSubtask HistorySource = "SUBTASK"
)

// HistoryEntry is the audit record of one extraction attempt. Entries are
// created once per call and never mutated.
type HistoryEntry struct {
	ID        string        `json:"id"`
	Source    HistorySource `json:"source"`
	Content   string        `json:"content"`
	Success   bool          `json:"success"`
	TaskCount int           `json:"task_count"`
	Timestamp time.Time     `json:"timestamp"`
}
