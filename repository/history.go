package repository

import (
	"context"
	"time"

	"github.com/taskmind/backend/domain"
)

// HistoryRepository persists the extraction audit log. Entries are immutable
// once appended.
type HistoryRepository interface {
	Append(ctx context.Context, entry *domain.HistoryEntry) error
	// List returns up to limit entries, newest first.
	List(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
	// DeleteOlderThan prunes entries past retention and reports how many
	// were removed.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
