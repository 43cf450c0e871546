package provider

import (
	"context"

	"github.com/taskmind/backend/domain"
)

// TaskExtractor converts free-form text into structured task records through
// an external language-understanding backend. Implementations are polymorphic
// over this capability; nothing else in the system depends on a concrete
// backend.
type TaskExtractor interface {
	// ParseTasks turns raw text into zero or more task records. Malformed
	// input never fails the call; only transport, auth and backend errors
	// do. Text that encodes no actionable task yields an empty list.
	ParseTasks(ctx context.Context, apiKey, text string) ([]domain.Task, error)

	// TestConnection validates the credential with a minimal call that
	// consumes no generation quota. Failure causes distinguish invalid
	// credential, insufficient permission, rate limiting, transport
	// failure and unknown server errors.
	TestConnection(ctx context.Context, apiKey string) error

	// Name returns the human-readable provider name. Pure, no I/O.
	Name() string
}
