package backup

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/taskmind/backend/domain"
	"github.com/taskmind/backend/repository"
)

// Engine reconciles an externally supplied task collection with the current
// store and serializes the store back out in the same schema.
type Engine struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{tasks: tasks, logger: logger}
}

// Import merges a serialized backup into the store. Records whose identity
// tuple (title, startTime, deadline) already exists are skipped without
// error; new records are inserted with their subtasks. Candidates are
// processed in payload order and counts are exact for the run.
//
// A structurally invalid payload fails before anything is written. A storage
// error mid-run stops the import and reports the cause without rolling back
// records already inserted; retrying after a partial run is safe because the
// inserted records now skip as duplicates.
func (e *Engine) Import(ctx context.Context, payload []byte) (domain.ReconcileResult, error) {
	var doc domain.BackupDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return domain.ReconcileResult{}, domain.WrapError(domain.ErrCodeInvalid, "malformed backup", err)
	}
	if doc.Tasks == nil {
		return domain.ReconcileResult{}, domain.ErrMalformedBackup
	}

	var result domain.ReconcileResult
	for i := range doc.Tasks {
		candidate := doc.Tasks[i]
		candidate.ID = "" // imported records get fresh identifiers
		for j := range candidate.Subtasks {
			candidate.Subtasks[j].ID = ""
		}

		inserted, err := e.tasks.CreateIfAbsent(ctx, &candidate)
		if err != nil {
			e.logger.Error("backup import stopped on storage error",
				zap.String("title", candidate.Title),
				zap.Int("imported", result.Imported),
				zap.Int("skipped", result.Skipped),
				zap.Error(err))
			return result, err
		}
		if inserted {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	e.logger.Info("backup import completed",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// Export serializes the full store, subtasks included, into the schema
// Import consumes. Re-importing an unmodified export inserts nothing.
func (e *Engine) Export(ctx context.Context) (*domain.BackupDocument, error) {
	tasks, err := e.tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return &domain.BackupDocument{
		Version:    domain.BackupVersion,
		ExportedAt: time.Now(),
		Tasks:      tasks,
	}, nil
}
