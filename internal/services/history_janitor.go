package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskmind/backend/repository"
)

// JanitorConfig controls how the history audit log is pruned.
type JanitorConfig struct {
	Interval  time.Duration
	Retention time.Duration
}

// HistoryJanitor prunes audit entries past retention on a fixed schedule.
type HistoryJanitor struct {
	history repository.HistoryRepository
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     JanitorConfig
}

func NewHistoryJanitor(history repository.HistoryRepository, logger *zap.Logger, cfg JanitorConfig) *HistoryJanitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &HistoryJanitor{
		history: history,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = j.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := j.Prune(ctx); err != nil {
			j.logger.Error("history prune failed", zap.Error(err))
		}
	})

	return j
}

// Start launches the cron scheduler.
func (j *HistoryJanitor) Start() {
	if j == nil || j.cron == nil {
		return
	}
	j.cron.Start()
	j.logger.Info("history janitor started")
}

// Stop gracefully stops the scheduler.
func (j *HistoryJanitor) Stop(ctx context.Context) {
	if j == nil || j.cron == nil {
		return
	}
	stopCtx := j.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	j.logger.Info("history janitor stopped")
}

// Prune removes entries older than the retention window.
func (j *HistoryJanitor) Prune(ctx context.Context) error {
	if j == nil || j.history == nil {
		return nil
	}
	cutoff := time.Now().Add(-j.cfg.Retention)
	removed, err := j.history.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if removed > 0 {
		j.logger.Info("pruned history entries", zap.Int("removed", removed))
	}
	return nil
}
