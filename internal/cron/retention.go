package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"bitgate/internal/repository"
)

// Scheduler runs the periodic housekeeping jobs.
type Scheduler struct {
	c             *cron.Cron
	logs          *repository.IPNLogRepository
	retentionDays int
	logger        *zap.Logger
}

func New(logs *repository.IPNLogRepository, retentionDays int, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &Scheduler{
		c:             cron.New(),
		logs:          logs,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// Start registers and starts the jobs.
func (s *Scheduler) Start() {
	// Prune the IPN log nightly.
	_, _ = s.c.AddFunc("0 3 * * *", s.pruneIPNLog)
	s.c.Start()
	s.logger.Info("cron scheduler started", zap.Int("ipn_log_retention_days", s.retentionDays))
}

// Stop stops the scheduler and returns a context that is done once
// running jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.c.Stop()
}

func (s *Scheduler) pruneIPNLog() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	removed, err := s.logs.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("ipn log prune failed", zap.Error(err))
		return
	}
	s.logger.Info("ipn log pruned", zap.Int64("removed", removed), zap.Time("cutoff", cutoff))
}
