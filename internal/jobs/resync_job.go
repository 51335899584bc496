package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/saravana-agencies/billing-sync/internal/config"
	syncpkg "github.com/saravana-agencies/billing-sync/internal/sync"
	"go.uber.org/zap"
)

// ResyncJob periodically re-runs every table's full refresh. The change
// subscriptions have no retry or backoff, so a dropped connection stops
// live updates silently; this job bounds how stale a client can
// get.
type ResyncJob struct {
	coordinator *syncpkg.Coordinator
	cfg         *config.ResyncConfig
	logger      *zap.Logger
}

func NewResyncJob(coordinator *syncpkg.Coordinator, cfg *config.ResyncConfig, logger *zap.Logger) *ResyncJob {
	return &ResyncJob{
		coordinator: coordinator,
		cfg:         cfg,
		logger:      logger,
	}
}

// Register schedules the job when resync is enabled.
func (j *ResyncJob) Register(scheduler *Scheduler) error {
	if !j.cfg.Enabled {
		j.logger.Info("periodic resync disabled")
		return nil
	}
	expr := fmt.Sprintf("@every %s", j.cfg.IntervalDuration())
	return scheduler.AddJob("full-resync", expr, j.Run)
}

// Run performs one full resync pass.
func (j *ResyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	start := time.Now()
	if err := j.coordinator.RefreshAll(ctx); err != nil {
		j.logger.Warn("resync completed with errors",
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
		return
	}
	j.logger.Info("resync completed", zap.Duration("duration", time.Since(start)))
}
