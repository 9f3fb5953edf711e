package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// WarehouseSyncJobName is the name of the weekly actuals sync job
const WarehouseSyncJobName = "warehouse_sync"

// WeeklySyncService defines the interface for refreshing weekly actuals.
// This interface allows the job to call the service without importing the service package directly.
type WeeklySyncService interface {
	// SyncWeeklyActuals refreshes the trailing number of weeks from the warehouse.
	// Returns how many rows were written and how many were skipped.
	SyncWeeklyActuals(ctx context.Context, weeks int) (synced int, skipped int, err error)
}

// WarehouseSyncJob refreshes the weekly actual-hours aggregates on a schedule.
type WarehouseSyncJob struct {
	syncService WeeklySyncService
	weeks       int
	logger      *zap.Logger
	timeout     time.Duration
}

// NewWarehouseSyncJob creates a new weekly actuals sync job.
// The timeout controls how long a sync run is allowed to take.
func NewWarehouseSyncJob(syncService WeeklySyncService, weeks int, logger *zap.Logger, timeout time.Duration) *WarehouseSyncJob {
	return &WarehouseSyncJob{
		syncService: syncService,
		weeks:       weeks,
		logger:      logger,
		timeout:     timeout,
	}
}

// Run executes the sync job. Called by the scheduler according to the cron expression.
func (j *WarehouseSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	j.logger.Info("starting weekly actuals sync job", zap.Int("weeks", j.weeks))

	synced, skipped, err := j.syncService.SyncWeeklyActuals(ctx, j.weeks)
	if err != nil {
		j.logger.Error("weekly actuals sync failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("weekly actuals sync job completed",
		zap.Int("synced", synced),
		zap.Int("skipped", skipped),
		zap.Duration("duration", time.Since(start)))
}

// RegisterWarehouseSyncJob registers the weekly actuals sync job with the scheduler.
// The cronExpr should be a valid cron expression (e.g., "0 0 3 * * *" for 03:00 nightly).
func RegisterWarehouseSyncJob(scheduler *Scheduler, syncService WeeklySyncService, weeks int, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewWarehouseSyncJob(syncService, weeks, logger, timeout)
	return scheduler.AddJob(WarehouseSyncJobName, cronExpr, job.Run)
}
