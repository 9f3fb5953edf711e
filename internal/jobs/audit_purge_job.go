package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// AuditPurgeJobName is the name of the audit retention job
const AuditPurgeJobName = "audit_purge"

// AuditPurgeService defines the interface for deleting aged audit log entries.
type AuditPurgeService interface {
	// PurgeOlderThan deletes audit entries performed before the given time.
	PurgeOlderThan(ctx context.Context, before time.Time) (int64, error)
}

// AuditPurgeJob removes audit log entries past the retention window.
type AuditPurgeJob struct {
	auditService  AuditPurgeService
	retentionDays int
	logger        *zap.Logger
	timeout       time.Duration
}

// NewAuditPurgeJob creates a new audit retention job.
func NewAuditPurgeJob(auditService AuditPurgeService, retentionDays int, logger *zap.Logger, timeout time.Duration) *AuditPurgeJob {
	return &AuditPurgeJob{
		auditService:  auditService,
		retentionDays: retentionDays,
		logger:        logger,
		timeout:       timeout,
	}
}

// Run executes the purge. Called by the scheduler according to the cron expression.
func (j *AuditPurgeJob) Run() {
	if j.retentionDays <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	before := time.Now().AddDate(0, 0, -j.retentionDays)
	deleted, err := j.auditService.PurgeOlderThan(ctx, before)
	if err != nil {
		j.logger.Error("audit purge failed",
			zap.Error(err),
			zap.Time("before", before))
		return
	}

	j.logger.Info("audit purge completed",
		zap.Int64("deleted", deleted),
		zap.Time("before", before))
}

// RegisterAuditPurgeJob registers the audit retention job with the scheduler.
func RegisterAuditPurgeJob(scheduler *Scheduler, auditService AuditPurgeService, retentionDays int, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewAuditPurgeJob(auditService, retentionDays, logger, timeout)
	return scheduler.AddJob(AuditPurgeJobName, cronExpr, job.Run)
}
