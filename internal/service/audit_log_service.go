package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/repository"
)

// AuditLogService handles business logic for the append-only audit trail
type AuditLogService struct {
	auditRepo *repository.AuditLogRepository
	logger    *zap.Logger
}

// NewAuditLogService creates a new AuditLogService
func NewAuditLogService(auditRepo *repository.AuditLogRepository, logger *zap.Logger) *AuditLogService {
	return &AuditLogService{auditRepo: auditRepo, logger: logger}
}

// Record writes one audit entry. Audit failures are logged, never surfaced:
// the mutation the entry describes has already happened.
func (s *AuditLogService) Record(ctx context.Context, entry *domain.AuditLog) {
	if entry.PerformedAt.IsZero() {
		entry.PerformedAt = time.Now()
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write audit log entry",
			zap.String("action", string(entry.Action)),
			zap.String("entityType", entry.EntityType),
			zap.Error(err),
		)
	}
}

// List retrieves audit entries with pagination and optional filters
func (s *AuditLogService) List(ctx context.Context, filter *repository.AuditLogFilter, page, pageSize int) ([]domain.AuditLog, int64, error) {
	page, pageSize = repository.ClampPage(page, pageSize)

	logs, total, err := s.auditRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, total, nil
}

// ListByEntity retrieves the recent audit trail of one entity
func (s *AuditLogService) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]domain.AuditLog, error) {
	if limit <= 0 || limit > repository.MaxPageSize {
		limit = 50
	}
	logs, err := s.auditRepo.ListByEntity(ctx, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return logs, nil
}

// PurgeOlderThan applies the retention policy, deleting entries older than
// the cutoff. Returns the number of rows removed.
func (s *AuditLogService) PurgeOlderThan(ctx context.Context, before time.Time) (int64, error) {
	deleted, err := s.auditRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit logs: %w", err)
	}
	if deleted > 0 {
		s.logger.Info("purged audit log entries",
			zap.Int64("deleted", deleted),
			zap.Time("before", before),
		)
	}
	return deleted, nil
}
