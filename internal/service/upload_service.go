package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/importer"
	"github.com/meridianps/portfolio-api/internal/repository"
	"github.com/meridianps/portfolio-api/internal/storage"
)

// UploadService handles workbook preview and import. An import run parses
// the uploaded bytes, runs the selected sheet importers, archives the
// original file and records the run in the audit log.
type UploadService struct {
	store        *repository.ImportStore
	orchestrator *importer.Orchestrator
	archive      storage.Storage
	auditRepo    *repository.AuditLogRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewUploadService creates a new UploadService
func NewUploadService(
	store *repository.ImportStore,
	orchestrator *importer.Orchestrator,
	archive storage.Storage,
	auditRepo *repository.AuditLogRepository,
	logger *zap.Logger,
) *UploadService {
	return &UploadService{
		store:        store,
		orchestrator: orchestrator,
		archive:      archive,
		auditRepo:    auditRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// Preview parses an uploaded workbook and returns its sheet names,
// dimensions and the first few data rows per sheet. Nothing is persisted.
func (s *UploadService) Preview(ctx context.Context, data []byte, filename string) (*domain.UploadPreviewResponse, error) {
	wb, err := importer.OpenWorkbook(data, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	defer wb.Close()

	dims, err := wb.Preview()
	if err != nil {
		return nil, fmt.Errorf("failed to preview workbook: %w", err)
	}

	resp := &domain.UploadPreviewResponse{Sheets: make([]domain.SheetPreview, len(dims))}
	for i, d := range dims {
		resp.Sheets[i] = domain.SheetPreview{
			Name:    d.Name,
			Rows:    d.Rows,
			Cols:    d.Cols,
			Preview: d.Preview,
		}
	}
	return resp, nil
}

// Import runs the sheet importers for the selected sheets of an uploaded
// workbook. Per-row failures are collected into the per-sheet results; only
// an unreadable file fails the whole request. The uploaded bytes are
// archived after a run so the source of every import can be traced.
func (s *UploadService) Import(ctx context.Context, data []byte, filename string, sheets []string) (*domain.UploadImportResponse, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheetsSelected
	}

	wb, err := importer.OpenWorkbook(data, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}
	defer wb.Close()

	now := s.now()
	ic, err := importer.NewImportContext(ctx, s.store, s.logger, now)
	if err != nil {
		return nil, err
	}

	results := s.orchestrator.Run(ctx, ic, wb, sheets)

	resp := &domain.UploadImportResponse{Results: results}

	archivePath, _, err := s.archive.Upload(ctx, filename, workbookContentType(filename), bytes.NewReader(data))
	if err != nil {
		// The import itself succeeded; a failed archive write is logged
		// but does not fail the request.
		s.logger.Error("failed to archive uploaded workbook",
			zap.String("filename", filename),
			zap.Error(err),
		)
	} else {
		resp.ArchivePath = archivePath
	}

	s.recordImportAudit(ctx, filename, sheets, results, now)

	return resp, nil
}

// SupportedSheets lists the worksheet names the import pipeline understands
func (s *UploadService) SupportedSheets() []string {
	return importer.SupportedSheets()
}

func (s *UploadService) recordImportAudit(ctx context.Context, filename string, sheets []string, results map[string]domain.SheetImportResult, now time.Time) {
	imported, failed := 0, 0
	for _, r := range results {
		imported += r.Imported
		failed += len(r.Errors)
	}

	entry := &domain.AuditLog{
		Action:      domain.AuditActionImport,
		EntityType:  "workbook",
		EntityName:  filename,
		Detail:      fmt.Sprintf("sheets=%d imported=%d errors=%d", len(sheets), imported, failed),
		PerformedAt: now,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Error("failed to record import audit entry",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}

func workbookContentType(filename string) string {
	if len(filename) > 4 && filename[len(filename)-4:] == ".xls" {
		return "application/vnd.ms-excel"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
