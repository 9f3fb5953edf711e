// Package importer contains the Excel workbook ingestion pipeline: workbook
// parsing, the entity resolver, one importer per supported sheet type, and
// the orchestrator that runs them in dependency order.
package importer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// Storage is the persistence surface the import pipeline needs. It is
// satisfied by the repository layer in production and by lightweight
// in-memory fakes in tests.
type Storage interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	ListEmployees(ctx context.Context) ([]domain.Employee, error)

	CreateProject(ctx context.Context, project *domain.Project) error
	CreateEmployee(ctx context.Context, employee *domain.Employee) error
	CreateProjectMonthlies(ctx context.Context, rows []domain.ProjectMonthly) error
	CreateTimesheet(ctx context.Context, ts *domain.Timesheet) error
	CreateKpi(ctx context.Context, kpi *domain.Kpi) error
	CreateCxRating(ctx context.Context, rating *domain.CxRating) error
	CreateResourceCost(ctx context.Context, rc *domain.ResourceCost) error
	CreateOpportunity(ctx context.Context, opp *domain.PipelineOpportunity) error
	UpsertWeeklyUtilization(ctx context.Context, wu *domain.WeeklyUtilization) error
}

// ImportContext carries the shared state of one import run. It is built per
// request: the resolver's dedup maps and the code sequencer are local to the
// run and do not see concurrent imports.
type ImportContext struct {
	Store    Storage
	Resolver *Resolver
	Seq      *CodeSequencer
	Now      time.Time
	Logger   *zap.Logger
}

// NewImportContext primes a context for one run, loading the resolver's
// lookup maps from storage.
func NewImportContext(ctx context.Context, store Storage, logger *zap.Logger, now time.Time) (*ImportContext, error) {
	seq := NewCodeSequencer(now.UnixMilli() % 100000)
	resolver, err := NewResolver(ctx, store, seq)
	if err != nil {
		return nil, fmt.Errorf("failed to prime entity resolver: %w", err)
	}
	return &ImportContext{
		Store:    store,
		Resolver: resolver,
		Seq:      seq,
		Now:      now,
		Logger:   logger,
	}, nil
}

// SheetImporter converts the rows of one worksheet type into domain records.
// Implementations never fail the whole sheet for one bad row: per-row errors
// are collected into the result and the row is skipped.
type SheetImporter interface {
	SheetName() string
	Import(ctx context.Context, ic *ImportContext, sheet *SheetReader) domain.SheetImportResult
}

// forEachRow drives a sheet importer's row loop: it pulls batches from the
// reader, numbers rows as they appear in the spreadsheet (header is row 1),
// isolates panics per row, and collects error strings. The callback returns
// an error to record the row as failed, or nil.
func forEachRow(sheet *SheetReader, errs *[]string, fn func(rowNum int, row []string) error) {
	rowNum := 1
	for {
		batch, err := sheet.NextBatch(DefaultBatchSize)
		if err != nil {
			*errs = append(*errs, fmt.Sprintf("failed to read rows: %v", err))
			return
		}
		if batch == nil {
			return
		}
		for _, row := range batch {
			rowNum++
			if err := runRow(rowNum, row, fn); err != nil {
				*errs = append(*errs, fmt.Sprintf("row %d: %v", rowNum, err))
			}
		}
	}
}

func runRow(rowNum int, row []string, fn func(int, []string) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()
	return fn(rowNum, row)
}

// isBlankRow reports whether every cell in the row is empty.
func isBlankRow(row []string) bool {
	for idx := range row {
		if cell(row, idx) != "" {
			return false
		}
	}
	return true
}
