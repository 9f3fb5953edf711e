package importer

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// Orchestrator runs the sheet importers for one uploaded workbook. Projects
// and employees are imported first regardless of selection order: the
// entity resolver only sees records created earlier in the same pass or
// already in storage.
type Orchestrator struct {
	logger *zap.Logger
}

func NewOrchestrator(logger *zap.Logger) *Orchestrator {
	return &Orchestrator{logger: logger}
}

// Run executes the importers for the selected sheet names and returns a
// complete per-sheet result map. A failed or missing sheet never aborts its
// siblings.
func (o *Orchestrator) Run(ctx context.Context, ic *ImportContext, wb *Workbook, selected []string) map[string]domain.SheetImportResult {
	results := make(map[string]domain.SheetImportResult, len(selected))
	defaultFY := domain.FiscalYearLabel(ic.Now)

	for _, name := range orderSheets(selected) {
		results[name] = o.runSheet(ctx, ic, wb, name, defaultFY)
	}
	return results
}

// orderSheets moves the entity-producing sheets to the front, keeping the
// original order for everything else.
func orderSheets(selected []string) []string {
	ordered := make([]string, 0, len(selected))
	for _, priority := range []string{SheetJobStatus, SheetStaff} {
		for _, name := range selected {
			if name == priority {
				ordered = append(ordered, name)
			}
		}
	}
	for _, name := range selected {
		if name != SheetJobStatus && name != SheetStaff {
			ordered = append(ordered, name)
		}
	}
	return ordered
}

func (o *Orchestrator) runSheet(ctx context.Context, ic *ImportContext, wb *Workbook, name, defaultFY string) domain.SheetImportResult {
	imp := resolveImporter(name, defaultFY)
	if imp == nil {
		return domain.SheetImportResult{Errors: []string{"sheet \"" + name + "\" is not supported"}}
	}
	if !wb.HasSheet(name) {
		return domain.SheetImportResult{Errors: []string{"sheet \"" + name + "\" not found in workbook"}}
	}

	reader, err := wb.Sheet(name)
	if err != nil {
		return domain.SheetImportResult{Errors: []string{err.Error()}}
	}
	defer reader.Close()

	result := imp.Import(ctx, ic, reader)
	o.logger.Info("sheet imported",
		zap.String("sheet", name),
		zap.Int("imported", result.Imported),
		zap.Int("errors", len(result.Errors)),
	)
	return result
}

// resolveImporter maps a worksheet name to its importer. Pipeline, gross
// profit and resource cost sheets match on a name prefix because the
// workbook names them with fiscal-year suffixes; the rest match exactly.
func resolveImporter(name, defaultFY string) SheetImporter {
	switch name {
	case SheetJobStatus:
		return NewJobStatusImporter()
	case SheetStaff:
		return NewStaffImporter()
	case SheetPersonalHours:
		return NewPersonalHoursImporter()
	case SheetProjectHours:
		return NewProjectHoursImporter()
	case SheetCxMasterList:
		return NewCxImporter()
	}

	switch {
	case strings.HasPrefix(name, SheetPipelineRevenueVAT):
		return NewPipelineImporter(name, true, defaultFY)
	case strings.HasPrefix(name, SheetPipelineRevenue):
		return NewPipelineImporter(name, false, defaultFY)
	case strings.HasPrefix(name, SheetGrossProfit):
		return NewGrossProfitImporter(name, defaultFY)
	case strings.HasPrefix(name, SheetResourceCostAF):
		return NewResourceCostImporter(name, true, defaultFY)
	case strings.HasPrefix(name, SheetResourceCost):
		return NewResourceCostImporter(name, false, defaultFY)
	}
	return nil
}

// SupportedSheets lists the canonical sheet names the pipeline understands.
func SupportedSheets() []string {
	return []string{
		SheetJobStatus,
		SheetStaff,
		SheetPipelineRevenue,
		SheetPipelineRevenueVAT,
		SheetGrossProfit,
		SheetPersonalHours,
		SheetProjectHours,
		SheetCxMasterList,
		SheetResourceCost,
		SheetResourceCostAF,
	}
}
