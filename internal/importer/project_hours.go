package importer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// SheetProjectHours is the worksheet name carrying per-project monthly
// performance figures.
const SheetProjectHours = "Project Hours"

// AnnualStandardHours is the assumed annual capacity used for the KPI
// utilization figure.
const AnnualStandardHours = 2080.0

type projectHoursLayout struct {
	Description int
	Revenue     int
	Cost        int
	Hours       int
	MinColumns  int
}

var defaultProjectHoursLayout = projectHoursLayout{
	Description: 0,
	Revenue:     1,
	Cost:        2,
	Hours:       3,
	MinColumns:  4,
}

// ProjectHoursImporter creates Kpi snapshots from the Project Hours sheet.
// The KPI month is the import timestamp: the sheet carries no period column,
// so the snapshot is dated to when it was loaded.
type ProjectHoursImporter struct {
	layout projectHoursLayout
}

func NewProjectHoursImporter() *ProjectHoursImporter {
	return &ProjectHoursImporter{layout: defaultProjectHoursLayout}
}

func (imp *ProjectHoursImporter) SheetName() string { return SheetProjectHours }

func (imp *ProjectHoursImporter) Import(ctx context.Context, ic *ImportContext, sheet *SheetReader) domain.SheetImportResult {
	result := domain.SheetImportResult{Errors: []string{}}
	l := imp.layout

	forEachRow(sheet, &result.Errors, func(rowNum int, row []string) error {
		if isBlankRow(row) {
			return nil
		}
		description := cell(row, l.Description)
		if description == "" {
			return nil
		}
		if len(row) < l.MinColumns {
			return fmt.Errorf("expected at least %d columns, got %d", l.MinColumns, len(row))
		}

		revenue, err := parseAmount(cell(row, l.Revenue))
		if err != nil {
			return fmt.Errorf("invalid revenue %q", cell(row, l.Revenue))
		}
		cost, err := parseAmount(cell(row, l.Cost))
		if err != nil {
			return fmt.Errorf("invalid cost %q", cell(row, l.Cost))
		}
		hours, err := parseHours(cell(row, l.Hours))
		if err != nil {
			return fmt.Errorf("invalid hours %q", cell(row, l.Hours))
		}

		project, err := ic.Resolver.ResolveProject(ctx, description)
		if err != nil {
			return fmt.Errorf("failed to resolve project %q: %w", description, err)
		}

		margin := revenue.Sub(cost)
		marginPercent := 0.0
		if !revenue.IsZero() {
			marginPercent, _ = margin.Div(revenue).Mul(decimal.NewFromInt(100)).Float64()
		}

		kpi := &domain.Kpi{
			ProjectID:     project.ID,
			Month:         ic.Now,
			Revenue:       revenue,
			Cost:          cost,
			Margin:        margin,
			MarginPercent: marginPercent,
			Hours:         hours,
			Utilization:   hours / AnnualStandardHours * 100,
		}
		if err := ic.Store.CreateKpi(ctx, kpi); err != nil {
			return fmt.Errorf("failed to create KPI for %q: %w", description, err)
		}

		result.Imported++
		return nil
	})

	return result
}
