package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// Resource cost worksheet names. The A&F variant carries a second block of
// monthly columns under a named sub-phase.
const (
	SheetResourceCost   = "Resource Cost"
	SheetResourceCostAF = "Resource Cost A&F"
)

// PhaseOverall is the default phase of a resource-cost vector.
const PhaseOverall = "overall"

type resourceCostLayout struct {
	Employee     int
	MonthlyStart int

	// A&F variant second block: phase label plus twelve more monthly
	// columns at a fixed offset.
	Phase             int
	PhaseMonthlyStart int
}

var defaultResourceCostLayout = resourceCostLayout{
	Employee:          0,
	MonthlyStart:      1,
	Phase:             13,
	PhaseMonthlyStart: 14,
}

// ResourceCostImporter creates ResourceCost rows: one 12-month cost vector
// per employee for the overall phase, plus a second vector for the named
// sub-phase in the A&F variant. The total is the sum of the twelve monthly
// values, stored redundantly alongside them.
type ResourceCostImporter struct {
	sheetName  string
	fiscalYear string
	withPhases bool
	layout     resourceCostLayout
}

func NewResourceCostImporter(sheetName string, withPhases bool, defaultFY string) *ResourceCostImporter {
	fy := defaultFY
	if m := sheetFYRe.FindStringSubmatch(sheetName); m != nil {
		fy = m[1]
	}
	return &ResourceCostImporter{
		sheetName:  sheetName,
		fiscalYear: fy,
		withPhases: withPhases,
		layout:     defaultResourceCostLayout,
	}
}

func (imp *ResourceCostImporter) SheetName() string { return imp.sheetName }

func (imp *ResourceCostImporter) Import(ctx context.Context, ic *ImportContext, sheet *SheetReader) domain.SheetImportResult {
	result := domain.SheetImportResult{Errors: []string{}}
	l := imp.layout

	forEachRow(sheet, &result.Errors, func(rowNum int, row []string) error {
		if isBlankRow(row) {
			return nil
		}
		fullName := cell(row, l.Employee)
		if fullName == "" {
			return nil
		}

		employee, err := ic.Resolver.ResolveEmployee(ctx, fullName)
		if err != nil {
			return fmt.Errorf("failed to resolve employee %q: %w", fullName, err)
		}

		if err := imp.writeVector(ctx, ic, employee.ID, PhaseOverall, row, l.MonthlyStart); err != nil {
			return err
		}
		result.Imported++

		if imp.withPhases {
			phase := cell(row, l.Phase)
			if phase != "" {
				if err := imp.writeVector(ctx, ic, employee.ID, phase, row, l.PhaseMonthlyStart); err != nil {
					return err
				}
				result.Imported++
			}
		}
		return nil
	})

	return result
}

func (imp *ResourceCostImporter) writeVector(ctx context.Context, ic *ImportContext, employeeID uuid.UUID, phase string, row []string, offset int) error {
	values, total, err := parseCostVector(row, offset)
	if err != nil {
		return fmt.Errorf("phase %q: %w", phase, err)
	}
	rc := &domain.ResourceCost{
		EmployeeID:   employeeID,
		Phase:        phase,
		FiscalYear:   imp.fiscalYear,
		MonthlyCosts: values,
		TotalCost:    total,
	}
	if err := ic.Store.CreateResourceCost(ctx, rc); err != nil {
		return fmt.Errorf("failed to create resource cost (phase %q): %w", phase, err)
	}
	return nil
}

func parseCostVector(row []string, offset int) (pq.StringArray, decimal.Decimal, error) {
	values := make(pq.StringArray, 0, 12)
	total := decimal.Zero
	for month := 0; month < 12; month++ {
		amount, err := parseAmount(cell(row, offset+month))
		if err != nil {
			return nil, decimal.Zero, fmt.Errorf("invalid cost for month %d: %q", month+1, cell(row, offset+month))
		}
		values = append(values, amount.String())
		total = total.Add(amount)
	}
	return values, total, nil
}
