package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// SheetJobStatus is the worksheet name carrying the project portfolio.
const SheetJobStatus = "Job Status"

// jobStatusLayout maps the Job Status sheet's positional columns to named
// fields. Positions are fixed by the source workbook template.
type jobStatusLayout struct {
	Status          int
	Practice        int
	ClientCode      int
	Name            int
	Partner         int
	Manager         int
	StartDate       int
	EndDate         int
	BillingCategory int
	WorkOrderValue  int
	Budget          int
	ContractValue   int
	ActualValue     int

	// MonthlyStart is the first column of twelve revenue/cost/profit
	// triplets covering fiscal months July..June.
	MonthlyStart int

	// MinColumns guards against structurally truncated rows.
	MinColumns int
}

var defaultJobStatusLayout = jobStatusLayout{
	Status:          0,
	Practice:        1,
	ClientCode:      2,
	Name:            3,
	Partner:         4,
	Manager:         5,
	StartDate:       7,
	EndDate:         8,
	BillingCategory: 9,
	WorkOrderValue:  13,
	Budget:          14,
	ContractValue:   15,
	ActualValue:     16,
	MonthlyStart:    23,
	MinColumns:      17,
}

// JobStatusImporter creates Project rows, plus one ProjectMonthly per fiscal
// month with nonzero financials, from the Job Status sheet.
type JobStatusImporter struct {
	layout jobStatusLayout
}

func NewJobStatusImporter() *JobStatusImporter {
	return &JobStatusImporter{layout: defaultJobStatusLayout}
}

func (imp *JobStatusImporter) SheetName() string { return SheetJobStatus }

func (imp *JobStatusImporter) Import(ctx context.Context, ic *ImportContext, sheet *SheetReader) domain.SheetImportResult {
	result := domain.SheetImportResult{Errors: []string{}}
	l := imp.layout

	forEachRow(sheet, &result.Errors, func(rowNum int, row []string) error {
		if isBlankRow(row) {
			return nil
		}
		name := cell(row, l.Name)
		if name == "" {
			return nil
		}
		if len(row) < l.MinColumns {
			return fmt.Errorf("expected at least %d columns, got %d", l.MinColumns, len(row))
		}

		// Duplicate project names, from storage or earlier rows in this
		// run, are skipped. Recorded informationally, not a failure.
		if ic.Resolver.HasProjectName(name) {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: project %q already exists, skipped", rowNum, name))
			return nil
		}

		project, err := imp.buildProject(ic, row)
		if err != nil {
			return err
		}
		monthlies, err := imp.buildMonthlies(row)
		if err != nil {
			return err
		}

		if err := ic.Store.CreateProject(ctx, project); err != nil {
			return fmt.Errorf("failed to create project %q: %w", name, err)
		}
		ic.Resolver.RegisterProject(project)

		for i := range monthlies {
			monthlies[i].ProjectID = project.ID
		}
		if len(monthlies) > 0 {
			if err := ic.Store.CreateProjectMonthlies(ctx, monthlies); err != nil {
				return fmt.Errorf("failed to create monthly rows for %q: %w", name, err)
			}
		}

		result.Imported++
		return nil
	})

	return result
}

func (imp *JobStatusImporter) buildProject(ic *ImportContext, row []string) (*domain.Project, error) {
	l := imp.layout

	clientCode := strings.ToUpper(cell(row, l.ClientCode))
	clientPrefix := nonAlphaRe.ReplaceAllString(clientCode, "")

	workOrder, err := parseAmount(cell(row, l.WorkOrderValue))
	if err != nil {
		return nil, fmt.Errorf("invalid work order value %q", cell(row, l.WorkOrderValue))
	}
	budget, err := parseAmount(cell(row, l.Budget))
	if err != nil {
		return nil, fmt.Errorf("invalid budget %q", cell(row, l.Budget))
	}
	contractValue, err := parseAmount(cell(row, l.ContractValue))
	if err != nil {
		return nil, fmt.Errorf("invalid contract value %q", cell(row, l.ContractValue))
	}
	actualValue, err := parseAmount(cell(row, l.ActualValue))
	if err != nil {
		return nil, fmt.Errorf("invalid actual value %q", cell(row, l.ActualValue))
	}

	billingRaw := cell(row, l.BillingCategory)
	billing := domain.BillingCategoryTM
	contractType := domain.ContractTypeTimeMaterials
	if strings.EqualFold(billingRaw, "Fixed") {
		billing = domain.BillingCategoryFixed
		contractType = domain.ContractTypeFixedPrice
	}

	project := &domain.Project{
		Code:            ic.Seq.NextProjectCode(clientPrefix),
		Name:            cell(row, l.Name),
		Client:          clientPrefix,
		BillingCategory: billing,
		ContractType:    contractType,
		Status:          parseProjectStatus(cell(row, l.Status)),
		WorkType:        domain.WorkTypeClient,
		PartnerName:     cell(row, l.Partner),
		ManagerName:     cell(row, l.Manager),
		WorkOrderValue:  workOrder,
		Budget:          budget,
		ContractValue:   contractValue,
		ActualValue:     actualValue,
		Balance:         contractValue.Sub(actualValue),
	}

	if start, ok := parseDate(cell(row, l.StartDate)); ok {
		project.StartDate = &start
		project.FiscalYear = domain.FiscalYearLabel(start)
	}
	if end, ok := parseDate(cell(row, l.EndDate)); ok {
		project.EndDate = &end
	}

	return project, nil
}

// buildMonthlies reads twelve revenue/cost column pairs (the sheet's own
// profit column is ignored and recomputed) and emits one row per fiscal
// month where revenue or cost is nonzero. A month whose only nonzero cell
// is the sheet profit is skipped: recomputed profit for it would be 0-0=0,
// so keeping it would only store an all-zero row.
func (imp *JobStatusImporter) buildMonthlies(row []string) ([]domain.ProjectMonthly, error) {
	var monthlies []domain.ProjectMonthly
	for month := 1; month <= 12; month++ {
		base := imp.layout.MonthlyStart + (month-1)*3
		revenue, err := parseAmount(cell(row, base))
		if err != nil {
			return nil, fmt.Errorf("invalid revenue for fiscal month %d: %q", month, cell(row, base))
		}
		cost, err := parseAmount(cell(row, base+1))
		if err != nil {
			return nil, fmt.Errorf("invalid cost for fiscal month %d: %q", month, cell(row, base+1))
		}
		if revenue.IsZero() && cost.IsZero() {
			continue
		}
		monthlies = append(monthlies, domain.ProjectMonthly{
			FiscalMonth: month,
			Revenue:     revenue,
			Cost:        cost,
			Profit:      revenue.Sub(cost),
		})
	}
	return monthlies, nil
}

func parseProjectStatus(raw string) domain.ProjectStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on hold", "on_hold", "hold":
		return domain.ProjectStatusOnHold
	case "complete", "completed":
		return domain.ProjectStatusCompleted
	case "closed":
		return domain.ProjectStatusClosed
	default:
		return domain.ProjectStatusActive
	}
}
