package importer

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/utilization"
)

// SheetPersonalHours is the worksheet name carrying per-person timesheet
// rows.
const SheetPersonalHours = "Personal Hours"

type personalHoursLayout struct {
	FirstName  int
	LastName   int
	Project    int
	WeekEnding int
	Hours      int
	Activity   int
	MinColumns int
}

var defaultPersonalHoursLayout = personalHoursLayout{
	FirstName:  0,
	LastName:   1,
	Project:    2,
	WeekEnding: 3,
	Hours:      4,
	Activity:   5,
	MinColumns: 5,
}

// PersonalHoursImporter creates Timesheet rows, auto-creating employees and
// projects as needed, and refreshes the stored weekly actual-hours
// aggregates the utilization projection reads.
type PersonalHoursImporter struct {
	layout personalHoursLayout
}

func NewPersonalHoursImporter() *PersonalHoursImporter {
	return &PersonalHoursImporter{layout: defaultPersonalHoursLayout}
}

func (imp *PersonalHoursImporter) SheetName() string { return SheetPersonalHours }

type weekAggregate struct {
	employeeID uuid.UUID
	weekEnding time.Time
	total      float64
	billable   float64
}

func (imp *PersonalHoursImporter) Import(ctx context.Context, ic *ImportContext, sheet *SheetReader) domain.SheetImportResult {
	result := domain.SheetImportResult{Errors: []string{}}
	l := imp.layout

	// Weekly aggregates are accumulated across the sheet and written once
	// at the end, so one employee week is upserted once per run.
	aggregates := make(map[string]*weekAggregate)

	forEachRow(sheet, &result.Errors, func(rowNum int, row []string) error {
		if isBlankRow(row) {
			return nil
		}
		fullName := strings.TrimSpace(cell(row, l.FirstName) + " " + cell(row, l.LastName))
		if fullName == "" {
			return nil
		}
		if len(row) < l.MinColumns {
			return fmt.Errorf("expected at least %d columns, got %d", l.MinColumns, len(row))
		}

		// Rows without a resolvable project are skipped entirely.
		projectLabel := cell(row, l.Project)
		if projectLabel == "" {
			return nil
		}

		weekEnding, ok := parseDate(cell(row, l.WeekEnding))
		if !ok {
			return fmt.Errorf("invalid week ending %q", cell(row, l.WeekEnding))
		}
		hours, err := parseHours(cell(row, l.Hours))
		if err != nil {
			return fmt.Errorf("invalid hours %q", cell(row, l.Hours))
		}

		employee, err := ic.Resolver.ResolveEmployee(ctx, fullName)
		if err != nil {
			return fmt.Errorf("failed to resolve employee %q: %w", fullName, err)
		}
		project, err := ic.Resolver.ResolveProject(ctx, projectLabel)
		if err != nil {
			return fmt.Errorf("failed to resolve project %q: %w", projectLabel, err)
		}

		activity := cell(row, l.Activity)
		billable := !strings.EqualFold(activity, "leave")

		ts := &domain.Timesheet{
			EmployeeID: employee.ID,
			ProjectID:  project.ID,
			WeekEnding: weekEnding,
			Hours:      decimal.NewFromFloat(hours),
			Billable:   billable,
			Activity:   activity,
			Source:     domain.TimesheetSourceExcelImport,
		}
		if err := ic.Store.CreateTimesheet(ctx, ts); err != nil {
			return fmt.Errorf("failed to create timesheet: %w", err)
		}

		key := employee.ID.String() + "|" + utilization.WeekKey(weekEnding)
		agg, ok := aggregates[key]
		if !ok {
			agg = &weekAggregate{employeeID: employee.ID, weekEnding: weekEnding}
			aggregates[key] = agg
		}
		agg.total += hours
		if billable {
			agg.billable += hours
		}

		result.Imported++
		return nil
	})

	// Deterministic write order keeps reruns and tests stable.
	keys := make([]string, 0, len(aggregates))
	for k := range aggregates {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		agg := aggregates[k]
		wu := &domain.WeeklyUtilization{
			EmployeeID:    agg.employeeID,
			WeekEnding:    agg.weekEnding,
			TotalHours:    agg.total,
			BillableHours: agg.billable,
		}
		if err := ic.Store.UpsertWeeklyUtilization(ctx, wu); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("failed to store weekly aggregate for employee %s: %v", agg.employeeID, err))
		}
	}

	return result
}
