package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// SheetStaff is the worksheet name carrying the staff roster.
const SheetStaff = "Staff SOT"

type staffLayout struct {
	FullName   int
	Role       int
	Grade      int
	Team       int
	StaffType  int
	Status     int
	BaseCost   int
	GrossCost  int
	StartDate  int
	EndDate    int
	MinColumns int
}

var defaultStaffLayout = staffLayout{
	FullName:   0,
	Role:       1,
	Grade:      2,
	Team:       3,
	StaffType:  4,
	Status:     5,
	BaseCost:   6,
	GrossCost:  7,
	StartDate:  8,
	EndDate:    9,
	MinColumns: 6,
}

// StaffImporter creates Employee rows from the Staff SOT sheet. Duplicate
// full names are skipped silently.
type StaffImporter struct {
	layout staffLayout
}

func NewStaffImporter() *StaffImporter {
	return &StaffImporter{layout: defaultStaffLayout}
}

func (imp *StaffImporter) SheetName() string { return SheetStaff }

func (imp *StaffImporter) Import(ctx context.Context, ic *ImportContext, sheet *SheetReader) domain.SheetImportResult {
	result := domain.SheetImportResult{Errors: []string{}}
	l := imp.layout

	forEachRow(sheet, &result.Errors, func(rowNum int, row []string) error {
		if isBlankRow(row) {
			return nil
		}
		fullName := cell(row, l.FullName)
		if fullName == "" {
			return nil
		}
		if len(row) < l.MinColumns {
			return fmt.Errorf("expected at least %d columns, got %d", l.MinColumns, len(row))
		}
		if ic.Resolver.HasEmployeeName(fullName) {
			return nil
		}

		baseCost, err := parseAmount(cell(row, l.BaseCost))
		if err != nil {
			return fmt.Errorf("invalid base cost %q", cell(row, l.BaseCost))
		}
		grossCost, err := parseAmount(cell(row, l.GrossCost))
		if err != nil {
			return fmt.Errorf("invalid gross cost %q", cell(row, l.GrossCost))
		}

		first, last := splitName(fullName)
		employee := &domain.Employee{
			Code:         ic.Seq.NextEmployeeCode(),
			FirstName:    first,
			LastName:     last,
			Role:         cell(row, l.Role),
			Grade:        cell(row, l.Grade),
			Team:         cell(row, l.Team),
			BaseCostDay:  baseCost,
			GrossCostDay: grossCost,
			StaffType:    parseStaffType(cell(row, l.StaffType)),
			Status:       parseEmployeeStatus(cell(row, l.Status)),
		}
		if start, ok := parseDate(cell(row, l.StartDate)); ok {
			employee.StartDate = &start
		}
		if end, ok := parseDate(cell(row, l.EndDate)); ok {
			employee.EndDate = &end
		}

		if err := ic.Store.CreateEmployee(ctx, employee); err != nil {
			return fmt.Errorf("failed to create employee %q: %w", fullName, err)
		}
		ic.Resolver.RegisterEmployee(employee)
		result.Imported++
		return nil
	})

	return result
}

func parseStaffType(raw string) domain.StaffType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "contractor":
		return domain.StaffTypeContractor
	case "consultant":
		return domain.StaffTypeConsultant
	case "engineer":
		return domain.StaffTypeEngineer
	default:
		return domain.StaffTypePermanent
	}
}

// parseEmployeeStatus maps roster status markers. "Virtual Bench" means the
// employee is active but unallocated.
func parseEmployeeStatus(raw string) domain.EmployeeStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "virtual bench", "bench":
		return domain.EmployeeStatusBench
	case "inactive", "left", "terminated":
		return domain.EmployeeStatusInactive
	case "onboarding":
		return domain.EmployeeStatusOnboarding
	default:
		return domain.EmployeeStatusActive
	}
}
