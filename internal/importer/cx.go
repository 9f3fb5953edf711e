package importer

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// SheetCxMasterList is the worksheet name carrying client-experience
// ratings.
const SheetCxMasterList = "CX Master List"

type cxLayout struct {
	Project         int
	Employee        int
	Rating          int
	ProjectManager  int
	DeliveryManager int
	Period          int
	Comments        int
	MinColumns      int
}

var defaultCxLayout = cxLayout{
	Project:         0,
	Employee:        1,
	Rating:          2,
	ProjectManager:  3,
	DeliveryManager: 4,
	Period:          5,
	Comments:        6,
	MinColumns:      3,
}

// CxImporter creates CxRating rows. Unlike the timesheet importers it never
// creates entities: projects go through the lookup-only matching stages and
// unresolvable rows fail, employees are optional.
type CxImporter struct {
	layout cxLayout
}

func NewCxImporter() *CxImporter {
	return &CxImporter{layout: defaultCxLayout}
}

func (imp *CxImporter) SheetName() string { return SheetCxMasterList }

func (imp *CxImporter) Import(ctx context.Context, ic *ImportContext, sheet *SheetReader) domain.SheetImportResult {
	result := domain.SheetImportResult{Errors: []string{}}
	l := imp.layout

	forEachRow(sheet, &result.Errors, func(rowNum int, row []string) error {
		if isBlankRow(row) {
			return nil
		}
		projectLabel := cell(row, l.Project)
		if projectLabel == "" {
			return nil
		}
		if len(row) < l.MinColumns {
			return fmt.Errorf("expected at least %d columns, got %d", l.MinColumns, len(row))
		}

		project, ok := ic.Resolver.LookupProject(projectLabel)
		if !ok {
			return fmt.Errorf("project %q not found", projectLabel)
		}

		rating, err := strconv.Atoi(cell(row, l.Rating))
		if err != nil {
			return fmt.Errorf("invalid rating %q", cell(row, l.Rating))
		}

		cx := &domain.CxRating{
			ProjectID:         project.ID,
			Period:            ic.Now,
			Rating:            rating,
			IsProjectManager:  parseFlag(cell(row, l.ProjectManager)),
			IsDeliveryManager: parseFlag(cell(row, l.DeliveryManager)),
			Comments:          cell(row, l.Comments),
		}
		if period, ok := parseDate(cell(row, l.Period)); ok {
			cx.Period = period
		}
		if employee, ok := ic.Resolver.LookupEmployee(cell(row, l.Employee)); ok {
			id := employee.ID
			cx.EmployeeID = &id
		}

		if err := ic.Store.CreateCxRating(ctx, cx); err != nil {
			return fmt.Errorf("failed to create rating for %q: %w", projectLabel, err)
		}

		result.Imported++
		return nil
	})

	return result
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "y", "yes", "true", "1", "x":
		return true
	}
	return false
}
