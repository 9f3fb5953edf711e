package importer

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianps/portfolio-api/internal/domain"
)

func personalHoursRow(first, last, project, weekEnding, hours, activity string) []string {
	return []string{first, last, project, weekEnding, hours, activity}
}

func importPersonalHours(t *testing.T, store *fakeStorage, rows [][]string) domain.SheetImportResult {
	t.Helper()
	ic := newTestImportContext(t, store)
	return NewPersonalHoursImporter().Import(context.Background(), ic, newSliceReader(rows))
}

func TestPersonalHoursImport_CreatesTimesheets(t *testing.T) {
	store := newFakeStorage()
	result := importPersonalHours(t, store, [][]string{
		personalHoursRow("Dana", "Reyes", "Acme Platform", "2025-07-04", "30", "Development"),
		personalHoursRow("Dana", "Reyes", "Acme Platform", "2025-07-04", "8", "Leave"),
	})

	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)
	require.Len(t, store.timesheets, 2)

	first := store.timesheets[0]
	assert.Equal(t, "30", first.Hours.String())
	assert.True(t, first.Billable)
	assert.Equal(t, "Development", first.Activity)
	assert.Equal(t, domain.TimesheetSourceExcelImport, first.Source)

	// Leave rows land as timesheets too, flagged non-billable.
	second := store.timesheets[1]
	assert.Equal(t, "8", second.Hours.String())
	assert.False(t, second.Billable)

	// Unknown names and labels are auto-created once.
	assert.Len(t, store.employees, 1)
	assert.Len(t, store.projects, 1)
}

func TestPersonalHoursImport_WeeklyAggregates(t *testing.T) {
	store := newFakeStorage()
	importPersonalHours(t, store, [][]string{
		personalHoursRow("Dana", "Reyes", "Acme Platform", "2025-07-04", "30", "Development"),
		personalHoursRow("Dana", "Reyes", "Internal Training", "2025-07-04", "8", "Leave"),
		personalHoursRow("Dana", "Reyes", "Acme Platform", "2025-07-11", "38", "Development"),
	})

	// Two ISO weeks, one upserted row each; leave hours count toward total
	// but not billable.
	require.Len(t, store.weekly, 2)
	first := store.weekly[0]
	assert.Equal(t, 38.0, first.TotalHours)
	assert.Equal(t, 30.0, first.BillableHours)

	second := store.weekly[1]
	assert.Equal(t, 38.0, second.TotalHours)
	assert.Equal(t, 38.0, second.BillableHours)
}

func TestPersonalHoursImport_EmptyProjectSkipped(t *testing.T) {
	store := newFakeStorage()
	result := importPersonalHours(t, store, [][]string{
		personalHoursRow("Dana", "Reyes", "", "2025-07-04", "38", "Development"),
	})

	assert.Equal(t, 0, result.Imported)
	assert.Empty(t, result.Errors)
	assert.Empty(t, store.timesheets)
	assert.Empty(t, store.weekly)
}

func TestPersonalHoursImport_ResolvesExistingEntities(t *testing.T) {
	store := newFakeStorage()
	employee := domain.Employee{Code: "E1", FirstName: "Dana", LastName: "Reyes", StaffType: domain.StaffTypePermanent, Status: domain.EmployeeStatusActive}
	employee.ID = uuid.New()
	project := domain.Project{Code: "ACM001", Name: "Acme Platform", Status: domain.ProjectStatusActive}
	project.ID = uuid.New()
	store.employees = append(store.employees, employee)
	store.projects = append(store.projects, project)

	result := importPersonalHours(t, store, [][]string{
		personalHoursRow("Dana", "Reyes", "Acme Platform", "2025-07-04", "38", "Development"),
	})

	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.timesheets, 1)
	assert.Equal(t, employee.ID, store.timesheets[0].EmployeeID)
	assert.Equal(t, project.ID, store.timesheets[0].ProjectID)
	assert.Len(t, store.employees, 1)
	assert.Len(t, store.projects, 1)
}

func TestPersonalHoursImport_MalformedRowIsolated(t *testing.T) {
	store := newFakeStorage()
	result := importPersonalHours(t, store, [][]string{
		personalHoursRow("Dana", "Reyes", "Acme Platform", "not-a-date", "38", "Development"),
		personalHoursRow("Dana", "Reyes", "Acme Platform", "2025-07-04", "lots", "Development"),
		personalHoursRow("Sam", "Okafor", "Acme Platform", "2025-07-04", "38", "Development"),
	})

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "invalid week ending")
	assert.Contains(t, result.Errors[1], "invalid hours")
	assert.Len(t, store.timesheets, 1)
}
