package importer

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianps/portfolio-api/internal/domain"
)

func cxRow(project, employee, rating, pm, dm, period, comments string) []string {
	return []string{project, employee, rating, pm, dm, period, comments}
}

// cxStore seeds a storage with one project and one employee the rows can
// resolve against.
func cxStore() (*fakeStorage, uuid.UUID, uuid.UUID) {
	store := newFakeStorage()
	project := domain.Project{Code: "ACM001", Name: "Acme Platform", Status: domain.ProjectStatusActive}
	project.ID = uuid.New()
	employee := domain.Employee{Code: "E1", FirstName: "Dana", LastName: "Reyes", StaffType: domain.StaffTypePermanent, Status: domain.EmployeeStatusActive}
	employee.ID = uuid.New()
	store.projects = append(store.projects, project)
	store.employees = append(store.employees, employee)
	return store, project.ID, employee.ID
}

func importCx(t *testing.T, store *fakeStorage, rows [][]string) domain.SheetImportResult {
	t.Helper()
	ic := newTestImportContext(t, store)
	return NewCxImporter().Import(context.Background(), ic, newSliceReader(rows))
}

func TestCxImport_CreatesRating(t *testing.T) {
	store, projectID, employeeID := cxStore()
	result := importCx(t, store, [][]string{
		cxRow("Acme Platform", "Dana Reyes", "4", "Y", "", "2025-03-31", "Great delivery"),
	})

	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Errors)
	require.Len(t, store.cxRatings, 1)

	cx := store.cxRatings[0]
	assert.Equal(t, projectID, cx.ProjectID)
	require.NotNil(t, cx.EmployeeID)
	assert.Equal(t, employeeID, *cx.EmployeeID)
	assert.Equal(t, 4, cx.Rating)
	assert.True(t, cx.IsProjectManager)
	assert.False(t, cx.IsDeliveryManager)
	assert.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), cx.Period)
	assert.Equal(t, "Great delivery", cx.Comments)
}

func TestCxImport_UnresolvableProjectFails(t *testing.T) {
	// Ratings never create projects: unmatched labels are row errors.
	store := newFakeStorage()
	result := importCx(t, store, [][]string{
		cxRow("Zeta Rollout", "", "5", "", "", "", ""),
	})

	assert.Equal(t, 0, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `project "Zeta Rollout" not found`)
	assert.Empty(t, store.cxRatings)
	assert.Empty(t, store.projects)
}

func TestCxImport_UnknownEmployeeLeftUnset(t *testing.T) {
	store, _, _ := cxStore()
	result := importCx(t, store, [][]string{
		cxRow("Acme Platform", "Nobody Here", "3", "", "", "", ""),
	})

	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.cxRatings, 1)
	assert.Nil(t, store.cxRatings[0].EmployeeID)
	// Employees are optional and never auto-created here.
	assert.Len(t, store.employees, 1)
}

func TestCxImport_PeriodDefaultsToImportTime(t *testing.T) {
	store, _, _ := cxStore()
	result := importCx(t, store, [][]string{
		cxRow("Acme Platform", "", "3", "", "", "", ""),
	})

	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.cxRatings, 1)
	assert.Equal(t, time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC), store.cxRatings[0].Period)
}

func TestCxImport_InvalidRatingIsolated(t *testing.T) {
	store, _, _ := cxStore()
	result := importCx(t, store, [][]string{
		cxRow("Acme Platform", "", "good", "", "", "", ""),
		cxRow("Acme Platform", "", "5", "", "", "", ""),
	})

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `invalid rating "good"`)
	require.Len(t, store.cxRatings, 1)
	assert.Equal(t, 5, store.cxRatings[0].Rating)
}

func TestParseFlag(t *testing.T) {
	for _, raw := range []string{"y", "Yes", "TRUE", "1", "x", " X "} {
		assert.True(t, parseFlag(raw), raw)
	}
	for _, raw := range []string{"", "n", "no", "0", "false"} {
		assert.False(t, parseFlag(raw), raw)
	}
}
