package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// staffRow builds a well-formed Staff SOT row.
func staffRow(fullName string, overrides map[int]string) []string {
	row := []string{fullName, "Senior Consultant", "SC2", "Delivery", "Permanent", "Active", "450", "620", "2024-09-01", ""}
	for idx, v := range overrides {
		row[idx] = v
	}
	return row
}

func importStaff(t *testing.T, store *fakeStorage, rows [][]string) domain.SheetImportResult {
	t.Helper()
	ic := newTestImportContext(t, store)
	return NewStaffImporter().Import(context.Background(), ic, newSliceReader(rows))
}

func TestStaffImport_CreatesEmployee(t *testing.T) {
	store := newFakeStorage()
	result := importStaff(t, store, [][]string{
		staffRow("Dana Reyes", nil),
	})

	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Errors)
	require.Len(t, store.employees, 1)

	e := store.employees[0]
	assert.True(t, strings.HasPrefix(e.Code, "E"))
	assert.Equal(t, "Dana", e.FirstName)
	assert.Equal(t, "Reyes", e.LastName)
	assert.Equal(t, "Senior Consultant", e.Role)
	assert.Equal(t, "SC2", e.Grade)
	assert.Equal(t, "Delivery", e.Team)
	assert.Equal(t, "450", e.BaseCostDay.String())
	assert.Equal(t, "620", e.GrossCostDay.String())
	assert.Equal(t, domain.StaffTypePermanent, e.StaffType)
	assert.Equal(t, domain.EmployeeStatusActive, e.Status)
	require.NotNil(t, e.StartDate)
	assert.Nil(t, e.EndDate)
}

func TestStaffImport_VirtualBenchStatus(t *testing.T) {
	store := newFakeStorage()
	result := importStaff(t, store, [][]string{
		staffRow("Dana Reyes", map[int]string{5: "Virtual Bench"}),
	})

	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.employees, 1)
	assert.Equal(t, domain.EmployeeStatusBench, store.employees[0].Status)
}

func TestStaffImport_DuplicateNameSkipped(t *testing.T) {
	store := newFakeStorage()
	store.employees = append(store.employees, domain.Employee{
		Code: "E1", FirstName: "Dana", LastName: "Reyes",
		StaffType: domain.StaffTypePermanent, Status: domain.EmployeeStatusActive,
	})

	result := importStaff(t, store, [][]string{
		staffRow("Dana Reyes", nil),
		staffRow("Sam Okafor", nil),
	})

	// The existing roster entry wins; only the new name lands.
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Errors)
	require.Len(t, store.employees, 2)
	assert.Equal(t, "Sam", store.employees[1].FirstName)
}

func TestStaffImport_InvalidCostIsolated(t *testing.T) {
	store := newFakeStorage()
	result := importStaff(t, store, [][]string{
		staffRow("Bad Base", map[int]string{6: "four fifty"}),
		staffRow("Bad Gross", map[int]string{7: "n/a"}),
		staffRow("Good Hire", nil),
	})

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "invalid base cost")
	assert.Contains(t, result.Errors[1], "invalid gross cost")
	require.Len(t, store.employees, 1)
	assert.Equal(t, "Good", store.employees[0].FirstName)
}

func TestStaffImport_TruncatedRow(t *testing.T) {
	store := newFakeStorage()
	result := importStaff(t, store, [][]string{
		{"Dana Reyes", "Senior Consultant"},
	})

	assert.Equal(t, 0, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "columns")
}

func TestStaffImport_BlankAndNamelessRowsIgnored(t *testing.T) {
	store := newFakeStorage()
	result := importStaff(t, store, [][]string{
		{"", "", ""},
		staffRow("", nil),
	})

	assert.Equal(t, 0, result.Imported)
	assert.Empty(t, result.Errors)
}

func TestParseStaffType(t *testing.T) {
	assert.Equal(t, domain.StaffTypeContractor, parseStaffType("Contractor"))
	assert.Equal(t, domain.StaffTypeConsultant, parseStaffType("consultant"))
	assert.Equal(t, domain.StaffTypeEngineer, parseStaffType(" Engineer "))
	assert.Equal(t, domain.StaffTypePermanent, parseStaffType("FTE"))
	assert.Equal(t, domain.StaffTypePermanent, parseStaffType(""))
}

func TestParseEmployeeStatus(t *testing.T) {
	assert.Equal(t, domain.EmployeeStatusBench, parseEmployeeStatus("Virtual Bench"))
	assert.Equal(t, domain.EmployeeStatusBench, parseEmployeeStatus("bench"))
	assert.Equal(t, domain.EmployeeStatusInactive, parseEmployeeStatus("Left"))
	assert.Equal(t, domain.EmployeeStatusInactive, parseEmployeeStatus("terminated"))
	assert.Equal(t, domain.EmployeeStatusOnboarding, parseEmployeeStatus("Onboarding"))
	assert.Equal(t, domain.EmployeeStatusActive, parseEmployeeStatus("Allocated"))
}
