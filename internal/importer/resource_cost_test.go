package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resourceCostRow builds a row with the employee name, twelve overall
// monthly cost columns and, when given, a phase label plus twelve more.
func resourceCostRow(name string, monthly []string, phase string, phaseMonthly []string) []string {
	row := make([]string, 26)
	row[0] = name
	copy(row[1:], monthly)
	row[13] = phase
	copy(row[14:], phaseMonthly)
	return row
}

func twelve(v string) []string {
	values := make([]string, 12)
	for i := range values {
		values[i] = v
	}
	return values
}

func TestResourceCostImport_TotalIsSumOfMonths(t *testing.T) {
	store := newFakeStorage()
	ic := newTestImportContext(t, store)
	imp := NewResourceCostImporter(SheetResourceCost, false, "25-26")

	result := imp.Import(context.Background(), ic, newSliceReader([][]string{
		resourceCostRow("Dana Reyes", twelve("100"), "", nil),
	}))

	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Errors)
	require.Len(t, store.resourceCosts, 1)

	rc := store.resourceCosts[0]
	assert.Equal(t, PhaseOverall, rc.Phase)
	assert.Equal(t, "25-26", rc.FiscalYear)
	require.Len(t, rc.MonthlyCosts, 12)
	assert.Equal(t, "100", rc.MonthlyCosts[0])
	assert.Equal(t, "1200", rc.TotalCost.String())

	// Unknown names are auto-created.
	assert.Len(t, store.employees, 1)
}

func TestResourceCostImport_PhaseVariantWritesSecondVector(t *testing.T) {
	store := newFakeStorage()
	ic := newTestImportContext(t, store)
	imp := NewResourceCostImporter(SheetResourceCostAF, true, "25-26")

	result := imp.Import(context.Background(), ic, newSliceReader([][]string{
		resourceCostRow("Dana Reyes", twelve("100"), "Analysis", twelve("50")),
	}))

	// One vector per phase, both counted.
	assert.Equal(t, 2, result.Imported)
	assert.Empty(t, result.Errors)
	require.Len(t, store.resourceCosts, 2)

	overall := store.resourceCosts[0]
	assert.Equal(t, PhaseOverall, overall.Phase)
	assert.Equal(t, "1200", overall.TotalCost.String())

	phase := store.resourceCosts[1]
	assert.Equal(t, "Analysis", phase.Phase)
	assert.Equal(t, "600", phase.TotalCost.String())
	assert.Equal(t, overall.EmployeeID, phase.EmployeeID)
}

func TestResourceCostImport_EmptyPhaseSkipsSecondVector(t *testing.T) {
	store := newFakeStorage()
	ic := newTestImportContext(t, store)
	imp := NewResourceCostImporter(SheetResourceCostAF, true, "25-26")

	result := imp.Import(context.Background(), ic, newSliceReader([][]string{
		resourceCostRow("Dana Reyes", twelve("100"), "", twelve("50")),
	}))

	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.resourceCosts, 1)
	assert.Equal(t, PhaseOverall, store.resourceCosts[0].Phase)
}

func TestResourceCostImport_PlainVariantIgnoresPhaseColumns(t *testing.T) {
	store := newFakeStorage()
	ic := newTestImportContext(t, store)
	imp := NewResourceCostImporter(SheetResourceCost, false, "25-26")

	result := imp.Import(context.Background(), ic, newSliceReader([][]string{
		resourceCostRow("Dana Reyes", twelve("100"), "Analysis", twelve("50")),
	}))

	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.resourceCosts, 1)
	assert.Equal(t, PhaseOverall, store.resourceCosts[0].Phase)
}

func TestResourceCostImport_FiscalYearFromSheetName(t *testing.T) {
	store := newFakeStorage()
	ic := newTestImportContext(t, store)
	imp := NewResourceCostImporter("Resource Cost FY24-25", false, "25-26")

	imp.Import(context.Background(), ic, newSliceReader([][]string{
		resourceCostRow("Dana Reyes", twelve("100"), "", nil),
	}))

	require.Len(t, store.resourceCosts, 1)
	assert.Equal(t, "24-25", store.resourceCosts[0].FiscalYear)
}

func TestResourceCostImport_InvalidCostIsolated(t *testing.T) {
	store := newFakeStorage()
	ic := newTestImportContext(t, store)
	imp := NewResourceCostImporter(SheetResourceCost, false, "25-26")

	bad := twelve("100")
	bad[3] = "about 90"
	result := imp.Import(context.Background(), ic, newSliceReader([][]string{
		resourceCostRow("Bad Row", bad, "", nil),
		resourceCostRow("Dana Reyes", twelve("100"), "", nil),
	}))

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `phase "overall"`)
	assert.Contains(t, result.Errors[0], "invalid cost for month 4")
	require.Len(t, store.resourceCosts, 1)
}
