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

func importProjectHours(t *testing.T, store *fakeStorage, rows [][]string) domain.SheetImportResult {
	t.Helper()
	ic := newTestImportContext(t, store)
	return NewProjectHoursImporter().Import(context.Background(), ic, newSliceReader(rows))
}

func TestProjectHoursImport_CreatesKpi(t *testing.T) {
	store := newFakeStorage()
	result := importProjectHours(t, store, [][]string{
		{"Acme Platform", "10000", "6000", "208"},
	})

	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Errors)
	require.Len(t, store.kpis, 1)

	kpi := store.kpis[0]
	assert.Equal(t, "10000", kpi.Revenue.String())
	assert.Equal(t, "6000", kpi.Cost.String())
	assert.Equal(t, "4000", kpi.Margin.String())
	assert.InDelta(t, 40.0, kpi.MarginPercent, 0.0001)
	assert.Equal(t, 208.0, kpi.Hours)
	// 208 of 2080 annual standard hours.
	assert.InDelta(t, 10.0, kpi.Utilization, 0.0001)

	// The sheet carries no period column; the snapshot is dated to the
	// import timestamp.
	assert.Equal(t, time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC), kpi.Month)

	// The project label was auto-created.
	require.Len(t, store.projects, 1)
	assert.Equal(t, store.projects[0].ID, kpi.ProjectID)
}

func TestProjectHoursImport_ZeroRevenue(t *testing.T) {
	store := newFakeStorage()
	result := importProjectHours(t, store, [][]string{
		{"Internal Tooling", "", "5000", "120"},
	})

	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.kpis, 1)
	assert.Equal(t, "-5000", store.kpis[0].Margin.String())
	assert.Equal(t, 0.0, store.kpis[0].MarginPercent)
}

func TestProjectHoursImport_ResolvesExistingProject(t *testing.T) {
	store := newFakeStorage()
	project := domain.Project{Code: "ACM001", Name: "Acme Platform", Status: domain.ProjectStatusActive}
	project.ID = uuid.New()
	store.projects = append(store.projects, project)

	result := importProjectHours(t, store, [][]string{
		{"Acme Platform", "10000", "6000", "208"},
	})

	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.kpis, 1)
	assert.Equal(t, project.ID, store.kpis[0].ProjectID)
	assert.Len(t, store.projects, 1)
}

func TestProjectHoursImport_MalformedRowIsolated(t *testing.T) {
	store := newFakeStorage()
	result := importProjectHours(t, store, [][]string{
		{"Bad Revenue", "ten grand", "6000", "208"},
		{"Bad Hours", "10000", "6000", "a lot"},
		{"Good Project", "10000", "6000", "208"},
	})

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0], "invalid revenue")
	assert.Contains(t, result.Errors[1], "invalid hours")
	require.Len(t, store.kpis, 1)
}

func TestProjectHoursImport_TruncatedRow(t *testing.T) {
	store := newFakeStorage()
	result := importProjectHours(t, store, [][]string{
		{"Acme Platform", "10000"},
	})

	assert.Equal(t, 0, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "columns")
}
