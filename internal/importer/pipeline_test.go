package importer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// pipelineRow builds a row with name, client, classification, VAT category
// and twelve monthly revenue columns.
func pipelineRow(name, client, classification, vat string, monthly ...string) []string {
	row := make([]string, 16)
	row[0] = name
	row[1] = client
	row[2] = classification
	row[3] = vat
	copy(row[4:], monthly)
	return row
}

func TestNewPipelineImporter_FiscalYearFromSheetName(t *testing.T) {
	imp := NewPipelineImporter("Pipeline Revenue FY24-25", false, "25-26")
	assert.Equal(t, "24-25", imp.fiscalYear)
	assert.Equal(t, "Pipeline Revenue FY24-25", imp.SheetName())

	// No FY token in the name falls back to the import date's fiscal year.
	imp = NewPipelineImporter("Pipeline Revenue", false, "25-26")
	assert.Equal(t, "25-26", imp.fiscalYear)
}

func TestPipelineImport_CreatesOpportunity(t *testing.T) {
	store := newFakeStorage()
	ic := newTestImportContext(t, store)
	imp := NewPipelineImporter("Pipeline Revenue FY24-25", false, "25-26")

	result := imp.Import(context.Background(), ic, newSliceReader([][]string{
		pipelineRow("Acme expansion", "Acme Corp", "dvf", "", "1000", "", "2500"),
	}))

	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Errors)
	require.Len(t, store.opportunities, 1)

	opp := store.opportunities[0]
	assert.Equal(t, "Acme expansion", opp.Name)
	assert.Equal(t, "Acme Corp", opp.Client)
	assert.Equal(t, domain.ClassificationDVF, opp.Classification)
	assert.Equal(t, "24-25", opp.FiscalYear)
	assert.Equal(t, 75, opp.WinProbability)
	assert.Empty(t, opp.VatCategory)

	require.Len(t, opp.MonthlyRevenue, 12)
	assert.Equal(t, "1000", opp.MonthlyRevenue[0])
	// Empty monthly cells land as zero.
	assert.Equal(t, "0", opp.MonthlyRevenue[1])
	assert.Equal(t, "2500", opp.MonthlyRevenue[2])

	// Gross profit comes from its own sheet, not this one.
	require.Len(t, opp.MonthlyGrossProfit, 12)
	for _, v := range opp.MonthlyGrossProfit {
		assert.Equal(t, "0", v)
	}
}

func TestPipelineImport_VATVariantReadsCategory(t *testing.T) {
	store := newFakeStorage()
	ic := newTestImportContext(t, store)
	imp := NewPipelineImporter(SheetPipelineRevenueVAT, true, "25-26")

	result := imp.Import(context.Background(), ic, newSliceReader([][]string{
		pipelineRow("Acme expansion", "Acme Corp", "C", "Standard", "1000"),
	}))

	assert.Equal(t, 1, result.Imported)
	require.Len(t, store.opportunities, 1)
	assert.Equal(t, "Standard", store.opportunities[0].VatCategory)
}

func TestPipelineImport_UnknownClassificationIsolated(t *testing.T) {
	store := newFakeStorage()
	ic := newTestImportContext(t, store)
	imp := NewPipelineImporter(SheetPipelineRevenue, false, "25-26")

	result := imp.Import(context.Background(), ic, newSliceReader([][]string{
		pipelineRow("Mystery deal", "Acme Corp", "ZZ", "", "1000"),
		pipelineRow("Solid deal", "Acme Corp", "S", "", "1000"),
	}))

	assert.Equal(t, 1, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `unknown classification "ZZ"`)
	require.Len(t, store.opportunities, 1)
	assert.Equal(t, "Solid deal", store.opportunities[0].Name)
}

func TestPipelineImport_InvalidAmount(t *testing.T) {
	store := newFakeStorage()
	ic := newTestImportContext(t, store)
	imp := NewPipelineImporter(SheetPipelineRevenue, false, "25-26")

	result := imp.Import(context.Background(), ic, newSliceReader([][]string{
		pipelineRow("Acme expansion", "Acme Corp", "C", "", "1000", "soon"),
	}))

	assert.Equal(t, 0, result.Imported)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "invalid amount for month 2")
	assert.Empty(t, store.opportunities)
}
