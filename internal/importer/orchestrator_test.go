package importer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// buildWorkbook writes an in-memory .xlsx with the given sheets. Each sheet
// gets a header row followed by the provided data rows.
func buildWorkbook(t *testing.T, sheets map[string][][]string) *Workbook {
	t.Helper()
	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		require.NoError(t, f.SetSheetRow(name, "A1", &[]string{"header"}))
		for i, row := range rows {
			cellRef := fmt.Sprintf("A%d", i+2)
			r := row
			require.NoError(t, f.SetSheetRow(name, cellRef, &r))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, f.Close())

	wb, err := OpenWorkbook(buf.Bytes(), "upload.xlsx")
	require.NoError(t, err)
	return wb
}

func TestOrderSheets(t *testing.T) {
	got := orderSheets([]string{SheetPersonalHours, SheetStaff, SheetCxMasterList, SheetJobStatus})
	assert.Equal(t, []string{SheetJobStatus, SheetStaff, SheetPersonalHours, SheetCxMasterList}, got)
}

func TestOrchestratorRun_EntitySheetsFirst(t *testing.T) {
	wb := buildWorkbook(t, map[string][][]string{
		SheetJobStatus: {jobStatusRow("Acme Platform Rebuild", nil)},
	})
	defer wb.Close()

	store := newFakeStorage()
	ic := newTestImportContext(t, store)

	results := NewOrchestrator(zap.NewNop()).Run(context.Background(), ic, wb, []string{SheetJobStatus})

	require.Contains(t, results, SheetJobStatus)
	assert.Equal(t, 1, results[SheetJobStatus].Imported)
	assert.Empty(t, results[SheetJobStatus].Errors)
	assert.Len(t, store.projects, 1)
}

func TestOrchestratorRun_MissingSheet(t *testing.T) {
	wb := buildWorkbook(t, map[string][][]string{
		SheetJobStatus: {},
	})
	defer wb.Close()

	ic := newTestImportContext(t, newFakeStorage())
	results := NewOrchestrator(zap.NewNop()).Run(context.Background(), ic, wb, []string{SheetStaff})

	require.Contains(t, results, SheetStaff)
	require.Len(t, results[SheetStaff].Errors, 1)
	assert.Contains(t, results[SheetStaff].Errors[0], "not found")
}

func TestOrchestratorRun_UnsupportedSheet(t *testing.T) {
	wb := buildWorkbook(t, map[string][][]string{
		"Random Tab": {},
	})
	defer wb.Close()

	ic := newTestImportContext(t, newFakeStorage())
	results := NewOrchestrator(zap.NewNop()).Run(context.Background(), ic, wb, []string{"Random Tab"})

	require.Contains(t, results, "Random Tab")
	require.Len(t, results["Random Tab"].Errors, 1)
	assert.Contains(t, results["Random Tab"].Errors[0], "not supported")
}

func TestOrchestratorRun_FailedSheetDoesNotAbortSiblings(t *testing.T) {
	wb := buildWorkbook(t, map[string][][]string{
		SheetJobStatus: {jobStatusRow("Acme Platform Rebuild", nil)},
	})
	defer wb.Close()

	ic := newTestImportContext(t, newFakeStorage())
	results := NewOrchestrator(zap.NewNop()).Run(context.Background(), ic, wb, []string{SheetStaff, SheetJobStatus})

	assert.NotEmpty(t, results[SheetStaff].Errors)
	assert.Equal(t, 1, results[SheetJobStatus].Imported)
}

func TestResolveImporter_PrefixMatches(t *testing.T) {
	assert.NotNil(t, resolveImporter("Pipeline Revenue 25-26", "25-26"))
	assert.NotNil(t, resolveImporter("Gross Profit 25-26", "25-26"))
	assert.NotNil(t, resolveImporter(SheetJobStatus, "25-26"))
	assert.Nil(t, resolveImporter("Unknown", "25-26"))
}

func TestWorkbookPreview(t *testing.T) {
	rows := [][]string{
		{"a1", "b1", "c1"},
		{"a2", "b2"},
		{"a3"}, {"a4"}, {"a5"}, {"a6"}, {"a7"},
	}
	wb := buildWorkbook(t, map[string][][]string{"Data": rows})
	defer wb.Close()

	previews, err := wb.Preview()
	require.NoError(t, err)
	require.Len(t, previews, 1)

	dims := previews[0]
	assert.Equal(t, "Data", dims.Name)
	assert.Equal(t, 7, dims.Rows)
	assert.Equal(t, 3, dims.Cols)
	assert.Len(t, dims.Preview, PreviewRows)
}

func TestSheetReaderBatches(t *testing.T) {
	var rows [][]string
	for i := 0; i < 5; i++ {
		rows = append(rows, []string{fmt.Sprint(i)})
	}
	sr := newSliceReader(rows)

	batch, err := sr.NextBatch(2)
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	batch, err = sr.NextBatch(2)
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	batch, err = sr.NextBatch(2)
	require.NoError(t, err)
	assert.Len(t, batch, 1)

	batch, err = sr.NextBatch(2)
	require.NoError(t, err)
	assert.Nil(t, batch)

	_ = sr.Close()
}
