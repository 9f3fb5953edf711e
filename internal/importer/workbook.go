package importer

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// PreviewRows is how many data rows the upload preview returns per sheet.
const PreviewRows = 5

// DefaultBatchSize is how many rows a SheetReader yields per batch.
const DefaultBatchSize = 200

// Workbook wraps a parsed spreadsheet file. Modern .xlsx files are streamed
// through excelize; legacy .xls files are loaded whole (the format predates
// streaming access and the files are small).
type Workbook struct {
	xlsx *excelize.File
	xls  *xls.WorkBook

	sheetNames []string
}

// OpenWorkbook parses workbook bytes. The filename extension selects the
// parser: .xls goes through the legacy reader, everything else through
// excelize.
func OpenWorkbook(data []byte, filename string) (*Workbook, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xls") {
		wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
		if err != nil {
			return nil, fmt.Errorf("failed to parse legacy workbook: %w", err)
		}
		w := &Workbook{xls: wb}
		for i := 0; i < wb.NumSheets(); i++ {
			if sheet := wb.GetSheet(i); sheet != nil {
				w.sheetNames = append(w.sheetNames, sheet.Name)
			}
		}
		return w, nil
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}
	return &Workbook{xlsx: f, sheetNames: f.GetSheetList()}, nil
}

// Close releases parser resources.
func (w *Workbook) Close() error {
	if w.xlsx != nil {
		return w.xlsx.Close()
	}
	return nil
}

// SheetNames returns the worksheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	return w.sheetNames
}

// HasSheet reports whether the workbook contains the named worksheet.
func (w *Workbook) HasSheet(name string) bool {
	for _, n := range w.sheetNames {
		if n == name {
			return true
		}
	}
	return false
}

// Sheet opens a batch reader over the named worksheet. The first row of
// every sheet is treated as the header row and skipped.
func (w *Workbook) Sheet(name string) (*SheetReader, error) {
	if !w.HasSheet(name) {
		return nil, fmt.Errorf("sheet %q not found in workbook", name)
	}

	if w.xls != nil {
		return newSliceReader(w.legacyRows(name)), nil
	}

	rows, err := w.xlsx.Rows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet %q: %w", name, err)
	}
	// Skip the header row.
	if rows.Next() {
		if _, err := rows.Columns(); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to read header of sheet %q: %w", name, err)
		}
	}
	return &SheetReader{stream: rows}, nil
}

// Preview returns the sheet dimensions and the first PreviewRows data rows
// of every worksheet.
func (w *Workbook) Preview() ([]SheetDims, error) {
	previews := make([]SheetDims, 0, len(w.sheetNames))
	for _, name := range w.sheetNames {
		reader, err := w.Sheet(name)
		if err != nil {
			return nil, err
		}

		dims := SheetDims{Name: name}
		for {
			batch, err := reader.NextBatch(DefaultBatchSize)
			if err != nil {
				_ = reader.Close()
				return nil, err
			}
			if batch == nil {
				break
			}
			for _, row := range batch {
				if dims.Rows < PreviewRows {
					dims.Preview = append(dims.Preview, row)
				}
				if len(row) > dims.Cols {
					dims.Cols = len(row)
				}
				dims.Rows++
			}
		}
		_ = reader.Close()
		previews = append(previews, dims)
	}
	return previews, nil
}

// SheetDims describes one worksheet for the upload preview.
type SheetDims struct {
	Name    string
	Rows    int
	Cols    int
	Preview [][]string
}

func (w *Workbook) legacyRows(name string) [][]string {
	for i := 0; i < w.xls.NumSheets(); i++ {
		sheet := w.xls.GetSheet(i)
		if sheet == nil || sheet.Name != name {
			continue
		}
		var out [][]string
		// Row 0 is the header.
		for r := 1; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				continue
			}
			cells := make([]string, 0, row.LastCol()+1)
			for c := 0; c <= row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			out = append(out, cells)
		}
		return out
	}
	return nil
}

// SheetReader yields data rows in batches so importers never hold a whole
// sheet in memory. A nil batch signals end of sheet.
type SheetReader struct {
	stream *excelize.Rows
	slice  [][]string
	offset int
}

func newSliceReader(rows [][]string) *SheetReader {
	return &SheetReader{slice: rows}
}

// NextBatch returns up to n rows, or nil when the sheet is exhausted.
func (sr *SheetReader) NextBatch(n int) ([][]string, error) {
	if n <= 0 {
		n = DefaultBatchSize
	}

	if sr.stream != nil {
		var batch [][]string
		for len(batch) < n && sr.stream.Next() {
			cols, err := sr.stream.Columns()
			if err != nil {
				return nil, fmt.Errorf("failed to read row: %w", err)
			}
			batch = append(batch, cols)
		}
		if len(batch) == 0 {
			return nil, nil
		}
		return batch, nil
	}

	if sr.offset >= len(sr.slice) {
		return nil, nil
	}
	end := sr.offset + n
	if end > len(sr.slice) {
		end = len(sr.slice)
	}
	batch := sr.slice[sr.offset:end]
	sr.offset = end
	return batch, nil
}

// Close releases the underlying row stream.
func (sr *SheetReader) Close() error {
	if sr.stream != nil {
		return sr.stream.Close()
	}
	return nil
}

var _ io.Closer = (*SheetReader)(nil)
