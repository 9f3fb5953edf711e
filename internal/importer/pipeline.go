package importer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// Canonical pipeline sheet names. Actual worksheet names may carry a fiscal
// year suffix, e.g. "Pipeline Revenue FY25-26".
const (
	SheetPipelineRevenue    = "Pipeline Revenue"
	SheetPipelineRevenueVAT = "Pipeline Revenue VAT"
)

// fiscal year token in a sheet name, e.g. "FY25-26"
var sheetFYRe = regexp.MustCompile(`FY(\d{2}-\d{2})`)

type pipelineLayout struct {
	Name           int
	Client         int
	Classification int
	VatCategory    int // read only in the VAT variant

	// MonthlyStart is the first of twelve monthly revenue columns,
	// July..June. The offset is the same in both sheet variants.
	MonthlyStart int
}

var defaultPipelineLayout = pipelineLayout{
	Name:           0,
	Client:         1,
	Classification: 2,
	VatCategory:    3,
	MonthlyStart:   4,
}

// PipelineImporter creates PipelineOpportunity rows from a Pipeline Revenue
// sheet. Gross-profit figures are zero-filled: the Gross Profit sheet
// produces its own parallel rows rather than merging into these.
type PipelineImporter struct {
	sheetName  string
	fiscalYear string
	withVAT    bool
	layout     pipelineLayout
}

// NewPipelineImporter configures an importer for one concrete worksheet.
// The fiscal year comes from the sheet name when present, else from the
// import date's fiscal year.
func NewPipelineImporter(sheetName string, withVAT bool, defaultFY string) *PipelineImporter {
	fy := defaultFY
	if m := sheetFYRe.FindStringSubmatch(sheetName); m != nil {
		fy = m[1]
	}
	return &PipelineImporter{
		sheetName:  sheetName,
		fiscalYear: fy,
		withVAT:    withVAT,
		layout:     defaultPipelineLayout,
	}
}

func (imp *PipelineImporter) SheetName() string { return imp.sheetName }

func (imp *PipelineImporter) Import(ctx context.Context, ic *ImportContext, sheet *SheetReader) domain.SheetImportResult {
	result := domain.SheetImportResult{Errors: []string{}}
	l := imp.layout

	forEachRow(sheet, &result.Errors, func(rowNum int, row []string) error {
		if isBlankRow(row) {
			return nil
		}
		name := cell(row, l.Name)
		if name == "" {
			return nil
		}

		classification := domain.Classification(strings.ToUpper(cell(row, l.Classification)))
		if !classification.IsValid() {
			return fmt.Errorf("unknown classification %q", cell(row, l.Classification))
		}

		revenue, err := parseMonthlyValues(row, l.MonthlyStart)
		if err != nil {
			return err
		}

		opp := &domain.PipelineOpportunity{
			Name:               name,
			Client:             cell(row, l.Client),
			Classification:     classification,
			FiscalYear:         imp.fiscalYear,
			WinProbability:     classification.WinProbability(),
			MonthlyRevenue:     revenue,
			MonthlyGrossProfit: zeroMonthlyValues(),
		}
		if imp.withVAT {
			opp.VatCategory = cell(row, l.VatCategory)
		}

		if err := ic.Store.CreateOpportunity(ctx, opp); err != nil {
			return fmt.Errorf("failed to create opportunity %q: %w", name, err)
		}
		result.Imported++
		return nil
	})

	return result
}

// parseMonthlyValues reads twelve monthly amount columns starting at offset
// and returns them as decimal strings. Empty cells become "0".
func parseMonthlyValues(row []string, offset int) (pq.StringArray, error) {
	values := make(pq.StringArray, 0, 12)
	for month := 0; month < 12; month++ {
		amount, err := parseAmount(cell(row, offset+month))
		if err != nil {
			return nil, fmt.Errorf("invalid amount for month %d: %q", month+1, cell(row, offset+month))
		}
		values = append(values, amount.String())
	}
	return values, nil
}

func zeroMonthlyValues() pq.StringArray {
	values := make(pq.StringArray, 12)
	for i := range values {
		values[i] = "0"
	}
	return values
}
