package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// SheetGrossProfit is the worksheet name carrying pipeline gross-profit
// figures.
const SheetGrossProfit = "Gross Profit"

type grossProfitLayout struct {
	Name           int
	Client         int
	Classification int
	MonthlyStart   int
}

var defaultGrossProfitLayout = grossProfitLayout{
	Name:           0,
	Client:         1,
	Classification: 2,
	MonthlyStart:   3,
}

// GrossProfitImporter creates PipelineOpportunity rows tagged with a "(GP)"
// name suffix holding the twelve gross-profit columns. Revenue is
// zero-filled. These are deliberately a parallel record set: gross-profit
// rows are matched to revenue rows by naming convention downstream, not by
// foreign key, so no merge happens here.
type GrossProfitImporter struct {
	sheetName  string
	fiscalYear string
	layout     grossProfitLayout
}

func NewGrossProfitImporter(sheetName, defaultFY string) *GrossProfitImporter {
	fy := defaultFY
	if m := sheetFYRe.FindStringSubmatch(sheetName); m != nil {
		fy = m[1]
	}
	return &GrossProfitImporter{
		sheetName:  sheetName,
		fiscalYear: fy,
		layout:     defaultGrossProfitLayout,
	}
}

func (imp *GrossProfitImporter) SheetName() string { return imp.sheetName }

func (imp *GrossProfitImporter) Import(ctx context.Context, ic *ImportContext, sheet *SheetReader) domain.SheetImportResult {
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

		grossProfit, err := parseMonthlyValues(row, l.MonthlyStart)
		if err != nil {
			return err
		}

		opp := &domain.PipelineOpportunity{
			Name:               name + " (GP)",
			Client:             cell(row, l.Client),
			Classification:     classification,
			FiscalYear:         imp.fiscalYear,
			WinProbability:     classification.WinProbability(),
			MonthlyRevenue:     zeroMonthlyValues(),
			MonthlyGrossProfit: grossProfit,
		}

		if err := ic.Store.CreateOpportunity(ctx, opp); err != nil {
			return fmt.Errorf("failed to create opportunity %q: %w", opp.Name, err)
		}
		result.Imported++
		return nil
	})

	return result
}
