package importer

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// cell returns the trimmed value at idx, or "" when the row is short.
// Spreadsheet rows are ragged: trailing empty cells are simply absent.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseAmount parses a monetary cell into a decimal. Empty cells are zero;
// thousands separators and currency symbols are stripped.
func parseAmount(raw string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer(",", "", "$", "", "£", "", " ", "").Replace(strings.TrimSpace(raw))
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero, nil
	}
	// Accounting negatives: (1234.56)
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		cleaned = "-" + cleaned[1:len(cleaned)-1]
	}
	return decimal.NewFromString(cleaned)
}

// parseHours parses an hours cell as float. Empty cells are zero.
func parseHours(raw string) (float64, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return 0, nil
	}
	return strconv.ParseFloat(cleaned, 64)
}

// excelEpoch is the zero day of the 1900 date system. Excel serial 1 is
// 1900-01-01, with the (intentional, Lotus-compatible) leap year bug making
// 1899-12-30 the effective epoch for serials above 59.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// parseDate parses a date cell that may hold an Excel serial number or a
// rendered date string.
func parseDate(raw string) (time.Time, bool) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return time.Time{}, false
	}

	if serial, err := strconv.ParseFloat(cleaned, 64); err == nil {
		if serial < 1 || serial > 2958465 { // 9999-12-31
			return time.Time{}, false
		}
		days := int(serial)
		return excelEpoch.AddDate(0, 0, days), true
	}

	for _, layout := range []string{"2006-01-02", "02/01/2006", "2/1/2006", "01-02-06", "2006-01-02T15:04:05Z", "Jan 2, 2006", "2 Jan 2006"} {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t.UTC().Truncate(24 * time.Hour), true
		}
	}
	return time.Time{}, false
}
