package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiscalYearStart(t *testing.T) {
	assert.Equal(t, 2025, FiscalYearStart(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2024, FiscalYearStart(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, FiscalYearStart(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2025, FiscalYearStart(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestFiscalYearLabel(t *testing.T) {
	tests := []struct {
		date time.Time
		want string
	}{
		{time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), "25-26"},
		{time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), "24-25"},
		{time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), "25-26"},
		{time.Date(2099, 8, 1, 0, 0, 0, 0, time.UTC), "99-00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FiscalYearLabel(tt.date), tt.date.Format("2006-01-02"))
	}
}

func TestFiscalMonthIndex(t *testing.T) {
	assert.Equal(t, 1, FiscalMonthIndex(time.July))
	assert.Equal(t, 6, FiscalMonthIndex(time.December))
	assert.Equal(t, 7, FiscalMonthIndex(time.January))
	assert.Equal(t, 12, FiscalMonthIndex(time.June))
}

func TestFiscalMonthDate(t *testing.T) {
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), FiscalMonthDate(2025, 1))
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), FiscalMonthDate(2025, 6))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), FiscalMonthDate(2025, 7))
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), FiscalMonthDate(2025, 12))
}

func TestFiscalRoundTrip(t *testing.T) {
	for fm := 1; fm <= 12; fm++ {
		d := FiscalMonthDate(2025, fm)
		assert.Equal(t, fm, FiscalMonthIndex(d.Month()))
		assert.Equal(t, 2025, FiscalYearStart(d))
	}
}
