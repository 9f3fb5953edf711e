// Package utilization computes the rolling 13-week utilization projection
// for the firm's permanent employees. The engine is a pure computation over
// pre-fetched inputs: it has no error path, missing inputs degrade to zero
// or default values.
package utilization

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	// StandardWeekHours is the contracted capacity of one employee week.
	StandardWeekHours = 38.0

	// ProjectionWeeks is the length of the rolling forward window.
	ProjectionWeeks = 13

	// TrendWindowWeeks is how far back timesheet-derived allocations reach.
	TrendWindowWeeks = 8

	// DefaultBillableRatio is assumed when an employee has no recent
	// timesheet data to derive a billable ratio from.
	DefaultBillableRatio = 0.8
)

// Source tags which input layer produced a projected week.
type Source string

const (
	SourceActual Source = "actual"
	SourcePlan   Source = "plan"
	SourceTrend  Source = "trend"
	SourceNone   Source = "none"
)

// WeekActual is an aggregated actual-hours record for one employee week.
type WeekActual struct {
	TotalHours    float64
	BillableHours float64
}

// Allocation is a per-project average weekly hours figure inferred from the
// employee's recent timesheets, bounded by the project's schedule window.
type Allocation struct {
	ProjectID       uuid.UUID
	ProjectName     string
	AvgHoursPerWeek float64
	ProjectStart    *time.Time
	ProjectEnd      *time.Time
}

// covers reports whether the project window includes the given week start.
// Open bounds (nil) never exclude.
func (a Allocation) covers(weekStart time.Time) bool {
	if a.ProjectStart != nil && weekStart.Before(WeekStart(*a.ProjectStart)) {
		return false
	}
	if a.ProjectEnd != nil && weekStart.After(*a.ProjectEnd) {
		return false
	}
	return true
}

// EmployeeInputs carries the three data layers for one employee, in
// priority order: actuals, resource-plan percentages, inferred allocations.
type EmployeeInputs struct {
	EmployeeID    uuid.UUID
	Name          string
	Actuals       map[string]WeekActual // keyed by WeekKey of the week start
	PlanPercent   map[string]float64    // keyed by MonthKey, allocation percent
	Allocations   []Allocation
	BillableRatio float64 // 0 or negative means unknown
}

// WeekProjection is the engine output for one employee week.
type WeekProjection struct {
	WeekStart     time.Time `json:"weekStart"`
	WeekKey       string    `json:"weekKey"`
	Hours         float64   `json:"hours"`
	BillableHours float64   `json:"billableHours"`
	BenchHours    float64   `json:"benchHours"`
	Utilization   float64   `json:"utilization"`
	IsProjected   bool      `json:"isProjected"`
	Source        Source    `json:"source"`
}

// EmployeeProjection is the 13-week projection for one employee.
type EmployeeProjection struct {
	EmployeeID         uuid.UUID        `json:"employeeId"`
	Name               string           `json:"name"`
	Weeks              []WeekProjection `json:"weeks"`
	AverageUtilization float64          `json:"averageUtilization"`
	TotalBenchHours    float64          `json:"totalBenchHours"`
	Overutilised       bool             `json:"overutilised"`
	OnBench            bool             `json:"onBench"`
}

// Summary is the org-wide aggregate across all projected employees.
type Summary struct {
	Employees       []EmployeeProjection `json:"employees"` // sorted by average utilization, descending
	EmployeeCount   int                  `json:"employeeCount"`
	WeekCount       int                  `json:"weekCount"`
	BenchPercentage float64              `json:"benchPercentage"`
	Overutilised    int                  `json:"overutilisedCount"`
	OnBench         int                  `json:"onBenchCount"`
}

// ProjectEmployee computes the 13-week projection for one employee starting
// at the Monday of the week containing now. Layer priority per week:
// actual hours, then resource-plan percent for the week's month, then
// inferred allocations covering the week, else zero with full bench.
func ProjectEmployee(in EmployeeInputs, now time.Time) EmployeeProjection {
	start := WeekStart(now)

	ratio := in.BillableRatio
	if ratio <= 0 {
		ratio = DefaultBillableRatio
	}

	weeks := make([]WeekProjection, 0, ProjectionWeeks)
	var totalUtil, totalBench float64

	for w := 0; w < ProjectionWeeks; w++ {
		weekStart := start.AddDate(0, 0, 7*w)
		wp := projectWeek(in, weekStart, ratio)
		totalUtil += wp.Utilization
		totalBench += wp.BenchHours
		weeks = append(weeks, wp)
	}

	avg := totalUtil / ProjectionWeeks

	return EmployeeProjection{
		EmployeeID:         in.EmployeeID,
		Name:               in.Name,
		Weeks:              weeks,
		AverageUtilization: avg,
		TotalBenchHours:    totalBench,
		Overutilised:       avg > 100,
		OnBench:            isOnBench(in),
	}
}

func projectWeek(in EmployeeInputs, weekStart time.Time, ratio float64) WeekProjection {
	wp := WeekProjection{
		WeekStart: weekStart,
		WeekKey:   WeekKey(weekStart),
	}

	// Layer 1: actual aggregated hours, elapsed or already logged.
	if actual, ok := in.Actuals[wp.WeekKey]; ok {
		wp.Hours = actual.TotalHours
		wp.BillableHours = actual.BillableHours
		wp.Utilization = actual.TotalHours / StandardWeekHours * 100
		wp.BenchHours = math.Max(StandardWeekHours-actual.TotalHours, 0)
		wp.IsProjected = false
		wp.Source = SourceActual
		return wp
	}

	wp.IsProjected = true

	// Layer 2: resource plan for the week's calendar month. Plans are
	// deliberate forward commitments and override trend inference.
	if pct, ok := in.PlanPercent[MonthKey(weekStart)]; ok {
		hours := pct / 100 * StandardWeekHours
		wp.Hours = hours
		wp.BillableHours = hours * ratio
		wp.Utilization = pct
		wp.BenchHours = math.Max(StandardWeekHours-hours, 0)
		wp.Source = SourcePlan
		return wp
	}

	// Layer 3: recent per-project allocations whose schedule window covers
	// this week.
	var inferred float64
	for _, alloc := range in.Allocations {
		if alloc.covers(weekStart) {
			inferred += alloc.AvgHoursPerWeek
		}
	}
	if inferred > 0 {
		wp.Hours = inferred
		wp.BillableHours = inferred * ratio
		wp.Utilization = inferred / StandardWeekHours * 100
		wp.BenchHours = math.Max(StandardWeekHours-inferred, 0)
		wp.Source = SourceTrend
		return wp
	}

	// Layer 4: nothing known, full bench.
	wp.BenchHours = StandardWeekHours
	wp.Source = SourceNone
	return wp
}

// isOnBench reports whether the employee shows no project allocation at all
// in the recent window: no inferred allocations and no actual logged hours.
func isOnBench(in EmployeeInputs) bool {
	if len(in.Allocations) > 0 {
		return false
	}
	for _, actual := range in.Actuals {
		if actual.TotalHours > 0 {
			return false
		}
	}
	return true
}

// Summarize runs the projection for every employee and aggregates the
// org-wide bench figures. Employees are sorted by average utilization,
// descending, for display.
func Summarize(inputs []EmployeeInputs, now time.Time) Summary {
	projections := make([]EmployeeProjection, 0, len(inputs))
	var totalBench float64
	overutilised, onBench := 0, 0

	for _, in := range inputs {
		p := ProjectEmployee(in, now)
		totalBench += p.TotalBenchHours
		if p.Overutilised {
			overutilised++
		}
		if p.OnBench {
			onBench++
		}
		projections = append(projections, p)
	}

	sort.SliceStable(projections, func(i, j int) bool {
		return projections[i].AverageUtilization > projections[j].AverageUtilization
	})

	s := Summary{
		Employees:     projections,
		EmployeeCount: len(projections),
		WeekCount:     ProjectionWeeks,
		Overutilised:  overutilised,
		OnBench:       onBench,
	}
	if len(projections) > 0 {
		capacity := float64(len(projections)) * StandardWeekHours * ProjectionWeeks
		s.BenchPercentage = totalBench / capacity * 100
	}
	return s
}
