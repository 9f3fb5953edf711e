// Package mapper converts between domain entities and their API response
// shapes. Monetary decimals are rendered as strings so clients never see
// binary-float drift.
package mapper

import (
	"time"

	"github.com/meridianps/portfolio-api/internal/domain"
)

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}

// ToProjectResponse converts a Project entity to its API shape
func ToProjectResponse(p *domain.Project) domain.ProjectResponse {
	return domain.ProjectResponse{
		ID:              p.ID,
		Code:            p.Code,
		Name:            p.Name,
		Client:          p.Client,
		BillingCategory: string(p.BillingCategory),
		ContractType:    string(p.ContractType),
		Status:          string(p.Status),
		WorkType:        string(p.WorkType),
		PartnerName:     p.PartnerName,
		ManagerName:     p.ManagerName,
		StartDate:       formatDate(p.StartDate),
		EndDate:         formatDate(p.EndDate),
		FiscalYear:      p.FiscalYear,
		WorkOrderValue:  p.WorkOrderValue.String(),
		Budget:          p.Budget.String(),
		ContractValue:   p.ContractValue.String(),
		ActualValue:     p.ActualValue.String(),
		Balance:         p.Balance.String(),
		ForecastRevenue: p.ForecastRevenue.String(),
		ForecastCost:    p.ForecastCost.String(),
		Margin:          p.Margin,
		ForecastMargin:  p.ForecastMargin,
		Commentary:      p.Commentary,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// ToProjectMonthlyResponse converts a ProjectMonthly row to its API shape
func ToProjectMonthlyResponse(m *domain.ProjectMonthly) domain.ProjectMonthlyResponse {
	return domain.ProjectMonthlyResponse{
		ID:          m.ID,
		ProjectID:   m.ProjectID,
		FiscalMonth: m.FiscalMonth,
		Revenue:     m.Revenue.String(),
		Cost:        m.Cost.String(),
		Profit:      m.Profit.String(),
	}
}

// ToMilestoneResponse converts a Milestone entity to its API shape
func ToMilestoneResponse(m *domain.Milestone) domain.MilestoneResponse {
	return domain.MilestoneResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		Name:      m.Name,
		DueDate:   formatDate(m.DueDate),
		Status:    string(m.Status),
		Amount:    m.Amount.String(),
	}
}

// ToCostResponse converts a Cost entity to its API shape
func ToCostResponse(c *domain.Cost) domain.CostResponse {
	return domain.CostResponse{
		ID:          c.ID,
		ProjectID:   c.ProjectID,
		Category:    c.Category,
		CostDate:    c.CostDate.Format("2006-01-02"),
		Amount:      c.Amount.String(),
		Description: c.Description,
	}
}

// ToKpiResponse converts a Kpi snapshot to its API shape
func ToKpiResponse(k *domain.Kpi) domain.KpiResponse {
	return domain.KpiResponse{
		ID:            k.ID,
		ProjectID:     k.ProjectID,
		Month:         k.Month.Format("2006-01"),
		Revenue:       k.Revenue.String(),
		Cost:          k.Cost.String(),
		Margin:        k.Margin.String(),
		MarginPercent: k.MarginPercent,
		Hours:         k.Hours,
		Utilization:   k.Utilization,
	}
}

// ToCxRatingResponse converts a CxRating entity to its API shape
func ToCxRatingResponse(r *domain.CxRating) domain.CxRatingResponse {
	return domain.CxRatingResponse{
		ID:                r.ID,
		ProjectID:         r.ProjectID,
		EmployeeID:        r.EmployeeID,
		Period:            r.Period.Format("2006-01"),
		Rating:            r.Rating,
		IsProjectManager:  r.IsProjectManager,
		IsDeliveryManager: r.IsDeliveryManager,
		Comments:          r.Comments,
	}
}

// ToResourceCostResponse converts a ResourceCost vector to its API shape
func ToResourceCostResponse(rc *domain.ResourceCost) domain.ResourceCostResponse {
	return domain.ResourceCostResponse{
		ID:           rc.ID,
		EmployeeID:   rc.EmployeeID,
		Phase:        rc.Phase,
		FiscalYear:   rc.FiscalYear,
		MonthlyCosts: rc.MonthlyCosts,
		TotalCost:    rc.TotalCost.String(),
	}
}

// ToEmployeeResponse converts an Employee entity to its API shape
func ToEmployeeResponse(e *domain.Employee) domain.EmployeeResponse {
	return domain.EmployeeResponse{
		ID:           e.ID,
		Code:         e.Code,
		FirstName:    e.FirstName,
		LastName:     e.LastName,
		FullName:     e.FullName(),
		Role:         e.Role,
		Grade:        e.Grade,
		Team:         e.Team,
		BaseCostDay:  e.BaseCostDay.String(),
		GrossCostDay: e.GrossCostDay.String(),
		StartDate:    formatDate(e.StartDate),
		EndDate:      formatDate(e.EndDate),
		StaffType:    string(e.StaffType),
		Status:       string(e.Status),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

// ToTimesheetResponse converts a Timesheet entity to its API shape
func ToTimesheetResponse(t *domain.Timesheet) domain.TimesheetResponse {
	return domain.TimesheetResponse{
		ID:         t.ID,
		EmployeeID: t.EmployeeID,
		ProjectID:  t.ProjectID,
		WeekEnding: t.WeekEnding.Format("2006-01-02"),
		Hours:      t.Hours.String(),
		Billable:   t.Billable,
		Activity:   t.Activity,
		Source:     string(t.Source),
		CreatedAt:  t.CreatedAt,
	}
}

// ToOpportunityResponse converts a PipelineOpportunity to its API shape
func ToOpportunityResponse(o *domain.PipelineOpportunity) domain.OpportunityResponse {
	return domain.OpportunityResponse{
		ID:                 o.ID,
		Name:               o.Name,
		Client:             o.Client,
		Classification:     string(o.Classification),
		FiscalYear:         o.FiscalYear,
		VatCategory:        o.VatCategory,
		WinProbability:     o.WinProbability,
		MonthlyRevenue:     o.MonthlyRevenue,
		MonthlyGrossProfit: o.MonthlyGrossProfit,
		TotalRevenue:       o.TotalRevenue().String(),
		TotalGrossProfit:   o.TotalGrossProfit().String(),
		CreatedAt:          o.CreatedAt,
		UpdatedAt:          o.UpdatedAt,
	}
}

// ToScenarioResponse converts a Scenario with its adjustments to its API shape
func ToScenarioResponse(s *domain.Scenario) domain.ScenarioResponse {
	adjustments := make([]domain.ScenarioAdjustmentResponse, len(s.Adjustments))
	for i := range s.Adjustments {
		adjustments[i] = ToScenarioAdjustmentResponse(&s.Adjustments[i])
	}
	return domain.ScenarioResponse{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Adjustments: adjustments,
		CreatedAt:   s.CreatedAt,
	}
}

// ToScenarioAdjustmentResponse converts one scenario override to its API shape
func ToScenarioAdjustmentResponse(a *domain.ScenarioAdjustment) domain.ScenarioAdjustmentResponse {
	resp := domain.ScenarioAdjustmentResponse{
		ID:                     a.ID,
		OpportunityID:          a.OpportunityID,
		WinProbabilityOverride: a.WinProbabilityOverride,
		MonthShift:             a.MonthShift,
	}
	if a.RevenueOverride != nil {
		s := a.RevenueOverride.String()
		resp.RevenueOverride = &s
	}
	return resp
}

// ToResourcePlanResponse converts a ResourcePlan row to its API shape
func ToResourcePlanResponse(p *domain.ResourcePlan) domain.ResourcePlanResponse {
	return domain.ResourcePlanResponse{
		ID:                p.ID,
		ProjectID:         p.ProjectID,
		EmployeeID:        p.EmployeeID,
		Month:             p.Month.Format("2006-01"),
		AllocationPercent: p.AllocationPercent,
		PlannedHours:      p.PlannedHours.String(),
		PlannedDays:       p.PlannedDays.String(),
	}
}

// ToWeeklyUtilizationResponse converts a stored weekly aggregate to the feed shape
func ToWeeklyUtilizationResponse(w *domain.WeeklyUtilization) domain.WeeklyUtilizationResponse {
	return domain.WeeklyUtilizationResponse{
		EmployeeID:    w.EmployeeID,
		WeekEnding:    w.WeekEnding.Format("2006-01-02"),
		TotalHours:    w.TotalHours,
		BillableHours: w.BillableHours,
		CostValue:     w.CostValue.String(),
		SaleValue:     w.SaleValue.String(),
	}
}
