package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/mapper"
	"github.com/meridianps/portfolio-api/internal/repository"
	"github.com/meridianps/portfolio-api/internal/utilization"
)

// UtilizationService assembles the projection engine's inputs from storage
// and exposes the weekly actuals feed and resource plan writes. The
// projection itself is a pure computation in the utilization package; this
// service only fetches and shapes data.
type UtilizationService struct {
	employeeRepo  *repository.EmployeeRepository
	projectRepo   *repository.ProjectRepository
	timesheetRepo *repository.TimesheetRepository
	planRepo      *repository.ResourcePlanRepository
	weeklyRepo    *repository.WeeklyUtilizationRepository
	logger        *zap.Logger
	now           func() time.Time
}

// NewUtilizationService creates a new UtilizationService
func NewUtilizationService(
	employeeRepo *repository.EmployeeRepository,
	projectRepo *repository.ProjectRepository,
	timesheetRepo *repository.TimesheetRepository,
	planRepo *repository.ResourcePlanRepository,
	weeklyRepo *repository.WeeklyUtilizationRepository,
	logger *zap.Logger,
) *UtilizationService {
	return &UtilizationService{
		employeeRepo:  employeeRepo,
		projectRepo:   projectRepo,
		timesheetRepo: timesheetRepo,
		planRepo:      planRepo,
		weeklyRepo:    weeklyRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// Weekly returns the stored weekly actual-hours feed, optionally bounded
func (s *UtilizationService) Weekly(ctx context.Context, since *time.Time) ([]domain.WeeklyUtilizationResponse, error) {
	from := time.Time{}
	if since != nil {
		from = *since
	}
	rows, err := s.weeklyRepo.ListSince(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly utilization: %w", err)
	}

	responses := make([]domain.WeeklyUtilizationResponse, len(rows))
	for i := range rows {
		responses[i] = mapper.ToWeeklyUtilizationResponse(&rows[i])
	}
	return responses, nil
}

// Projection computes the 13-week rolling utilization forecast across all
// permanent employees. Recomputed fully on every request; the data volume
// (one roster by thirteen weeks) does not warrant caching.
func (s *UtilizationService) Projection(ctx context.Context) (*utilization.Summary, error) {
	now := s.now()

	employees, err := s.employeeRepo.ListProjectable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	projects, err := s.projectRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	projectsByID := make(map[uuid.UUID]*domain.Project, len(projects))
	for i := range projects {
		projectsByID[projects[i].ID] = &projects[i]
	}

	trendStart := utilization.WeekStart(now).AddDate(0, 0, -7*utilization.TrendWindowWeeks)

	inputs := make([]utilization.EmployeeInputs, 0, len(employees))
	for i := range employees {
		in, err := s.buildEmployeeInputs(ctx, &employees[i], projectsByID, now, trendStart)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}

	summary := utilization.Summarize(inputs, now)
	return &summary, nil
}

// ProjectionForEmployee computes the 13-week forecast for one employee
func (s *UtilizationService) ProjectionForEmployee(ctx context.Context, employeeID uuid.UUID) (*utilization.EmployeeProjection, error) {
	employee, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	projects, err := s.projectRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	projectsByID := make(map[uuid.UUID]*domain.Project, len(projects))
	for i := range projects {
		projectsByID[projects[i].ID] = &projects[i]
	}

	now := s.now()
	trendStart := utilization.WeekStart(now).AddDate(0, 0, -7*utilization.TrendWindowWeeks)

	in, err := s.buildEmployeeInputs(ctx, employee, projectsByID, now, trendStart)
	if err != nil {
		return nil, err
	}

	projection := utilization.ProjectEmployee(in, now)
	return &projection, nil
}

// buildEmployeeInputs gathers one employee's three projection layers:
// stored weekly actuals, forward resource-plan percentages, and per-project
// average weekly hours inferred from the recent timesheet window.
func (s *UtilizationService) buildEmployeeInputs(
	ctx context.Context,
	employee *domain.Employee,
	projectsByID map[uuid.UUID]*domain.Project,
	now, trendStart time.Time,
) (utilization.EmployeeInputs, error) {
	in := utilization.EmployeeInputs{
		EmployeeID: employee.ID,
		Name:       employee.FullName(),
		Actuals:    make(map[string]utilization.WeekActual),
	}

	weekly, err := s.weeklyRepo.ListByEmployeeSince(ctx, employee.ID, trendStart)
	if err != nil {
		return in, fmt.Errorf("failed to list weekly actuals: %w", err)
	}
	var recentTotal, recentBillable float64
	for i := range weekly {
		row := &weekly[i]
		key := utilization.WeekKey(row.WeekEnding)
		in.Actuals[key] = utilization.WeekActual{
			TotalHours:    row.TotalHours,
			BillableHours: row.BillableHours,
		}
		recentTotal += row.TotalHours
		recentBillable += row.BillableHours
	}
	if recentTotal > 0 {
		in.BillableRatio = recentBillable / recentTotal
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	plans, err := s.planRepo.ListByEmployeeFrom(ctx, employee.ID, monthStart)
	if err != nil {
		return in, fmt.Errorf("failed to list resource plans: %w", err)
	}
	if len(plans) > 0 {
		in.PlanPercent = make(map[string]float64, len(plans))
		for i := range plans {
			in.PlanPercent[utilization.MonthKey(plans[i].Month)] += plans[i].AllocationPercent
		}
	}

	timesheets, err := s.timesheetRepo.ListRecentByEmployee(ctx, employee.ID, trendStart)
	if err != nil {
		return in, fmt.Errorf("failed to list recent timesheets: %w", err)
	}
	hoursByProject := make(map[uuid.UUID]float64)
	for i := range timesheets {
		h, _ := timesheets[i].Hours.Float64()
		hoursByProject[timesheets[i].ProjectID] += h
	}
	for projectID, total := range hoursByProject {
		alloc := utilization.Allocation{
			ProjectID:       projectID,
			AvgHoursPerWeek: total / utilization.TrendWindowWeeks,
		}
		if p, ok := projectsByID[projectID]; ok {
			alloc.ProjectName = p.Name
			alloc.ProjectStart = p.StartDate
			alloc.ProjectEnd = p.EndDate
		}
		in.Allocations = append(in.Allocations, alloc)
	}

	return in, nil
}

// UpsertPlan writes a forward resource-plan allocation
func (s *UtilizationService) UpsertPlan(ctx context.Context, req *domain.UpsertResourcePlanRequest) (*domain.ResourcePlanResponse, error) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: projectId", ErrInvalidInput)
	}
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: employeeId", ErrInvalidInput)
	}
	month, err := time.Parse("2006-01", req.Month)
	if err != nil {
		return nil, fmt.Errorf("%w: month", ErrInvalidInput)
	}
	plannedHours, err := parseDecimalField(req.PlannedHours)
	if err != nil {
		return nil, fmt.Errorf("%w: plannedHours", ErrInvalidInput)
	}
	plannedDays, err := parseDecimalField(req.PlannedDays)
	if err != nil {
		return nil, fmt.Errorf("%w: plannedDays", ErrInvalidInput)
	}

	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to verify employee: %w", err)
	}

	plan := &domain.ResourcePlan{
		ProjectID:         projectID,
		EmployeeID:        employeeID,
		Month:             month,
		AllocationPercent: req.AllocationPercent,
		PlannedHours:      plannedHours,
		PlannedDays:       plannedDays,
	}
	if err := s.planRepo.Upsert(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to upsert resource plan: %w", err)
	}

	resp := mapper.ToResourcePlanResponse(plan)
	return &resp, nil
}

// ListPlansByProject returns a project's forward allocations
func (s *UtilizationService) ListPlansByProject(ctx context.Context, projectID uuid.UUID) ([]domain.ResourcePlanResponse, error) {
	plans, err := s.planRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resource plans: %w", err)
	}

	responses := make([]domain.ResourcePlanResponse, len(plans))
	for i := range plans {
		responses[i] = mapper.ToResourcePlanResponse(&plans[i])
	}
	return responses, nil
}
