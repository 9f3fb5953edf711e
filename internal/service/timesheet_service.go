package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/mapper"
	"github.com/meridianps/portfolio-api/internal/repository"
	"github.com/meridianps/portfolio-api/internal/utilization"
)

// TimesheetService handles business logic for timesheet rows
type TimesheetService struct {
	timesheetRepo *repository.TimesheetRepository
	employeeRepo  *repository.EmployeeRepository
	projectRepo   *repository.ProjectRepository
	weeklyRepo    *repository.WeeklyUtilizationRepository
	logger        *zap.Logger
}

// NewTimesheetService creates a new TimesheetService
func NewTimesheetService(
	timesheetRepo *repository.TimesheetRepository,
	employeeRepo *repository.EmployeeRepository,
	projectRepo *repository.ProjectRepository,
	weeklyRepo *repository.WeeklyUtilizationRepository,
	logger *zap.Logger,
) *TimesheetService {
	return &TimesheetService{
		timesheetRepo: timesheetRepo,
		employeeRepo:  employeeRepo,
		projectRepo:   projectRepo,
		weeklyRepo:    weeklyRepo,
		logger:        logger,
	}
}

// Create records a timesheet row and refreshes the employee's weekly
// actual-hours aggregate for that week.
func (s *TimesheetService) Create(ctx context.Context, req *domain.CreateTimesheetRequest) (*domain.TimesheetResponse, error) {
	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("%w: employeeId", ErrInvalidInput)
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("%w: projectId", ErrInvalidInput)
	}
	weekEnding, ok := parseDateField(req.WeekEnding)
	if !ok {
		return nil, fmt.Errorf("%w: weekEnding", ErrInvalidInput)
	}
	hours, err := decimal.NewFromString(req.Hours)
	if err != nil {
		return nil, fmt.Errorf("%w: hours", ErrInvalidInput)
	}

	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to verify employee: %w", err)
	}
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to verify project: %w", err)
	}

	billable := true
	if req.Billable != nil {
		billable = *req.Billable
	}
	source := domain.TimesheetSourceManual
	if req.Source != "" {
		source = domain.TimesheetSource(req.Source)
	}

	ts := &domain.Timesheet{
		EmployeeID: employeeID,
		ProjectID:  projectID,
		WeekEnding: weekEnding,
		Hours:      hours,
		Billable:   billable,
		Activity:   req.Activity,
		Source:     source,
	}
	if err := s.timesheetRepo.Create(ctx, ts); err != nil {
		return nil, fmt.Errorf("failed to create timesheet: %w", err)
	}

	if err := s.refreshWeeklyAggregate(ctx, employeeID, weekEnding); err != nil {
		s.logger.Warn("failed to refresh weekly aggregate",
			zap.String("employee_id", employeeID.String()),
			zap.Error(err))
	}

	resp := mapper.ToTimesheetResponse(ts)
	return &resp, nil
}

// Delete removes a timesheet row and refreshes the affected weekly aggregate
func (s *TimesheetService) Delete(ctx context.Context, id uuid.UUID) error {
	ts, err := s.timesheetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimesheetNotFound
		}
		return fmt.Errorf("failed to get timesheet: %w", err)
	}

	if err := s.timesheetRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete timesheet: %w", err)
	}

	if err := s.refreshWeeklyAggregate(ctx, ts.EmployeeID, ts.WeekEnding); err != nil {
		s.logger.Warn("failed to refresh weekly aggregate",
			zap.String("employee_id", ts.EmployeeID.String()),
			zap.Error(err))
	}
	return nil
}

// List returns a paginated list of timesheet rows with optional filters
func (s *TimesheetService) List(ctx context.Context, page, pageSize int, filters *repository.TimesheetFilters) ([]domain.TimesheetResponse, int64, error) {
	page, pageSize = repository.ClampPage(page, pageSize)

	timesheets, total, err := s.timesheetRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list timesheets: %w", err)
	}

	responses := make([]domain.TimesheetResponse, len(timesheets))
	for i := range timesheets {
		responses[i] = mapper.ToTimesheetResponse(&timesheets[i])
	}
	return responses, total, nil
}

// refreshWeeklyAggregate recomputes one employee week from its timesheet
// rows and upserts the stored aggregate.
func (s *TimesheetService) refreshWeeklyAggregate(ctx context.Context, employeeID uuid.UUID, weekEnding time.Time) error {
	weekStart := utilization.WeekStart(weekEnding)
	rows, err := s.timesheetRepo.ListRecentByEmployee(ctx, employeeID, weekStart)
	if err != nil {
		return err
	}

	var total, billable float64
	targetKey := utilization.WeekKey(weekEnding)
	for i := range rows {
		if utilization.WeekKey(rows[i].WeekEnding) != targetKey {
			continue
		}
		h, _ := rows[i].Hours.Float64()
		total += h
		if rows[i].Billable {
			billable += h
		}
	}

	return s.weeklyRepo.Upsert(ctx, &domain.WeeklyUtilization{
		EmployeeID:    employeeID,
		WeekEnding:    weekEnding,
		TotalHours:    total,
		BillableHours: billable,
	})
}
