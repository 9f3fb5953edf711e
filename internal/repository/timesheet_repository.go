package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type TimesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) *TimesheetRepository {
	return &TimesheetRepository{db: db}
}

func (r *TimesheetRepository) Create(ctx context.Context, ts *domain.Timesheet) error {
	return r.db.WithContext(ctx).Create(ts).Error
}

func (r *TimesheetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Timesheet, error) {
	var ts domain.Timesheet
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&ts).Error
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

func (r *TimesheetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Timesheet{}, "id = ?", id).Error
}

// TimesheetFilters holds the optional list filters
type TimesheetFilters struct {
	EmployeeID *uuid.UUID
	ProjectID  *uuid.UUID
	From       *time.Time
	To         *time.Time
}

func (r *TimesheetRepository) List(ctx context.Context, page, pageSize int, filters *TimesheetFilters) ([]domain.Timesheet, int64, error) {
	var timesheets []domain.Timesheet
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Timesheet{})

	if filters != nil {
		if filters.EmployeeID != nil {
			query = query.Where("employee_id = ?", *filters.EmployeeID)
		}
		if filters.ProjectID != nil {
			query = query.Where("project_id = ?", *filters.ProjectID)
		}
		if filters.From != nil {
			query = query.Where("week_ending >= ?", *filters.From)
		}
		if filters.To != nil {
			query = query.Where("week_ending <= ?", *filters.To)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("week_ending DESC").Find(&timesheets).Error

	return timesheets, total, err
}

// ListRecentByEmployee returns an employee's timesheets with week_ending on
// or after since, oldest first. The utilization engine reads these to infer
// per-project allocation trends.
func (r *TimesheetRepository) ListRecentByEmployee(ctx context.Context, employeeID uuid.UUID, since time.Time) ([]domain.Timesheet, error) {
	var timesheets []domain.Timesheet
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND week_ending >= ?", employeeID, since).
		Order("week_ending ASC").
		Find(&timesheets).Error
	return timesheets, err
}
