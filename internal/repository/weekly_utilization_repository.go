package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WeeklyUtilizationRepository struct {
	db *gorm.DB
}

func NewWeeklyUtilizationRepository(db *gorm.DB) *WeeklyUtilizationRepository {
	return &WeeklyUtilizationRepository{db: db}
}

// Upsert writes a weekly aggregate keyed on (employee, week ending). A
// re-import or warehouse refresh replaces the stored figures for the week.
func (r *WeeklyUtilizationRepository) Upsert(ctx context.Context, wu *domain.WeeklyUtilization) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "week_ending"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_hours", "billable_hours", "cost_value", "sale_value", "updated_at",
		}),
	}).Create(wu).Error
}

// ListSince returns all weekly aggregates with week_ending on or after since
func (r *WeeklyUtilizationRepository) ListSince(ctx context.Context, since time.Time) ([]domain.WeeklyUtilization, error) {
	var rows []domain.WeeklyUtilization
	err := r.db.WithContext(ctx).
		Where("week_ending >= ?", since).
		Order("week_ending ASC").
		Find(&rows).Error
	return rows, err
}

func (r *WeeklyUtilizationRepository) ListByEmployeeSince(ctx context.Context, employeeID uuid.UUID, since time.Time) ([]domain.WeeklyUtilization, error) {
	var rows []domain.WeeklyUtilization
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND week_ending >= ?", employeeID, since).
		Order("week_ending ASC").
		Find(&rows).Error
	return rows, err
}
