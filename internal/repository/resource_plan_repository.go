package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ResourcePlanRepository struct {
	db *gorm.DB
}

func NewResourcePlanRepository(db *gorm.DB) *ResourcePlanRepository {
	return &ResourcePlanRepository{db: db}
}

// Upsert writes a plan row keyed on (project, employee, month), replacing
// the allocation figures when the row already exists.
func (r *ResourcePlanRepository) Upsert(ctx context.Context, plan *domain.ResourcePlan) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}, {Name: "employee_id"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"allocation_percent", "planned_hours", "planned_days", "updated_at",
		}),
	}).Create(plan).Error
}

func (r *ResourcePlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ResourcePlan{}, "id = ?", id).Error
}

func (r *ResourcePlanRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.ResourcePlan, error) {
	var plans []domain.ResourcePlan
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("month ASC").
		Find(&plans).Error
	return plans, err
}

// ListByEmployeeFrom returns an employee's plan rows for months on or after
// the given month start. Feeds the plan layer of the utilization projection.
func (r *ResourcePlanRepository) ListByEmployeeFrom(ctx context.Context, employeeID uuid.UUID, fromMonth time.Time) ([]domain.ResourcePlan, error) {
	var plans []domain.ResourcePlan
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND month >= ?", employeeID, fromMonth).
		Order("month ASC").
		Find(&plans).Error
	return plans, err
}
