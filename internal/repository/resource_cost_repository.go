package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type ResourceCostRepository struct {
	db *gorm.DB
}

func NewResourceCostRepository(db *gorm.DB) *ResourceCostRepository {
	return &ResourceCostRepository{db: db}
}

func (r *ResourceCostRepository) Create(ctx context.Context, rc *domain.ResourceCost) error {
	return r.db.WithContext(ctx).Create(rc).Error
}

func (r *ResourceCostRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.ResourceCost, error) {
	var costs []domain.ResourceCost
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("phase ASC").
		Find(&costs).Error
	return costs, err
}
