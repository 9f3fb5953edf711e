package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type CostRepository struct {
	db *gorm.DB
}

func NewCostRepository(db *gorm.DB) *CostRepository {
	return &CostRepository{db: db}
}

func (r *CostRepository) Create(ctx context.Context, c *domain.Cost) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CostRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Cost, error) {
	var costs []domain.Cost
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("cost_date DESC").
		Find(&costs).Error
	return costs, err
}
