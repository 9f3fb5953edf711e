package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type ProjectMonthlyRepository struct {
	db *gorm.DB
}

func NewProjectMonthlyRepository(db *gorm.DB) *ProjectMonthlyRepository {
	return &ProjectMonthlyRepository{db: db}
}

// CreateBatch inserts all monthly rows of one project in a single statement
func (r *ProjectMonthlyRepository) CreateBatch(ctx context.Context, rows []domain.ProjectMonthly) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *ProjectMonthlyRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectMonthly, error) {
	var rows []domain.ProjectMonthly
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("fiscal_month ASC").
		Find(&rows).Error
	return rows, err
}

func (r *ProjectMonthlyRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.ProjectMonthly{}, "project_id = ?", projectID).Error
}
