package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type KpiRepository struct {
	db *gorm.DB
}

func NewKpiRepository(db *gorm.DB) *KpiRepository {
	return &KpiRepository{db: db}
}

func (r *KpiRepository) Create(ctx context.Context, kpi *domain.Kpi) error {
	return r.db.WithContext(ctx).Create(kpi).Error
}

func (r *KpiRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Kpi, error) {
	var kpis []domain.Kpi
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("month DESC").
		Find(&kpis).Error
	return kpis, err
}
