package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type PipelineRepository struct {
	db *gorm.DB
}

func NewPipelineRepository(db *gorm.DB) *PipelineRepository {
	return &PipelineRepository{db: db}
}

func (r *PipelineRepository) Create(ctx context.Context, opp *domain.PipelineOpportunity) error {
	return r.db.WithContext(ctx).Create(opp).Error
}

func (r *PipelineRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.PipelineOpportunity, error) {
	var opp domain.PipelineOpportunity
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&opp).Error
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

func (r *PipelineRepository) Update(ctx context.Context, opp *domain.PipelineOpportunity) error {
	return r.db.WithContext(ctx).Save(opp).Error
}

func (r *PipelineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.PipelineOpportunity{}, "id = ?", id).Error
}

// PipelineFilters holds the optional list filters
type PipelineFilters struct {
	FiscalYear     string
	Classification *domain.Classification
}

func (r *PipelineRepository) List(ctx context.Context, page, pageSize int, filters *PipelineFilters) ([]domain.PipelineOpportunity, int64, error) {
	var opportunities []domain.PipelineOpportunity
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.PipelineOpportunity{})

	if filters != nil {
		if filters.FiscalYear != "" {
			query = query.Where("fiscal_year = ?", filters.FiscalYear)
		}
		if filters.Classification != nil {
			query = query.Where("classification = ?", *filters.Classification)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&opportunities).Error

	return opportunities, total, err
}

// ListByFiscalYear returns every opportunity of one fiscal year, for the
// pipeline summary and scenario forecast aggregations.
func (r *PipelineRepository) ListByFiscalYear(ctx context.Context, fiscalYear string) ([]domain.PipelineOpportunity, error) {
	var opportunities []domain.PipelineOpportunity
	err := r.db.WithContext(ctx).
		Where("fiscal_year = ?", fiscalYear).
		Order("name ASC").
		Find(&opportunities).Error
	return opportunities, err
}
