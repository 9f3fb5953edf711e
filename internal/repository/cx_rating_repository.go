package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type CxRatingRepository struct {
	db *gorm.DB
}

func NewCxRatingRepository(db *gorm.DB) *CxRatingRepository {
	return &CxRatingRepository{db: db}
}

func (r *CxRatingRepository) Create(ctx context.Context, rating *domain.CxRating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *CxRatingRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.CxRating, error) {
	var ratings []domain.CxRating
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("period DESC").
		Find(&ratings).Error
	return ratings, err
}
