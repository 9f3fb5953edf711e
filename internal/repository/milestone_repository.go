package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type MilestoneRepository struct {
	db *gorm.DB
}

func NewMilestoneRepository(db *gorm.DB) *MilestoneRepository {
	return &MilestoneRepository{db: db}
}

func (r *MilestoneRepository) Create(ctx context.Context, m *domain.Milestone) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MilestoneRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Milestone, error) {
	var milestones []domain.Milestone
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("due_date ASC").
		Find(&milestones).Error
	return milestones, err
}
