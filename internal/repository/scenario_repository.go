package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type ScenarioRepository struct {
	db *gorm.DB
}

func NewScenarioRepository(db *gorm.DB) *ScenarioRepository {
	return &ScenarioRepository{db: db}
}

func (r *ScenarioRepository) Create(ctx context.Context, scenario *domain.Scenario) error {
	return r.db.WithContext(ctx).Create(scenario).Error
}

func (r *ScenarioRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Scenario, error) {
	var scenario domain.Scenario
	err := r.db.WithContext(ctx).Preload("Adjustments").Where("id = ?", id).First(&scenario).Error
	if err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (r *ScenarioRepository) List(ctx context.Context) ([]domain.Scenario, error) {
	var scenarios []domain.Scenario
	err := r.db.WithContext(ctx).Preload("Adjustments").Order("created_at DESC").Find(&scenarios).Error
	return scenarios, err
}

func (r *ScenarioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Scenario{}, "id = ?", id).Error
}

func (r *ScenarioRepository) AddAdjustment(ctx context.Context, adjustment *domain.ScenarioAdjustment) error {
	return r.db.WithContext(ctx).Create(adjustment).Error
}

func (r *ScenarioRepository) DeleteAdjustment(ctx context.Context, scenarioID, adjustmentID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&domain.ScenarioAdjustment{}, "id = ? AND scenario_id = ?", adjustmentID, scenarioID).Error
}
