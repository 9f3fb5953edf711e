package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/mapper"
	"github.com/meridianps/portfolio-api/internal/repository"
)

// ScenarioService handles what-if scenarios over the sales pipeline
type ScenarioService struct {
	scenarioRepo *repository.ScenarioRepository
	pipelineRepo *repository.PipelineRepository
	logger       *zap.Logger
}

// NewScenarioService creates a new ScenarioService
func NewScenarioService(
	scenarioRepo *repository.ScenarioRepository,
	pipelineRepo *repository.PipelineRepository,
	logger *zap.Logger,
) *ScenarioService {
	return &ScenarioService{
		scenarioRepo: scenarioRepo,
		pipelineRepo: pipelineRepo,
		logger:       logger,
	}
}

// Create creates a new empty scenario
func (s *ScenarioService) Create(ctx context.Context, req *domain.CreateScenarioRequest) (*domain.ScenarioResponse, error) {
	scenario := &domain.Scenario{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.scenarioRepo.Create(ctx, scenario); err != nil {
		return nil, fmt.Errorf("failed to create scenario: %w", err)
	}

	resp := mapper.ToScenarioResponse(scenario)
	return &resp, nil
}

// GetByID retrieves a scenario with its adjustments
func (s *ScenarioService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScenarioResponse, error) {
	scenario, err := s.scenarioRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}

	resp := mapper.ToScenarioResponse(scenario)
	return &resp, nil
}

// List returns all saved scenarios
func (s *ScenarioService) List(ctx context.Context) ([]domain.ScenarioResponse, error) {
	scenarios, err := s.scenarioRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	responses := make([]domain.ScenarioResponse, len(scenarios))
	for i := range scenarios {
		responses[i] = mapper.ToScenarioResponse(&scenarios[i])
	}
	return responses, nil
}

// Delete removes a scenario and its adjustments
func (s *ScenarioService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.scenarioRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScenarioNotFound
		}
		return fmt.Errorf("failed to get scenario: %w", err)
	}
	return s.scenarioRepo.Delete(ctx, id)
}

// AddAdjustment appends an override to a scenario
func (s *ScenarioService) AddAdjustment(ctx context.Context, scenarioID uuid.UUID, req *domain.CreateScenarioAdjustmentRequest) (*domain.ScenarioAdjustmentResponse, error) {
	if _, err := s.scenarioRepo.GetByID(ctx, scenarioID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}

	adjustment := &domain.ScenarioAdjustment{
		ScenarioID:             scenarioID,
		WinProbabilityOverride: req.WinProbabilityOverride,
		MonthShift:             req.MonthShift,
	}
	if req.OpportunityID != "" {
		oppID, err := uuid.Parse(req.OpportunityID)
		if err != nil {
			return nil, fmt.Errorf("%w: opportunityId", ErrInvalidInput)
		}
		if _, err := s.pipelineRepo.GetByID(ctx, oppID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrOpportunityNotFound
			}
			return nil, fmt.Errorf("failed to verify opportunity: %w", err)
		}
		adjustment.OpportunityID = &oppID
	}
	if req.RevenueOverride != nil {
		value, err := decimal.NewFromString(*req.RevenueOverride)
		if err != nil {
			return nil, fmt.Errorf("%w: revenueOverride", ErrInvalidInput)
		}
		adjustment.RevenueOverride = &value
	}

	if err := s.scenarioRepo.AddAdjustment(ctx, adjustment); err != nil {
		return nil, fmt.Errorf("failed to add adjustment: %w", err)
	}

	resp := mapper.ToScenarioAdjustmentResponse(adjustment)
	return &resp, nil
}

// DeleteAdjustment removes one override from a scenario
func (s *ScenarioService) DeleteAdjustment(ctx context.Context, scenarioID, adjustmentID uuid.UUID) error {
	return s.scenarioRepo.DeleteAdjustment(ctx, scenarioID, adjustmentID)
}

// Forecast applies a scenario's overrides to one fiscal year's pipeline and
// returns the probability-weighted monthly revenue. Per opportunity:
// win-probability and total-revenue overrides replace the stored figures (a
// revenue override is spread evenly over the twelve months), and a month
// shift moves the vector within the fiscal year, dropping months shifted
// past either end.
func (s *ScenarioService) Forecast(ctx context.Context, scenarioID uuid.UUID, fiscalYear string) (*domain.ScenarioForecastResponse, error) {
	scenario, err := s.scenarioRepo.GetByID(ctx, scenarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScenarioNotFound
		}
		return nil, fmt.Errorf("failed to get scenario: %w", err)
	}

	opportunities, err := s.pipelineRepo.ListByFiscalYear(ctx, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}

	monthly := make([]decimal.Decimal, 12)
	for i := range monthly {
		monthly[i] = decimal.Zero
	}

	for i := range opportunities {
		opp := &opportunities[i]
		vector, probability := applyAdjustments(opp, scenario.Adjustments)
		factor := decimal.NewFromInt(int64(probability)).Div(decimal.NewFromInt(100))
		for m := 0; m < 12; m++ {
			monthly[m] = monthly[m].Add(vector[m].Mul(factor))
		}
	}

	out := make([]string, 12)
	total := decimal.Zero
	for m := 0; m < 12; m++ {
		out[m] = monthly[m].String()
		total = total.Add(monthly[m])
	}

	return &domain.ScenarioForecastResponse{
		ScenarioID:      scenarioID,
		FiscalYear:      fiscalYear,
		MonthlyWeighted: out,
		TotalWeighted:   total.String(),
	}, nil
}

// applyAdjustments resolves the effective monthly revenue vector and win
// probability of one opportunity under a scenario. Adjustments with a nil
// opportunity reference apply to every opportunity; specific adjustments
// are applied after global ones so they win.
func applyAdjustments(opp *domain.PipelineOpportunity, adjustments []domain.ScenarioAdjustment) ([]decimal.Decimal, int) {
	vector := make([]decimal.Decimal, 12)
	for m := 0; m < 12; m++ {
		vector[m] = decimal.Zero
		if m < len(opp.MonthlyRevenue) {
			if d, err := decimal.NewFromString(opp.MonthlyRevenue[m]); err == nil {
				vector[m] = d
			}
		}
	}
	probability := opp.WinProbability

	apply := func(a *domain.ScenarioAdjustment) {
		if a.WinProbabilityOverride != nil {
			probability = *a.WinProbabilityOverride
		}
		if a.RevenueOverride != nil {
			perMonth := a.RevenueOverride.Div(decimal.NewFromInt(12))
			for m := 0; m < 12; m++ {
				vector[m] = perMonth
			}
		}
		if a.MonthShift != 0 {
			shifted := make([]decimal.Decimal, 12)
			for m := 0; m < 12; m++ {
				shifted[m] = decimal.Zero
			}
			for m := 0; m < 12; m++ {
				target := m + a.MonthShift
				if target >= 0 && target < 12 {
					shifted[target] = vector[m]
				}
			}
			vector = shifted
		}
	}

	for i := range adjustments {
		if adjustments[i].OpportunityID == nil {
			apply(&adjustments[i])
		}
	}
	for i := range adjustments {
		if adjustments[i].OpportunityID != nil && *adjustments[i].OpportunityID == opp.ID {
			apply(&adjustments[i])
		}
	}

	return vector, probability
}
