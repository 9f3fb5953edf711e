package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/mapper"
	"github.com/meridianps/portfolio-api/internal/repository"
)

// classificationOrder fixes the display order of summary buckets, from
// certain to speculative.
var classificationOrder = []domain.Classification{
	domain.ClassificationC,
	domain.ClassificationS,
	domain.ClassificationDVF,
	domain.ClassificationDF,
	domain.ClassificationQ,
	domain.ClassificationA,
}

// PipelineService handles business logic for pipeline opportunities
type PipelineService struct {
	pipelineRepo *repository.PipelineRepository
	logger       *zap.Logger
}

// NewPipelineService creates a new PipelineService
func NewPipelineService(pipelineRepo *repository.PipelineRepository, logger *zap.Logger) *PipelineService {
	return &PipelineService{pipelineRepo: pipelineRepo, logger: logger}
}

// Create creates a new pipeline opportunity
func (s *PipelineService) Create(ctx context.Context, req *domain.CreateOpportunityRequest) (*domain.OpportunityResponse, error) {
	classification := domain.Classification(req.Classification)
	if !classification.IsValid() {
		return nil, fmt.Errorf("%w: classification", ErrInvalidInput)
	}

	opp := &domain.PipelineOpportunity{
		Name:               req.Name,
		Client:             req.Client,
		Classification:     classification,
		FiscalYear:         req.FiscalYear,
		VatCategory:        req.VatCategory,
		WinProbability:     classification.WinProbability(),
		MonthlyRevenue:     normalizeMonthlyValues(req.MonthlyRevenue),
		MonthlyGrossProfit: normalizeMonthlyValues(req.MonthlyGrossProfit),
	}

	if err := s.pipelineRepo.Create(ctx, opp); err != nil {
		return nil, fmt.Errorf("failed to create opportunity: %w", err)
	}

	resp := mapper.ToOpportunityResponse(opp)
	return &resp, nil
}

// GetByID retrieves an opportunity by ID
func (s *PipelineService) GetByID(ctx context.Context, id uuid.UUID) (*domain.OpportunityResponse, error) {
	opp, err := s.pipelineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}

	resp := mapper.ToOpportunityResponse(opp)
	return &resp, nil
}

// Update updates an existing opportunity. Only provided fields change; a
// classification change recomputes the win probability.
func (s *PipelineService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateOpportunityRequest) (*domain.OpportunityResponse, error) {
	opp, err := s.pipelineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOpportunityNotFound
		}
		return nil, fmt.Errorf("failed to get opportunity: %w", err)
	}

	if req.Name != nil {
		opp.Name = *req.Name
	}
	if req.Client != nil {
		opp.Client = *req.Client
	}
	if req.Classification != nil {
		classification := domain.Classification(*req.Classification)
		if !classification.IsValid() {
			return nil, fmt.Errorf("%w: classification", ErrInvalidInput)
		}
		opp.Classification = classification
		opp.WinProbability = classification.WinProbability()
	}
	if req.VatCategory != nil {
		opp.VatCategory = *req.VatCategory
	}
	if req.MonthlyRevenue != nil {
		opp.MonthlyRevenue = normalizeMonthlyValues(req.MonthlyRevenue)
	}
	if req.MonthlyGrossProfit != nil {
		opp.MonthlyGrossProfit = normalizeMonthlyValues(req.MonthlyGrossProfit)
	}

	if err := s.pipelineRepo.Update(ctx, opp); err != nil {
		return nil, fmt.Errorf("failed to update opportunity: %w", err)
	}

	resp := mapper.ToOpportunityResponse(opp)
	return &resp, nil
}

// Delete removes an opportunity
func (s *PipelineService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pipelineRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOpportunityNotFound
		}
		return fmt.Errorf("failed to get opportunity: %w", err)
	}
	return s.pipelineRepo.Delete(ctx, id)
}

// List returns a paginated list of opportunities with optional filters
func (s *PipelineService) List(ctx context.Context, page, pageSize int, filters *repository.PipelineFilters) ([]domain.OpportunityResponse, int64, error) {
	page, pageSize = repository.ClampPage(page, pageSize)

	opportunities, total, err := s.pipelineRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list opportunities: %w", err)
	}

	responses := make([]domain.OpportunityResponse, len(opportunities))
	for i := range opportunities {
		responses[i] = mapper.ToOpportunityResponse(&opportunities[i])
	}
	return responses, total, nil
}

// Summary aggregates one fiscal year's pipeline by classification, weighting
// each bucket by its fixed win probability.
func (s *PipelineService) Summary(ctx context.Context, fiscalYear string) (*domain.PipelineSummaryResponse, error) {
	opportunities, err := s.pipelineRepo.ListByFiscalYear(ctx, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}

	type bucket struct {
		count    int
		total    decimal.Decimal
		weighted decimal.Decimal
	}
	buckets := make(map[domain.Classification]*bucket)

	grandTotal := decimal.Zero
	grandWeighted := decimal.Zero

	for i := range opportunities {
		opp := &opportunities[i]
		total := opp.TotalRevenue()
		weighted := total.Mul(decimal.NewFromInt(int64(opp.WinProbability))).Div(decimal.NewFromInt(100))

		b, ok := buckets[opp.Classification]
		if !ok {
			b = &bucket{total: decimal.Zero, weighted: decimal.Zero}
			buckets[opp.Classification] = b
		}
		b.count++
		b.total = b.total.Add(total)
		b.weighted = b.weighted.Add(weighted)

		grandTotal = grandTotal.Add(total)
		grandWeighted = grandWeighted.Add(weighted)
	}

	byClass := make([]domain.PipelineClassBucket, 0, len(buckets))
	for _, c := range classificationOrder {
		b, ok := buckets[c]
		if !ok {
			continue
		}
		byClass = append(byClass, domain.PipelineClassBucket{
			Classification:  string(c),
			WinProbability:  c.WinProbability(),
			Count:           b.count,
			TotalRevenue:    b.total.String(),
			WeightedRevenue: b.weighted.String(),
		})
	}

	return &domain.PipelineSummaryResponse{
		FiscalYear:      fiscalYear,
		TotalRevenue:    grandTotal.String(),
		WeightedRevenue: grandWeighted.String(),
		ByClass:         byClass,
	}, nil
}

// normalizeMonthlyValues pads or truncates a request vector to exactly 12
// decimal strings, empty slots becoming "0".
func normalizeMonthlyValues(values []string) pq.StringArray {
	out := make(pq.StringArray, 12)
	for i := 0; i < 12; i++ {
		out[i] = "0"
		if i < len(values) && values[i] != "" {
			if d, err := decimal.NewFromString(values[i]); err == nil {
				out[i] = d.String()
			}
		}
	}
	return out
}
