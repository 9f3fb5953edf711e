package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/repository"
)

// DashboardService aggregates the headline figures of the portfolio: active
// counts, average margin, bench exposure and the weighted pipeline for the
// current fiscal year.
type DashboardService struct {
	projectRepo        *repository.ProjectRepository
	employeeRepo       *repository.EmployeeRepository
	pipelineService    *PipelineService
	utilizationService *UtilizationService
	logger             *zap.Logger
	now                func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	projectRepo *repository.ProjectRepository,
	employeeRepo *repository.EmployeeRepository,
	pipelineService *PipelineService,
	utilizationService *UtilizationService,
	logger *zap.Logger,
) *DashboardService {
	return &DashboardService{
		projectRepo:        projectRepo,
		employeeRepo:       employeeRepo,
		pipelineService:    pipelineService,
		utilizationService: utilizationService,
		logger:             logger,
		now:                time.Now,
	}
}

// Summary computes the dashboard headline panel. The utilization projection
// and pipeline summary are recomputed on every call; both are cheap at the
// data volumes a single firm produces.
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummaryResponse, error) {
	activeProjects, err := s.projectRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active projects: %w", err)
	}

	activeEmployees, err := s.employeeRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active employees: %w", err)
	}

	averageMargin, err := s.projectRepo.AverageMargin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute average margin: %w", err)
	}

	resp := &domain.DashboardSummaryResponse{
		ActiveProjects:  int(activeProjects),
		ActiveEmployees: int(activeEmployees),
		AverageMargin:   averageMargin,
	}

	projection, err := s.utilizationService.Projection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute utilization projection: %w", err)
	}
	resp.BenchPercentage = projection.BenchPercentage
	if projection.EmployeeCount > 0 {
		resp.OverutilisedRate = float64(projection.Overutilised) / float64(projection.EmployeeCount) * 100
	}

	fiscalYear := domain.FiscalYearLabel(s.now())
	pipeline, err := s.pipelineService.Summary(ctx, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize pipeline: %w", err)
	}
	resp.PipelineWeighted = pipeline.WeightedRevenue

	return resp, nil
}
