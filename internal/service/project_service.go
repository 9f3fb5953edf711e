package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/mapper"
	"github.com/meridianps/portfolio-api/internal/repository"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	projectRepo   *repository.ProjectRepository
	monthlyRepo   *repository.ProjectMonthlyRepository
	milestoneRepo *repository.MilestoneRepository
	costRepo      *repository.CostRepository
	kpiRepo       *repository.KpiRepository
	cxRatingRepo  *repository.CxRatingRepository
	logger        *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(
	projectRepo *repository.ProjectRepository,
	monthlyRepo *repository.ProjectMonthlyRepository,
	milestoneRepo *repository.MilestoneRepository,
	costRepo *repository.CostRepository,
	kpiRepo *repository.KpiRepository,
	cxRatingRepo *repository.CxRatingRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projectRepo:   projectRepo,
		monthlyRepo:   monthlyRepo,
		milestoneRepo: milestoneRepo,
		costRepo:      costRepo,
		kpiRepo:       kpiRepo,
		cxRatingRepo:  cxRatingRepo,
		logger:        logger,
	}
}

// Create creates a new project from a CRUD request
func (s *ProjectService) Create(ctx context.Context, req *domain.CreateProjectRequest) (*domain.ProjectResponse, error) {
	workOrder, err := parseDecimalField(req.WorkOrderValue)
	if err != nil {
		return nil, fmt.Errorf("%w: workOrderValue", ErrInvalidInput)
	}
	budget, err := parseDecimalField(req.Budget)
	if err != nil {
		return nil, fmt.Errorf("%w: budget", ErrInvalidInput)
	}
	contractValue, err := parseDecimalField(req.ContractValue)
	if err != nil {
		return nil, fmt.Errorf("%w: contractValue", ErrInvalidInput)
	}

	status := domain.ProjectStatusActive
	if req.Status != "" {
		status = domain.ProjectStatus(req.Status)
	}

	billing := domain.BillingCategory(req.BillingCategory)
	contractType := domain.ContractTypeTimeMaterials
	if billing == domain.BillingCategoryFixed {
		contractType = domain.ContractTypeFixedPrice
	}

	project := &domain.Project{
		Code:            req.Code,
		Name:            req.Name,
		Client:          req.Client,
		BillingCategory: billing,
		ContractType:    contractType,
		Status:          status,
		WorkType:        domain.WorkTypeClient,
		PartnerName:     req.PartnerName,
		ManagerName:     req.ManagerName,
		WorkOrderValue:  workOrder,
		Budget:          budget,
		ContractValue:   contractValue,
		Balance:         contractValue,
		Margin:          req.Margin,
		Commentary:      req.Commentary,
	}

	if start, ok := parseDateField(req.StartDate); ok {
		project.StartDate = &start
		project.FiscalYear = domain.FiscalYearLabel(start)
	}
	if end, ok := parseDateField(req.EndDate); ok {
		project.EndDate = &end
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.String("code", project.Code))

	resp := mapper.ToProjectResponse(project)
	return &resp, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectResponse, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	resp := mapper.ToProjectResponse(project)
	return &resp, nil
}

// Update updates an existing project. Only provided fields change.
func (s *ProjectService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateProjectRequest) (*domain.ProjectResponse, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Client != nil {
		project.Client = *req.Client
	}
	if req.BillingCategory != nil {
		project.BillingCategory = domain.BillingCategory(*req.BillingCategory)
		project.ContractType = domain.ContractTypeTimeMaterials
		if project.BillingCategory == domain.BillingCategoryFixed {
			project.ContractType = domain.ContractTypeFixedPrice
		}
	}
	if req.Status != nil {
		project.Status = domain.ProjectStatus(*req.Status)
	}
	if req.PartnerName != nil {
		project.PartnerName = *req.PartnerName
	}
	if req.ManagerName != nil {
		project.ManagerName = *req.ManagerName
	}
	if req.StartDate != nil {
		if start, ok := parseDateField(*req.StartDate); ok {
			project.StartDate = &start
			project.FiscalYear = domain.FiscalYearLabel(start)
		}
	}
	if req.EndDate != nil {
		if end, ok := parseDateField(*req.EndDate); ok {
			project.EndDate = &end
		}
	}
	if err := applyDecimalField(req.WorkOrderValue, &project.WorkOrderValue); err != nil {
		return nil, fmt.Errorf("%w: workOrderValue", ErrInvalidInput)
	}
	if err := applyDecimalField(req.Budget, &project.Budget); err != nil {
		return nil, fmt.Errorf("%w: budget", ErrInvalidInput)
	}
	if err := applyDecimalField(req.ContractValue, &project.ContractValue); err != nil {
		return nil, fmt.Errorf("%w: contractValue", ErrInvalidInput)
	}
	if err := applyDecimalField(req.ForecastRevenue, &project.ForecastRevenue); err != nil {
		return nil, fmt.Errorf("%w: forecastRevenue", ErrInvalidInput)
	}
	if err := applyDecimalField(req.ForecastCost, &project.ForecastCost); err != nil {
		return nil, fmt.Errorf("%w: forecastCost", ErrInvalidInput)
	}
	if req.Margin != nil {
		project.Margin = *req.Margin
	}
	if req.Commentary != nil {
		project.Commentary = *req.Commentary
	}

	// Derived fields recompute on every update
	project.Balance = project.ContractValue.Sub(project.ActualValue)
	if !project.ForecastRevenue.IsZero() {
		margin, _ := project.ForecastRevenue.Sub(project.ForecastCost).
			Div(project.ForecastRevenue).Float64()
		project.ForecastMargin = margin
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	resp := mapper.ToProjectResponse(project)
	return &resp, nil
}

// Delete removes a project and, via cascade, its child records
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.projectRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to get project: %w", err)
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.logger.Info("project deleted", zap.String("project_id", id.String()))
	return nil
}

// List returns a paginated list of projects with optional filters
func (s *ProjectService) List(ctx context.Context, page, pageSize int, filters *repository.ProjectFilters) ([]domain.ProjectResponse, int64, error) {
	page, pageSize = repository.ClampPage(page, pageSize)

	projects, total, err := s.projectRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}

	responses := make([]domain.ProjectResponse, len(projects))
	for i := range projects {
		responses[i] = mapper.ToProjectResponse(&projects[i])
	}
	return responses, total, nil
}

// GetMonthlies returns the fiscal-month financial rows of a project
func (s *ProjectService) GetMonthlies(ctx context.Context, projectID uuid.UUID) ([]domain.ProjectMonthlyResponse, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	rows, err := s.monthlyRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly rows: %w", err)
	}

	responses := make([]domain.ProjectMonthlyResponse, len(rows))
	for i := range rows {
		responses[i] = mapper.ToProjectMonthlyResponse(&rows[i])
	}
	return responses, nil
}

// GetMilestones returns the milestone rows of a project
func (s *ProjectService) GetMilestones(ctx context.Context, projectID uuid.UUID) ([]domain.MilestoneResponse, error) {
	if err := s.verifyProject(ctx, projectID); err != nil {
		return nil, err
	}

	rows, err := s.milestoneRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}

	responses := make([]domain.MilestoneResponse, len(rows))
	for i := range rows {
		responses[i] = mapper.ToMilestoneResponse(&rows[i])
	}
	return responses, nil
}

// GetCosts returns the non-labour cost entries of a project
func (s *ProjectService) GetCosts(ctx context.Context, projectID uuid.UUID) ([]domain.CostResponse, error) {
	if err := s.verifyProject(ctx, projectID); err != nil {
		return nil, err
	}

	rows, err := s.costRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list costs: %w", err)
	}

	responses := make([]domain.CostResponse, len(rows))
	for i := range rows {
		responses[i] = mapper.ToCostResponse(&rows[i])
	}
	return responses, nil
}

// GetKpis returns the monthly performance snapshots of a project
func (s *ProjectService) GetKpis(ctx context.Context, projectID uuid.UUID) ([]domain.KpiResponse, error) {
	if err := s.verifyProject(ctx, projectID); err != nil {
		return nil, err
	}

	rows, err := s.kpiRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}

	responses := make([]domain.KpiResponse, len(rows))
	for i := range rows {
		responses[i] = mapper.ToKpiResponse(&rows[i])
	}
	return responses, nil
}

// GetCxRatings returns the client-experience ratings of a project
func (s *ProjectService) GetCxRatings(ctx context.Context, projectID uuid.UUID) ([]domain.CxRatingResponse, error) {
	if err := s.verifyProject(ctx, projectID); err != nil {
		return nil, err
	}

	rows, err := s.cxRatingRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cx ratings: %w", err)
	}

	responses := make([]domain.CxRatingResponse, len(rows))
	for i := range rows {
		responses[i] = mapper.ToCxRatingResponse(&rows[i])
	}
	return responses, nil
}

func (s *ProjectService) verifyProject(ctx context.Context, projectID uuid.UUID) error {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("failed to get project: %w", err)
	}
	return nil
}

// parseDecimalField parses an optional decimal request string, empty means zero
func parseDecimalField(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// applyDecimalField updates target when the optional request field is set
func applyDecimalField(raw *string, target *decimal.Decimal) error {
	if raw == nil {
		return nil
	}
	value, err := decimal.NewFromString(*raw)
	if err != nil {
		return err
	}
	*target = value
	return nil
}

// parseDateField parses an ISO date request string
func parseDateField(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
