package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// ImportStore bundles the repositories behind the import pipeline's storage
// contract. One instance serves one request; the underlying writes are
// sequential and row-level, matching the importers' per-row error isolation.
type ImportStore struct {
	projects      *ProjectRepository
	monthlies     *ProjectMonthlyRepository
	employees     *EmployeeRepository
	timesheets    *TimesheetRepository
	kpis          *KpiRepository
	cxRatings     *CxRatingRepository
	resourceCosts *ResourceCostRepository
	pipeline      *PipelineRepository
	weekly        *WeeklyUtilizationRepository
}

func NewImportStore(db *gorm.DB) *ImportStore {
	return &ImportStore{
		projects:      NewProjectRepository(db),
		monthlies:     NewProjectMonthlyRepository(db),
		employees:     NewEmployeeRepository(db),
		timesheets:    NewTimesheetRepository(db),
		kpis:          NewKpiRepository(db),
		cxRatings:     NewCxRatingRepository(db),
		resourceCosts: NewResourceCostRepository(db),
		pipeline:      NewPipelineRepository(db),
		weekly:        NewWeeklyUtilizationRepository(db),
	}
}

func (s *ImportStore) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.projects.ListAll(ctx)
}

func (s *ImportStore) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return s.employees.ListAll(ctx)
}

func (s *ImportStore) CreateProject(ctx context.Context, project *domain.Project) error {
	return s.projects.Create(ctx, project)
}

func (s *ImportStore) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	return s.employees.Create(ctx, employee)
}

func (s *ImportStore) CreateProjectMonthlies(ctx context.Context, rows []domain.ProjectMonthly) error {
	return s.monthlies.CreateBatch(ctx, rows)
}

func (s *ImportStore) CreateTimesheet(ctx context.Context, ts *domain.Timesheet) error {
	return s.timesheets.Create(ctx, ts)
}

func (s *ImportStore) CreateKpi(ctx context.Context, kpi *domain.Kpi) error {
	return s.kpis.Create(ctx, kpi)
}

func (s *ImportStore) CreateCxRating(ctx context.Context, rating *domain.CxRating) error {
	return s.cxRatings.Create(ctx, rating)
}

func (s *ImportStore) CreateResourceCost(ctx context.Context, rc *domain.ResourceCost) error {
	return s.resourceCosts.Create(ctx, rc)
}

func (s *ImportStore) CreateOpportunity(ctx context.Context, opp *domain.PipelineOpportunity) error {
	return s.pipeline.Create(ctx, opp)
}

func (s *ImportStore) UpsertWeeklyUtilization(ctx context.Context, wu *domain.WeeklyUtilization) error {
	return s.weekly.Upsert(ctx, wu)
}
