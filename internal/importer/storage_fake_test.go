package importer

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/meridianps/portfolio-api/internal/domain"
)

// fakeStorage is an in-memory Storage for importer tests.
type fakeStorage struct {
	projects      []domain.Project
	employees     []domain.Employee
	monthlies     []domain.ProjectMonthly
	timesheets    []domain.Timesheet
	kpis          []domain.Kpi
	cxRatings     []domain.CxRating
	resourceCosts []domain.ResourceCost
	opportunities []domain.PipelineOpportunity
	weekly        []domain.WeeklyUtilization

	failCreateProject error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{}
}

func (f *fakeStorage) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return f.projects, nil
}

func (f *fakeStorage) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	return f.employees, nil
}

func (f *fakeStorage) CreateProject(ctx context.Context, project *domain.Project) error {
	if f.failCreateProject != nil {
		return f.failCreateProject
	}
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	f.projects = append(f.projects, *project)
	return nil
}

func (f *fakeStorage) CreateEmployee(ctx context.Context, employee *domain.Employee) error {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	f.employees = append(f.employees, *employee)
	return nil
}

func (f *fakeStorage) CreateProjectMonthlies(ctx context.Context, rows []domain.ProjectMonthly) error {
	f.monthlies = append(f.monthlies, rows...)
	return nil
}

func (f *fakeStorage) CreateTimesheet(ctx context.Context, ts *domain.Timesheet) error {
	f.timesheets = append(f.timesheets, *ts)
	return nil
}

func (f *fakeStorage) CreateKpi(ctx context.Context, kpi *domain.Kpi) error {
	f.kpis = append(f.kpis, *kpi)
	return nil
}

func (f *fakeStorage) CreateCxRating(ctx context.Context, rating *domain.CxRating) error {
	f.cxRatings = append(f.cxRatings, *rating)
	return nil
}

func (f *fakeStorage) CreateResourceCost(ctx context.Context, rc *domain.ResourceCost) error {
	f.resourceCosts = append(f.resourceCosts, *rc)
	return nil
}

func (f *fakeStorage) CreateOpportunity(ctx context.Context, opp *domain.PipelineOpportunity) error {
	if opp.ID == uuid.Nil {
		opp.ID = uuid.New()
	}
	f.opportunities = append(f.opportunities, *opp)
	return nil
}

func (f *fakeStorage) UpsertWeeklyUtilization(ctx context.Context, wu *domain.WeeklyUtilization) error {
	for i := range f.weekly {
		if f.weekly[i].EmployeeID == wu.EmployeeID && f.weekly[i].WeekEnding.Equal(wu.WeekEnding) {
			f.weekly[i] = *wu
			return nil
		}
	}
	f.weekly = append(f.weekly, *wu)
	return nil
}

var errStorageDown = errors.New("storage unavailable")

var _ Storage = (*fakeStorage)(nil)
