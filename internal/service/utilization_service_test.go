package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/repository"
	"github.com/meridianps/portfolio-api/internal/testutil"
	"github.com/meridianps/portfolio-api/internal/utilization"
)

type utilizationFixture struct {
	svc          *UtilizationService
	db           *gorm.DB
	employeeRepo *repository.EmployeeRepository
	projectRepo  *repository.ProjectRepository
	planRepo     *repository.ResourcePlanRepository
	weeklyRepo   *repository.WeeklyUtilizationRepository
	tsRepo       *repository.TimesheetRepository
	now          time.Time
}

func newUtilizationFixture(t *testing.T) *utilizationFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := &utilizationFixture{
		db:           db,
		employeeRepo: repository.NewEmployeeRepository(db),
		projectRepo:  repository.NewProjectRepository(db),
		planRepo:     repository.NewResourcePlanRepository(db),
		weeklyRepo:   repository.NewWeeklyUtilizationRepository(db),
		tsRepo:       repository.NewTimesheetRepository(db),
		now:          time.Date(2025, 7, 9, 10, 0, 0, 0, time.UTC),
	}
	f.svc = NewUtilizationService(f.employeeRepo, f.projectRepo, f.tsRepo, f.planRepo, f.weeklyRepo, zap.NewNop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *utilizationFixture) seedEmployee(t *testing.T, code string) *domain.Employee {
	t.Helper()
	e := &domain.Employee{
		Code:      code,
		FirstName: "Dana",
		LastName:  "Reyes",
		StaffType: domain.StaffTypePermanent,
		Status:    domain.EmployeeStatusActive,
	}
	require.NoError(t, f.employeeRepo.Create(context.Background(), e))
	return e
}

func TestProjection_PlanDrivesUtilization(t *testing.T) {
	f := newUtilizationFixture(t)
	ctx := context.Background()
	employee := f.seedEmployee(t, "E100")
	project := &domain.Project{Code: "ACM001", Name: "Acme", Status: domain.ProjectStatusActive, WorkType: domain.WorkTypeClient}
	require.NoError(t, f.projectRepo.Create(ctx, project))

	// 50% allocation for the current calendar month.
	month := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.planRepo.Upsert(ctx, &domain.ResourcePlan{
		ProjectID:         project.ID,
		EmployeeID:        employee.ID,
		Month:             month,
		AllocationPercent: 50,
	}))

	p, err := f.svc.ProjectionForEmployee(ctx, employee.ID)
	require.NoError(t, err)
	require.Len(t, p.Weeks, utilization.ProjectionWeeks)

	first := p.Weeks[0]
	assert.Equal(t, utilization.SourcePlan, first.Source)
	assert.Equal(t, 50.0, first.Utilization)
	assert.InDelta(t, 19.0, first.Hours, 0.001)
}

func TestProjection_ActualWeekIsFullUtilization(t *testing.T) {
	f := newUtilizationFixture(t)
	ctx := context.Background()
	employee := f.seedEmployee(t, "E100")

	// Actual hours recorded for the current week.
	weekEnding := utilization.WeekEnd(f.now)
	require.NoError(t, f.weeklyRepo.Upsert(ctx, &domain.WeeklyUtilization{
		EmployeeID:    employee.ID,
		WeekEnding:    weekEnding,
		TotalHours:    38,
		BillableHours: 30,
	}))

	p, err := f.svc.ProjectionForEmployee(ctx, employee.ID)
	require.NoError(t, err)

	first := p.Weeks[0]
	assert.Equal(t, utilization.SourceActual, first.Source)
	assert.Equal(t, 100.0, first.Utilization)
	assert.Equal(t, 0.0, first.BenchHours)
	assert.False(t, p.OnBench)
}

func TestProjection_TimesheetTrend(t *testing.T) {
	f := newUtilizationFixture(t)
	ctx := context.Background()
	employee := f.seedEmployee(t, "E100")
	project := &domain.Project{Code: "ACM001", Name: "Acme", Status: domain.ProjectStatusActive, WorkType: domain.WorkTypeClient}
	require.NoError(t, f.projectRepo.Create(ctx, project))

	// 8 weeks of 19h timesheets inside the trend window averages 19h/week.
	for w := 1; w <= utilization.TrendWindowWeeks; w++ {
		require.NoError(t, f.tsRepo.Create(ctx, &domain.Timesheet{
			EmployeeID: employee.ID,
			ProjectID:  project.ID,
			WeekEnding: utilization.WeekEnd(f.now.AddDate(0, 0, -7*w)),
			Hours:      decimal.NewFromInt(19),
			Billable:   true,
			Source:     domain.TimesheetSourceManual,
		}))
	}

	p, err := f.svc.ProjectionForEmployee(ctx, employee.ID)
	require.NoError(t, err)

	first := p.Weeks[0]
	assert.Equal(t, utilization.SourceTrend, first.Source)
	assert.InDelta(t, 19.0, first.Hours, 0.001)
	assert.InDelta(t, 50.0, first.Utilization, 0.001)
}

func TestProjection_UnknownEmployee(t *testing.T) {
	f := newUtilizationFixture(t)
	_, err := f.svc.ProjectionForEmployee(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestProjection_SummaryCoversPermanentStaff(t *testing.T) {
	f := newUtilizationFixture(t)
	ctx := context.Background()
	f.seedEmployee(t, "E100")

	contractor := &domain.Employee{Code: "C200", FirstName: "Sam", StaffType: domain.StaffTypeContractor, Status: domain.EmployeeStatusActive}
	require.NoError(t, f.employeeRepo.Create(ctx, contractor))

	summary, err := f.svc.Projection(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.EmployeeCount)
	assert.Equal(t, 1, summary.OnBench)
}

func TestUpsertPlan_Validation(t *testing.T) {
	f := newUtilizationFixture(t)
	ctx := context.Background()
	employee := f.seedEmployee(t, "E100")
	project := &domain.Project{Code: "ACM001", Name: "Acme", Status: domain.ProjectStatusActive, WorkType: domain.WorkTypeClient}
	require.NoError(t, f.projectRepo.Create(ctx, project))

	_, err := f.svc.UpsertPlan(ctx, &domain.UpsertResourcePlanRequest{
		ProjectID:         "not-a-uuid",
		EmployeeID:        employee.ID.String(),
		Month:             "2025-07",
		AllocationPercent: 50,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.UpsertPlan(ctx, &domain.UpsertResourcePlanRequest{
		ProjectID:         project.ID.String(),
		EmployeeID:        employee.ID.String(),
		Month:             "July 2025",
		AllocationPercent: 50,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpsertPlan_WritesAndReplaces(t *testing.T) {
	f := newUtilizationFixture(t)
	ctx := context.Background()
	employee := f.seedEmployee(t, "E100")
	project := &domain.Project{Code: "ACM001", Name: "Acme", Status: domain.ProjectStatusActive, WorkType: domain.WorkTypeClient}
	require.NoError(t, f.projectRepo.Create(ctx, project))

	req := &domain.UpsertResourcePlanRequest{
		ProjectID:         project.ID.String(),
		EmployeeID:        employee.ID.String(),
		Month:             "2025-07",
		AllocationPercent: 50,
	}
	resp, err := f.svc.UpsertPlan(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.AllocationPercent)

	// Same project/employee/month replaces instead of duplicating.
	req.AllocationPercent = 80
	_, err = f.svc.UpsertPlan(ctx, req)
	require.NoError(t, err)

	plans, err := f.svc.ListPlansByProject(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, 80.0, plans[0].AllocationPercent)
}
