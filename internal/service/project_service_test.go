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

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/repository"
	"github.com/meridianps/portfolio-api/internal/testutil"
)

type projectFixture struct {
	svc           *ProjectService
	projectRepo   *repository.ProjectRepository
	monthlyRepo   *repository.ProjectMonthlyRepository
	milestoneRepo *repository.MilestoneRepository
	kpiRepo       *repository.KpiRepository
}

func newProjectFixture(t *testing.T) *projectFixture {
	t.Helper()
	db := testutil.SetupTestDB(t)
	f := &projectFixture{
		projectRepo:   repository.NewProjectRepository(db),
		monthlyRepo:   repository.NewProjectMonthlyRepository(db),
		milestoneRepo: repository.NewMilestoneRepository(db),
		kpiRepo:       repository.NewKpiRepository(db),
	}
	f.svc = NewProjectService(
		f.projectRepo,
		f.monthlyRepo,
		f.milestoneRepo,
		repository.NewCostRepository(db),
		f.kpiRepo,
		repository.NewCxRatingRepository(db),
		zap.NewNop(),
	)
	return f
}

func TestProjectService_Create(t *testing.T) {
	f := newProjectFixture(t)

	resp, err := f.svc.Create(context.Background(), &domain.CreateProjectRequest{
		Code:            "ACM001",
		Name:            "Acme Platform",
		Client:          "Acme Corp",
		BillingCategory: "Fixed",
		StartDate:       "2025-08-01",
		ContractValue:   "120000",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "ACM001", resp.Code)
	assert.Equal(t, string(domain.ProjectStatusActive), resp.Status)
	assert.Equal(t, string(domain.ContractTypeFixedPrice), resp.ContractType)
	assert.Equal(t, "25-26", resp.FiscalYear)
	// Balance starts equal to the contract value.
	assert.Equal(t, "120000", resp.Balance)
}

func TestProjectService_CreateRejectsBadDecimal(t *testing.T) {
	f := newProjectFixture(t)

	_, err := f.svc.Create(context.Background(), &domain.CreateProjectRequest{
		Name:   "Acme Platform",
		Budget: "not-a-number",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProjectService_GetByIDNotFound(t *testing.T) {
	f := newProjectFixture(t)
	_, err := f.svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_UpdatePartialAndDerived(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &domain.CreateProjectRequest{
		Name:          "Acme Platform",
		Client:        "Acme Corp",
		ContractValue: "100000",
	})
	require.NoError(t, err)

	name := "Acme Platform v2"
	forecastRevenue := "80000"
	forecastCost := "60000"
	updated, err := f.svc.Update(ctx, created.ID, &domain.UpdateProjectRequest{
		Name:            &name,
		ForecastRevenue: &forecastRevenue,
		ForecastCost:    &forecastCost,
	})
	require.NoError(t, err)

	assert.Equal(t, "Acme Platform v2", updated.Name)
	assert.Equal(t, "Acme Corp", updated.Client)
	assert.InDelta(t, 0.25, updated.ForecastMargin, 0.0001)
	assert.Equal(t, "100000", updated.Balance)
}

func TestProjectService_UpdateBillingCategoryChangesContractType(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &domain.CreateProjectRequest{Name: "Acme", BillingCategory: "T&M"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.ContractTypeTimeMaterials), created.ContractType)

	fixed := "Fixed"
	updated, err := f.svc.Update(ctx, created.ID, &domain.UpdateProjectRequest{BillingCategory: &fixed})
	require.NoError(t, err)
	assert.Equal(t, string(domain.ContractTypeFixedPrice), updated.ContractType)
}

func TestProjectService_Delete(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &domain.CreateProjectRequest{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.ID))
	_, err = f.svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), ErrProjectNotFound)
}

func TestProjectService_GetMonthlies(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &domain.CreateProjectRequest{Name: "Acme"})
	require.NoError(t, err)

	require.NoError(t, f.monthlyRepo.CreateBatch(ctx, []domain.ProjectMonthly{{
		ProjectID:   created.ID,
		FiscalMonth: 1,
		Revenue:     decimal.NewFromInt(10000),
		Cost:        decimal.NewFromInt(6000),
		Profit:      decimal.NewFromInt(4000),
	}}))

	rows, err := f.svc.GetMonthlies(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].FiscalMonth)
	assert.Equal(t, "4000", rows[0].Profit)

	_, err = f.svc.GetMonthlies(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestProjectService_ChildReads(t *testing.T) {
	f := newProjectFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &domain.CreateProjectRequest{Name: "Acme"})
	require.NoError(t, err)

	due := time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)
	require.NoError(t, f.milestoneRepo.Create(ctx, &domain.Milestone{
		ProjectID: created.ID,
		Name:      "Phase 1 sign-off",
		DueDate:   &due,
		Status:    domain.MilestoneStatusPlanned,
		Amount:    decimal.NewFromInt(25000),
	}))
	require.NoError(t, f.kpiRepo.Create(ctx, &domain.Kpi{
		ProjectID: created.ID,
		Month:     time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Revenue:   decimal.NewFromInt(10000),
		Hours:     120,
	}))

	milestones, err := f.svc.GetMilestones(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, milestones, 1)
	assert.Equal(t, "Phase 1 sign-off", milestones[0].Name)
	assert.Equal(t, "25000", milestones[0].Amount)

	kpis, err := f.svc.GetKpis(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, kpis, 1)
	assert.Equal(t, "2025-07", kpis[0].Month)

	costs, err := f.svc.GetCosts(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, costs)

	_, err = f.svc.GetMilestones(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
