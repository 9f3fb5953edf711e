package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/testutil"
)

func TestProjectRepository_CRUD(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	project := &domain.Project{
		Code:     "ACM001",
		Name:     "Acme Platform Rebuild",
		Client:   "ACM",
		Status:   domain.ProjectStatusActive,
		WorkType: domain.WorkTypeClient,
	}
	require.NoError(t, repo.Create(ctx, project))
	require.NotEqual(t, "00000000-0000-0000-0000-000000000000", project.ID.String())

	got, err := repo.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Platform Rebuild", got.Name)

	byCode, err := repo.GetByCode(ctx, "ACM001")
	require.NoError(t, err)
	assert.Equal(t, project.ID, byCode.ID)

	got.Name = "Acme Platform Rebuild Phase 2"
	require.NoError(t, repo.Update(ctx, got))
	updated, err := repo.GetByID(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Platform Rebuild Phase 2", updated.Name)

	require.NoError(t, repo.Delete(ctx, project.ID))
	_, err = repo.GetByID(ctx, project.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProjectRepository_ListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seed := []domain.Project{
		{Code: "ACM001", Name: "Active Client", Client: "ACM", Status: domain.ProjectStatusActive, WorkType: domain.WorkTypeClient, FiscalYear: "25-26"},
		{Code: "ACM002", Name: "Closed Client", Client: "ACM", Status: domain.ProjectStatusClosed, WorkType: domain.WorkTypeClient, FiscalYear: "24-25"},
		{Code: "INT1", Name: "Internal Work", Status: domain.ProjectStatusActive, WorkType: domain.WorkTypeInternal, FiscalYear: "25-26"},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	all, total, err := repo.List(ctx, 1, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, all, 3)

	active := domain.ProjectStatusActive
	filtered, total, err := repo.List(ctx, 1, 20, &ProjectFilters{Status: &active})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, filtered, 2)

	client := domain.WorkTypeClient
	filtered, total, err = repo.List(ctx, 1, 20, &ProjectFilters{Status: &active, WorkType: &client})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Active Client", filtered[0].Name)

	filtered, total, err = repo.List(ctx, 1, 20, &ProjectFilters{FiscalYear: "24-25"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Closed Client", filtered[0].Name)
}

func TestProjectRepository_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		p := domain.Project{Code: string(rune('A'+i)) + "X001", Name: "Project", Status: domain.ProjectStatusActive, WorkType: domain.WorkTypeClient}
		require.NoError(t, repo.Create(ctx, &p))
	}

	page, total, err := repo.List(ctx, 2, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, page, 2)

	last, _, err := repo.List(ctx, 3, 2, nil)
	require.NoError(t, err)
	assert.Len(t, last, 1)
}

func TestProjectRepository_CountActiveAndSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	seed := []domain.Project{
		{Code: "ACM001", Name: "Acme Platform Rebuild", Client: "ACM", Status: domain.ProjectStatusActive, WorkType: domain.WorkTypeClient},
		{Code: "NBF001", Name: "Northbank Fit-out", Client: "NBF", Status: domain.ProjectStatusClosed, WorkType: domain.WorkTypeClient},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	count, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	found, err := repo.Search(ctx, "northbank", 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "NBF001", found[0].Code)

	found, err = repo.Search(ctx, "acm", 10)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}
