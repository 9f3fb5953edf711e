package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/testutil"
)

func TestWeeklyUtilizationRepository_Upsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewWeeklyUtilizationRepository(db)
	employeeRepo := NewEmployeeRepository(db)
	ctx := context.Background()

	employee := &domain.Employee{Code: "E100", FirstName: "Dana", LastName: "Reyes", StaffType: domain.StaffTypePermanent, Status: domain.EmployeeStatusActive}
	require.NoError(t, employeeRepo.Create(ctx, employee))

	week := time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC)
	first := &domain.WeeklyUtilization{
		EmployeeID:    employee.ID,
		WeekEnding:    week,
		TotalHours:    38,
		BillableHours: 30,
	}
	require.NoError(t, repo.Upsert(ctx, first))

	// Same key again replaces the figures instead of inserting a second row.
	second := &domain.WeeklyUtilization{
		EmployeeID:    employee.ID,
		WeekEnding:    week,
		TotalHours:    40,
		BillableHours: 35,
	}
	require.NoError(t, repo.Upsert(ctx, second))

	rows, err := repo.ListByEmployeeSince(ctx, employee.ID, week.AddDate(0, 0, -7))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 40.0, rows[0].TotalHours)
	assert.Equal(t, 35.0, rows[0].BillableHours)
}

func TestWeeklyUtilizationRepository_ListSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewWeeklyUtilizationRepository(db)
	employeeRepo := NewEmployeeRepository(db)
	ctx := context.Background()

	employee := &domain.Employee{Code: "E100", FirstName: "Dana", StaffType: domain.StaffTypePermanent, Status: domain.EmployeeStatusActive}
	require.NoError(t, employeeRepo.Create(ctx, employee))

	weeks := []time.Time{
		time.Date(2025, 6, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 6, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 13, 0, 0, 0, 0, time.UTC),
	}
	for _, w := range weeks {
		require.NoError(t, repo.Upsert(ctx, &domain.WeeklyUtilization{
			EmployeeID: employee.ID,
			WeekEnding: w,
			TotalHours: 38,
		}))
	}

	rows, err := repo.ListSince(ctx, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// Ordered oldest first.
	assert.True(t, rows[0].WeekEnding.Before(rows[1].WeekEnding))
}
