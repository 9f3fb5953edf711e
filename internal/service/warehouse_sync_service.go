package service

import (
	"context"
	"fmt"
	"time"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/repository"
	"github.com/meridianps/portfolio-api/internal/warehouse"
	"go.uber.org/zap"
)

// WarehouseSyncService refreshes the weekly actual-hours aggregates from the
// time tracking warehouse. Rows for unknown employee codes are skipped, not fatal.
type WarehouseSyncService struct {
	client       *warehouse.Client
	employeeRepo *repository.EmployeeRepository
	weeklyRepo   *repository.WeeklyUtilizationRepository
	logger       *zap.Logger
	now          func() time.Time
}

func NewWarehouseSyncService(
	client *warehouse.Client,
	employeeRepo *repository.EmployeeRepository,
	weeklyRepo *repository.WeeklyUtilizationRepository,
	logger *zap.Logger,
) *WarehouseSyncService {
	return &WarehouseSyncService{
		client:       client,
		employeeRepo: employeeRepo,
		weeklyRepo:   weeklyRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// SyncWeeklyActuals pulls the trailing number of weeks from the warehouse and
// upserts them into the weekly utilization table. Returns how many rows were
// written and how many were skipped for unknown employee codes.
func (s *WarehouseSyncService) SyncWeeklyActuals(ctx context.Context, weeks int) (synced int, skipped int, err error) {
	if !s.client.IsEnabled() {
		return 0, 0, fmt.Errorf("warehouse client not enabled")
	}
	if weeks <= 0 {
		weeks = 8
	}

	since := s.now().AddDate(0, 0, -7*weeks)
	rows, err := s.client.FetchWeeklyHours(ctx, since)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to fetch weekly hours: %w", err)
	}

	employees, err := s.employeeRepo.ListAll(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load employees: %w", err)
	}
	byCode := make(map[string]*domain.Employee, len(employees))
	for i := range employees {
		if employees[i].Code != "" {
			byCode[employees[i].Code] = &employees[i]
		}
	}

	for _, row := range rows {
		employee, ok := byCode[row.EmployeeCode]
		if !ok {
			skipped++
			s.logger.Debug("skipping warehouse row for unknown employee code",
				zap.String("employee_code", row.EmployeeCode),
				zap.Time("week_ending", row.WeekEnding))
			continue
		}

		wu := &domain.WeeklyUtilization{
			EmployeeID:    employee.ID,
			WeekEnding:    row.WeekEnding,
			TotalHours:    row.TotalHours,
			BillableHours: row.BillableHours,
			CostValue:     row.CostValue,
			SaleValue:     row.SaleValue,
		}
		if err := s.weeklyRepo.Upsert(ctx, wu); err != nil {
			return synced, skipped, fmt.Errorf("failed to upsert week %s for %s: %w",
				row.WeekEnding.Format("2006-01-02"), row.EmployeeCode, err)
		}
		synced++
	}

	s.logger.Info("weekly actuals sync completed",
		zap.Int("synced", synced),
		zap.Int("skipped", skipped),
		zap.Time("since", since))

	return synced, skipped, nil
}
