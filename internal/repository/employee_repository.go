package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *domain.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	var employee domain.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, employee *domain.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Employee{}, "id = ?", id).Error
}

// EmployeeFilters holds the optional list filters
type EmployeeFilters struct {
	Status    *domain.EmployeeStatus
	StaffType *domain.StaffType
	Team      string
}

func (r *EmployeeRepository) List(ctx context.Context, page, pageSize int, filters *EmployeeFilters) ([]domain.Employee, int64, error) {
	var employees []domain.Employee
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Employee{})

	if filters != nil {
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.StaffType != nil {
			query = query.Where("staff_type = ?", *filters.StaffType)
		}
		if filters.Team != "" {
			query = query.Where("team = ?", filters.Team)
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("last_name ASC, first_name ASC").Find(&employees).Error

	return employees, total, err
}

// ListAll returns every employee. Used to prime the entity resolver.
func (r *EmployeeRepository) ListAll(ctx context.Context) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&employees).Error
	return employees, err
}

// ListProjectable returns the employees the utilization projection covers:
// permanent staff who are active or parked on the bench.
func (r *EmployeeRepository) ListProjectable(ctx context.Context) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := r.db.WithContext(ctx).
		Where("staff_type = ? AND status IN ?", domain.StaffTypePermanent,
			[]domain.EmployeeStatus{domain.EmployeeStatusActive, domain.EmployeeStatusBench}).
		Order("last_name ASC, first_name ASC").
		Find(&employees).Error
	return employees, err
}

func (r *EmployeeRepository) CountActive(ctx context.Context) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Employee{}).
		Where("status IN ?", []domain.EmployeeStatus{domain.EmployeeStatusActive, domain.EmployeeStatusBench}).
		Count(&count).Error
	return int(count), err
}

func (r *EmployeeRepository) Search(ctx context.Context, searchQuery string, limit int) ([]domain.Employee, error) {
	var employees []domain.Employee
	searchPattern := "%" + strings.ToLower(searchQuery) + "%"
	err := r.db.WithContext(ctx).
		Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(code) LIKE ?", searchPattern, searchPattern, searchPattern).
		Limit(limit).Find(&employees).Error
	return employees, err
}
