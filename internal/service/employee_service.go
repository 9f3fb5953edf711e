package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/mapper"
	"github.com/meridianps/portfolio-api/internal/repository"
)

// EmployeeService handles business logic for employees
type EmployeeService struct {
	employeeRepo     *repository.EmployeeRepository
	resourceCostRepo *repository.ResourceCostRepository
	logger           *zap.Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo *repository.EmployeeRepository, resourceCostRepo *repository.ResourceCostRepository, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo, resourceCostRepo: resourceCostRepo, logger: logger}
}

// Create creates a new employee from a CRUD request
func (s *EmployeeService) Create(ctx context.Context, req *domain.CreateEmployeeRequest) (*domain.EmployeeResponse, error) {
	baseCost, err := parseDecimalField(req.BaseCostDay)
	if err != nil {
		return nil, fmt.Errorf("%w: baseCostDay", ErrInvalidInput)
	}
	grossCost, err := parseDecimalField(req.GrossCostDay)
	if err != nil {
		return nil, fmt.Errorf("%w: grossCostDay", ErrInvalidInput)
	}

	staffType := domain.StaffTypePermanent
	if req.StaffType != "" {
		staffType = domain.StaffType(req.StaffType)
	}
	status := domain.EmployeeStatusActive
	if req.Status != "" {
		status = domain.EmployeeStatus(req.Status)
	}

	employee := &domain.Employee{
		Code:         req.Code,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Grade:        req.Grade,
		Team:         req.Team,
		BaseCostDay:  baseCost,
		GrossCostDay: grossCost,
		StaffType:    staffType,
		Status:       status,
	}
	if start, ok := parseDateField(req.StartDate); ok {
		employee.StartDate = &start
	}
	if end, ok := parseDateField(req.EndDate); ok {
		employee.EndDate = &end
	}

	if err := s.employeeRepo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("employee created",
		zap.String("employee_id", employee.ID.String()),
		zap.String("code", employee.Code))

	resp := mapper.ToEmployeeResponse(employee)
	return &resp, nil
}

// GetByID retrieves an employee by ID
func (s *EmployeeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.EmployeeResponse, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	resp := mapper.ToEmployeeResponse(employee)
	return &resp, nil
}

// Update updates an existing employee. Only provided fields change.
func (s *EmployeeService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateEmployeeRequest) (*domain.EmployeeResponse, error) {
	employee, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	if req.FirstName != nil {
		employee.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		employee.LastName = *req.LastName
	}
	if req.Role != nil {
		employee.Role = *req.Role
	}
	if req.Grade != nil {
		employee.Grade = *req.Grade
	}
	if req.Team != nil {
		employee.Team = *req.Team
	}
	if err := applyDecimalField(req.BaseCostDay, &employee.BaseCostDay); err != nil {
		return nil, fmt.Errorf("%w: baseCostDay", ErrInvalidInput)
	}
	if err := applyDecimalField(req.GrossCostDay, &employee.GrossCostDay); err != nil {
		return nil, fmt.Errorf("%w: grossCostDay", ErrInvalidInput)
	}
	if req.StartDate != nil {
		if start, ok := parseDateField(*req.StartDate); ok {
			employee.StartDate = &start
		}
	}
	if req.EndDate != nil {
		if end, ok := parseDateField(*req.EndDate); ok {
			employee.EndDate = &end
		}
	}
	if req.StaffType != nil {
		employee.StaffType = domain.StaffType(*req.StaffType)
	}
	if req.Status != nil {
		employee.Status = domain.EmployeeStatus(*req.Status)
	}

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to update employee: %w", err)
	}

	resp := mapper.ToEmployeeResponse(employee)
	return &resp, nil
}

// Delete removes an employee and, via cascade, their child records
func (s *EmployeeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.employeeRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	s.logger.Info("employee deleted", zap.String("employee_id", id.String()))
	return nil
}

// GetResourceCosts returns the 12-month cost vectors of an employee
func (s *EmployeeService) GetResourceCosts(ctx context.Context, employeeID uuid.UUID) ([]domain.ResourceCostResponse, error) {
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	rows, err := s.resourceCostRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resource costs: %w", err)
	}

	responses := make([]domain.ResourceCostResponse, len(rows))
	for i := range rows {
		responses[i] = mapper.ToResourceCostResponse(&rows[i])
	}
	return responses, nil
}

// List returns a paginated list of employees with optional filters
func (s *EmployeeService) List(ctx context.Context, page, pageSize int, filters *repository.EmployeeFilters) ([]domain.EmployeeResponse, int64, error) {
	page, pageSize = repository.ClampPage(page, pageSize)

	employees, total, err := s.employeeRepo.List(ctx, page, pageSize, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]domain.EmployeeResponse, len(employees))
	for i := range employees {
		responses[i] = mapper.ToEmployeeResponse(&employees[i])
	}
	return responses, total, nil
}
