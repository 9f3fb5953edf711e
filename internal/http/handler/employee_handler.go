package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/repository"
	"github.com/meridianps/portfolio-api/internal/service"
	"go.uber.org/zap"
)

type EmployeeHandler struct {
	employeeService    *service.EmployeeService
	utilizationService *service.UtilizationService
	logger             *zap.Logger
}

func NewEmployeeHandler(employeeService *service.EmployeeService, utilizationService *service.UtilizationService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		employeeService:    employeeService,
		utilizationService: utilizationService,
		logger:             logger,
	}
}

// List godoc
// @Summary List employees
// @Description Get paginated list of employees with optional filters
// @Tags Employees
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(active, inactive, onboarding, bench)
// @Param staffType query string false "Filter by staff type" Enums(permanent, contractor, consultant, engineer)
// @Param team query string false "Filter by team"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.EmployeeResponse}
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /employees [get]
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePageParams(r)

	filters := &repository.EmployeeFilters{
		Team: r.URL.Query().Get("team"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.EmployeeStatus(s)
		filters.Status = &status
	}
	if st := r.URL.Query().Get("staffType"); st != "" {
		staffType := domain.StaffType(st)
		filters.StaffType = &staffType
	}

	employees, total, err := h.employeeService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list employees", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list employees")
		return
	}

	respondJSON(w, http.StatusOK, paginated(employees, total, page, pageSize))
}

// Create godoc
// @Summary Create employee
// @Description Create a new employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param request body domain.CreateEmployeeRequest true "Employee data"
// @Success 201 {object} domain.EmployeeResponse
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /employees [post]
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	employee, err := h.employeeService.Create(r.Context(), &req)
	if err != nil {
		h.handleEmployeeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/employees/"+employee.ID.String())
	respondJSON(w, http.StatusCreated, employee)
}

// GetByID godoc
// @Summary Get employee by ID
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID" format(uuid)
// @Success 200 {object} domain.EmployeeResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /employees/{id} [get]
func (h *EmployeeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid employee ID: must be a valid UUID")
		return
	}

	employee, err := h.employeeService.GetByID(r.Context(), id)
	if err != nil {
		h.handleEmployeeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, employee)
}

// Update godoc
// @Summary Update employee
// @Description Update an existing employee. Only provided fields change.
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID" format(uuid)
// @Param request body domain.UpdateEmployeeRequest true "Employee data"
// @Success 200 {object} domain.EmployeeResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /employees/{id} [put]
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid employee ID: must be a valid UUID")
		return
	}

	var req domain.UpdateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	employee, err := h.employeeService.Update(r.Context(), id, &req)
	if err != nil {
		h.logger.Error("failed to update employee", zap.Error(err), zap.String("employee_id", id.String()))
		h.handleEmployeeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, employee)
}

// Delete godoc
// @Summary Delete employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /employees/{id} [delete]
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid employee ID: must be a valid UUID")
		return
	}

	if err := h.employeeService.Delete(r.Context(), id); err != nil {
		h.logger.Error("failed to delete employee", zap.Error(err), zap.String("employee_id", id.String()))
		h.handleEmployeeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetProjection godoc
// @Summary Get one employee's utilization projection
// @Description Get the 13-week rolling utilization forecast for one employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID" format(uuid)
// @Success 200 {object} utilization.EmployeeProjection
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /employees/{id}/projection [get]
func (h *EmployeeHandler) GetProjection(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid employee ID: must be a valid UUID")
		return
	}

	projection, err := h.utilizationService.ProjectionForEmployee(r.Context(), id)
	if err != nil {
		h.handleEmployeeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, projection)
}

// GetResourceCosts godoc
// @Summary Get employee resource costs
// @Description Get the 12-month cost vectors recorded for an employee
// @Tags Employees
// @Accept json
// @Produce json
// @Param id path string true "Employee ID" format(uuid)
// @Success 200 {array} domain.ResourceCostResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /employees/{id}/resource-costs [get]
func (h *EmployeeHandler) GetResourceCosts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid employee ID: must be a valid UUID")
		return
	}

	costs, err := h.employeeService.GetResourceCosts(r.Context(), id)
	if err != nil {
		h.handleEmployeeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, costs)
}

// handleEmployeeError maps service errors to HTTP status codes
func (h *EmployeeHandler) handleEmployeeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		respondWithError(w, http.StatusNotFound, "Employee not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("employee handler error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
