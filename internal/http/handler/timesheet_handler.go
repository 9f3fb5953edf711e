package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/repository"
	"github.com/meridianps/portfolio-api/internal/service"
	"go.uber.org/zap"
)

type TimesheetHandler struct {
	timesheetService *service.TimesheetService
	logger           *zap.Logger
}

func NewTimesheetHandler(timesheetService *service.TimesheetService, logger *zap.Logger) *TimesheetHandler {
	return &TimesheetHandler{timesheetService: timesheetService, logger: logger}
}

// List godoc
// @Summary List timesheet rows
// @Description Get paginated list of timesheet rows with optional filters
// @Tags Timesheets
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param employeeId query string false "Filter by employee ID" format(uuid)
// @Param projectId query string false "Filter by project ID" format(uuid)
// @Param from query string false "Week ending on or after (YYYY-MM-DD)"
// @Param to query string false "Week ending on or before (YYYY-MM-DD)"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.TimesheetResponse}
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /timesheets [get]
func (h *TimesheetHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePageParams(r)

	filters := &repository.TimesheetFilters{}
	if eid := r.URL.Query().Get("employeeId"); eid != "" {
		if id, err := uuid.Parse(eid); err == nil {
			filters.EmployeeID = &id
		}
	}
	if pid := r.URL.Query().Get("projectId"); pid != "" {
		if id, err := uuid.Parse(pid); err == nil {
			filters.ProjectID = &id
		}
	}
	if from := r.URL.Query().Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filters.From = &t
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filters.To = &t
		}
	}

	timesheets, total, err := h.timesheetService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list timesheets", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list timesheets")
		return
	}

	respondJSON(w, http.StatusOK, paginated(timesheets, total, page, pageSize))
}

// Create godoc
// @Summary Record timesheet row
// @Description Record one timesheet row and refresh the weekly aggregate
// @Tags Timesheets
// @Accept json
// @Produce json
// @Param request body domain.CreateTimesheetRequest true "Timesheet data"
// @Success 201 {object} domain.TimesheetResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /timesheets [post]
func (h *TimesheetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTimesheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	ts, err := h.timesheetService.Create(r.Context(), &req)
	if err != nil {
		h.handleTimesheetError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, ts)
}

// Delete godoc
// @Summary Delete timesheet row
// @Tags Timesheets
// @Accept json
// @Produce json
// @Param id path string true "Timesheet ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /timesheets/{id} [delete]
func (h *TimesheetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid timesheet ID: must be a valid UUID")
		return
	}

	if err := h.timesheetService.Delete(r.Context(), id); err != nil {
		h.handleTimesheetError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleTimesheetError maps service errors to HTTP status codes
func (h *TimesheetHandler) handleTimesheetError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrTimesheetNotFound):
		respondWithError(w, http.StatusNotFound, "Timesheet not found")
	case errors.Is(err, service.ErrEmployeeNotFound):
		respondWithError(w, http.StatusBadRequest, "Employee not found")
	case errors.Is(err, service.ErrProjectNotFound):
		respondWithError(w, http.StatusBadRequest, "Project not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("timesheet handler error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
