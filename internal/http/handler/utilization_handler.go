package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/service"
	"go.uber.org/zap"
)

type UtilizationHandler struct {
	utilizationService *service.UtilizationService
	logger             *zap.Logger
}

func NewUtilizationHandler(utilizationService *service.UtilizationService, logger *zap.Logger) *UtilizationHandler {
	return &UtilizationHandler{utilizationService: utilizationService, logger: logger}
}

// Weekly godoc
// @Summary Weekly actual-hours feed
// @Description Get the stored weekly actual-hours aggregates, optionally bounded by a start date
// @Tags Utilization
// @Accept json
// @Produce json
// @Param since query string false "Week ending on or after (YYYY-MM-DD)"
// @Success 200 {array} domain.WeeklyUtilizationResponse
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /utilization/weekly [get]
func (h *UtilizationHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	var since *time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid since date: must be YYYY-MM-DD")
			return
		}
		since = &t
	}

	rows, err := h.utilizationService.Weekly(r.Context(), since)
	if err != nil {
		h.logger.Error("failed to list weekly utilization", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list weekly utilization")
		return
	}

	respondJSON(w, http.StatusOK, rows)
}

// Projection godoc
// @Summary Utilization projection
// @Description Get the 13-week rolling utilization forecast across all permanent employees
// @Tags Utilization
// @Accept json
// @Produce json
// @Success 200 {object} utilization.Summary
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /utilization/projection [get]
func (h *UtilizationHandler) Projection(w http.ResponseWriter, r *http.Request) {
	summary, err := h.utilizationService.Projection(r.Context())
	if err != nil {
		h.logger.Error("failed to compute utilization projection", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute utilization projection")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// UpsertPlan godoc
// @Summary Upsert resource plan
// @Description Write a forward allocation for one employee, project and calendar month. An existing row for the same key is replaced.
// @Tags Utilization
// @Accept json
// @Produce json
// @Param request body domain.UpsertResourcePlanRequest true "Resource plan data"
// @Success 200 {object} domain.ResourcePlanResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /resource-plans [put]
func (h *UtilizationHandler) UpsertPlan(w http.ResponseWriter, r *http.Request) {
	var req domain.UpsertResourcePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	plan, err := h.utilizationService.UpsertPlan(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			respondWithError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, service.ErrEmployeeNotFound):
			respondWithError(w, http.StatusNotFound, "Employee not found")
		case errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to upsert resource plan", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "Failed to upsert resource plan")
		}
		return
	}

	respondJSON(w, http.StatusOK, plan)
}
