package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/service"
	"go.uber.org/zap"
)

type ScenarioHandler struct {
	scenarioService *service.ScenarioService
	logger          *zap.Logger
}

func NewScenarioHandler(scenarioService *service.ScenarioService, logger *zap.Logger) *ScenarioHandler {
	return &ScenarioHandler{scenarioService: scenarioService, logger: logger}
}

// List godoc
// @Summary List scenarios
// @Tags Scenarios
// @Accept json
// @Produce json
// @Success 200 {array} domain.ScenarioResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scenarios [get]
func (h *ScenarioHandler) List(w http.ResponseWriter, r *http.Request) {
	scenarios, err := h.scenarioService.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list scenarios", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list scenarios")
		return
	}

	respondJSON(w, http.StatusOK, scenarios)
}

// Create godoc
// @Summary Create scenario
// @Description Create a new empty what-if scenario
// @Tags Scenarios
// @Accept json
// @Produce json
// @Param request body domain.CreateScenarioRequest true "Scenario data"
// @Success 201 {object} domain.ScenarioResponse
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scenarios [post]
func (h *ScenarioHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	scenario, err := h.scenarioService.Create(r.Context(), &req)
	if err != nil {
		h.handleScenarioError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/scenarios/"+scenario.ID.String())
	respondJSON(w, http.StatusCreated, scenario)
}

// GetByID godoc
// @Summary Get scenario by ID
// @Description Get a scenario with its adjustments
// @Tags Scenarios
// @Accept json
// @Produce json
// @Param id path string true "Scenario ID" format(uuid)
// @Success 200 {object} domain.ScenarioResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scenarios/{id} [get]
func (h *ScenarioHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid scenario ID: must be a valid UUID")
		return
	}

	scenario, err := h.scenarioService.GetByID(r.Context(), id)
	if err != nil {
		h.handleScenarioError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, scenario)
}

// Delete godoc
// @Summary Delete scenario
// @Description Delete a scenario and its adjustments
// @Tags Scenarios
// @Accept json
// @Produce json
// @Param id path string true "Scenario ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scenarios/{id} [delete]
func (h *ScenarioHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid scenario ID: must be a valid UUID")
		return
	}

	if err := h.scenarioService.Delete(r.Context(), id); err != nil {
		h.handleScenarioError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddAdjustment godoc
// @Summary Add scenario adjustment
// @Description Add an override to a scenario. An empty opportunityId applies the override to every opportunity.
// @Tags Scenarios
// @Accept json
// @Produce json
// @Param id path string true "Scenario ID" format(uuid)
// @Param request body domain.CreateScenarioAdjustmentRequest true "Adjustment data"
// @Success 201 {object} domain.ScenarioAdjustmentResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scenarios/{id}/adjustments [post]
func (h *ScenarioHandler) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid scenario ID: must be a valid UUID")
		return
	}

	var req domain.CreateScenarioAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	adjustment, err := h.scenarioService.AddAdjustment(r.Context(), id, &req)
	if err != nil {
		h.handleScenarioError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, adjustment)
}

// DeleteAdjustment godoc
// @Summary Delete scenario adjustment
// @Tags Scenarios
// @Accept json
// @Produce json
// @Param id path string true "Scenario ID" format(uuid)
// @Param adjustmentId path string true "Adjustment ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scenarios/{id}/adjustments/{adjustmentId} [delete]
func (h *ScenarioHandler) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid scenario ID: must be a valid UUID")
		return
	}
	adjustmentID, err := uuid.Parse(chi.URLParam(r, "adjustmentId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid adjustment ID: must be a valid UUID")
		return
	}

	if err := h.scenarioService.DeleteAdjustment(r.Context(), id, adjustmentID); err != nil {
		h.handleScenarioError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Forecast godoc
// @Summary Scenario forecast
// @Description Apply a scenario's overrides to one fiscal year's pipeline and return the weighted monthly revenue
// @Tags Scenarios
// @Accept json
// @Produce json
// @Param id path string true "Scenario ID" format(uuid)
// @Param fiscalYear query string true "Fiscal year label, e.g. 25-26"
// @Success 200 {object} domain.ScenarioForecastResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scenarios/{id}/forecast [get]
func (h *ScenarioHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid scenario ID: must be a valid UUID")
		return
	}

	fiscalYear := r.URL.Query().Get("fiscalYear")
	if fiscalYear == "" {
		respondWithError(w, http.StatusBadRequest, "fiscalYear query parameter is required")
		return
	}

	forecast, err := h.scenarioService.Forecast(r.Context(), id, fiscalYear)
	if err != nil {
		h.handleScenarioError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, forecast)
}

// handleScenarioError maps service errors to HTTP status codes
func (h *ScenarioHandler) handleScenarioError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrScenarioNotFound):
		respondWithError(w, http.StatusNotFound, "Scenario not found")
	case errors.Is(err, service.ErrOpportunityNotFound):
		respondWithError(w, http.StatusBadRequest, "Opportunity not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("scenario handler error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
