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

type PipelineHandler struct {
	pipelineService *service.PipelineService
	logger          *zap.Logger
}

func NewPipelineHandler(pipelineService *service.PipelineService, logger *zap.Logger) *PipelineHandler {
	return &PipelineHandler{pipelineService: pipelineService, logger: logger}
}

// List godoc
// @Summary List pipeline opportunities
// @Description Get paginated list of pipeline opportunities with optional filters
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param fiscalYear query string false "Filter by fiscal year label, e.g. 25-26"
// @Param classification query string false "Filter by classification" Enums(C, S, DVF, DF, Q, A)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.OpportunityResponse}
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pipeline [get]
func (h *PipelineHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePageParams(r)

	filters := &repository.PipelineFilters{
		FiscalYear: r.URL.Query().Get("fiscalYear"),
	}
	if c := r.URL.Query().Get("classification"); c != "" {
		classification := domain.Classification(c)
		filters.Classification = &classification
	}

	opportunities, total, err := h.pipelineService.List(r.Context(), page, pageSize, filters)
	if err != nil {
		h.logger.Error("failed to list opportunities", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list opportunities")
		return
	}

	respondJSON(w, http.StatusOK, paginated(opportunities, total, page, pageSize))
}

// Create godoc
// @Summary Create pipeline opportunity
// @Description Create a new opportunity. The win probability follows its classification.
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param request body domain.CreateOpportunityRequest true "Opportunity data"
// @Success 201 {object} domain.OpportunityResponse
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pipeline [post]
func (h *PipelineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateOpportunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	opp, err := h.pipelineService.Create(r.Context(), &req)
	if err != nil {
		h.handlePipelineError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/pipeline/"+opp.ID.String())
	respondJSON(w, http.StatusCreated, opp)
}

// GetByID godoc
// @Summary Get opportunity by ID
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param id path string true "Opportunity ID" format(uuid)
// @Success 200 {object} domain.OpportunityResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pipeline/{id} [get]
func (h *PipelineHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid opportunity ID: must be a valid UUID")
		return
	}

	opp, err := h.pipelineService.GetByID(r.Context(), id)
	if err != nil {
		h.handlePipelineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, opp)
}

// Update godoc
// @Summary Update opportunity
// @Description Update an existing opportunity. A classification change recomputes the win probability.
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param id path string true "Opportunity ID" format(uuid)
// @Param request body domain.UpdateOpportunityRequest true "Opportunity data"
// @Success 200 {object} domain.OpportunityResponse
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pipeline/{id} [put]
func (h *PipelineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid opportunity ID: must be a valid UUID")
		return
	}

	var req domain.UpdateOpportunityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	opp, err := h.pipelineService.Update(r.Context(), id, &req)
	if err != nil {
		h.handlePipelineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, opp)
}

// Delete godoc
// @Summary Delete opportunity
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param id path string true "Opportunity ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pipeline/{id} [delete]
func (h *PipelineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid opportunity ID: must be a valid UUID")
		return
	}

	if err := h.pipelineService.Delete(r.Context(), id); err != nil {
		h.handlePipelineError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Summary godoc
// @Summary Pipeline summary by classification
// @Description Get one fiscal year's pipeline totals bucketed by classification, weighted by win probability
// @Tags Pipeline
// @Accept json
// @Produce json
// @Param fiscalYear query string true "Fiscal year label, e.g. 25-26"
// @Success 200 {object} domain.PipelineSummaryResponse
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pipeline/summary [get]
func (h *PipelineHandler) Summary(w http.ResponseWriter, r *http.Request) {
	fiscalYear := r.URL.Query().Get("fiscalYear")
	if fiscalYear == "" {
		respondWithError(w, http.StatusBadRequest, "fiscalYear query parameter is required")
		return
	}

	summary, err := h.pipelineService.Summary(r.Context(), fiscalYear)
	if err != nil {
		h.logger.Error("failed to summarize pipeline", zap.Error(err), zap.String("fiscal_year", fiscalYear))
		respondWithError(w, http.StatusInternalServerError, "Failed to summarize pipeline")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// handlePipelineError maps service errors to HTTP status codes
func (h *PipelineHandler) handlePipelineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrOpportunityNotFound):
		respondWithError(w, http.StatusNotFound, "Opportunity not found")
	case errors.Is(err, service.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("pipeline handler error", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
