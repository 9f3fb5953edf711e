package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meridianps/portfolio-api/internal/domain"
	"github.com/meridianps/portfolio-api/internal/repository"
	"github.com/meridianps/portfolio-api/internal/service"
	"go.uber.org/zap"
)

// AuditHandler handles audit log related HTTP requests
type AuditHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// AuditLogDTO represents an audit log entry for API response
type AuditLogDTO struct {
	ID          string `json:"id"`
	UserID      string `json:"userId,omitempty"`
	UserName    string `json:"userName,omitempty"`
	Action      string `json:"action"`
	EntityType  string `json:"entityType"`
	EntityID    string `json:"entityId,omitempty"`
	EntityName  string `json:"entityName,omitempty"`
	Detail      string `json:"detail,omitempty"`
	IPAddress   string `json:"ipAddress,omitempty"`
	RequestID   string `json:"requestId,omitempty"`
	PerformedAt string `json:"performedAt"`
}

// List godoc
// @Summary List audit logs
// @Description Returns a paginated list of audit log entries with optional filters
// @Tags Audit
// @Produce json
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20, max: 200)"
// @Param userId query string false "Filter by user ID"
// @Param action query string false "Filter by action type"
// @Param entityType query string false "Filter by entity type"
// @Param entityId query string false "Filter by entity ID"
// @Param startTime query string false "Filter by start time (RFC3339)"
// @Param endTime query string false "Filter by end time (RFC3339)"
// @Success 200 {object} domain.PaginatedResponse{data=[]AuditLogDTO}
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePageParams(r)

	filter := &repository.AuditLogFilter{
		UserID:     r.URL.Query().Get("userId"),
		EntityType: r.URL.Query().Get("entityType"),
		RequestID:  r.URL.Query().Get("requestId"),
	}
	if actionStr := r.URL.Query().Get("action"); actionStr != "" {
		action := domain.AuditAction(actionStr)
		filter.Action = &action
	}
	if entityIDStr := r.URL.Query().Get("entityId"); entityIDStr != "" {
		if entityID, err := uuid.Parse(entityIDStr); err == nil {
			filter.EntityID = &entityID
		}
	}
	if startStr := r.URL.Query().Get("startTime"); startStr != "" {
		if startTime, err := time.Parse(time.RFC3339, startStr); err == nil {
			filter.StartTime = &startTime
		}
	}
	if endStr := r.URL.Query().Get("endTime"); endStr != "" {
		if endTime, err := time.Parse(time.RFC3339, endStr); err == nil {
			filter.EndTime = &endTime
		}
	}

	logs, total, err := h.auditService.List(r.Context(), filter, page, pageSize)
	if err != nil {
		h.logger.Error("failed to list audit logs", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve audit logs")
		return
	}

	dtos := make([]AuditLogDTO, len(logs))
	for i := range logs {
		dtos[i] = toAuditLogDTO(&logs[i])
	}

	respondJSON(w, http.StatusOK, paginated(dtos, total, page, pageSize))
}

// GetByEntity godoc
// @Summary Get audit logs for an entity
// @Description Returns the recent audit trail of a specific entity
// @Tags Audit
// @Produce json
// @Param entityType path string true "Entity type (e.g. project, workbook)"
// @Param entityId path string true "Entity ID"
// @Param limit query int false "Maximum number of entries (default: 50)"
// @Success 200 {array} AuditLogDTO
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit/entity/{entityType}/{entityId} [get]
func (h *AuditHandler) GetByEntity(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "entityType")
	entityID, err := uuid.Parse(chi.URLParam(r, "entityId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid entity ID: must be a valid UUID")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	if limit > 200 {
		limit = 200
	}

	logs, err := h.auditService.ListByEntity(r.Context(), entityType, entityID, limit)
	if err != nil {
		h.logger.Error("failed to get entity audit logs",
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID.String()),
			zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve audit logs")
		return
	}

	dtos := make([]AuditLogDTO, len(logs))
	for i := range logs {
		dtos[i] = toAuditLogDTO(&logs[i])
	}

	respondJSON(w, http.StatusOK, dtos)
}

// toAuditLogDTO converts an audit log entry to its API shape
func toAuditLogDTO(log *domain.AuditLog) AuditLogDTO {
	dto := AuditLogDTO{
		ID:          log.ID.String(),
		UserID:      log.UserID,
		UserName:    log.UserName,
		Action:      string(log.Action),
		EntityType:  log.EntityType,
		EntityName:  log.EntityName,
		Detail:      log.Detail,
		IPAddress:   log.IPAddress,
		RequestID:   log.RequestID,
		PerformedAt: log.PerformedAt.Format(time.RFC3339),
	}
	if log.EntityID != nil {
		dto.EntityID = log.EntityID.String()
	}
	return dto
}
