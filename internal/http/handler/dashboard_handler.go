package handler

import (
	"net/http"

	"github.com/meridianps/portfolio-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// Summary godoc
// @Summary Dashboard summary
// @Description Get the headline portfolio figures: active counts, average margin, bench exposure and the weighted pipeline for the current fiscal year
// @Tags Dashboard
// @Accept json
// @Produce json
// @Success 200 {object} domain.DashboardSummaryResponse
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardService.Summary(r.Context())
	if err != nil {
		h.logger.Error("failed to compute dashboard summary", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to compute dashboard summary")
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
