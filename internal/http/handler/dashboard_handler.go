package handler

import (
	"net/http"

	"github.com/luxone/quotation-api/internal/service"
	"go.uber.org/zap"
)

const defaultAnalyticsPeriod = 30

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Get godoc
// @Summary Get dashboard
// @Description Quotation totals, breakdowns by status, location and material, twelve months of counts and the latest quotations
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardDTO
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/dashboard [get]
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.dashboardService.GetDashboard(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get dashboard")
		return
	}

	respondJSON(w, http.StatusOK, dashboard)
}

// Analytics godoc
// @Summary Get analytics
// @Description Daily quotation trends, conversion, service level spread and top designers over a recent period
// @Tags Dashboard
// @Produce json
// @Param period query int false "Period in days (1-365)" default(30)
// @Success 200 {object} domain.AnalyticsDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/analytics [get]
func (h *DashboardHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	period := queryInt(r, "period", defaultAnalyticsPeriod)

	analytics, err := h.dashboardService.Analytics(r.Context(), period)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get analytics")
		return
	}

	respondJSON(w, http.StatusOK, analytics)
}
