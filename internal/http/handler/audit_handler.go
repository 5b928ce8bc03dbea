package handler

import (
	"net/http"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/service"
	"go.uber.org/zap"
)

// AuditHandler exposes the admin change history
type AuditHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

func NewAuditHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List godoc
// @Summary List audit logs
// @Description Successful admin changes, newest first
// @Tags AuditLogs
// @Produce json
// @Param username query string false "Filter by admin username"
// @Param action query string false "Filter by action" Enums(create, update, delete)
// @Param entity_type query string false "Filter by entity type" example(CostRule)
// @Param entity_id query string false "Filter by entity ID"
// @Param date_from query string false "On or after (YYYY-MM-DD)"
// @Param date_to query string false "On or before (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.AuditLogDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/audit-logs [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := domain.AuditLogFilters{
		Username:   q.Get("username"),
		Action:     domain.AuditAction(q.Get("action")),
		EntityType: q.Get("entity_type"),
		EntityID:   q.Get("entity_id"),
	}

	var err error
	if filters.DateFrom, err = parseDateParam(q.Get("date_from"), false); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date_from: expected YYYY-MM-DD")
		return
	}
	if filters.DateTo, err = parseDateParam(q.Get("date_to"), true); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid date_to: expected YYYY-MM-DD")
		return
	}

	result, err := h.auditService.List(r.Context(), filters, queryInt(r, "page", 1), queryInt(r, "page_size", 0))
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list audit logs")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
