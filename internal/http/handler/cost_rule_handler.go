package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/service"
	"go.uber.org/zap"
)

// CostRuleHandler serves admin management of the pricing rule table
type CostRuleHandler struct {
	costRuleService *service.CostRuleService
	logger          *zap.Logger
}

func NewCostRuleHandler(costRuleService *service.CostRuleService, logger *zap.Logger) *CostRuleHandler {
	return &CostRuleHandler{
		costRuleService: costRuleService,
		logger:          logger,
	}
}

// List godoc
// @Summary List cost rules
// @Description Every cost rule, active or not, grouped by category
// @Tags CostRules
// @Produce json
// @Success 200 {array} domain.CostRuleDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/cost-rules [get]
func (h *CostRuleHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.costRuleService.List(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list cost rules")
		return
	}
	respondJSON(w, http.StatusOK, rules)
}

// GetByID godoc
// @Summary Get cost rule
// @Tags CostRules
// @Produce json
// @Param id path string true "Rule ID" example(delivery_dubai)
// @Success 200 {object} domain.CostRuleDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/cost-rules/{id} [get]
func (h *CostRuleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	rule, err := h.costRuleService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get cost rule")
		return
	}
	respondJSON(w, http.StatusOK, rule)
}

// Create godoc
// @Summary Create cost rule
// @Description Add a rule. An inactive rule with the same id is replaced.
// @Tags CostRules
// @Accept json
// @Produce json
// @Param request body domain.CreateCostRuleRequest true "Cost rule"
// @Success 201 {object} domain.CostRuleDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/cost-rules [post]
func (h *CostRuleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCostRuleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rule, err := h.costRuleService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to create cost rule")
		return
	}

	w.Header().Set("Location", "/api/v1/admin/cost-rules/"+rule.ID)
	respondJSON(w, http.StatusCreated, rule)
}

// Update godoc
// @Summary Update cost rule
// @Description Change the provided attributes. New values apply to the next price calculation.
// @Tags CostRules
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param request body domain.UpdateCostRuleRequest true "Changed attributes"
// @Success 200 {object} domain.CostRuleDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/cost-rules/{id} [put]
func (h *CostRuleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateCostRuleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	rule, err := h.costRuleService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to update cost rule")
		return
	}
	respondJSON(w, http.StatusOK, rule)
}

// Toggle godoc
// @Summary Toggle cost rule
// @Description Flip the active flag. Inactive rules price as zero.
// @Tags CostRules
// @Produce json
// @Param id path string true "Rule ID"
// @Success 200 {object} domain.CostRuleDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/cost-rules/{id}/toggle [post]
func (h *CostRuleHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	rule, err := h.costRuleService.Toggle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to toggle cost rule")
		return
	}
	respondJSON(w, http.StatusOK, rule)
}

// Delete godoc
// @Summary Delete cost rule
// @Tags CostRules
// @Param id path string true "Rule ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Protected rule"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/cost-rules/{id} [delete]
func (h *CostRuleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.costRuleService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err, "Failed to delete cost rule")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
