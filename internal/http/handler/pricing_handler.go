package handler

import (
	"net/http"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/service"
	"go.uber.org/zap"
)

// PricingHandler serves the live price preview shown while the form is filled in
type PricingHandler struct {
	pricingService *service.PricingService
	logger         *zap.Logger
}

func NewPricingHandler(pricingService *service.PricingService, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		pricingService: pricingService,
		logger:         logger,
	}
}

// Calculate godoc
// @Summary Calculate price preview
// @Description Price the current form state with the active cost rules without storing anything. Lenient about missing or malformed input.
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body domain.CalculatePricingRequest true "Form state"
// @Success 200 {object} domain.PricingBreakdownDTO
// @Failure 400 {object} domain.APIError
// @Failure 429 {object} domain.APIError
// @Router /quotations/calculate [post]
func (h *PricingHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req domain.CalculatePricingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	breakdown, err := h.pricingService.Preview(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to calculate pricing")
		return
	}

	respondJSON(w, http.StatusOK, breakdown)
}
