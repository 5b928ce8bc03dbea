package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/service"
	"go.uber.org/zap"
)

type QuotationHandler struct {
	quotationService *service.QuotationService
	documentService  *service.DocumentService
	logger           *zap.Logger
}

func NewQuotationHandler(quotationService *service.QuotationService, documentService *service.DocumentService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		documentService:  documentService,
		logger:           logger,
	}
}

// Create godoc
// @Summary Submit quotation
// @Description Price a customer submission, store it and return its quote number and total
// @Tags Quotations
// @Accept json
// @Produce json
// @Param request body domain.CreateQuotationRequest true "Quotation form"
// @Success 201 {object} domain.QuotationCreatedDTO
// @Failure 400 {object} domain.APIError
// @Failure 429 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Router /quotations [post]
func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	created, err := h.quotationService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to create quotation")
		return
	}

	w.Header().Set("Location", "/api/v1/admin/quotations/"+created.ID.String())
	respondJSON(w, http.StatusCreated, created)
}

// List godoc
// @Summary List quotations
// @Description Filtered, paginated quotations, newest first
// @Tags Quotations
// @Produce json
// @Param search query string false "Search quote number, customer name, email or phone"
// @Param status query string false "Filter by status" Enums(pending, reviewed, quoted, approved, rejected)
// @Param location query string false "Filter by customer location"
// @Param date_from query string false "Created on or after (YYYY-MM-DD)"
// @Param date_to query string false "Created on or before (YYYY-MM-DD)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.QuotationSummaryDTO}
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations [get]
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filters := domain.QuotationFilters{
		Search:   q.Get("search"),
		Location: q.Get("location"),
	}
	if status := q.Get("status"); status != "" {
		parsed, err := service.ParseStatus(status)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		filters.Status = parsed
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

	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 0)

	result, err := h.quotationService.List(r.Context(), filters, page, pageSize)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list quotations")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get quotation
// @Description One quotation with its pieces, stored pricing and files
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/{id} [get]
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "quotation ID")
	if !ok {
		return
	}

	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get quotation")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// GetByQuoteNumber godoc
// @Summary Get quotation by quote number
// @Tags Quotations
// @Produce json
// @Param quoteNumber path string true "Quote number" example(LUX-2026-0001)
// @Success 200 {object} domain.QuotationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/number/{quoteNumber} [get]
func (h *QuotationHandler) GetByQuoteNumber(w http.ResponseWriter, r *http.Request) {
	quoteNumber := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "quoteNumber")))

	quotation, err := h.quotationService.GetByQuoteNumber(r.Context(), quoteNumber)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get quotation")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// Update godoc
// @Summary Update quotation details
// @Description Edit contact details and admin notes. Pricing is not touched.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param request body domain.UpdateQuotationRequest true "Changed details"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/{id} [put]
func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "quotation ID")
	if !ok {
		return
	}

	var req domain.UpdateQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.UpdateDetails(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to update quotation")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// UpdateStatus godoc
// @Summary Update quotation status
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param request body domain.UpdateQuotationStatusRequest true "New status"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/{id}/status [patch]
func (h *QuotationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "quotation ID")
	if !ok {
		return
	}

	var req domain.UpdateQuotationStatusRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.UpdateStatus(r.Context(), id, domain.QuotationStatus(req.Status))
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to update quotation status")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// Revise godoc
// @Summary Revise quotation pieces
// @Description Replace the pieces, re-price with the current rules and keep the previous version as a revision
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param request body domain.ReviseQuotationRequest true "New pieces"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/{id}/pieces [put]
func (h *QuotationHandler) Revise(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "quotation ID")
	if !ok {
		return
	}

	var req domain.ReviseQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quotation, err := h.quotationService.Revise(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to revise quotation")
		return
	}

	respondJSON(w, http.StatusOK, quotation)
}

// ListRevisions godoc
// @Summary List quotation revisions
// @Description Every priced version of a quotation, oldest first
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {array} domain.QuotationRevisionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/{id}/revisions [get]
func (h *QuotationHandler) ListRevisions(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "quotation ID")
	if !ok {
		return
	}

	revisions, err := h.quotationService.ListRevisions(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list quotation revisions")
		return
	}

	respondJSON(w, http.StatusOK, revisions)
}

// Delete godoc
// @Summary Delete quotation
// @Tags Quotations
// @Param id path string true "Quotation ID" format(uuid)
// @Success 204
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/{id} [delete]
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "quotation ID")
	if !ok {
		return
	}

	if err := h.quotationService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "Failed to delete quotation")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PDF godoc
// @Summary Download quotation PDF
// @Description Render the quote document with the active template and company details
// @Tags Quotations
// @Produce application/pdf
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {file} binary
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/{id}/pdf [get]
func (h *QuotationHandler) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "quotation ID")
	if !ok {
		return
	}

	pdf, filename, err := h.documentService.Render(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to render quotation document")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// parseDateParam parses YYYY-MM-DD. An end bound covers the whole day.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
