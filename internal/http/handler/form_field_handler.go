package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/service"
	"go.uber.org/zap"
)

// FormFieldHandler serves the configurable inputs of the quotation form
type FormFieldHandler struct {
	formFieldService *service.FormFieldService
	logger           *zap.Logger
}

func NewFormFieldHandler(formFieldService *service.FormFieldService, logger *zap.Logger) *FormFieldHandler {
	return &FormFieldHandler{
		formFieldService: formFieldService,
		logger:           logger,
	}
}

// ListVisible godoc
// @Summary List form fields
// @Description Visible fields of the public quotation form in wizard order
// @Tags Settings
// @Produce json
// @Success 200 {array} domain.FormFieldDTO
// @Failure 500 {object} domain.APIError
// @Router /settings/form-fields [get]
func (h *FormFieldHandler) ListVisible(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

// List godoc
// @Summary List all form fields
// @Description Every form field including hidden ones, ordered by step and display order
// @Tags FormFields
// @Produce json
// @Success 200 {array} domain.FormFieldDTO
// @Failure 401 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/form-fields [get]
func (h *FormFieldHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, false)
}

func (h *FormFieldHandler) list(w http.ResponseWriter, r *http.Request, visibleOnly bool) {
	fields, err := h.formFieldService.List(r.Context(), visibleOnly)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list form fields")
		return
	}
	respondJSON(w, http.StatusOK, fields)
}

// GetByID godoc
// @Summary Get form field
// @Tags FormFields
// @Produce json
// @Param id path string true "Form field ID"
// @Success 200 {object} domain.FormFieldDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/form-fields/{id} [get]
func (h *FormFieldHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	field, err := h.formFieldService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get form field")
		return
	}
	respondJSON(w, http.StatusOK, field)
}

// Create godoc
// @Summary Create form field
// @Tags FormFields
// @Accept json
// @Produce json
// @Param request body domain.CreateFormFieldRequest true "Form field"
// @Success 201 {object} domain.FormFieldDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/form-fields [post]
func (h *FormFieldHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFormFieldRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	field, err := h.formFieldService.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to create form field")
		return
	}

	w.Header().Set("Location", "/api/v1/admin/form-fields/"+field.ID)
	respondJSON(w, http.StatusCreated, field)
}

// Update godoc
// @Summary Update form field
// @Description Change the provided attributes. The id cannot change.
// @Tags FormFields
// @Accept json
// @Produce json
// @Param id path string true "Form field ID"
// @Param request body domain.UpdateFormFieldRequest true "Changed attributes"
// @Success 200 {object} domain.FormFieldDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/form-fields/{id} [put]
func (h *FormFieldHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateFormFieldRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	field, err := h.formFieldService.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to update form field")
		return
	}
	respondJSON(w, http.StatusOK, field)
}

// Delete godoc
// @Summary Delete form field
// @Tags FormFields
// @Param id path string true "Form field ID"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/form-fields/{id} [delete]
func (h *FormFieldHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.formFieldService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.logger, err, "Failed to delete form field")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
