package handler

import (
	"net/http"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/service"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
	logger          *zap.Logger
}

func NewSettingsHandler(settingsService *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// GetCompany godoc
// @Summary Get company settings
// @Description Company details shown in the quotation form and on documents
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.CompanySettingsDTO
// @Failure 500 {object} domain.APIError
// @Router /settings/company [get]
func (h *SettingsHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetCompanySettings(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get company settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpdateCompany godoc
// @Summary Update company settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body domain.UpdateCompanySettingsRequest true "Changed settings"
// @Success 200 {object} domain.CompanySettingsDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/settings/company [put]
func (h *SettingsHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateCompanySettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	settings, err := h.settingsService.UpdateCompanySettings(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to update company settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// ListTemplates godoc
// @Summary List PDF templates
// @Tags Templates
// @Produce json
// @Success 200 {array} domain.PDFTemplateDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/templates [get]
func (h *SettingsHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.settingsService.ListTemplates(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list templates")
		return
	}
	respondJSON(w, http.StatusOK, templates)
}

// GetTemplate godoc
// @Summary Get PDF template
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID" format(uuid)
// @Success 200 {object} domain.PDFTemplateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/templates/{id} [get]
func (h *SettingsHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "template ID")
	if !ok {
		return
	}

	template, err := h.settingsService.GetTemplate(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get template")
		return
	}
	respondJSON(w, http.StatusOK, template)
}

// CreateTemplate godoc
// @Summary Create PDF template
// @Tags Templates
// @Accept json
// @Produce json
// @Param request body domain.PDFTemplateRequest true "Template"
// @Success 201 {object} domain.PDFTemplateDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/templates [post]
func (h *SettingsHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req domain.PDFTemplateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	template, err := h.settingsService.CreateTemplate(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to create template")
		return
	}
	respondJSON(w, http.StatusCreated, template)
}

// UpdateTemplate godoc
// @Summary Update PDF template
// @Tags Templates
// @Accept json
// @Produce json
// @Param id path string true "Template ID" format(uuid)
// @Param request body domain.PDFTemplateRequest true "Template"
// @Success 200 {object} domain.PDFTemplateDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/templates/{id} [put]
func (h *SettingsHandler) UpdateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "template ID")
	if !ok {
		return
	}

	var req domain.PDFTemplateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	template, err := h.settingsService.UpdateTemplate(r.Context(), id, &req)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to update template")
		return
	}
	respondJSON(w, http.StatusOK, template)
}

// ActivateTemplate godoc
// @Summary Activate PDF template
// @Description Make the template the one used for quotation documents
// @Tags Templates
// @Produce json
// @Param id path string true "Template ID" format(uuid)
// @Success 200 {object} domain.PDFTemplateDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/templates/{id}/activate [post]
func (h *SettingsHandler) ActivateTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "template ID")
	if !ok {
		return
	}

	template, err := h.settingsService.ActivateTemplate(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to activate template")
		return
	}
	respondJSON(w, http.StatusOK, template)
}

// DeleteTemplate godoc
// @Summary Delete PDF template
// @Tags Templates
// @Param id path string true "Template ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/templates/{id} [delete]
func (h *SettingsHandler) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "template ID")
	if !ok {
		return
	}

	if err := h.settingsService.DeleteTemplate(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "Failed to delete template")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
