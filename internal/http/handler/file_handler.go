package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/service"
	"go.uber.org/zap"
)

type FileHandler struct {
	fileService *service.FileService
	maxUploadMB int64
	logger      *zap.Logger
}

func NewFileHandler(fileService *service.FileService, maxUploadMB int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		maxUploadMB: maxUploadMB,
		logger:      logger,
	}
}

// Upload godoc
// @Summary Upload file
// @Description Store a plan sketch or slab photo. The type is detected from the content and must match the extension.
// @Tags Files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload (jpg, jpeg, png, gif, webp, heic, pdf)"
// @Param kind formData string false "File kind" Enums(plan_sketch, slab_photo, other)
// @Param quotation_id formData string false "Quotation ID to attach the file to" format(uuid)
// @Success 201 {object} domain.FileDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/files [post]
func (h *FileHandler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.maxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	var quotationID *uuid.UUID
	if raw := r.FormValue("quotation_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid quotation_id: must be a valid UUID")
			return
		}
		quotationID = &id
	}

	kind := domain.FileKind(r.FormValue("kind"))

	fileDTO, err := h.fileService.Upload(r.Context(), quotationID, kind, header.Filename, file)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to upload file")
		return
	}

	respondJSON(w, http.StatusCreated, fileDTO)
}

// List godoc
// @Summary List files
// @Description List uploaded files, newest first
// @Tags Files
// @Produce json
// @Param kind query string false "Filter by file kind" Enums(plan_sketch, slab_photo, other)
// @Param quotation_id query string false "Filter by quotation" format(uuid)
// @Success 200 {array} domain.FileDTO
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/files [get]
func (h *FileHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := domain.FileFilters{Kind: domain.FileKind(query.Get("kind"))}

	if raw := query.Get("quotation_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid quotation_id: must be a valid UUID")
			return
		}
		filters.QuotationID = &id
	}

	files, err := h.fileService.List(r.Context(), filters)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list files")
		return
	}

	respondJSON(w, http.StatusOK, files)
}

// GetByID godoc
// @Summary Get file metadata
// @Tags Files
// @Produce json
// @Param id path string true "File ID" format(uuid)
// @Success 200 {object} domain.FileDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/files/{id} [get]
func (h *FileHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "file ID")
	if !ok {
		return
	}

	fileDTO, err := h.fileService.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to get file")
		return
	}

	respondJSON(w, http.StatusOK, fileDTO)
}

// Download godoc
// @Summary Download file
// @Tags Files
// @Produce application/octet-stream
// @Param id path string true "File ID" format(uuid)
// @Success 200
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/files/{id}/download [get]
func (h *FileHandler) Download(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "file ID")
	if !ok {
		return
	}

	reader, fileDTO, err := h.fileService.Download(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to download file")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileDTO.Filename))
	w.Header().Set("Content-Type", fileDTO.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(fileDTO.Size, 10))

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("file download interrupted", zap.Error(err), zap.String("file_id", id.String()))
	}
}

// ListByQuotation godoc
// @Summary List quotation files
// @Description Get all files attached to a quotation
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {array} domain.FileDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/quotations/{id}/files [get]
func (h *FileHandler) ListByQuotation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "quotation ID")
	if !ok {
		return
	}

	files, err := h.fileService.ListByQuotation(r.Context(), id)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to list files")
		return
	}

	respondJSON(w, http.StatusOK, files)
}

// Delete godoc
// @Summary Delete file
// @Tags Files
// @Param id path string true "File ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/files/{id} [delete]
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "file ID")
	if !ok {
		return
	}

	if err := h.fileService.Delete(r.Context(), id); err != nil {
		handleServiceError(w, h.logger, err, "Failed to delete file")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type attachFileRequest struct {
	QuotationID uuid.UUID `json:"quotation_id" validate:"required"`
}

// Attach godoc
// @Summary Attach file to quotation
// @Tags Files
// @Accept json
// @Produce json
// @Param id path string true "File ID" format(uuid)
// @Param request body attachFileRequest true "Target quotation"
// @Success 200 {object} domain.FileDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/files/{id}/attach [post]
func (h *FileHandler) Attach(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "id", "file ID")
	if !ok {
		return
	}

	var req attachFileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	fileDTO, err := h.fileService.Attach(r.Context(), id, req.QuotationID)
	if err != nil {
		handleServiceError(w, h.logger, err, "Failed to attach file")
		return
	}

	respondJSON(w, http.StatusOK, fileDTO)
}
