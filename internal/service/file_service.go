package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/luxone/quotation-api/internal/auth"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/mapper"
	"github.com/luxone/quotation-api/internal/repository"
	"github.com/luxone/quotation-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// allowedExtensions maps the accepted upload extensions to the content type
// their bytes must carry
var allowedExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".heic": "image/heic",
	".pdf":  "application/pdf",
}

// sniffLen is how much of an upload is read for content detection
const sniffLen = 3072

// FileService stores plan sketches and slab photos and links them to quotations
type FileService struct {
	fileRepo      *repository.FileRepository
	quotationRepo *repository.QuotationRepository
	storage       storage.Storage
	logger        *zap.Logger
}

// NewFileService creates a new FileService
func NewFileService(
	fileRepo *repository.FileRepository,
	quotationRepo *repository.QuotationRepository,
	storage storage.Storage,
	logger *zap.Logger,
) *FileService {
	return &FileService{
		fileRepo:      fileRepo,
		quotationRepo: quotationRepo,
		storage:       storage,
		logger:        logger,
	}
}

// Upload stores a file, optionally attached to a quotation. The content type
// is detected from the bytes and must match the filename extension; whatever
// the client declared is ignored.
func (s *FileService) Upload(ctx context.Context, quotationID *uuid.UUID, kind domain.FileKind, filename string, data io.Reader) (*domain.FileDTO, error) {
	if kind == "" {
		kind = domain.FileKindOther
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown file kind %q", ErrInvalidInput, kind)
	}

	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." || filename == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: filename is required", ErrInvalidInput)
	}

	contentType, data, err := detectContentType(filename, data)
	if err != nil {
		return nil, err
	}

	if quotationID != nil {
		if _, err := s.quotationRepo.GetByID(ctx, *quotationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrQuotationNotFound
			}
			return nil, fmt.Errorf("failed to get quotation: %w", err)
		}
	}

	storagePath, size, err := s.storage.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	file := &domain.File{
		Filename:    filename,
		ContentType: contentType,
		Size:        size,
		StoragePath: storagePath,
		Kind:        kind,
		QuotationID: quotationID,
	}

	if err := s.fileRepo.Create(ctx, file); err != nil {
		// Best effort cleanup of the orphaned object
		if delErr := s.storage.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to cleanup file from storage after DB error",
				zap.Error(delErr),
				zap.String("storage_path", storagePath),
			)
		}
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("file_id", file.ID.String()),
		zap.String("kind", string(kind)),
		zap.Int64("size", size),
		zap.String("actor", auth.ActorName(ctx)),
	)

	dto := mapper.ToFileDTO(file)
	return &dto, nil
}

// detectContentType sniffs the head of data and checks it against the
// extension of filename. The returned reader yields the full content.
func detectContentType(filename string, data io.Reader) (string, io.Reader, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	expected, ok := allowedExtensions[ext]
	if !ok {
		return "", nil, fmt.Errorf("%w: file type %q not allowed", ErrInvalidInput, ext)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(data, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !detected.Is(expected) {
		return "", nil, fmt.Errorf("%w: file content %q does not match extension %q", ErrInvalidInput, detected.String(), ext)
	}

	return expected, io.MultiReader(bytes.NewReader(head), data), nil
}

// GetByID returns file metadata
func (s *FileService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileDTO, error) {
	file, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToFileDTO(file)
	return &dto, nil
}

func (s *FileService) get(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	return file, nil
}

// Download opens the stored content. The caller closes the reader.
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, *domain.FileDTO, error) {
	file, err := s.get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.storage.Download(ctx, file.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to download file: %w", err)
	}

	dto := mapper.ToFileDTO(file)
	return rc, &dto, nil
}

// ListByQuotation returns the files attached to a quotation
func (s *FileService) ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]domain.FileDTO, error) {
	files, err := s.fileRepo.ListByQuotation(ctx, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	dtos := make([]domain.FileDTO, len(files))
	for i := range files {
		dtos[i] = mapper.ToFileDTO(&files[i])
	}
	return dtos, nil
}

// List returns uploaded files, optionally narrowed by kind and quotation
func (s *FileService) List(ctx context.Context, filters domain.FileFilters) ([]domain.FileDTO, error) {
	if filters.Kind != "" && !filters.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown file kind %q", ErrInvalidInput, filters.Kind)
	}

	files, err := s.fileRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	dtos := make([]domain.FileDTO, len(files))
	for i := range files {
		dtos[i] = mapper.ToFileDTO(&files[i])
	}
	return dtos, nil
}

// Attach links an uploaded file to a quotation
func (s *FileService) Attach(ctx context.Context, fileID, quotationID uuid.UUID) (*domain.FileDTO, error) {
	file, err := s.get(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if _, err := s.quotationRepo.GetByID(ctx, quotationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	if err := s.fileRepo.AttachToQuotation(ctx, fileID, quotationID); err != nil {
		return nil, fmt.Errorf("failed to attach file: %w", err)
	}
	file.QuotationID = &quotationID

	dto := mapper.ToFileDTO(file)
	return &dto, nil
}

// Delete removes the stored content and the file record
func (s *FileService) Delete(ctx context.Context, id uuid.UUID) error {
	file, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, file.StoragePath); err != nil {
		return fmt.Errorf("failed to delete file from storage: %w", err)
	}
	if err := s.fileRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete file record: %w", err)
	}

	s.logger.Info("file deleted",
		zap.String("file_id", id.String()),
		zap.String("actor", auth.ActorName(ctx)),
	)
	return nil
}
