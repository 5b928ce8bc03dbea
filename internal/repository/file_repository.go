package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/luxone/quotation-api/internal/domain"
	"gorm.io/gorm"
)

type FileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{db: db}
}

func (r *FileRepository) Create(ctx context.Context, file *domain.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	var file domain.File
	err := r.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

// ListByQuotation returns all files attached to a quotation
func (r *FileRepository) ListByQuotation(ctx context.Context, quotationID uuid.UUID) ([]domain.File, error) {
	var files []domain.File
	err := r.db.WithContext(ctx).
		Where("quotation_id = ?", quotationID).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

// List returns files matching filters, newest first
func (r *FileRepository) List(ctx context.Context, filters domain.FileFilters) ([]domain.File, error) {
	query := r.db.WithContext(ctx).Model(&domain.File{})
	if filters.Kind != "" {
		query = query.Where("kind = ?", filters.Kind)
	}
	if filters.QuotationID != nil {
		query = query.Where("quotation_id = ?", *filters.QuotationID)
	}

	var files []domain.File
	err := query.Order("created_at DESC").Find(&files).Error
	return files, err
}

// AttachToQuotation links an uploaded file to a quotation
func (r *FileRepository) AttachToQuotation(ctx context.Context, fileID, quotationID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.File{}).
		Where("id = ?", fileID).
		Update("quotation_id", quotationID).Error
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.File{}, "id = ?", id).Error
}
