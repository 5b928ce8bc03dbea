package repository

import (
	"context"

	"github.com/luxone/quotation-api/internal/domain"
	"gorm.io/gorm"
)

type FormFieldRepository struct {
	db *gorm.DB
}

func NewFormFieldRepository(db *gorm.DB) *FormFieldRepository {
	return &FormFieldRepository{db: db}
}

// List returns fields in wizard order. With visibleOnly set hidden fields are
// left out.
func (r *FormFieldRepository) List(ctx context.Context, visibleOnly bool) ([]domain.FormField, error) {
	var fields []domain.FormField
	query := r.db.WithContext(ctx).Model(&domain.FormField{})
	if visibleOnly {
		query = query.Where("is_visible = ?", true)
	}
	err := query.Order("step_number ASC, display_order ASC, id ASC").Find(&fields).Error
	return fields, err
}

func (r *FormFieldRepository) GetByID(ctx context.Context, id string) (*domain.FormField, error) {
	var field domain.FormField
	err := r.db.WithContext(ctx).First(&field, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *FormFieldRepository) Create(ctx context.Context, field *domain.FormField) error {
	return r.db.WithContext(ctx).Create(field).Error
}

func (r *FormFieldRepository) Update(ctx context.Context, field *domain.FormField) error {
	return r.db.WithContext(ctx).Save(field).Error
}

// Delete removes a field and reports whether a row was deleted
func (r *FormFieldRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.FormField{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}
