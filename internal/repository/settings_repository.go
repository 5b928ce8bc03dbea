package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettingsRepository stores company settings and PDF templates
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// DefaultCompanySettings is the row created on first read
func DefaultCompanySettings() domain.CompanySettings {
	return domain.CompanySettings{
		ID:           domain.CompanySettingsID,
		CompanyName:  "Luxone",
		Website:      "www.theluxone.com",
		AdminEmail:   "admin@theluxone.com",
		PricePerSqft: decimal.NewFromInt(150),
		AEDToUSDRate: decimal.RequireFromString("3.67"),
		VATRate:      decimal.NewFromInt(5),
	}
}

// GetCompanySettings returns the settings row, creating it with defaults if missing
func (r *SettingsRepository) GetCompanySettings(ctx context.Context) (*domain.CompanySettings, error) {
	var settings domain.CompanySettings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", domain.CompanySettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = DefaultCompanySettings()
		if err := r.db.WithContext(ctx).Create(&settings).Error; err != nil {
			return nil, fmt.Errorf("failed to create company settings: %w", err)
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveCompanySettings writes the settings row
func (r *SettingsRepository) SaveCompanySettings(ctx context.Context, settings *domain.CompanySettings) error {
	settings.ID = domain.CompanySettingsID
	return r.db.WithContext(ctx).Save(settings).Error
}

// ListTemplates returns all PDF templates, active first
func (r *SettingsRepository) ListTemplates(ctx context.Context) ([]domain.PDFTemplate, error) {
	var templates []domain.PDFTemplate
	err := r.db.WithContext(ctx).
		Order("is_active DESC, created_at DESC").
		Find(&templates).Error
	return templates, err
}

func (r *SettingsRepository) GetTemplate(ctx context.Context, id uuid.UUID) (*domain.PDFTemplate, error) {
	var template domain.PDFTemplate
	if err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// GetActiveTemplate returns the active template, or nil when none is active
func (r *SettingsRepository) GetActiveTemplate(ctx context.Context) (*domain.PDFTemplate, error) {
	var template domain.PDFTemplate
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("updated_at DESC").
		First(&template).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// CreateTemplate stores a template. An active template deactivates the others.
func (r *SettingsRepository) CreateTemplate(ctx context.Context, template *domain.PDFTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if template.IsActive {
			if err := deactivateTemplates(tx); err != nil {
				return err
			}
		}
		return tx.Create(template).Error
	})
}

// UpdateTemplate saves a template. An active template deactivates the others.
func (r *SettingsRepository) UpdateTemplate(ctx context.Context, template *domain.PDFTemplate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if template.IsActive {
			if err := deactivateTemplates(tx); err != nil {
				return err
			}
		}
		return tx.Save(template).Error
	})
}

// ActivateTemplate makes id the only active template
func (r *SettingsRepository) ActivateTemplate(ctx context.Context, id uuid.UUID) (bool, error) {
	var activated bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deactivateTemplates(tx); err != nil {
			return err
		}
		result := tx.Model(&domain.PDFTemplate{}).Where("id = ?", id).Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		activated = result.RowsAffected > 0
		if !activated {
			// Roll back the deactivation
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return activated, err
}

func deactivateTemplates(tx *gorm.DB) error {
	if err := tx.Model(&domain.PDFTemplate{}).
		Where("is_active = ?", true).
		Update("is_active", false).Error; err != nil {
		return fmt.Errorf("failed to deactivate templates: %w", err)
	}
	return nil
}

// DeleteTemplate removes a template and reports whether a row was deleted
func (r *SettingsRepository) DeleteTemplate(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.PDFTemplate{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}
