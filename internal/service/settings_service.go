package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/luxone/quotation-api/internal/auth"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/mapper"
	"github.com/luxone/quotation-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SettingsService manages company details and quote document templates
type SettingsService struct {
	repo   *repository.SettingsRepository
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo *repository.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		repo:   repo,
		logger: logger,
	}
}

// GetCompanySettings returns the company details
func (s *SettingsService) GetCompanySettings(ctx context.Context) (*domain.CompanySettingsDTO, error) {
	settings, err := s.repo.GetCompanySettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get company settings: %w", err)
	}
	dto := mapper.ToCompanySettingsDTO(settings)
	return &dto, nil
}

// UpdateCompanySettings edits the provided company fields
func (s *SettingsService) UpdateCompanySettings(ctx context.Context, req *domain.UpdateCompanySettingsRequest) (*domain.CompanySettingsDTO, error) {
	settings, err := s.repo.GetCompanySettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get company settings: %w", err)
	}

	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setDecimal := func(dst *decimal.Decimal, v *float64) {
		if v != nil {
			*dst = decimal.NewFromFloat(*v)
		}
	}

	setString(&settings.CompanyName, req.CompanyName)
	setString(&settings.Website, req.Website)
	setString(&settings.Address, req.Address)
	setString(&settings.WhatsAppIndia, req.WhatsAppIndia)
	setString(&settings.WhatsAppUAE, req.WhatsAppUAE)
	setString(&settings.AdminEmail, req.AdminEmail)
	setDecimal(&settings.PricePerSqft, req.PricePerSqft)
	setDecimal(&settings.AEDToUSDRate, req.AEDToUSDRate)
	setDecimal(&settings.VATRate, req.VATRate)
	setString(&settings.ConsultantName, req.ConsultantName)
	setString(&settings.ConsultantPhone, req.ConsultantPhone)
	setString(&settings.ConsultantEmail, req.ConsultantEmail)

	if !settings.AEDToUSDRate.IsPositive() {
		return nil, fmt.Errorf("%w: aed_to_usd_rate must be positive", ErrInvalidInput)
	}

	if err := s.repo.SaveCompanySettings(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save company settings: %w", err)
	}

	s.logger.Info("company settings updated", zap.String("actor", auth.ActorName(ctx)))

	dto := mapper.ToCompanySettingsDTO(settings)
	return &dto, nil
}

// CompanySettings returns the stored settings model
func (s *SettingsService) CompanySettings(ctx context.Context) (*domain.CompanySettings, error) {
	return s.repo.GetCompanySettings(ctx)
}

// ListTemplates returns all templates, active first
func (s *SettingsService) ListTemplates(ctx context.Context) ([]domain.PDFTemplateDTO, error) {
	templates, err := s.repo.ListTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}

	dtos := make([]domain.PDFTemplateDTO, len(templates))
	for i := range templates {
		dtos[i] = mapper.ToPDFTemplateDTO(&templates[i])
	}
	return dtos, nil
}

// GetTemplate returns one template
func (s *SettingsService) GetTemplate(ctx context.Context, id uuid.UUID) (*domain.PDFTemplateDTO, error) {
	template, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToPDFTemplateDTO(template)
	return &dto, nil
}

func (s *SettingsService) getTemplate(ctx context.Context, id uuid.UUID) (*domain.PDFTemplate, error) {
	template, err := s.repo.GetTemplate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}
	return template, nil
}

// ActiveTemplate returns the active template, or the built-in look when no
// template is active
func (s *SettingsService) ActiveTemplate(ctx context.Context) (*domain.PDFTemplate, error) {
	template, err := s.repo.GetActiveTemplate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active template: %w", err)
	}
	if template == nil {
		return DefaultTemplate(), nil
	}
	return template, nil
}

// DefaultTemplate is used for documents when no template is active
func DefaultTemplate() *domain.PDFTemplate {
	return &domain.PDFTemplate{
		Name:       "Default",
		HeaderText: "Worktop Quotation",
		FooterText: "Prices include VAT. This quotation is valid for 30 days.",
		Colors: datatypes.NewJSONType(domain.TemplateColors{
			Primary:   "#1a1a1a",
			Secondary: "#6b6b6b",
			Accent:    "#b08d57",
		}),
		Fonts: datatypes.NewJSONType(domain.TemplateFonts{Heading: "helvetica", Body: "helvetica"}),
		Sections: datatypes.NewJSONType(domain.TemplateSections{
			ShowClientInfo:   true,
			ShowProjectSpecs: true,
			ShowPricing:      true,
			ShowTerms:        true,
		}),
		Layout: domain.TemplateLayoutStandard,
	}
}

// CreateTemplate stores a new template
func (s *SettingsService) CreateTemplate(ctx context.Context, req *domain.PDFTemplateRequest) (*domain.PDFTemplateDTO, error) {
	template := &domain.PDFTemplate{}
	applyTemplateRequest(template, req)

	if err := s.repo.CreateTemplate(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	s.logger.Info("template created",
		zap.String("template_id", template.ID.String()),
		zap.Bool("active", template.IsActive),
		zap.String("actor", auth.ActorName(ctx)),
	)

	dto := mapper.ToPDFTemplateDTO(template)
	return &dto, nil
}

// UpdateTemplate replaces a template
func (s *SettingsService) UpdateTemplate(ctx context.Context, id uuid.UUID, req *domain.PDFTemplateRequest) (*domain.PDFTemplateDTO, error) {
	template, err := s.getTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	applyTemplateRequest(template, req)

	if err := s.repo.UpdateTemplate(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}

	dto := mapper.ToPDFTemplateDTO(template)
	return &dto, nil
}

// ActivateTemplate makes id the only active template
func (s *SettingsService) ActivateTemplate(ctx context.Context, id uuid.UUID) (*domain.PDFTemplateDTO, error) {
	activated, err := s.repo.ActivateTemplate(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to activate template: %w", err)
	}
	if !activated {
		return nil, ErrTemplateNotFound
	}

	s.logger.Info("template activated",
		zap.String("template_id", id.String()),
		zap.String("actor", auth.ActorName(ctx)),
	)
	return s.GetTemplate(ctx, id)
}

// DeleteTemplate removes a template
func (s *SettingsService) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.DeleteTemplate(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if !deleted {
		return ErrTemplateNotFound
	}
	return nil
}

func applyTemplateRequest(t *domain.PDFTemplate, req *domain.PDFTemplateRequest) {
	t.Name = req.Name
	t.HeaderLogo = req.HeaderLogo
	t.HeaderText = req.HeaderText
	t.FooterText = req.FooterText
	if req.Colors != nil {
		t.Colors = datatypes.NewJSONType(*req.Colors)
	}
	if req.Fonts != nil {
		t.Fonts = datatypes.NewJSONType(*req.Fonts)
	}
	if req.Sections != nil {
		t.Sections = datatypes.NewJSONType(*req.Sections)
	}
	t.Layout = domain.TemplateLayoutStandard
	if req.Layout != "" {
		t.Layout = domain.TemplateLayout(req.Layout)
	}
	t.IsActive = req.IsActive
}
