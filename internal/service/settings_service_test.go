package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsService_CompanySettings(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	dto, err := svc.settings.GetCompanySettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3.67, dto.AEDToUSDRate)

	updated, err := svc.settings.UpdateCompanySettings(ctx, &domain.UpdateCompanySettingsRequest{
		Website:        strPtr("https://luxone.example"),
		ConsultantName: strPtr("Omar"),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://luxone.example", updated.Website)
	assert.Equal(t, "Omar", updated.ConsultantName)
	assert.Equal(t, 3.67, updated.AEDToUSDRate)

	_, err = svc.settings.UpdateCompanySettings(ctx, &domain.UpdateCompanySettingsRequest{
		AEDToUSDRate: floatPtr(0),
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestSettingsService_ActiveTemplateDefaults(t *testing.T) {
	svc := newTestServices(t)

	template, err := svc.settings.ActiveTemplate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Default", template.Name)
	assert.True(t, template.Sections.Data().ShowPricing)
}

func TestSettingsService_Templates(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	first, err := svc.settings.CreateTemplate(ctx, &domain.PDFTemplateRequest{
		Name:     "Classic",
		Colors:   &domain.TemplateColors{Primary: "#000000", Secondary: "#333333", Accent: "#c0a060"},
		IsActive: true,
	})
	require.NoError(t, err)

	second, err := svc.settings.CreateTemplate(ctx, &domain.PDFTemplateRequest{Name: "Minimal", Layout: "minimal"})
	require.NoError(t, err)

	active, err := svc.settings.ActiveTemplate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, active.ID)

	_, err = svc.settings.ActivateTemplate(ctx, second.ID)
	require.NoError(t, err)

	active, err = svc.settings.ActiveTemplate(ctx)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, domain.TemplateLayoutMinimal, active.Layout)

	updated, err := svc.settings.UpdateTemplate(ctx, first.ID, &domain.PDFTemplateRequest{Name: "Classic 2"})
	require.NoError(t, err)
	assert.Equal(t, "Classic 2", updated.Name)

	list, err := svc.settings.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	require.NoError(t, svc.settings.DeleteTemplate(ctx, first.ID))
	assert.ErrorIs(t, svc.settings.DeleteTemplate(ctx, first.ID), service.ErrTemplateNotFound)

	_, err = svc.settings.GetTemplate(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrTemplateNotFound)
	_, err = svc.settings.ActivateTemplate(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrTemplateNotFound)
}
