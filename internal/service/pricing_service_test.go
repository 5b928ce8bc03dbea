package service_test

import (
	"context"
	"testing"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/luxone/quotation-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingService_Preview(t *testing.T) {
	svc := newTestServices(t)

	dto, err := svc.pricing.Preview(context.Background(), &domain.CalculatePricingRequest{
		ServiceLevel:     "fabrication-delivery-installation",
		MaterialSource:   "luxone",
		Pieces:           piecesInput(),
		SinkOption:       "client-provided",
		CustomerLocation: "Dubai",
	})
	require.NoError(t, err)

	assert.Equal(t, 1.44, dto.TotalAreaSqm)
	assert.Equal(t, 216.0, dto.MaterialCost)
	assert.Equal(t, 144.0, dto.FabricationCost)
	assert.Equal(t, 201.6, dto.InstallationCost)
	assert.Equal(t, 500.0, dto.DeliveryCost)
	assert.Equal(t, 1061.6, dto.Subtotal)
	assert.Equal(t, 212.32, dto.Margin)
	assert.Equal(t, 63.7, dto.VAT)
	assert.Equal(t, 1337.62, dto.GrandTotal)
	assert.Equal(t, 1, dto.SlabsRequired)
	assert.Equal(t, "AED", dto.Currency)
}

func TestPricingService_PreviewRejectsMissingPieces(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.pricing.Preview(context.Background(), &domain.CalculatePricingRequest{
		ServiceLevel:   "fabrication",
		MaterialSource: "luxone",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestPricingService_PreviewEmptyPieces(t *testing.T) {
	svc := newTestServices(t)

	dto, err := svc.pricing.Preview(context.Background(), &domain.CalculatePricingRequest{
		ServiceLevel:     "fabrication",
		MaterialSource:   "luxone",
		Pieces:           map[string]domain.PieceInput{},
		SinkOption:       "client-provided",
		CustomerLocation: "Dubai",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, dto.TotalAreaSqm)
	assert.Equal(t, 0, dto.SlabsRequired)
}

func TestPricingService_ReloadPicksUpDatabaseChanges(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, svc.db.Model(&domain.CostRule{}).
		Where("id = ?", string(pricing.RuleDeliveryDubai)).
		Update("value", 650).Error)

	before := svc.pricing.Store().Snapshot().DeliveryDubai()
	assert.Equal(t, "500", before.String())

	require.NoError(t, svc.pricing.Reload(ctx))
	after := svc.pricing.Store().Snapshot().DeliveryDubai()
	assert.Equal(t, "650", after.String())
}

func TestPricingService_Policy(t *testing.T) {
	svc := newTestServices(t)
	assert.Equal(t, pricing.PolicyAreaV2.Version, svc.pricing.Policy().Version)
}
