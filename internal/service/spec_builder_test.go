package service_test

import (
	"encoding/json"
	"testing"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/luxone/quotation-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecFromCalculateRequest_DecodedJSON(t *testing.T) {
	body := `{
		"service_level": " fabrication-delivery ",
		"material_source": "yourself",
		"required_slabs": "3 slabs",
		"price_per_slab": "AED 1,250.50",
		"pieces": {
			"A": {"length": "1200", "width": 600, "thickness": "20"},
			"B": {"length": "", "width": "600", "thickness": "20"}
		},
		"sink_option": "luxone-customized",
		"customer_location": "Sharjah",
		"features": {
			"custom_edge": "YES",
			"sink_cut_out": "2",
			"hob_cut_out": 1,
			"under_mounted_sink": "NO",
			"drain_grooves": "abc",
			"tap_holes": -2,
			"steel_frame": true
		}
	}`

	var req domain.CalculatePricingRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	spec := service.SpecFromCalculateRequest(&req)
	assert.Equal(t, pricing.ServiceFabricationDelivery, spec.ServiceLevel)
	assert.Equal(t, pricing.MaterialYourself, spec.MaterialSource)
	assert.Equal(t, 3, spec.RequiredSlabs)
	assert.Equal(t, "1250.5", spec.PricePerSlab.String())
	assert.Equal(t, pricing.SinkLuxoneCustomized, spec.SinkOption)
	assert.Equal(t, "Sharjah", spec.Location)

	require.Len(t, spec.Pieces, 2)
	assert.True(t, spec.Pieces["A"].IsComplete())
	assert.False(t, spec.Pieces["B"].IsComplete())
	assert.Equal(t, "A", spec.Pieces["A"].Label)

	assert.Equal(t, pricing.Features{
		CustomEdge:  true,
		SinkCutOuts: 2,
		HobCutOuts:  1,
		SteelFrame:  true,
	}, spec.Features)
}

func TestSpecFromCalculateRequest_NilPieces(t *testing.T) {
	spec := service.SpecFromCalculateRequest(&domain.CalculatePricingRequest{})
	assert.Nil(t, spec.Pieces)

	spec = service.SpecFromCalculateRequest(&domain.CalculatePricingRequest{Pieces: map[string]domain.PieceInput{}})
	assert.NotNil(t, spec.Pieces)
	assert.Empty(t, spec.Pieces)
}

func TestSpecFromCreateRequest(t *testing.T) {
	spec := service.SpecFromCreateRequest(createRequest())
	assert.Equal(t, pricing.ServiceFabricationDeliveryInstallation, spec.ServiceLevel)
	assert.Equal(t, "Dubai", spec.Location)
	assert.Equal(t, "1.44", spec.TotalAreaSqm().String())
	assert.True(t, spec.Features.CustomEdge)
	assert.Equal(t, 1, spec.Features.SinkCutOuts)
	assert.Equal(t, 2, spec.Features.TapHoles)
}
