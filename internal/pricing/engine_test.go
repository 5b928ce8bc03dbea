package pricing_test

import (
	"testing"

	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dim(v string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(v))
}

func piece(label, length, width, thickness string) pricing.Piece {
	return pricing.Piece{Label: label, LengthMm: dim(length), WidthMm: dim(width), ThicknessMm: dim(thickness)}
}

func defaultRuleSet() pricing.RuleSet {
	return pricing.NewCostRuleStore(pricing.DefaultRules()...).Snapshot()
}

func TestEngine_Calculate_EndToEnd(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")

	spec := pricing.QuotationSpec{
		ServiceLevel:   pricing.ServiceFabricationDeliveryInstallation,
		MaterialSource: pricing.MaterialLuxone,
		Pieces: map[string]pricing.Piece{
			"A": piece("A", "1200", "600", "20"),
			"B": piece("B", "1200", "600", "20"),
		},
		SinkOption: pricing.SinkClientProvided,
		Location:   "Dubai",
	}

	b, err := engine.Calculate(spec, defaultRuleSet())
	require.NoError(t, err)

	assert.Equal(t, "1.4400", b.TotalAreaSqm.StringFixed(4))
	assert.Equal(t, "216.00", b.MaterialCost.StringFixed(2))
	assert.Equal(t, "28.80", b.CuttingCost.StringFixed(2))
	assert.Equal(t, "72.00", b.TopPolishingCost.StringFixed(2))
	assert.Equal(t, "43.20", b.EdgePolishingCost.StringFixed(2))
	assert.Equal(t, "144.00", b.FabricationCost.StringFixed(2))
	assert.Equal(t, "201.60", b.InstallationCost.StringFixed(2))
	assert.Equal(t, "0.00", b.AddonCost.StringFixed(2))
	assert.Equal(t, "500.00", b.DeliveryCost.StringFixed(2))
	assert.Equal(t, "1061.60", b.Subtotal.StringFixed(2))
	assert.Equal(t, "212.32", b.Margin.StringFixed(2))
	assert.Equal(t, "1273.92", b.SubtotalWithMargin.StringFixed(2))
	assert.Equal(t, "63.70", b.VAT.StringFixed(2))
	assert.Equal(t, "1337.62", b.GrandTotal.StringFixed(2))
	assert.Equal(t, 1, b.SlabsRequired)
	assert.Equal(t, "area-v2", b.PolicyVersion)
	assert.Equal(t, "AED", b.Currency)
	assert.Empty(t, b.Addons)
}

func TestEngine_Calculate_NilPieces(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")

	_, err := engine.Calculate(pricing.QuotationSpec{MaterialSource: pricing.MaterialLuxone}, defaultRuleSet())
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

func TestEngine_Calculate_EmptyPieces(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")

	b, err := engine.Calculate(pricing.QuotationSpec{
		MaterialSource: pricing.MaterialLuxone,
		Pieces:         map[string]pricing.Piece{},
	}, defaultRuleSet())
	require.NoError(t, err)
	assert.True(t, b.TotalAreaSqm.IsZero())
	assert.True(t, b.GrandTotal.IsZero())
	assert.Equal(t, 0, b.SlabsRequired)
}

func TestEngine_Calculate_AreaAdditivity(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")
	rules := defaultRuleSet()

	full := map[string]pricing.Piece{
		"A": piece("A", "3000", "600", "20"),
		"B": piece("B", "1850", "650", "20"),
		"C": piece("C", "900", "900", "30"),
	}
	withIncomplete := map[string]pricing.Piece{
		"A": full["A"],
		"B": full["B"],
		"C": full["C"],
		"D": {Label: "D", LengthMm: dim("2000"), WidthMm: dim("600")},
		"E": {Label: "E"},
		"F": piece("F", "0", "600", "20"),
	}

	var sum decimal.Decimal
	for _, p := range full {
		sum = sum.Add(p.AreaSqm())
	}

	b1, err := engine.Calculate(pricing.QuotationSpec{Pieces: full}, rules)
	require.NoError(t, err)
	b2, err := engine.Calculate(pricing.QuotationSpec{Pieces: withIncomplete}, rules)
	require.NoError(t, err)

	assert.True(t, sum.Round(4).Equal(b1.TotalAreaSqm))
	assert.True(t, b1.TotalAreaSqm.Equal(b2.TotalAreaSqm))
	assert.True(t, b1.GrandTotal.Equal(b2.GrandTotal))
}

func TestSlabsRequired(t *testing.T) {
	tests := []struct {
		name string
		area string
		want int
	}{
		{name: "zero area", area: "0", want: 0},
		{name: "exactly one slab", area: "5.12", want: 1},
		{name: "just over one slab", area: "5.13", want: 2},
		{name: "small area", area: "0.01", want: 1},
		{name: "two full slabs", area: "10.24", want: 2},
		{name: "at the cap", area: "10995116272.64", want: pricing.MaxSlabs},
		{name: "beyond int64", area: "1e300", want: pricing.MaxSlabs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pricing.SlabsRequired(decimal.RequireFromString(tt.area)))
		})
	}
}

func TestEngine_Calculate_HugePieceKeepsSlabsConsistent(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")

	b, err := engine.Calculate(pricing.QuotationSpec{
		MaterialSource: pricing.MaterialLuxone,
		Pieces:         map[string]pricing.Piece{"A": piece("A", "1e308", "1e308", "20")},
	}, defaultRuleSet())
	require.NoError(t, err)
	assert.True(t, b.TotalAreaSqm.IsPositive())
	assert.Equal(t, pricing.MaxSlabs, b.SlabsRequired)
	assert.True(t, b.GrandTotal.IsPositive())
}

func TestEngine_Calculate_MaterialSource(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")
	pieces := map[string]pricing.Piece{"A": piece("A", "2000", "1000", "20")}

	tests := []struct {
		name string
		spec pricing.QuotationSpec
		want string
	}{
		{
			name: "luxone priced by area",
			spec: pricing.QuotationSpec{MaterialSource: pricing.MaterialLuxone, Pieces: pieces},
			want: "300.00",
		},
		{
			name: "luxone-others priced by slabs",
			spec: pricing.QuotationSpec{
				MaterialSource: pricing.MaterialLuxoneOthers,
				RequiredSlabs:  2,
				PricePerSlab:   pricing.ParseMoney("AED 1,200"),
				Pieces:         pieces,
			},
			want: "2400.00",
		},
		{
			name: "luxone-others without slab count",
			spec: pricing.QuotationSpec{
				MaterialSource: pricing.MaterialLuxoneOthers,
				PricePerSlab:   decimal.NewFromInt(900),
				Pieces:         pieces,
			},
			want: "0.00",
		},
		{
			name: "customer supplied material is free",
			spec: pricing.QuotationSpec{
				MaterialSource: pricing.MaterialYourself,
				RequiredSlabs:  4,
				PricePerSlab:   decimal.NewFromInt(900),
				Pieces:         pieces,
			},
			want: "0.00",
		},
		{
			name: "unknown source",
			spec: pricing.QuotationSpec{MaterialSource: "marble", Pieces: pieces},
			want: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := engine.Calculate(tt.spec, defaultRuleSet())
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.MaterialCost.StringFixed(2))
		})
	}
}

func TestEngine_Calculate_Delivery(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")

	tests := []struct {
		location string
		want     string
	}{
		{location: "Dubai", want: "500.00"},
		{location: "Abu Dhabi", want: "800.00"},
		{location: "Sharjah", want: "800.00"},
		{location: "dubai", want: "800.00"},
		{location: " Dubai ", want: "500.00"},
		{location: "Dubai\n", want: "500.00"},
		{location: "", want: "0.00"},
		{location: "   ", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			b, err := engine.Calculate(pricing.QuotationSpec{
				Pieces:   map[string]pricing.Piece{},
				Location: tt.location,
			}, defaultRuleSet())
			require.NoError(t, err)
			assert.Equal(t, tt.want, b.DeliveryCost.StringFixed(2))
		})
	}
}

func TestEngine_Calculate_SinkAddon(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")
	rules := defaultRuleSet()

	customized, err := engine.Calculate(pricing.QuotationSpec{
		Pieces:     map[string]pricing.Piece{},
		SinkOption: pricing.SinkLuxoneCustomized,
		Features:   pricing.Features{CustomEdge: true, TapHoles: 3},
	}, rules)
	require.NoError(t, err)
	assert.Equal(t, "500.00", customized.AddonCost.StringFixed(2))
	require.Len(t, customized.Addons, 1)
	assert.Equal(t, pricing.RuleSinkLuxone, customized.Addons[0].Code)

	provided, err := engine.Calculate(pricing.QuotationSpec{
		Pieces:     map[string]pricing.Piece{},
		SinkOption: pricing.SinkClientProvided,
	}, rules)
	require.NoError(t, err)
	assert.True(t, provided.AddonCost.IsZero())
}

func TestEngine_Calculate_SlabItemizedPolicy(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicySlabItemizedV1, "AED")

	b, err := engine.Calculate(pricing.QuotationSpec{
		MaterialSource: pricing.MaterialLuxone,
		Pieces:         map[string]pricing.Piece{"A": piece("A", "3000", "2000", "20")},
		SinkOption:     pricing.SinkClientProvided,
		Features: pricing.Features{
			CustomEdge:       true,
			SinkCutOuts:      1,
			HobCutOuts:       2,
			UnderMountedSink: true,
			DrainGrooves:     1,
			TapHoles:         2,
			SteelFrame:       true,
		},
	}, defaultRuleSet())
	require.NoError(t, err)

	// 6 m2 needs 2 slabs of 5.12 m2 at 150 per m2
	assert.Equal(t, 2, b.SlabsRequired)
	assert.Equal(t, "1536.00", b.MaterialCost.StringFixed(2))
	// 120 + 40 + 80 + 340 + 250 + 70 + 300
	assert.Equal(t, "1200.00", b.AddonCost.StringFixed(2))
	assert.Len(t, b.Addons, 7)
	assert.Equal(t, "slab-itemized-v1", b.PolicyVersion)
}

func TestEngine_Calculate_Idempotent(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")
	rules := defaultRuleSet()
	spec := pricing.QuotationSpec{
		MaterialSource: pricing.MaterialLuxone,
		Pieces:         map[string]pricing.Piece{"A": piece("A", "1234.5", "617.25", "20")},
		SinkOption:     pricing.SinkLuxoneCustomized,
		Location:       "Ajman",
	}

	first, err := engine.Calculate(spec, rules)
	require.NoError(t, err)
	second, err := engine.Calculate(spec, rules)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEngine_Calculate_TotalsAreConsistent(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")
	b, err := engine.Calculate(pricing.QuotationSpec{
		MaterialSource: pricing.MaterialLuxone,
		Pieces: map[string]pricing.Piece{
			"A": piece("A", "2437", "633", "20"),
			"B": piece("B", "1111", "579", "20"),
		},
		SinkOption: pricing.SinkLuxoneCustomized,
		Location:   "Fujairah",
	}, defaultRuleSet())
	require.NoError(t, err)

	assert.True(t, b.GrandTotal.GreaterThanOrEqual(b.SubtotalWithMargin))
	assert.True(t, b.SubtotalWithMargin.GreaterThanOrEqual(b.Subtotal))
	diff := b.SubtotalWithMargin.Add(b.VAT).Sub(b.GrandTotal).Abs()
	assert.True(t, diff.LessThanOrEqual(decimal.RequireFromString("0.01")))
}

func TestEngine_Calculate_RuleFallback(t *testing.T) {
	engine := pricing.NewEngine(pricing.PolicyAreaV2, "AED")
	spec := pricing.QuotationSpec{
		MaterialSource: pricing.MaterialLuxone,
		Pieces:         map[string]pricing.Piece{"A": piece("A", "1000", "1000", "20")},
	}

	store := pricing.NewCostRuleStore(pricing.DefaultRules()...)
	store.Upsert(pricing.Rule{ID: pricing.RuleMaterialBase, Category: pricing.CategoryMaterial, Type: pricing.TypePerSqm, Value: decimal.NewFromInt(200), IsActive: true})

	custom, err := engine.Calculate(spec, store.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, "200.00", custom.MaterialCost.StringFixed(2))

	require.NoError(t, store.SetActive(pricing.RuleMaterialBase, false))
	fallback, err := engine.Calculate(spec, store.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, "150.00", fallback.MaterialCost.StringFixed(2))

	require.NoError(t, store.SetActive(pricing.RuleMaterialBase, true))
	restored, err := engine.Calculate(spec, store.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, "200.00", restored.MaterialCost.StringFixed(2))

	// Earlier results are values and stay as priced
	assert.Equal(t, "150.00", fallback.MaterialCost.StringFixed(2))

	empty, err := engine.Calculate(spec, pricing.RuleSet{})
	require.NoError(t, err)
	assert.Equal(t, "150.00", empty.MaterialCost.StringFixed(2))
}

func TestPolicyByVersion(t *testing.T) {
	p, err := pricing.PolicyByVersion("")
	require.NoError(t, err)
	assert.Equal(t, pricing.PolicyAreaV2, p)

	p, err = pricing.PolicyByVersion("slab-itemized-v1")
	require.NoError(t, err)
	assert.Equal(t, pricing.PolicySlabItemizedV1, p)

	_, err = pricing.PolicyByVersion("v0")
	assert.ErrorIs(t, err, pricing.ErrUnknownPolicy)
}
