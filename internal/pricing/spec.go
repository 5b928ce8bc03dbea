package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

type ServiceLevel string

const (
	ServiceFabrication                     ServiceLevel = "fabrication"
	ServiceFabricationDelivery             ServiceLevel = "fabrication-delivery"
	ServiceFabricationDeliveryInstallation ServiceLevel = "fabrication-delivery-installation"
)

type MaterialSource string

const (
	MaterialLuxone       MaterialSource = "luxone"
	MaterialYourself     MaterialSource = "yourself"
	MaterialLuxoneOthers MaterialSource = "luxone-others"
)

type SinkOption string

const (
	SinkClientProvided   SinkOption = "client-provided"
	SinkLuxoneCustomized SinkOption = "luxone-customized"
)

// DubaiLocation is the only location priced at the local delivery rate
const DubaiLocation = "Dubai"

// SlabAreaSqm is the usable area of one standard slab
var SlabAreaSqm = decimal.RequireFromString("5.12")

// MaxSlabs caps SlabsRequired for areas too large to count in an int
const MaxSlabs = math.MaxInt32

var (
	hundred   = decimal.NewFromInt(100)
	mm2PerSqm = decimal.NewFromInt(1_000_000)
	maxSlabs  = decimal.NewFromInt(MaxSlabs)
)

// Piece is one worktop segment measured in millimetres
type Piece struct {
	Label       string              `json:"label"`
	LengthMm    decimal.NullDecimal `json:"length_mm"`
	WidthMm     decimal.NullDecimal `json:"width_mm"`
	ThicknessMm decimal.NullDecimal `json:"thickness_mm"`
}

// IsComplete reports whether the piece contributes to the total area
func (p Piece) IsComplete() bool {
	return positive(p.LengthMm) && positive(p.WidthMm) && positive(p.ThicknessMm)
}

// AreaSqm returns the surface area of a complete piece, or zero
func (p Piece) AreaSqm() decimal.Decimal {
	if !p.IsComplete() {
		return decimal.Zero
	}
	return p.LengthMm.Decimal.Mul(p.WidthMm.Decimal).Div(mm2PerSqm)
}

func positive(d decimal.NullDecimal) bool {
	return d.Valid && d.Decimal.IsPositive()
}

// Features are the optional design extras chosen in the form
type Features struct {
	CustomEdge       bool `json:"custom_edge"`
	SinkCutOuts      int  `json:"sink_cut_outs"`
	HobCutOuts       int  `json:"hob_cut_outs"`
	UnderMountedSink bool `json:"under_mounted_sink"`
	DrainGrooves     int  `json:"drain_grooves"`
	TapHoles         int  `json:"tap_holes"`
	SteelFrame       bool `json:"steel_frame"`
}

// QuotationSpec is the pricing-relevant part of a customer submission
type QuotationSpec struct {
	ServiceLevel   ServiceLevel     `json:"service_level"`
	MaterialSource MaterialSource   `json:"material_source"`
	RequiredSlabs  int              `json:"required_slabs"`
	PricePerSlab   decimal.Decimal  `json:"price_per_slab"`
	Pieces         map[string]Piece `json:"pieces"`
	SinkOption     SinkOption       `json:"sink_option"`
	Location       string           `json:"location"`
	Features       Features         `json:"features"`
}

// TotalAreaSqm sums the area of complete pieces
func (s QuotationSpec) TotalAreaSqm() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Pieces {
		total = total.Add(p.AreaSqm())
	}
	return total
}

// SlabsRequired returns the number of standard slabs needed to cover area
func SlabsRequired(area decimal.Decimal) int {
	if !area.IsPositive() {
		return 0
	}
	slabs := area.Div(SlabAreaSqm).Ceil()
	if slabs.GreaterThan(maxSlabs) {
		return MaxSlabs
	}
	return int(slabs.IntPart())
}

// LineItem is one priced addon
type LineItem struct {
	Code      RuleID          `json:"code"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// Breakdown is the priced result of a QuotationSpec. Money fields are rounded
// to 2 decimal places and the area to 4.
type Breakdown struct {
	PolicyVersion      string          `json:"policy_version"`
	Currency           string          `json:"currency"`
	MaterialCost       decimal.Decimal `json:"material_cost"`
	CuttingCost        decimal.Decimal `json:"cutting_cost"`
	TopPolishingCost   decimal.Decimal `json:"top_polishing_cost"`
	EdgePolishingCost  decimal.Decimal `json:"edge_polishing_cost"`
	FabricationCost    decimal.Decimal `json:"fabrication_cost"`
	InstallationCost   decimal.Decimal `json:"installation_cost"`
	AddonCost          decimal.Decimal `json:"addon_cost"`
	Addons             []LineItem      `json:"addons"`
	DeliveryCost       decimal.Decimal `json:"delivery_cost"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	Margin             decimal.Decimal `json:"margin"`
	SubtotalWithMargin decimal.Decimal `json:"subtotal_with_margin"`
	VAT                decimal.Decimal `json:"vat"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
	TotalAreaSqm       decimal.Decimal `json:"total_area_sqm"`
	SlabsRequired      int             `json:"slabs_required"`
}
