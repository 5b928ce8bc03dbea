// Package pricing holds the cost rule table and the quotation pricing engine.
//
// The engine is a pure function of a QuotationSpec and a RuleSet snapshot.
// The CostRuleStore is the only shared mutable state and is safe for
// concurrent use.
package pricing

import (
	"github.com/shopspring/decimal"
)

// RuleID identifies a cost rule. The engine looks rules up by id.
type RuleID string

const (
	RuleMaterialBase  RuleID = "material_base"
	RuleCutting       RuleID = "cutting"
	RuleTopPolishing  RuleID = "top_polishing"
	RuleEdgePolishing RuleID = "edge_polishing"
	RuleInstallation  RuleID = "installation"
	RuleSinkLuxone    RuleID = "sink_luxone"
	RuleDeliveryDubai RuleID = "delivery_dubai"
	RuleDeliveryUAE   RuleID = "delivery_uae"
	RuleMargin        RuleID = "margin"
	RuleVAT           RuleID = "vat"

	// Per-feature addons, priced only by the itemized policy
	RuleCustomEdge       RuleID = "custom_edge"
	RuleSinkCutOut       RuleID = "sink_cutout"
	RuleHobCutOut        RuleID = "hob_cutout"
	RuleUnderMountedSink RuleID = "under_mounted_sink"
	RuleDrainGroove      RuleID = "drain_groove"
	RuleTapHole          RuleID = "tap_hole"
	RuleSteelFrame       RuleID = "steel_frame"
)

// RuleCategory groups rules for display in the admin panel
type RuleCategory string

const (
	CategoryMaterial     RuleCategory = "material"
	CategoryFabrication  RuleCategory = "fabrication"
	CategoryInstallation RuleCategory = "installation"
	CategoryAddon        RuleCategory = "addon"
	CategoryDelivery     RuleCategory = "delivery"
	CategoryBusiness     RuleCategory = "business"
)

// IsValid reports whether c is a known category
func (c RuleCategory) IsValid() bool {
	switch c {
	case CategoryMaterial, CategoryFabrication, CategoryInstallation,
		CategoryAddon, CategoryDelivery, CategoryBusiness:
		return true
	}
	return false
}

// RuleType documents the unit of a rule value. The engine applies each rule
// by its id, not generically by type.
type RuleType string

const (
	TypeFixed      RuleType = "fixed"
	TypePerSqm     RuleType = "per_sqm"
	TypePerPiece   RuleType = "per_piece"
	TypePercentage RuleType = "percentage"
)

// IsValid reports whether t is a known rule type
func (t RuleType) IsValid() bool {
	switch t {
	case TypeFixed, TypePerSqm, TypePerPiece, TypePercentage:
		return true
	}
	return false
}

// Rule is one named pricing parameter
type Rule struct {
	ID          RuleID
	Name        string
	Category    RuleCategory
	Type        RuleType
	Value       decimal.Decimal
	Description string
	IsActive    bool
}

var defaultRules = []Rule{
	{ID: RuleMaterialBase, Name: "Material Base Price", Category: CategoryMaterial, Type: TypePerSqm, Value: decimal.NewFromInt(150), Description: "Base price per square meter for Luxone material"},
	{ID: RuleCutting, Name: "Cutting", Category: CategoryFabrication, Type: TypePerSqm, Value: decimal.NewFromInt(20), Description: "Cutting cost per square meter"},
	{ID: RuleTopPolishing, Name: "Top Polishing", Category: CategoryFabrication, Type: TypePerSqm, Value: decimal.NewFromInt(50), Description: "Top surface polishing per square meter"},
	{ID: RuleEdgePolishing, Name: "Edge Polishing", Category: CategoryFabrication, Type: TypePerSqm, Value: decimal.NewFromInt(30), Description: "Edge polishing per square meter"},
	{ID: RuleInstallation, Name: "Installation", Category: CategoryInstallation, Type: TypePerSqm, Value: decimal.NewFromInt(140), Description: "Installation per square meter"},
	{ID: RuleSinkLuxone, Name: "Luxone Customized Sink", Category: CategoryAddon, Type: TypeFixed, Value: decimal.NewFromInt(500), Description: "Sink provided and customized by Luxone"},
	{ID: RuleDeliveryDubai, Name: "Delivery Dubai", Category: CategoryDelivery, Type: TypeFixed, Value: decimal.NewFromInt(500), Description: "Delivery within Dubai"},
	{ID: RuleDeliveryUAE, Name: "Delivery Other Emirates", Category: CategoryDelivery, Type: TypeFixed, Value: decimal.NewFromInt(800), Description: "Delivery to other emirates"},
	{ID: RuleMargin, Name: "Business Margin", Category: CategoryBusiness, Type: TypePercentage, Value: decimal.NewFromInt(20), Description: "Markup applied to the cost subtotal"},
	{ID: RuleVAT, Name: "VAT", Category: CategoryBusiness, Type: TypePercentage, Value: decimal.NewFromInt(5), Description: "Value added tax"},
	{ID: RuleCustomEdge, Name: "Custom Edge", Category: CategoryAddon, Type: TypeFixed, Value: decimal.NewFromInt(120), Description: "Custom edge profile"},
	{ID: RuleSinkCutOut, Name: "Sink Cut-out", Category: CategoryAddon, Type: TypePerPiece, Value: decimal.NewFromInt(40), Description: "Per sink cut-out"},
	{ID: RuleHobCutOut, Name: "Hob Cut-out", Category: CategoryAddon, Type: TypePerPiece, Value: decimal.NewFromInt(40), Description: "Per hob cut-out"},
	{ID: RuleUnderMountedSink, Name: "Under-mounted Sink", Category: CategoryAddon, Type: TypeFixed, Value: decimal.NewFromInt(340), Description: "Under-mounted sink fitting"},
	{ID: RuleDrainGroove, Name: "Drain Grooves", Category: CategoryAddon, Type: TypePerPiece, Value: decimal.NewFromInt(250), Description: "Per drain groove set"},
	{ID: RuleTapHole, Name: "Tap Holes", Category: CategoryAddon, Type: TypePerPiece, Value: decimal.NewFromInt(35), Description: "Per tap hole"},
	{ID: RuleSteelFrame, Name: "Steel Frame", Category: CategoryAddon, Type: TypeFixed, Value: decimal.NewFromInt(300), Description: "Steel support frame"},
}

var defaultValues = func() map[RuleID]decimal.Decimal {
	m := make(map[RuleID]decimal.Decimal, len(defaultRules))
	for _, r := range defaultRules {
		m[r.ID] = r.Value
	}
	return m
}()

// DefaultRules returns the seed rule table, all active
func DefaultRules() []Rule {
	out := make([]Rule, len(defaultRules))
	for i, r := range defaultRules {
		r.IsActive = true
		out[i] = r
	}
	return out
}

// DefaultValue returns the hard-coded fallback for id, or zero for unknown ids
func DefaultValue(id RuleID) decimal.Decimal {
	if v, ok := defaultValues[id]; ok {
		return v
	}
	return decimal.Zero
}

// IsProtected reports whether a rule may never be deleted
func IsProtected(id RuleID) bool {
	return id == RuleMaterialBase || id == RuleVAT
}

// RuleSet is an immutable snapshot of active rule values keyed by id.
// The zero value is valid and resolves every lookup to its default.
type RuleSet struct {
	values map[RuleID]decimal.Decimal
}

// NewRuleSet builds a snapshot from a flat id -> value mapping, as returned by
// the persistence layer for active rules.
func NewRuleSet(values map[string]decimal.Decimal) RuleSet {
	m := make(map[RuleID]decimal.Decimal, len(values))
	for id, v := range values {
		m[RuleID(id)] = v
	}
	return RuleSet{values: m}
}

// Get returns the active value for id, or def when the rule is absent
func (s RuleSet) Get(id RuleID, def decimal.Decimal) decimal.Decimal {
	if v, ok := s.values[id]; ok {
		return v
	}
	return def
}

// Value returns the active value for id falling back to the built-in default
func (s RuleSet) Value(id RuleID) decimal.Decimal {
	return s.Get(id, DefaultValue(id))
}

// Has reports whether an active rule with id is present in the snapshot
func (s RuleSet) Has(id RuleID) bool {
	_, ok := s.values[id]
	return ok
}

// Len returns the number of active rules in the snapshot
func (s RuleSet) Len() int {
	return len(s.values)
}

func (s RuleSet) MaterialBaseRate() decimal.Decimal  { return s.Value(RuleMaterialBase) }
func (s RuleSet) CuttingRate() decimal.Decimal       { return s.Value(RuleCutting) }
func (s RuleSet) TopPolishingRate() decimal.Decimal  { return s.Value(RuleTopPolishing) }
func (s RuleSet) EdgePolishingRate() decimal.Decimal { return s.Value(RuleEdgePolishing) }
func (s RuleSet) InstallationRate() decimal.Decimal  { return s.Value(RuleInstallation) }
func (s RuleSet) SinkLuxonePrice() decimal.Decimal   { return s.Value(RuleSinkLuxone) }
func (s RuleSet) DeliveryDubai() decimal.Decimal     { return s.Value(RuleDeliveryDubai) }
func (s RuleSet) DeliveryUAE() decimal.Decimal       { return s.Value(RuleDeliveryUAE) }
func (s RuleSet) MarginPercent() decimal.Decimal     { return s.Value(RuleMargin) }
func (s RuleSet) VATPercent() decimal.Decimal        { return s.Value(RuleVAT) }
