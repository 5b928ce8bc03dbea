package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Engine prices quotation specs. It holds no mutable state and may be shared.
type Engine struct {
	policy   Policy
	currency string
}

// NewEngine creates an engine for the given policy and display currency
func NewEngine(policy Policy, currency string) *Engine {
	if policy.Version == "" {
		policy = DefaultPolicy
	}
	return &Engine{policy: policy, currency: currency}
}

// Policy returns the policy the engine prices with
func (e *Engine) Policy() Policy {
	return e.policy
}

// Calculate prices spec against the rule snapshot. The only error is
// ErrInvalidInput for a spec without a pieces map.
func (e *Engine) Calculate(spec QuotationSpec, rules RuleSet) (Breakdown, error) {
	if spec.Pieces == nil {
		return Breakdown{}, fmt.Errorf("%w: pieces data is required", ErrInvalidInput)
	}

	area := spec.TotalAreaSqm()
	slabs := SlabsRequired(area)

	material := e.materialCost(spec, rules, area, slabs)

	cutting := area.Mul(rules.CuttingRate())
	topPolishing := area.Mul(rules.TopPolishingRate())
	edgePolishing := area.Mul(rules.EdgePolishingRate())
	fabrication := cutting.Add(topPolishing).Add(edgePolishing)

	installation := area.Mul(rules.InstallationRate())

	addons := e.addonLines(spec, rules)
	addon := decimal.Zero
	for _, item := range addons {
		addon = addon.Add(item.Amount)
	}

	delivery := deliveryCost(spec.Location, rules)

	subtotal := material.Add(fabrication).Add(installation).Add(addon).Add(delivery)
	margin := subtotal.Mul(rules.MarginPercent()).Div(hundred)
	withMargin := subtotal.Add(margin)
	vat := withMargin.Mul(rules.VATPercent()).Div(hundred)
	grandTotal := withMargin.Add(vat)

	return Breakdown{
		PolicyVersion:      e.policy.Version,
		Currency:           e.currency,
		MaterialCost:       roundMoney(material),
		CuttingCost:        roundMoney(cutting),
		TopPolishingCost:   roundMoney(topPolishing),
		EdgePolishingCost:  roundMoney(edgePolishing),
		FabricationCost:    roundMoney(fabrication),
		InstallationCost:   roundMoney(installation),
		AddonCost:          roundMoney(addon),
		Addons:             addons,
		DeliveryCost:       roundMoney(delivery),
		Subtotal:           roundMoney(subtotal),
		Margin:             roundMoney(margin),
		SubtotalWithMargin: roundMoney(withMargin),
		VAT:                roundMoney(vat),
		GrandTotal:         roundMoney(grandTotal),
		TotalAreaSqm:       area.Round(4),
		SlabsRequired:      slabs,
	}, nil
}

func (e *Engine) materialCost(spec QuotationSpec, rules RuleSet, area decimal.Decimal, slabs int) decimal.Decimal {
	switch spec.MaterialSource {
	case MaterialLuxone:
		if e.policy.MaterialBasis == MaterialBySlab {
			return decimal.NewFromInt(int64(slabs)).Mul(rules.MaterialBaseRate()).Mul(SlabAreaSqm)
		}
		return area.Mul(rules.MaterialBaseRate())
	case MaterialLuxoneOthers:
		if spec.RequiredSlabs <= 0 {
			return decimal.Zero
		}
		return decimal.NewFromInt(int64(spec.RequiredSlabs)).Mul(spec.PricePerSlab)
	}
	return decimal.Zero
}

func (e *Engine) addonLines(spec QuotationSpec, rules RuleSet) []LineItem {
	items := make([]LineItem, 0, 8)
	if spec.SinkOption == SinkLuxoneCustomized {
		items = append(items, lineItem(RuleSinkLuxone, 1, rules))
	}
	if !e.policy.ItemizedAddons {
		return items
	}

	f := spec.Features
	if f.CustomEdge {
		items = append(items, lineItem(RuleCustomEdge, 1, rules))
	}
	if f.SinkCutOuts > 0 {
		items = append(items, lineItem(RuleSinkCutOut, f.SinkCutOuts, rules))
	}
	if f.HobCutOuts > 0 {
		items = append(items, lineItem(RuleHobCutOut, f.HobCutOuts, rules))
	}
	if f.UnderMountedSink {
		items = append(items, lineItem(RuleUnderMountedSink, 1, rules))
	}
	if f.DrainGrooves > 0 {
		items = append(items, lineItem(RuleDrainGroove, f.DrainGrooves, rules))
	}
	if f.TapHoles > 0 {
		items = append(items, lineItem(RuleTapHole, f.TapHoles, rules))
	}
	if f.SteelFrame {
		items = append(items, lineItem(RuleSteelFrame, 1, rules))
	}
	return items
}

func lineItem(id RuleID, qty int, rules RuleSet) LineItem {
	unit := rules.Value(id)
	return LineItem{
		Code:      id,
		Quantity:  qty,
		UnitPrice: unit,
		Amount:    unit.Mul(decimal.NewFromInt(int64(qty))),
	}
}

// deliveryCost matches the trimmed location case-sensitively. A blank location
// has no delivery.
func deliveryCost(location string, rules RuleSet) decimal.Decimal {
	location = strings.TrimSpace(location)
	switch {
	case location == "":
		return decimal.Zero
	case location == DubaiLocation:
		return rules.DeliveryDubai()
	default:
		return rules.DeliveryUAE()
	}
}

func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
