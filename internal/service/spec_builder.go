package service

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/shopspring/decimal"
)

// SpecFromCalculateRequest converts a pricing preview body into a spec
func SpecFromCalculateRequest(req *domain.CalculatePricingRequest) pricing.QuotationSpec {
	return pricing.QuotationSpec{
		ServiceLevel:   pricing.ServiceLevel(strings.TrimSpace(req.ServiceLevel)),
		MaterialSource: pricing.MaterialSource(strings.TrimSpace(req.MaterialSource)),
		RequiredSlabs:  pricing.ParseCount(req.RequiredSlabs),
		PricePerSlab:   parseMoneyValue(req.PricePerSlab),
		Pieces:         parsePieces(req.Pieces),
		SinkOption:     pricing.SinkOption(strings.TrimSpace(req.SinkOption)),
		Location:       req.CustomerLocation,
		Features:       parseFeatures(req.Features),
	}
}

// SpecFromCreateRequest extracts the priced part of a form submission
func SpecFromCreateRequest(req *domain.CreateQuotationRequest) pricing.QuotationSpec {
	return pricing.QuotationSpec{
		ServiceLevel:   pricing.ServiceLevel(req.ServiceLevel),
		MaterialSource: pricing.MaterialSource(req.MaterialSource),
		RequiredSlabs:  pricing.ParseCount(req.RequiredSlabs),
		PricePerSlab:   parseMoneyValue(req.PricePerSlab),
		Pieces:         parsePieces(req.Pieces),
		SinkOption:     pricing.SinkOption(req.SinkOption),
		Location:       req.CustomerLocation,
		Features:       parseFeatures(req.Features),
	}
}

// parsePieces keeps a nil map nil so the engine can reject it
func parsePieces(in map[string]domain.PieceInput) map[string]pricing.Piece {
	if in == nil {
		return nil
	}
	out := make(map[string]pricing.Piece, len(in))
	for label, p := range in {
		out[label] = pricing.Piece{
			Label:       label,
			LengthMm:    pricing.ParseDimension(p.Length),
			WidthMm:     pricing.ParseDimension(p.Width),
			ThicknessMm: pricing.ParseDimension(p.Thickness),
		}
	}
	return out
}

// sortedPieces returns the complete pieces of spec ordered by label
func sortedPieces(spec pricing.QuotationSpec) []domain.QuotationPiece {
	labels := make([]string, 0, len(spec.Pieces))
	for label := range spec.Pieces {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	pieces := make([]domain.QuotationPiece, 0, len(labels))
	for _, label := range labels {
		p := spec.Pieces[label]
		if !p.IsComplete() {
			continue
		}
		pieces = append(pieces, domain.QuotationPiece{
			Label:       label,
			LengthMm:    p.LengthMm.Decimal,
			WidthMm:     p.WidthMm.Decimal,
			ThicknessMm: p.ThicknessMm.Decimal,
			AreaSqm:     p.AreaSqm().Round(4),
		})
	}
	return pieces
}

func parseFeatures(in domain.FeaturesInput) pricing.Features {
	return pricing.Features{
		CustomEdge:       parseFlag(in.CustomEdge),
		SinkCutOuts:      pricing.ParseCount(in.SinkCutOut),
		HobCutOuts:       pricing.ParseCount(in.HobCutOut),
		UnderMountedSink: parseFlag(in.UnderMountedSink),
		DrainGrooves:     pricing.ParseCount(in.DrainGrooves),
		TapHoles:         pricing.ParseCount(in.TapHoles),
		SteelFrame:       parseFlag(in.SteelFrame),
	}
}

// parseFlag accepts the form's "YES"/"NO" radio values as well as booleans
func parseFlag(raw any) bool {
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "yes", "true", "1", "on":
			return true
		}
	case float64:
		return v > 0
	case json.Number:
		return parseFlag(string(v))
	}
	return false
}

// parseMoneyValue accepts free text like "AED 1,200" or a JSON number
func parseMoneyValue(raw any) decimal.Decimal {
	switch v := raw.(type) {
	case string:
		return pricing.ParseMoney(v)
	case float64:
		if v < 0 {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v)
	case int:
		if v < 0 {
			return decimal.Zero
		}
		return decimal.NewFromInt(int64(v))
	case json.Number:
		return pricing.ParseMoney(string(v))
	}
	return decimal.Zero
}
