package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/luxone/quotation-api/internal/document"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const quoteValidityDays = 30

var defaultTerms = []string{
	"Quote valid for 30 days from date of issue",
	"This is a preliminary estimate - actual quote will be provided after site measurements",
	"50% deposit required to commence work",
	"Final measurements will be taken on-site before fabrication",
}

// DocumentService renders quote PDFs from the stored pricing. It never
// re-prices a quotation.
type DocumentService struct {
	quotations *QuotationService
	settings   *SettingsService
	logger     *zap.Logger
}

// NewDocumentService creates a new DocumentService. The USD figure uses the
// exchange rate from company settings.
func NewDocumentService(quotations *QuotationService, settings *SettingsService, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		quotations: quotations,
		settings:   settings,
		logger:     logger,
	}
}

// Render returns the PDF bytes and a download filename for a quotation
func (s *DocumentService) Render(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	q, err := s.quotations.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}

	company, err := s.settings.CompanySettings(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get company settings: %w", err)
	}

	template, err := s.settings.ActiveTemplate(ctx)
	if err != nil {
		return nil, "", err
	}

	quote := s.buildQuote(q, company, template)

	pdf, err := document.Render(quote)
	if err != nil {
		return nil, "", fmt.Errorf("failed to render quotation %s: %w", q.QuoteNumber, err)
	}

	s.logger.Info("quotation document rendered",
		zap.String("quotation_id", id.String()),
		zap.String("quote_number", q.QuoteNumber),
		zap.Int("bytes", len(pdf)),
	)

	return pdf, q.QuoteNumber + ".pdf", nil
}

func (s *DocumentService) buildQuote(q *domain.Quotation, company *domain.CompanySettings, template *domain.PDFTemplate) document.Quote {
	b := q.Breakdown.Data()
	spec := q.Spec.Data()
	sections := template.Sections.Data()
	colors := template.Colors.Data()
	currency := q.Currency

	issued := q.CreatedAt
	if issued.IsZero() {
		issued = time.Now().UTC()
	}

	quote := document.Quote{
		CompanyName:     company.CompanyName,
		CompanyWebsite:  company.Website,
		CompanyAddress:  company.Address,
		ConsultantName:  company.ConsultantName,
		ConsultantPhone: company.ConsultantPhone,
		ConsultantEmail: company.ConsultantEmail,

		QuoteNumber: q.QuoteNumber,
		IssuedAt:    issued,
		ValidUntil:  issued.AddDate(0, 0, quoteValidityDays),

		ClientName:     q.CustomerName,
		ClientPhone:    q.CustomerPhone,
		ClientEmail:    q.CustomerEmail,
		ClientLocation: q.CustomerLocation,

		Specs: [][2]string{
			{"Material", materialText(q)},
			{"Layout", titleCase(q.WorktopLayout)},
			{"Timeline", q.Timeline},
			{"Service Level", serviceLevelText(q.ServiceLevel)},
			{"Project Type", titleCase(q.ProjectType)},
			{"Sink Option", titleCase(string(q.SinkOption))},
		},
		Pieces:   pieceLines(q, spec),
		Features: featureLines(spec.Features),
		Comments: q.AdditionalComments,

		Lines:      priceLines(b, currency),
		GrandTotal: FormatMoney(currency, b.GrandTotal),
		TaxNote:    vatNote(b),

		Terms: defaultTerms,

		ShowClientInfo:   sections.ShowClientInfo,
		ShowProjectSpecs: sections.ShowProjectSpecs,
		ShowPricing:      sections.ShowPricing,
		ShowTerms:        sections.ShowTerms,

		Style: document.Style{
			Primary:    colors.Primary,
			Secondary:  colors.Secondary,
			Accent:     colors.Accent,
			HeaderText: template.HeaderText,
			FooterText: template.FooterText,
			Minimal:    template.Layout == domain.TemplateLayoutMinimal,
		},
	}

	for _, cs := range sections.CustomSections {
		quote.CustomSections = append(quote.CustomSections, document.Section{Title: cs.Title, Content: cs.Content})
	}

	rate := company.AEDToUSDRate
	if currency == "AED" && rate.IsPositive() {
		quote.Converted = FormatMoney("USD", b.GrandTotal.Div(rate))
	}

	return quote
}

func priceLines(b pricing.Breakdown, currency string) []document.Line {
	lines := []document.Line{
		{Label: "Material", Amount: FormatMoney(currency, b.MaterialCost)},
		{Label: "Fabrication (cutting and polishing)", Amount: FormatMoney(currency, b.FabricationCost)},
	}
	if b.InstallationCost.IsPositive() {
		lines = append(lines, document.Line{Label: "Installation", Amount: FormatMoney(currency, b.InstallationCost)})
	}
	for _, item := range b.Addons {
		label := addonLabel(item.Code)
		if item.Quantity > 1 {
			label = fmt.Sprintf("%s x %d", label, item.Quantity)
		}
		lines = append(lines, document.Line{Label: label, Amount: FormatMoney(currency, item.Amount)})
	}
	lines = append(lines,
		document.Line{Label: "Delivery", Amount: FormatMoney(currency, b.DeliveryCost)},
		document.Line{Label: "Subtotal", Amount: FormatMoney(currency, b.SubtotalWithMargin), Bold: true},
		document.Line{Label: "VAT", Amount: FormatMoney(currency, b.VAT)},
	)
	return lines
}

func addonLabel(code pricing.RuleID) string {
	for _, r := range pricing.DefaultRules() {
		if r.ID == code {
			return r.Name
		}
	}
	return titleCase(string(code))
}

// vatNote derives the VAT rate from the stored amounts
func vatNote(b pricing.Breakdown) string {
	if !b.SubtotalWithMargin.IsPositive() {
		return ""
	}
	pct := b.VAT.Div(b.SubtotalWithMargin).Mul(decimal.NewFromInt(100)).Round(0)
	return fmt.Sprintf("Including VAT (%s%%)", pct.String())
}

func pieceLines(q *domain.Quotation, spec pricing.QuotationSpec) []string {
	var lines []string
	if len(q.Pieces) > 0 {
		for _, p := range q.Pieces {
			lines = append(lines, fmt.Sprintf("Piece %s: %smm x %smm x %smm",
				p.Label, p.LengthMm.String(), p.WidthMm.String(), p.ThicknessMm.String()))
		}
		return lines
	}

	labels := make([]string, 0, len(spec.Pieces))
	for label, p := range spec.Pieces {
		if p.IsComplete() {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	for _, label := range labels {
		p := spec.Pieces[label]
		lines = append(lines, fmt.Sprintf("Piece %s: %smm x %smm x %smm",
			label, p.LengthMm.Decimal.String(), p.WidthMm.Decimal.String(), p.ThicknessMm.Decimal.String()))
	}
	return lines
}

func featureLines(f pricing.Features) []string {
	var lines []string
	if f.CustomEdge {
		lines = append(lines, "Custom Edge")
	}
	if f.SinkCutOuts > 0 {
		lines = append(lines, fmt.Sprintf("Sink Cut-outs: %d", f.SinkCutOuts))
	}
	if f.HobCutOuts > 0 {
		lines = append(lines, fmt.Sprintf("Hob Cut-outs: %d", f.HobCutOuts))
	}
	if f.UnderMountedSink {
		lines = append(lines, "Under-mounted Sink")
	}
	if f.DrainGrooves > 0 {
		lines = append(lines, fmt.Sprintf("Drain Grooves: %d", f.DrainGrooves))
	}
	if f.TapHoles > 0 {
		lines = append(lines, fmt.Sprintf("Tap Holes: %d", f.TapHoles))
	}
	if f.SteelFrame {
		lines = append(lines, "Steel Frame")
	}
	return lines
}

func materialText(q *domain.Quotation) string {
	switch q.MaterialSource {
	case pricing.MaterialLuxone:
		parts := []string{"Luxone"}
		if q.MaterialType != "" {
			parts = append(parts, titleCase(q.MaterialType))
		}
		if q.MaterialColor != "" {
			parts = append(parts, "- "+q.MaterialColor)
		}
		return strings.Join(parts, " ")
	case pricing.MaterialYourself:
		return fmt.Sprintf("Customer supplied (%s, %s, %s)", orDash(q.SlabSize), orDash(q.Thickness), orDash(q.Finish))
	case pricing.MaterialLuxoneOthers:
		return fmt.Sprintf("%s %s, %d slabs", orDash(q.BrandSupplier), q.LuxoneOthersColorName, q.RequiredSlabs)
	}
	return "TBC"
}

func serviceLevelText(level pricing.ServiceLevel) string {
	switch level {
	case pricing.ServiceFabrication:
		return "Fabrication Only"
	case pricing.ServiceFabricationDelivery:
		return "Fabrication & Delivery"
	case pricing.ServiceFabricationDeliveryInstallation:
		return "Fabrication, Delivery & Installation"
	}
	return titleCase(string(level))
}

// titleCase turns "l-shape" into "L Shape"
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// FormatMoney prints an amount with thousands separators, e.g. "AED 1,337.62"
func FormatMoney(currency string, amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s %s%s.%s", currency, sign, b.String(), frac)
}
