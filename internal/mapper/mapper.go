package mapper

import (
	"encoding/json"
	"time"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/shopspring/decimal"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// ToBreakdownDTO converts a stored or freshly computed breakdown
func ToBreakdownDTO(b pricing.Breakdown) domain.PricingBreakdownDTO {
	addons := make([]domain.LineItemDTO, 0, len(b.Addons))
	for _, item := range b.Addons {
		addons = append(addons, domain.LineItemDTO{
			Code:      string(item.Code),
			Quantity:  item.Quantity,
			UnitPrice: money(item.UnitPrice),
			Amount:    money(item.Amount),
		})
	}

	return domain.PricingBreakdownDTO{
		MaterialCost:       money(b.MaterialCost),
		CuttingCost:        money(b.CuttingCost),
		TopPolishingCost:   money(b.TopPolishingCost),
		EdgePolishingCost:  money(b.EdgePolishingCost),
		FabricationCost:    money(b.FabricationCost),
		InstallationCost:   money(b.InstallationCost),
		AddonCost:          money(b.AddonCost),
		Addons:             addons,
		DeliveryCost:       money(b.DeliveryCost),
		Subtotal:           money(b.Subtotal),
		Margin:             money(b.Margin),
		SubtotalWithMargin: money(b.SubtotalWithMargin),
		VAT:                money(b.VAT),
		GrandTotal:         money(b.GrandTotal),
		TotalAreaSqm:       b.TotalAreaSqm.Round(4).InexactFloat64(),
		SlabsRequired:      b.SlabsRequired,
		PolicyVersion:      b.PolicyVersion,
		Currency:           b.Currency,
	}
}

// ToQuotationDTO converts a Quotation with its loaded pieces and files
func ToQuotationDTO(q *domain.Quotation) domain.QuotationDTO {
	breakdown := ToBreakdownDTO(q.Breakdown.Data())

	pieces := make([]domain.QuotationPieceDTO, 0, len(q.Pieces))
	for _, p := range q.Pieces {
		pieces = append(pieces, domain.QuotationPieceDTO{
			Label:       p.Label,
			LengthMm:    p.LengthMm.InexactFloat64(),
			WidthMm:     p.WidthMm.InexactFloat64(),
			ThicknessMm: p.ThicknessMm.InexactFloat64(),
			AreaSqm:     p.AreaSqm.Round(4).InexactFloat64(),
		})
	}

	files := make([]domain.FileDTO, 0, len(q.Files))
	for i := range q.Files {
		files = append(files, ToFileDTO(&q.Files[i]))
	}

	return domain.QuotationDTO{
		ID:                    q.ID,
		QuoteNumber:           q.QuoteNumber,
		Status:                q.Status,
		ServiceLevel:          string(q.ServiceLevel),
		MaterialSource:        string(q.MaterialSource),
		MaterialType:          q.MaterialType,
		MaterialColor:         q.MaterialColor,
		SlabSize:              q.SlabSize,
		Thickness:             q.Thickness,
		Finish:                q.Finish,
		LuxoneOthersSlabSize:  q.LuxoneOthersSlabSize,
		LuxoneOthersThickness: q.LuxoneOthersThickness,
		LuxoneOthersFinish:    q.LuxoneOthersFinish,
		LuxoneOthersColorName: q.LuxoneOthersColorName,
		BrandSupplier:         q.BrandSupplier,
		RequiredSlabs:         q.RequiredSlabs,
		PricePerSlab:          money(q.PricePerSlab),
		WorktopLayout:         q.WorktopLayout,
		SinkOption:            string(q.SinkOption),
		Timeline:              q.Timeline,
		ProjectType:           q.ProjectType,
		CustomerName:          q.CustomerName,
		CustomerEmail:         q.CustomerEmail,
		CustomerPhone:         q.CustomerPhone,
		CustomerLocation:      q.CustomerLocation,
		AdditionalComments:    q.AdditionalComments,
		DesignerName:          q.DesignerName,
		DesignerContact:       q.DesignerContact,
		DesignerEmail:         q.DesignerEmail,
		AdminNotes:            q.AdminNotes,
		PieceVersion:          q.PieceVersion,
		Pieces:                pieces,
		Pricing:               &breakdown,
		TotalAmount:           money(q.GrandTotal),
		Currency:              q.Currency,
		Files:                 files,
		CreatedAt:             formatTime(q.CreatedAt),
		UpdatedAt:             formatTime(q.UpdatedAt),
	}
}

// ToQuotationRevisionDTO converts a stored revision
func ToQuotationRevisionDTO(r *domain.QuotationRevision) domain.QuotationRevisionDTO {
	return domain.QuotationRevisionDTO{
		PieceVersion:  r.PieceVersion,
		PolicyVersion: r.PolicyVersion,
		GrandTotal:    money(r.GrandTotal),
		RevisedBy:     r.RevisedBy,
		Pricing:       ToBreakdownDTO(r.Breakdown.Data()),
		CreatedAt:     formatTime(r.CreatedAt),
	}
}

// ToQuotationSummaryDTO converts a Quotation to a list row
func ToQuotationSummaryDTO(q *domain.Quotation) domain.QuotationSummaryDTO {
	return domain.QuotationSummaryDTO{
		ID:               q.ID,
		QuoteNumber:      q.QuoteNumber,
		Status:           q.Status,
		CustomerName:     q.CustomerName,
		CustomerEmail:    q.CustomerEmail,
		CustomerLocation: q.CustomerLocation,
		MaterialSource:   string(q.MaterialSource),
		ServiceLevel:     string(q.ServiceLevel),
		TotalAmount:      money(q.GrandTotal),
		Currency:         q.Currency,
		CreatedAt:        formatTime(q.CreatedAt),
	}
}

// ToCostRuleDTO converts CostRule to CostRuleDTO
func ToCostRuleDTO(rule *domain.CostRule) domain.CostRuleDTO {
	return domain.CostRuleDTO{
		ID:          rule.ID,
		Name:        rule.Name,
		Category:    string(rule.Category),
		Type:        string(rule.Type),
		Value:       rule.Value.InexactFloat64(),
		Description: rule.Description,
		IsActive:    rule.IsActive,
		Protected:   pricing.IsProtected(pricing.RuleID(rule.ID)),
		CreatedAt:   formatTime(rule.CreatedAt),
		UpdatedAt:   formatTime(rule.UpdatedAt),
	}
}

// ToFormFieldDTO converts FormField to FormFieldDTO
func ToFormFieldDTO(f *domain.FormField) domain.FormFieldDTO {
	dto := domain.FormFieldDTO{
		ID:           f.ID,
		Type:         f.Type,
		Label:        f.Label,
		Placeholder:  f.Placeholder,
		Required:     f.Required,
		Options:      f.Options.Data(),
		StepNumber:   f.StepNumber,
		Category:     f.Category,
		DisplayOrder: f.DisplayOrder,
		IsVisible:    f.IsVisible,
		CreatedAt:    formatTime(f.CreatedAt),
		UpdatedAt:    formatTime(f.UpdatedAt),
	}
	if v := f.Validation.Data(); v.Min != nil || v.Max != nil || v.Pattern != "" {
		dto.Validation = &v
	}
	return dto
}

// ToCompanySettingsDTO converts CompanySettings to CompanySettingsDTO
func ToCompanySettingsDTO(s *domain.CompanySettings) domain.CompanySettingsDTO {
	return domain.CompanySettingsDTO{
		CompanyName:     s.CompanyName,
		Website:         s.Website,
		Address:         s.Address,
		WhatsAppIndia:   s.WhatsAppIndia,
		WhatsAppUAE:     s.WhatsAppUAE,
		AdminEmail:      s.AdminEmail,
		PricePerSqft:    s.PricePerSqft.InexactFloat64(),
		AEDToUSDRate:    s.AEDToUSDRate.InexactFloat64(),
		VATRate:         s.VATRate.InexactFloat64(),
		ConsultantName:  s.ConsultantName,
		ConsultantPhone: s.ConsultantPhone,
		ConsultantEmail: s.ConsultantEmail,
		UpdatedAt:       formatTime(s.UpdatedAt),
	}
}

// ToPDFTemplateDTO converts PDFTemplate to PDFTemplateDTO
func ToPDFTemplateDTO(t *domain.PDFTemplate) domain.PDFTemplateDTO {
	return domain.PDFTemplateDTO{
		ID:         t.ID,
		Name:       t.Name,
		HeaderLogo: t.HeaderLogo,
		HeaderText: t.HeaderText,
		FooterText: t.FooterText,
		Colors:     t.Colors.Data(),
		Fonts:      t.Fonts.Data(),
		Sections:   t.Sections.Data(),
		Layout:     t.Layout,
		IsActive:   t.IsActive,
		CreatedAt:  formatTime(t.CreatedAt),
		UpdatedAt:  formatTime(t.UpdatedAt),
	}
}

// ToAdminUserDTO converts AdminUser to AdminUserDTO
func ToAdminUserDTO(u *domain.AdminUser) domain.AdminUserDTO {
	dto := domain.AdminUserDTO{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
	if u.LastLoginAt != nil {
		dto.LastLoginAt = formatTime(*u.LastLoginAt)
	}
	return dto
}

// ToFileDTO converts File to FileDTO
func ToFileDTO(file *domain.File) domain.FileDTO {
	return domain.FileDTO{
		ID:          file.ID,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		Kind:        file.Kind,
		QuotationID: file.QuotationID,
		CreatedAt:   formatTime(file.CreatedAt),
	}
}

// ToAuditLogDTO converts AuditLog to AuditLogDTO
func ToAuditLogDTO(a *domain.AuditLog) domain.AuditLogDTO {
	dto := domain.AuditLogDTO{
		ID:         a.ID,
		Username:   a.Username,
		AuthType:   a.AuthType,
		Action:     a.Action,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		Method:     a.Method,
		Path:       a.Path,
		StatusCode: a.StatusCode,
		IPAddress:  a.IPAddress,
		RequestID:  a.RequestID,
		CreatedAt:  formatTime(a.CreatedAt),
	}
	if len(a.RequestBody) > 0 {
		dto.RequestBody = json.RawMessage(a.RequestBody)
	}
	return dto
}
