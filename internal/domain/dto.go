package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DTOs for API requests and responses. Keys are snake_case to match the
// quotation form frontend.

// PaginatedResponse wraps list results
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// NewPaginatedResponse computes the page count for total results
func NewPaginatedResponse(data interface{}, total int64, page, pageSize int) PaginatedResponse {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return PaginatedResponse{
		Data:       data,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// PieceInput is one piece as posted by the form. Values may be strings or
// numbers.
type PieceInput struct {
	Length    any `json:"length"`
	Width     any `json:"width"`
	Thickness any `json:"thickness"`
}

// FeaturesInput carries the design options step. Counts accept strings or
// numbers and flags accept "YES"/"NO" or booleans.
type FeaturesInput struct {
	CustomEdge       any `json:"custom_edge"`
	SinkCutOut       any `json:"sink_cut_out"`
	HobCutOut        any `json:"hob_cut_out"`
	UnderMountedSink any `json:"under_mounted_sink"`
	DrainGrooves     any `json:"drain_grooves"`
	TapHoles         any `json:"tap_holes"`
	SteelFrame       any `json:"steel_frame"`
}

// CalculatePricingRequest is the body of the pricing preview endpoint
type CalculatePricingRequest struct {
	ServiceLevel     string                `json:"service_level"`
	MaterialSource   string                `json:"material_source"`
	RequiredSlabs    any                   `json:"required_slabs"`
	PricePerSlab     any                   `json:"price_per_slab"`
	Pieces           map[string]PieceInput `json:"pieces"`
	SinkOption       string                `json:"sink_option"`
	CustomerLocation string                `json:"customer_location"`
	Features         FeaturesInput         `json:"features"`
}

// CreateQuotationRequest is the full form submission
type CreateQuotationRequest struct {
	ServiceLevel          string                `json:"service_level" validate:"required,oneof=fabrication fabrication-delivery fabrication-delivery-installation"`
	MaterialSource        string                `json:"material_source" validate:"required,oneof=luxone yourself luxone-others"`
	MaterialType          string                `json:"material_type" validate:"omitempty,max=50"`
	MaterialColor         string                `json:"material_color" validate:"omitempty,max=100"`
	SlabSize              string                `json:"slab_size" validate:"omitempty,max=50"`
	Thickness             string                `json:"thickness" validate:"omitempty,max=50"`
	Finish                string                `json:"finish" validate:"omitempty,max=50"`
	LuxoneOthersSlabSize  string                `json:"luxone_others_slab_size" validate:"omitempty,max=50"`
	LuxoneOthersThickness string                `json:"luxone_others_thickness" validate:"omitempty,max=50"`
	LuxoneOthersFinish    string                `json:"luxone_others_finish" validate:"omitempty,max=50"`
	LuxoneOthersColorName string                `json:"luxone_others_color_name" validate:"omitempty,max=100"`
	BrandSupplier         string                `json:"brand_supplier" validate:"omitempty,max=100"`
	RequiredSlabs         any                   `json:"required_slabs"`
	PricePerSlab          any                   `json:"price_per_slab"`
	WorktopLayout         string                `json:"worktop_layout" validate:"required,max=50"`
	Pieces                map[string]PieceInput `json:"pieces" validate:"required"`
	SinkOption            string                `json:"sink_option" validate:"required,oneof=client-provided luxone-customized"`
	Features              FeaturesInput         `json:"features"`
	Timeline              string                `json:"timeline" validate:"required,max=50"`
	ProjectType           string                `json:"project_type" validate:"required,max=50"`
	CustomerName          string                `json:"customer_name" validate:"required,max=100"`
	CustomerEmail         string                `json:"customer_email" validate:"omitempty,email,max=100"`
	CustomerPhone         string                `json:"customer_phone" validate:"required,max=20"`
	CustomerLocation      string                `json:"customer_location" validate:"required,max=100"`
	AdditionalComments    string                `json:"additional_comments" validate:"omitempty,max=2000"`
	DesignerName          string                `json:"designer_name" validate:"required,max=100"`
	DesignerContact       string                `json:"designer_contact" validate:"required,max=20"`
	DesignerEmail         string                `json:"designer_email" validate:"required,email,max=100"`
}

// UpdateQuotationRequest edits contact and review details. Prices are not
// touched.
type UpdateQuotationRequest struct {
	CustomerName       *string `json:"customer_name" validate:"omitempty,min=1,max=100"`
	CustomerEmail      *string `json:"customer_email" validate:"omitempty,email,max=100"`
	CustomerPhone      *string `json:"customer_phone" validate:"omitempty,min=1,max=20"`
	AdditionalComments *string `json:"additional_comments" validate:"omitempty,max=2000"`
	DesignerName       *string `json:"designer_name" validate:"omitempty,min=1,max=100"`
	DesignerContact    *string `json:"designer_contact" validate:"omitempty,min=1,max=20"`
	DesignerEmail      *string `json:"designer_email" validate:"omitempty,email,max=100"`
	AdminNotes         *string `json:"admin_notes" validate:"omitempty,max=5000"`
}

// ReviseQuotationRequest replaces the piece set and re-prices the quotation
type ReviseQuotationRequest struct {
	Pieces map[string]PieceInput `json:"pieces" validate:"required"`
}

// UpdateQuotationStatusRequest moves a quotation through review
type UpdateQuotationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed quoted approved rejected"`
}

// QuotationFilters narrows admin list results
type QuotationFilters struct {
	// Search matches customer name, customer email or quote number
	Search   string
	Status   QuotationStatus
	Location string
	// DateFrom and DateTo bound created_at inclusively
	DateFrom *time.Time
	DateTo   *time.Time
}

// LineItemDTO is one priced addon
type LineItemDTO struct {
	Code      string  `json:"code"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Amount    float64 `json:"amount"`
}

// PricingBreakdownDTO is the priced result returned to clients
type PricingBreakdownDTO struct {
	MaterialCost       float64       `json:"material_cost"`
	CuttingCost        float64       `json:"cutting_cost"`
	TopPolishingCost   float64       `json:"top_polishing_cost"`
	EdgePolishingCost  float64       `json:"edge_polishing_cost"`
	FabricationCost    float64       `json:"fabrication_cost"`
	InstallationCost   float64       `json:"installation_cost"`
	AddonCost          float64       `json:"addon_cost"`
	Addons             []LineItemDTO `json:"addons"`
	DeliveryCost       float64       `json:"delivery_cost"`
	Subtotal           float64       `json:"subtotal"`
	Margin             float64       `json:"margin"`
	SubtotalWithMargin float64       `json:"subtotal_with_margin"`
	VAT                float64       `json:"vat"`
	GrandTotal         float64       `json:"grand_total"`
	TotalAreaSqm       float64       `json:"total_area_sqm"`
	SlabsRequired      int           `json:"slabs_required"`
	PolicyVersion      string        `json:"policy_version"`
	Currency           string        `json:"currency"`
}

// QuotationPieceDTO is a stored piece
type QuotationPieceDTO struct {
	Label       string  `json:"label"`
	LengthMm    float64 `json:"length_mm"`
	WidthMm     float64 `json:"width_mm"`
	ThicknessMm float64 `json:"thickness_mm"`
	AreaSqm     float64 `json:"area_sqm"`
}

// QuotationDTO is a quotation as shown to admins
type QuotationDTO struct {
	ID                    uuid.UUID            `json:"id"`
	QuoteNumber           string               `json:"quote_id"`
	Status                QuotationStatus      `json:"status"`
	ServiceLevel          string               `json:"service_level"`
	MaterialSource        string               `json:"material_source"`
	MaterialType          string               `json:"material_type,omitempty"`
	MaterialColor         string               `json:"material_color,omitempty"`
	SlabSize              string               `json:"slab_size,omitempty"`
	Thickness             string               `json:"thickness,omitempty"`
	Finish                string               `json:"finish,omitempty"`
	LuxoneOthersSlabSize  string               `json:"luxone_others_slab_size,omitempty"`
	LuxoneOthersThickness string               `json:"luxone_others_thickness,omitempty"`
	LuxoneOthersFinish    string               `json:"luxone_others_finish,omitempty"`
	LuxoneOthersColorName string               `json:"luxone_others_color_name,omitempty"`
	BrandSupplier         string               `json:"brand_supplier,omitempty"`
	RequiredSlabs         int                  `json:"required_slabs,omitempty"`
	PricePerSlab          float64              `json:"price_per_slab,omitempty"`
	WorktopLayout         string               `json:"worktop_layout"`
	SinkOption            string               `json:"sink_option"`
	Timeline              string               `json:"timeline"`
	ProjectType           string               `json:"project_type"`
	CustomerName          string               `json:"customer_name"`
	CustomerEmail         string               `json:"customer_email,omitempty"`
	CustomerPhone         string               `json:"customer_phone"`
	CustomerLocation      string               `json:"customer_location"`
	AdditionalComments    string               `json:"additional_comments,omitempty"`
	DesignerName          string               `json:"designer_name"`
	DesignerContact       string               `json:"designer_contact"`
	DesignerEmail         string               `json:"designer_email"`
	AdminNotes            string               `json:"admin_notes,omitempty"`
	PieceVersion          int                  `json:"piece_version"`
	Pieces                []QuotationPieceDTO  `json:"pieces,omitempty"`
	Pricing               *PricingBreakdownDTO `json:"pricing,omitempty"`
	TotalAmount           float64              `json:"total_amount"`
	Currency              string               `json:"currency"`
	Files                 []FileDTO            `json:"files,omitempty"`
	CreatedAt             string               `json:"created_at"`
	UpdatedAt             string               `json:"updated_at"`
}

// QuotationRevisionDTO is one priced version of a quotation
type QuotationRevisionDTO struct {
	PieceVersion  int                 `json:"piece_version"`
	PolicyVersion string              `json:"policy_version"`
	GrandTotal    float64             `json:"grand_total"`
	RevisedBy     string              `json:"revised_by"`
	Pricing       PricingBreakdownDTO `json:"pricing"`
	CreatedAt     string              `json:"created_at"`
}

// QuotationSummaryDTO is a list row
type QuotationSummaryDTO struct {
	ID               uuid.UUID       `json:"id"`
	QuoteNumber      string          `json:"quote_id"`
	Status           QuotationStatus `json:"status"`
	CustomerName     string          `json:"customer_name"`
	CustomerEmail    string          `json:"customer_email,omitempty"`
	CustomerLocation string          `json:"customer_location"`
	MaterialSource   string          `json:"material_source"`
	ServiceLevel     string          `json:"service_level"`
	TotalAmount      float64         `json:"total_amount"`
	Currency         string          `json:"currency"`
	CreatedAt        string          `json:"created_at"`
}

// QuotationCreatedDTO is returned to the customer after submitting
type QuotationCreatedDTO struct {
	ID          uuid.UUID           `json:"id"`
	QuoteNumber string              `json:"quote_id"`
	TotalAmount float64             `json:"total_amount"`
	Currency    string              `json:"currency"`
	Pricing     PricingBreakdownDTO `json:"pricing"`
}

// CostRuleDTO is a cost rule as shown in the admin panel
type CostRuleDTO struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	Description string  `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
	Protected   bool    `json:"protected"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`
}

// CreateCostRuleRequest adds a cost rule
type CreateCostRuleRequest struct {
	ID          string   `json:"id" validate:"required,max=50"`
	Name        string   `json:"name" validate:"required,max=100"`
	Category    string   `json:"category" validate:"required,oneof=material fabrication installation addon delivery business"`
	Type        string   `json:"type" validate:"required,oneof=fixed per_sqm per_piece percentage"`
	Value       *float64 `json:"value" validate:"required,gte=0"`
	Description string   `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool    `json:"is_active"`
}

// UpdateCostRuleRequest edits a cost rule. The id cannot change.
type UpdateCostRuleRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Category    *string  `json:"category" validate:"omitempty,oneof=material fabrication installation addon delivery business"`
	Type        *string  `json:"type" validate:"omitempty,oneof=fixed per_sqm per_piece percentage"`
	Value       *float64 `json:"value" validate:"omitempty,gte=0"`
	Description *string  `json:"description" validate:"omitempty,max=1000"`
	IsActive    *bool    `json:"is_active"`
}

// FormFieldDTO is one configurable input of the quotation form
type FormFieldDTO struct {
	ID           string               `json:"id"`
	Type         FormFieldType        `json:"type"`
	Label        string               `json:"label"`
	Placeholder  string               `json:"placeholder,omitempty"`
	Required     bool                 `json:"required"`
	Options      []string             `json:"options,omitempty"`
	Validation   *FormFieldValidation `json:"validation,omitempty"`
	StepNumber   int                  `json:"step_number"`
	Category     string               `json:"category,omitempty"`
	DisplayOrder int                  `json:"display_order"`
	IsVisible    bool                 `json:"is_visible"`
	CreatedAt    string               `json:"created_at,omitempty"`
	UpdatedAt    string               `json:"updated_at,omitempty"`
}

// CreateFormFieldRequest adds a form field
type CreateFormFieldRequest struct {
	ID           string               `json:"id" validate:"required,max=50"`
	Type         FormFieldType        `json:"type" validate:"required,oneof=text select number textarea checkbox radio file"`
	Label        string               `json:"label" validate:"required,max=200"`
	Placeholder  string               `json:"placeholder" validate:"omitempty,max=200"`
	Required     bool                 `json:"required"`
	Options      []string             `json:"options" validate:"omitempty,dive,required,max=200"`
	Validation   *FormFieldValidation `json:"validation"`
	StepNumber   int                  `json:"step_number" validate:"required,min=1,max=10"`
	Category     string               `json:"category" validate:"omitempty,max=50"`
	DisplayOrder int                  `json:"display_order" validate:"required,min=1"`
	IsVisible    *bool                `json:"is_visible"`
}

// UpdateFormFieldRequest edits a form field. The id cannot change.
type UpdateFormFieldRequest struct {
	Type         *FormFieldType       `json:"type" validate:"omitempty,oneof=text select number textarea checkbox radio file"`
	Label        *string              `json:"label" validate:"omitempty,min=1,max=200"`
	Placeholder  *string              `json:"placeholder" validate:"omitempty,max=200"`
	Required     *bool                `json:"required"`
	Options      []string             `json:"options" validate:"omitempty,dive,required,max=200"`
	Validation   *FormFieldValidation `json:"validation"`
	StepNumber   *int                 `json:"step_number" validate:"omitempty,min=1,max=10"`
	Category     *string              `json:"category" validate:"omitempty,max=50"`
	DisplayOrder *int                 `json:"display_order" validate:"omitempty,min=1"`
	IsVisible    *bool                `json:"is_visible"`
}

// IsEmpty reports whether the request changes nothing
func (r *UpdateFormFieldRequest) IsEmpty() bool {
	return r.Type == nil && r.Label == nil && r.Placeholder == nil && r.Required == nil &&
		r.Options == nil && r.Validation == nil && r.StepNumber == nil && r.Category == nil &&
		r.DisplayOrder == nil && r.IsVisible == nil
}

// CompanySettingsDTO holds company details
type CompanySettingsDTO struct {
	CompanyName     string  `json:"company_name"`
	Website         string  `json:"website"`
	Address         string  `json:"address"`
	WhatsAppIndia   string  `json:"whatsapp_india"`
	WhatsAppUAE     string  `json:"whatsapp_uae"`
	AdminEmail      string  `json:"admin_email"`
	PricePerSqft    float64 `json:"price_per_sqft"`
	AEDToUSDRate    float64 `json:"aed_to_usd_rate"`
	VATRate         float64 `json:"vat_rate"`
	ConsultantName  string  `json:"consultant_name"`
	ConsultantPhone string  `json:"consultant_phone"`
	ConsultantEmail string  `json:"consultant_email"`
	UpdatedAt       string  `json:"updated_at,omitempty"`
}

// UpdateCompanySettingsRequest edits company details
type UpdateCompanySettingsRequest struct {
	CompanyName     *string  `json:"company_name" validate:"omitempty,min=1,max=200"`
	Website         *string  `json:"website" validate:"omitempty,max=200"`
	Address         *string  `json:"address" validate:"omitempty,max=1000"`
	WhatsAppIndia   *string  `json:"whatsapp_india" validate:"omitempty,max=50"`
	WhatsAppUAE     *string  `json:"whatsapp_uae" validate:"omitempty,max=50"`
	AdminEmail      *string  `json:"admin_email" validate:"omitempty,email,max=200"`
	PricePerSqft    *float64 `json:"price_per_sqft" validate:"omitempty,gte=0"`
	AEDToUSDRate    *float64 `json:"aed_to_usd_rate" validate:"omitempty,gt=0"`
	VATRate         *float64 `json:"vat_rate" validate:"omitempty,gte=0,lte=100"`
	ConsultantName  *string  `json:"consultant_name" validate:"omitempty,max=100"`
	ConsultantPhone *string  `json:"consultant_phone" validate:"omitempty,max=50"`
	ConsultantEmail *string  `json:"consultant_email" validate:"omitempty,email,max=200"`
}

// PDFTemplateDTO is a quote document template
type PDFTemplateDTO struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	HeaderLogo string           `json:"header_logo,omitempty"`
	HeaderText string           `json:"header_text,omitempty"`
	FooterText string           `json:"footer_text,omitempty"`
	Colors     TemplateColors   `json:"colors"`
	Fonts      TemplateFonts    `json:"fonts"`
	Sections   TemplateSections `json:"sections"`
	Layout     TemplateLayout   `json:"layout"`
	IsActive   bool             `json:"is_active"`
	CreatedAt  string           `json:"created_at"`
	UpdatedAt  string           `json:"updated_at"`
}

// PDFTemplateRequest creates or replaces a template
type PDFTemplateRequest struct {
	Name       string            `json:"name" validate:"required,max=100"`
	HeaderLogo string            `json:"header_logo" validate:"omitempty,max=500"`
	HeaderText string            `json:"header_text" validate:"omitempty,max=2000"`
	FooterText string            `json:"footer_text" validate:"omitempty,max=2000"`
	Colors     *TemplateColors   `json:"colors"`
	Fonts      *TemplateFonts    `json:"fonts"`
	Sections   *TemplateSections `json:"sections"`
	Layout     string            `json:"layout" validate:"omitempty,oneof=standard modern minimal"`
	IsActive   bool              `json:"is_active"`
}

// LoginRequest authenticates an admin
type LoginRequest struct {
	Username string `json:"username" validate:"required,max=50"`
	Password string `json:"password" validate:"required,max=200"`
}

// LoginResponse carries the issued bearer token
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt string       `json:"expires_at"`
	User      AdminUserDTO `json:"user"`
}

// AdminUserDTO is the public view of an admin account
type AdminUserDTO struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email,omitempty"`
	LastLoginAt string    `json:"last_login_at,omitempty"`
}

// FileDTO is an uploaded attachment
type FileDTO struct {
	ID          uuid.UUID  `json:"id"`
	Filename    string     `json:"filename"`
	ContentType string     `json:"content_type"`
	Size        int64      `json:"size"`
	Kind        FileKind   `json:"kind"`
	QuotationID *uuid.UUID `json:"quotation_id,omitempty"`
	CreatedAt   string     `json:"created_at"`
}

// FileFilters narrows the admin file listing
type FileFilters struct {
	Kind        FileKind
	QuotationID *uuid.UUID
}

// CountDTO is a labelled count used by dashboard breakdowns
type CountDTO struct {
	Label string  `json:"label"`
	Count int64   `json:"count"`
	Value float64 `json:"value"`
}

// MonthlyCountDTO is the number of quotations created in a month
type MonthlyCountDTO struct {
	Month string  `json:"month"`
	Count int64   `json:"count"`
	Value float64 `json:"value"`
}

// DashboardDTO aggregates admin dashboard statistics
type DashboardDTO struct {
	TotalQuotations  int64                 `json:"total_quotations"`
	TotalValue       float64               `json:"total_value"`
	AverageValue     float64               `json:"average_value"`
	ByStatus         map[string]int64      `json:"by_status"`
	ByLocation       []CountDTO            `json:"by_location"`
	ByMaterial       []CountDTO            `json:"by_material"`
	Monthly          []MonthlyCountDTO     `json:"monthly"`
	RecentQuotations []QuotationSummaryDTO `json:"recent_quotations"`
	Currency         string                `json:"currency"`
}

// AnalyticsDTO summarises quotation activity over a recent period
type AnalyticsDTO struct {
	PeriodDays       int                    `json:"period_days"`
	StartDate        string                 `json:"start_date"`
	QuoteTrends      []DailyTrendDTO        `json:"quote_trends"`
	ConversionStats  ConversionStatsDTO     `json:"conversion_stats"`
	ServiceAnalytics []ServiceLevelStatsDTO `json:"service_analytics"`
	TopDesigners     []DesignerStatsDTO     `json:"top_designers"`
	Currency         string                 `json:"currency"`
	GeneratedAt      string                 `json:"generated_at"`
}

// DailyTrendDTO is the quotation count and average value of one day
type DailyTrendDTO struct {
	Date          string  `json:"date"`
	Quotes        int64   `json:"quotes"`
	AverageAmount float64 `json:"avg_amount"`
}

// ConversionStatsDTO counts quotations by outcome. Pending covers every
// status still under review.
type ConversionStatsDTO struct {
	TotalQuotes    int64   `json:"total_quotes"`
	ApprovedQuotes int64   `json:"approved_quotes"`
	RejectedQuotes int64   `json:"rejected_quotes"`
	PendingQuotes  int64   `json:"pending_quotes"`
	ConversionRate float64 `json:"conversion_rate"`
}

// ServiceLevelStatsDTO is the value spread of quotations for one service level
type ServiceLevelStatsDTO struct {
	ServiceLevel  string  `json:"service_level"`
	Count         int64   `json:"count"`
	AverageAmount float64 `json:"avg_amount"`
	MinAmount     float64 `json:"min_amount"`
	MaxAmount     float64 `json:"max_amount"`
}

// DesignerStatsDTO is the quotation volume referred by one designer
type DesignerStatsDTO struct {
	DesignerName      string  `json:"designer_name"`
	DesignerEmail     string  `json:"designer_email"`
	QuoteCount        int64   `json:"quote_count"`
	AverageQuoteValue float64 `json:"avg_quote_value"`
}

// AuditLogFilters narrows the audit trail listing
type AuditLogFilters struct {
	Username   string
	Action     AuditAction
	EntityType string
	EntityID   string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// AuditLogDTO is one audit trail entry
type AuditLogDTO struct {
	ID          uuid.UUID       `json:"id"`
	Username    string          `json:"username"`
	AuthType    string          `json:"auth_type"`
	Action      AuditAction     `json:"action"`
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id,omitempty"`
	Method      string          `json:"method"`
	Path        string          `json:"path"`
	StatusCode  int             `json:"status_code"`
	RequestBody json.RawMessage `json:"request_body,omitempty"`
	IPAddress   string          `json:"ip_address,omitempty"`
	RequestID   string          `json:"request_id,omitempty"`
	CreatedAt   string          `json:"created_at"`
}
