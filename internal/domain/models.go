package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an id when the caller did not
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CostRule is a persisted pricing parameter
type CostRule struct {
	ID          string               `gorm:"type:varchar(50);primaryKey"`
	Name        string               `gorm:"type:varchar(100);not null"`
	Category    pricing.RuleCategory `gorm:"type:varchar(50);not null;index"`
	Type        pricing.RuleType     `gorm:"type:varchar(50);not null"`
	Value       decimal.Decimal      `gorm:"type:decimal(12,4);not null;default:0"`
	Description string               `gorm:"type:text"`
	IsActive    bool                 `gorm:"not null;index"`
	CreatedAt   time.Time            `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time            `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// ToRule converts the row into the in-memory rule used by the pricing store
func (c CostRule) ToRule() pricing.Rule {
	return pricing.Rule{
		ID:          pricing.RuleID(c.ID),
		Name:        c.Name,
		Category:    c.Category,
		Type:        c.Type,
		Value:       c.Value,
		Description: c.Description,
		IsActive:    c.IsActive,
	}
}

// FormFieldType is the input control used for a form field
type FormFieldType string

const (
	FormFieldText     FormFieldType = "text"
	FormFieldSelect   FormFieldType = "select"
	FormFieldNumber   FormFieldType = "number"
	FormFieldTextarea FormFieldType = "textarea"
	FormFieldCheckbox FormFieldType = "checkbox"
	FormFieldRadio    FormFieldType = "radio"
	FormFieldFile     FormFieldType = "file"
)

// IsValid reports whether t is a known field type
func (t FormFieldType) IsValid() bool {
	switch t {
	case FormFieldText, FormFieldSelect, FormFieldNumber, FormFieldTextarea,
		FormFieldCheckbox, FormFieldRadio, FormFieldFile:
		return true
	}
	return false
}

// HasOptions reports whether the control picks from a list of options
func (t FormFieldType) HasOptions() bool {
	return t == FormFieldSelect || t == FormFieldRadio
}

// FormFieldValidation bounds the value entered in a form field
type FormFieldValidation struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
}

// FormField configures one input of the public quotation form. Fields are
// shown per wizard step, ordered by DisplayOrder.
type FormField struct {
	ID           string                                  `gorm:"type:varchar(50);primaryKey"`
	Type         FormFieldType                           `gorm:"type:varchar(20);not null"`
	Label        string                                  `gorm:"type:varchar(200);not null"`
	Placeholder  string                                  `gorm:"type:varchar(200)"`
	Required     bool                                    `gorm:"not null"`
	Options      datatypes.JSONType[[]string]            `gorm:"type:json"`
	Validation   datatypes.JSONType[FormFieldValidation] `gorm:"type:json"`
	StepNumber   int                                     `gorm:"not null;index:idx_form_fields_order"`
	Category     string                                  `gorm:"type:varchar(50)"`
	DisplayOrder int                                     `gorm:"not null;index:idx_form_fields_order"`
	IsVisible    bool                                    `gorm:"not null"`
	CreatedAt    time.Time                               `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time                               `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// QuotationStatus represents the review state of a quotation
type QuotationStatus string

const (
	QuotationStatusPending  QuotationStatus = "pending"
	QuotationStatusReviewed QuotationStatus = "reviewed"
	QuotationStatusQuoted   QuotationStatus = "quoted"
	QuotationStatusApproved QuotationStatus = "approved"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// IsValid reports whether s is a known status
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusPending, QuotationStatusReviewed, QuotationStatusQuoted,
		QuotationStatusApproved, QuotationStatusRejected:
		return true
	}
	return false
}

// AllQuotationStatuses lists statuses in workflow order
var AllQuotationStatuses = []QuotationStatus{
	QuotationStatusPending,
	QuotationStatusReviewed,
	QuotationStatusQuoted,
	QuotationStatusApproved,
	QuotationStatusRejected,
}

// Quotation is a priced customer submission.
// Spec and Breakdown are written together and never re-priced in place;
// a revision writes a new pair and bumps PieceVersion.
type Quotation struct {
	BaseModel
	QuoteNumber    string                 `gorm:"type:varchar(20);not null;uniqueIndex;column:quote_number"`
	Status         QuotationStatus        `gorm:"type:varchar(20);not null;default:'pending';index"`
	ServiceLevel   pricing.ServiceLevel   `gorm:"type:varchar(50);not null"`
	MaterialSource pricing.MaterialSource `gorm:"type:varchar(50);not null"`
	MaterialType   string                 `gorm:"type:varchar(50)"`
	MaterialColor  string                 `gorm:"type:varchar(100)"`

	// Customer supplied slabs
	SlabSize  string `gorm:"type:varchar(50)"`
	Thickness string `gorm:"type:varchar(50)"`
	Finish    string `gorm:"type:varchar(50)"`

	// Slabs sourced by Luxone from another brand
	LuxoneOthersSlabSize  string          `gorm:"type:varchar(50)"`
	LuxoneOthersThickness string          `gorm:"type:varchar(50)"`
	LuxoneOthersFinish    string          `gorm:"type:varchar(50)"`
	LuxoneOthersColorName string          `gorm:"type:varchar(100)"`
	BrandSupplier         string          `gorm:"type:varchar(100)"`
	RequiredSlabs         int             `gorm:"not null;default:0"`
	PricePerSlab          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	WorktopLayout string                                `gorm:"type:varchar(50)"`
	SinkOption    pricing.SinkOption                    `gorm:"type:varchar(50)"`
	Features      datatypes.JSONType[pricing.Features] `gorm:"type:json"`
	Timeline      string                                `gorm:"type:varchar(50)"`
	ProjectType   string                                `gorm:"type:varchar(50)"`

	CustomerName       string `gorm:"type:varchar(100);not null;index"`
	CustomerEmail      string `gorm:"type:varchar(100);index"`
	CustomerPhone      string `gorm:"type:varchar(20);not null"`
	CustomerLocation   string `gorm:"type:varchar(100);not null;index"`
	AdditionalComments string `gorm:"type:text"`

	DesignerName    string `gorm:"type:varchar(100)"`
	DesignerContact string `gorm:"type:varchar(20)"`
	DesignerEmail   string `gorm:"type:varchar(100)"`

	PieceVersion  int                                         `gorm:"not null;default:1"`
	Spec          datatypes.JSONType[pricing.QuotationSpec] `gorm:"type:json"`
	Breakdown     datatypes.JSONType[pricing.Breakdown]     `gorm:"type:json"`
	PolicyVersion string                                      `gorm:"type:varchar(50)"`
	GrandTotal    decimal.Decimal                             `gorm:"type:decimal(14,2);not null;default:0"`
	Currency      string                                      `gorm:"type:varchar(3);not null;default:'AED'"`
	AdminNotes    string                                      `gorm:"type:text"`

	Pieces []QuotationPiece `gorm:"foreignKey:QuotationID"`
	Files  []File           `gorm:"foreignKey:QuotationID"`
}

// QuotationPiece is one measured worktop segment of a piece version
type QuotationPiece struct {
	BaseModel
	QuotationID uuid.UUID       `gorm:"type:uuid;not null;index:idx_quotation_pieces_version"`
	Version     int             `gorm:"not null;default:1;index:idx_quotation_pieces_version"`
	Label       string          `gorm:"type:varchar(50);not null"`
	LengthMm    decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	WidthMm     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ThicknessMm decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	AreaSqm     decimal.Decimal `gorm:"type:decimal(12,4);not null"`
}

// QuotationRevision keeps every priced spec and breakdown pair of a quotation
type QuotationRevision struct {
	BaseModel
	QuotationID   uuid.UUID                                   `gorm:"type:uuid;not null;index"`
	PieceVersion  int                                         `gorm:"not null"`
	Spec          datatypes.JSONType[pricing.QuotationSpec] `gorm:"type:json"`
	Breakdown     datatypes.JSONType[pricing.Breakdown]     `gorm:"type:json"`
	PolicyVersion string                                      `gorm:"type:varchar(50)"`
	GrandTotal    decimal.Decimal                             `gorm:"type:decimal(14,2);not null;default:0"`
	RevisedBy     string                                      `gorm:"type:varchar(100)"`
}

// CompanySettings is a single-row table of company details shown in the
// form and printed on quote documents
type CompanySettings struct {
	ID              uint            `gorm:"primaryKey"`
	CompanyName     string          `gorm:"type:varchar(200);not null;default:'Luxone'"`
	Website         string          `gorm:"type:varchar(200)"`
	Address         string          `gorm:"type:text"`
	WhatsAppIndia   string          `gorm:"type:varchar(50);column:whatsapp_india"`
	WhatsAppUAE     string          `gorm:"type:varchar(50);column:whatsapp_uae"`
	AdminEmail      string          `gorm:"type:varchar(200)"`
	PricePerSqft    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AEDToUSDRate    decimal.Decimal `gorm:"type:decimal(12,4);not null;default:3.67;column:aed_to_usd_rate"`
	VATRate         decimal.Decimal `gorm:"type:decimal(6,2);not null;default:5;column:vat_rate"`
	ConsultantName  string          `gorm:"type:varchar(100)"`
	ConsultantPhone string          `gorm:"type:varchar(50)"`
	ConsultantEmail string          `gorm:"type:varchar(200)"`
	UpdatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// CompanySettingsID is the primary key of the single settings row
const CompanySettingsID uint = 1

// TemplateLayout is the page layout of a PDF template
type TemplateLayout string

const (
	TemplateLayoutStandard TemplateLayout = "standard"
	TemplateLayoutModern   TemplateLayout = "modern"
	TemplateLayoutMinimal  TemplateLayout = "minimal"
)

// TemplateColors are hex colors used when rendering a quote document
type TemplateColors struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// TemplateFonts names the font families for headings and body text
type TemplateFonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// CustomSection is a free-text block appended to a quote document
type CustomSection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// TemplateSections toggles the blocks printed on a quote document
type TemplateSections struct {
	ShowClientInfo   bool            `json:"showClientInfo"`
	ShowProjectSpecs bool            `json:"showProjectSpecs"`
	ShowPricing      bool            `json:"showPricing"`
	ShowTerms        bool            `json:"showTerms"`
	CustomSections   []CustomSection `json:"customSections"`
}

// PDFTemplate controls the look of rendered quote documents. At most one
// template is active.
type PDFTemplate struct {
	BaseModel
	Name       string                               `gorm:"type:varchar(100);not null"`
	HeaderLogo string                               `gorm:"type:varchar(500)"`
	HeaderText string                               `gorm:"type:text"`
	FooterText string                               `gorm:"type:text"`
	Colors     datatypes.JSONType[TemplateColors]   `gorm:"type:json"`
	Fonts      datatypes.JSONType[TemplateFonts]    `gorm:"type:json"`
	Sections   datatypes.JSONType[TemplateSections] `gorm:"type:json"`
	Layout     TemplateLayout                       `gorm:"type:varchar(20);not null;default:'standard'"`
	IsActive   bool                                 `gorm:"not null;default:false;index"`
}

// AdminUser is a staff account allowed into the admin panel
type AdminUser struct {
	BaseModel
	Username     string     `gorm:"type:varchar(50);not null;uniqueIndex"`
	Email        string     `gorm:"type:varchar(200)"`
	PasswordHash string     `gorm:"type:varchar(255);not null"`
	IsActive     bool       `gorm:"not null"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// FileKind classifies uploaded attachments
type FileKind string

const (
	FileKindPlanSketch FileKind = "plan_sketch"
	FileKindSlabPhoto  FileKind = "slab_photo"
	FileKindOther      FileKind = "other"
)

// IsValid reports whether k is a known file kind
func (k FileKind) IsValid() bool {
	return k == FileKindPlanSketch || k == FileKindSlabPhoto || k == FileKindOther
}

// File is an uploaded attachment kept in blob storage
type File struct {
	BaseModel
	Filename    string     `gorm:"type:varchar(255);not null"`
	ContentType string     `gorm:"type:varchar(100);not null"`
	Size        int64      `gorm:"not null"`
	StoragePath string     `gorm:"type:varchar(500);not null;unique"`
	Kind        FileKind   `gorm:"type:varchar(20);not null;default:'other'"`
	QuotationID *uuid.UUID `gorm:"type:uuid;index"`
}

// NumberSequence tracks the last issued quote number per prefix and year
type NumberSequence struct {
	ID           uint      `gorm:"primaryKey"`
	Prefix       string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_number_sequence_prefix_year"`
	Year         int       `gorm:"not null;uniqueIndex:idx_number_sequence_prefix_year"`
	LastSequence int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// AuditAction is the kind of change recorded in the audit trail
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
)

// IsValid reports whether a is a known audit action
func (a AuditAction) IsValid() bool {
	return a == AuditActionCreate || a == AuditActionUpdate || a == AuditActionDelete
}

// AuditLog records one successful admin change. Rows are append-only.
type AuditLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key"`
	Username    string         `gorm:"type:varchar(50);not null;index"`
	AuthType    string         `gorm:"type:varchar(20);not null"`
	Action      AuditAction    `gorm:"type:varchar(20);not null;index"`
	EntityType  string         `gorm:"type:varchar(50);not null;index:idx_audit_logs_entity"`
	EntityID    string         `gorm:"type:varchar(50);index:idx_audit_logs_entity"`
	Method      string         `gorm:"type:varchar(10);not null"`
	Path        string         `gorm:"type:varchar(500);not null"`
	StatusCode  int            `gorm:"not null"`
	RequestBody datatypes.JSON `gorm:"type:json"`
	IPAddress   string         `gorm:"type:varchar(64)"`
	RequestID   string         `gorm:"type:varchar(100)"`
	CreatedAt   time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP;index"`
}

// BeforeCreate assigns an id when the caller did not
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
