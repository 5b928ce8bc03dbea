package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/luxone/quotation-api/internal/auth"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/mapper"
	"github.com/luxone/quotation-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QuotationService handles the quotation lifecycle. A quotation is priced
// once when it is submitted and again only when its pieces are revised.
type QuotationService struct {
	repo     *repository.QuotationRepository
	numbers  *NumberSequenceService
	pricing  *PricingService
	currency string
	logger   *zap.Logger
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	repo *repository.QuotationRepository,
	numbers *NumberSequenceService,
	pricing *PricingService,
	currency string,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		repo:     repo,
		numbers:  numbers,
		pricing:  pricing,
		currency: currency,
		logger:   logger,
	}
}

// Create prices and stores a form submission
func (s *QuotationService) Create(ctx context.Context, req *domain.CreateQuotationRequest) (*domain.QuotationCreatedDTO, error) {
	spec := SpecFromCreateRequest(req)

	breakdown, err := s.pricing.Calculate(ctx, spec)
	if err != nil {
		return nil, err
	}

	quoteNumber, err := s.numbers.GenerateQuoteNumber(ctx)
	if err != nil {
		return nil, err
	}

	q := &domain.Quotation{
		QuoteNumber:           quoteNumber,
		Status:                domain.QuotationStatusPending,
		ServiceLevel:          spec.ServiceLevel,
		MaterialSource:        spec.MaterialSource,
		MaterialType:          req.MaterialType,
		MaterialColor:         req.MaterialColor,
		SlabSize:              req.SlabSize,
		Thickness:             req.Thickness,
		Finish:                req.Finish,
		LuxoneOthersSlabSize:  req.LuxoneOthersSlabSize,
		LuxoneOthersThickness: req.LuxoneOthersThickness,
		LuxoneOthersFinish:    req.LuxoneOthersFinish,
		LuxoneOthersColorName: req.LuxoneOthersColorName,
		BrandSupplier:         req.BrandSupplier,
		RequiredSlabs:         spec.RequiredSlabs,
		PricePerSlab:          spec.PricePerSlab,
		WorktopLayout:         req.WorktopLayout,
		SinkOption:            spec.SinkOption,
		Features:              datatypes.NewJSONType(spec.Features),
		Timeline:              req.Timeline,
		ProjectType:           req.ProjectType,
		CustomerName:          strings.TrimSpace(req.CustomerName),
		CustomerEmail:         strings.TrimSpace(req.CustomerEmail),
		CustomerPhone:         strings.TrimSpace(req.CustomerPhone),
		CustomerLocation:      strings.TrimSpace(req.CustomerLocation),
		AdditionalComments:    req.AdditionalComments,
		DesignerName:          req.DesignerName,
		DesignerContact:       req.DesignerContact,
		DesignerEmail:         req.DesignerEmail,
		PieceVersion:          1,
		Spec:                  datatypes.NewJSONType(spec),
		Breakdown:             datatypes.NewJSONType(breakdown),
		PolicyVersion:         breakdown.PolicyVersion,
		GrandTotal:            breakdown.GrandTotal,
		Currency:              s.currency,
	}

	revision := &domain.QuotationRevision{
		Spec:          q.Spec,
		Breakdown:     q.Breakdown,
		PolicyVersion: q.PolicyVersion,
		GrandTotal:    q.GrandTotal,
		RevisedBy:     "customer",
	}

	if err := s.repo.Create(ctx, q, sortedPieces(spec), revision); err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}

	s.logger.Info("quotation created",
		zap.String("quotation_id", q.ID.String()),
		zap.String("quote_number", q.QuoteNumber),
		zap.String("grand_total", q.GrandTotal.StringFixed(2)),
		zap.String("policy", q.PolicyVersion),
	)

	return &domain.QuotationCreatedDTO{
		ID:          q.ID,
		QuoteNumber: q.QuoteNumber,
		TotalAmount: breakdown.GrandTotal.InexactFloat64(),
		Currency:    q.Currency,
		Pricing:     mapper.ToBreakdownDTO(breakdown),
	}, nil
}

// GetByID returns a quotation with its current pieces and files
func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToQuotationDTO(q)
	return &dto, nil
}

// Get returns the stored quotation model
func (s *QuotationService) Get(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	q, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return q, nil
}

// GetByQuoteNumber returns a quotation by its public quote number
func (s *QuotationService) GetByQuoteNumber(ctx context.Context, quoteNumber string) (*domain.QuotationDTO, error) {
	q, err := s.repo.GetByQuoteNumber(ctx, quoteNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	dto := mapper.ToQuotationDTO(q)
	return &dto, nil
}

// List returns a page of quotations matching filters
func (s *QuotationService) List(ctx context.Context, filters domain.QuotationFilters, page, pageSize int) (*domain.PaginatedResponse, error) {
	if filters.Status != "" && !filters.Status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, filters.Status)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	quotations, total, err := s.repo.List(ctx, filters, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	dtos := make([]domain.QuotationSummaryDTO, len(quotations))
	for i := range quotations {
		dtos[i] = mapper.ToQuotationSummaryDTO(&quotations[i])
	}

	resp := domain.NewPaginatedResponse(dtos, total, page, pageSize)
	return &resp, nil
}

// UpdateStatus moves a quotation through review
func (s *QuotationService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus) (*domain.QuotationDTO, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	changed, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update quotation status: %w", err)
	}
	if !changed {
		return nil, ErrQuotationNotFound
	}

	s.logger.Info("quotation status updated",
		zap.String("quotation_id", id.String()),
		zap.String("status", string(status)),
		zap.String("actor", auth.ActorName(ctx)),
	)

	return s.GetByID(ctx, id)
}

// UpdateDetails edits contact details and admin notes. The recorded pricing
// is never changed here.
func (s *QuotationService) UpdateDetails(ctx context.Context, id uuid.UUID, req *domain.UpdateQuotationRequest) (*domain.QuotationDTO, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = strings.TrimSpace(*v)
		}
	}
	set("customer_name", req.CustomerName)
	set("customer_email", req.CustomerEmail)
	set("customer_phone", req.CustomerPhone)
	set("additional_comments", req.AdditionalComments)
	set("designer_name", req.DesignerName)
	set("designer_contact", req.DesignerContact)
	set("designer_email", req.DesignerEmail)
	set("admin_notes", req.AdminNotes)

	if err := s.repo.UpdateDetails(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Revise replaces the piece set, re-prices with the current rules and stores
// the result as a new piece version. Earlier versions are kept.
func (s *QuotationService) Revise(ctx context.Context, id uuid.UUID, req *domain.ReviseQuotationRequest) (*domain.QuotationDTO, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	spec := q.Spec.Data()
	spec.Pieces = parsePieces(req.Pieces)

	breakdown, err := s.pricing.Calculate(ctx, spec)
	if err != nil {
		return nil, err
	}

	previous := q.GrandTotal
	q.PieceVersion++
	q.Spec = datatypes.NewJSONType(spec)
	q.Breakdown = datatypes.NewJSONType(breakdown)
	q.PolicyVersion = breakdown.PolicyVersion
	q.GrandTotal = breakdown.GrandTotal

	revision := &domain.QuotationRevision{
		Spec:          q.Spec,
		Breakdown:     q.Breakdown,
		PolicyVersion: q.PolicyVersion,
		GrandTotal:    q.GrandTotal,
		RevisedBy:     auth.ActorName(ctx),
	}

	if err := s.repo.Revise(ctx, q, sortedPieces(spec), revision); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: quotation was revised concurrently", ErrConflict)
		}
		return nil, fmt.Errorf("failed to revise quotation: %w", err)
	}

	s.logger.Info("quotation revised",
		zap.String("quotation_id", id.String()),
		zap.Int("piece_version", q.PieceVersion),
		zap.String("previous_total", previous.StringFixed(2)),
		zap.String("grand_total", q.GrandTotal.StringFixed(2)),
		zap.String("actor", revision.RevisedBy),
	)

	return s.GetByID(ctx, id)
}

// ListRevisions returns the priced history of a quotation, oldest first
func (s *QuotationService) ListRevisions(ctx context.Context, id uuid.UUID) ([]domain.QuotationRevisionDTO, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	revisions, err := s.repo.ListRevisions(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotation revisions: %w", err)
	}

	dtos := make([]domain.QuotationRevisionDTO, len(revisions))
	for i := range revisions {
		dtos[i] = mapper.ToQuotationRevisionDTO(&revisions[i])
	}
	return dtos, nil
}

// Delete removes a quotation and its history
func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	if !deleted {
		return ErrQuotationNotFound
	}

	s.logger.Info("quotation deleted",
		zap.String("quotation_id", id.String()),
		zap.String("actor", auth.ActorName(ctx)),
	)
	return nil
}

// ParseStatus validates a status string
func ParseStatus(raw string) (domain.QuotationStatus, error) {
	status := domain.QuotationStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, raw)
	}
	return status, nil
}
