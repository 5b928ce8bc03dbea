package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/mapper"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/luxone/quotation-api/internal/repository"
	"go.uber.org/zap"
)

// PricingService prices specs against the in-memory cost rule table and keeps
// that table in step with the database.
type PricingService struct {
	store    *pricing.CostRuleStore
	engine   *pricing.Engine
	ruleRepo *repository.CostRuleRepository
	logger   *zap.Logger
}

// NewPricingService creates a new PricingService
func NewPricingService(
	store *pricing.CostRuleStore,
	engine *pricing.Engine,
	ruleRepo *repository.CostRuleRepository,
	logger *zap.Logger,
) *PricingService {
	return &PricingService{
		store:    store,
		engine:   engine,
		ruleRepo: ruleRepo,
		logger:   logger,
	}
}

// Store returns the rule table shared with CostRuleService
func (s *PricingService) Store() *pricing.CostRuleStore {
	return s.store
}

// Policy returns the configured pricing policy
func (s *PricingService) Policy() pricing.Policy {
	return s.engine.Policy()
}

// Calculate prices spec with one snapshot of the current rules
func (s *PricingService) Calculate(ctx context.Context, spec pricing.QuotationSpec) (pricing.Breakdown, error) {
	if err := ctx.Err(); err != nil {
		return pricing.Breakdown{}, err
	}

	breakdown, err := s.engine.Calculate(spec, s.store.Snapshot())
	if err != nil {
		if errors.Is(err, pricing.ErrInvalidInput) {
			return pricing.Breakdown{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return pricing.Breakdown{}, err
	}
	return breakdown, nil
}

// Preview prices a calculate request without storing anything
func (s *PricingService) Preview(ctx context.Context, req *domain.CalculatePricingRequest) (*domain.PricingBreakdownDTO, error) {
	breakdown, err := s.Calculate(ctx, SpecFromCalculateRequest(req))
	if err != nil {
		return nil, err
	}
	dto := mapper.ToBreakdownDTO(breakdown)
	return &dto, nil
}

// Reload replaces the in-memory rule table with the persisted rules. The
// table is swapped in one step so no calculation sees a partial load.
func (s *PricingService) Reload(ctx context.Context) error {
	rows, err := s.ruleRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cost rules: %w", err)
	}

	rules := make([]pricing.Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, row.ToRule())
	}
	s.store.Replace(rules)

	s.logger.Debug("cost rules reloaded",
		zap.Int("rules", len(rules)),
		zap.Int("active", s.store.Snapshot().Len()),
	)
	return nil
}
