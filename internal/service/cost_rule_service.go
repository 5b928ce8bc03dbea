package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxone/quotation-api/internal/auth"
	"github.com/luxone/quotation-api/internal/domain"
	"github.com/luxone/quotation-api/internal/mapper"
	"github.com/luxone/quotation-api/internal/pricing"
	"github.com/luxone/quotation-api/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CostRuleService manages cost rules. Every mutation is persisted first and
// then mirrored into the in-memory store used for pricing.
type CostRuleService struct {
	repo   *repository.CostRuleRepository
	store  *pricing.CostRuleStore
	logger *zap.Logger
}

// NewCostRuleService creates a new CostRuleService
func NewCostRuleService(repo *repository.CostRuleRepository, store *pricing.CostRuleStore, logger *zap.Logger) *CostRuleService {
	return &CostRuleService{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// List returns all cost rules grouped by category
func (s *CostRuleService) List(ctx context.Context) ([]domain.CostRuleDTO, error) {
	rules, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cost rules: %w", err)
	}

	dtos := make([]domain.CostRuleDTO, len(rules))
	for i := range rules {
		dtos[i] = mapper.ToCostRuleDTO(&rules[i])
	}
	return dtos, nil
}

// GetByID returns one cost rule
func (s *CostRuleService) GetByID(ctx context.Context, id string) (*domain.CostRuleDTO, error) {
	rule, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToCostRuleDTO(rule)
	return &dto, nil
}

func (s *CostRuleService) get(ctx context.Context, id string) (*domain.CostRule, error) {
	rule, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", pricing.ErrRuleNotFound, id)
		}
		return nil, fmt.Errorf("failed to get cost rule: %w", err)
	}
	return rule, nil
}

// Create adds a cost rule. An inactive rule with the same id is replaced; an
// active one is a conflict.
func (s *CostRuleService) Create(ctx context.Context, req *domain.CreateCostRuleRequest) (*domain.CostRuleDTO, error) {
	if req.Value == nil {
		return nil, fmt.Errorf("%w: value is required", ErrInvalidInput)
	}

	rule := &domain.CostRule{
		ID:          req.ID,
		Name:        req.Name,
		Category:    pricing.RuleCategory(req.Category),
		Type:        pricing.RuleType(req.Type),
		Value:       decimal.NewFromFloat(*req.Value),
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if !rule.Category.IsValid() || !rule.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown category or type", ErrInvalidInput)
	}

	existing, err := s.repo.GetByID(ctx, rule.ID)
	switch {
	case err == nil && existing.IsActive:
		return nil, fmt.Errorf("%w: %s", pricing.ErrDuplicateRuleID, rule.ID)
	case err == nil:
		rule.CreatedAt = existing.CreatedAt
		if err := s.repo.Update(ctx, rule); err != nil {
			return nil, fmt.Errorf("failed to replace cost rule: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.repo.Create(ctx, rule); err != nil {
			return nil, fmt.Errorf("failed to create cost rule: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to get cost rule: %w", err)
	}

	s.store.Upsert(rule.ToRule())

	s.logger.Info("cost rule created",
		zap.String("rule_id", rule.ID),
		zap.String("value", rule.Value.String()),
		zap.String("actor", auth.ActorName(ctx)),
	)

	dto := mapper.ToCostRuleDTO(rule)
	return &dto, nil
}

// Update edits the provided fields of a cost rule
func (s *CostRuleService) Update(ctx context.Context, id string, req *domain.UpdateCostRuleRequest) (*domain.CostRuleDTO, error) {
	rule, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Category != nil {
		rule.Category = pricing.RuleCategory(*req.Category)
	}
	if req.Type != nil {
		rule.Type = pricing.RuleType(*req.Type)
	}
	if req.Value != nil {
		rule.Value = decimal.NewFromFloat(*req.Value)
	}
	if req.Description != nil {
		rule.Description = *req.Description
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if !rule.Category.IsValid() || !rule.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown category or type", ErrInvalidInput)
	}

	if err := s.repo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to update cost rule: %w", err)
	}
	s.store.Upsert(rule.ToRule())

	s.logger.Info("cost rule updated",
		zap.String("rule_id", rule.ID),
		zap.String("value", rule.Value.String()),
		zap.Bool("active", rule.IsActive),
		zap.String("actor", auth.ActorName(ctx)),
	)

	dto := mapper.ToCostRuleDTO(rule)
	return &dto, nil
}

// Toggle flips the active flag of a cost rule
func (s *CostRuleService) Toggle(ctx context.Context, id string) (*domain.CostRuleDTO, error) {
	rule, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	active := !rule.IsActive
	if _, err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, fmt.Errorf("failed to toggle cost rule: %w", err)
	}
	rule.IsActive = active
	s.store.Upsert(rule.ToRule())

	s.logger.Info("cost rule toggled",
		zap.String("rule_id", id),
		zap.Bool("active", active),
		zap.String("actor", auth.ActorName(ctx)),
	)

	dto := mapper.ToCostRuleDTO(rule)
	return &dto, nil
}

// Delete removes a cost rule. Protected rules can only be deactivated.
func (s *CostRuleService) Delete(ctx context.Context, id string) error {
	if pricing.IsProtected(pricing.RuleID(id)) {
		return fmt.Errorf("%w: %s", pricing.ErrProtectedRule, id)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete cost rule: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", pricing.ErrRuleNotFound, id)
	}

	if err := s.store.Remove(pricing.RuleID(id)); err != nil && !errors.Is(err, pricing.ErrRuleNotFound) {
		return err
	}

	s.logger.Info("cost rule deleted",
		zap.String("rule_id", id),
		zap.String("actor", auth.ActorName(ctx)),
	)
	return nil
}

// SeedDefaults inserts the built-in rule table when no rules exist and
// returns the number of rules written
func (s *CostRuleService) SeedDefaults(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count cost rules: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	defaults := pricing.DefaultRules()
	for _, r := range defaults {
		row := &domain.CostRule{
			ID:          string(r.ID),
			Name:        r.Name,
			Category:    r.Category,
			Type:        r.Type,
			Value:       r.Value,
			Description: r.Description,
			IsActive:    r.IsActive,
		}
		if err := s.repo.Upsert(ctx, row); err != nil {
			return 0, fmt.Errorf("failed to seed cost rule %s: %w", r.ID, err)
		}
		s.store.Upsert(r)
	}

	s.logger.Info("seeded default cost rules", zap.Int("count", len(defaults)))
	return len(defaults), nil
}
