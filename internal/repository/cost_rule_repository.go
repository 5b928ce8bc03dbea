package repository

import (
	"context"
	"fmt"

	"github.com/luxone/quotation-api/internal/domain"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CostRuleRepository struct {
	db *gorm.DB
}

func NewCostRuleRepository(db *gorm.DB) *CostRuleRepository {
	return &CostRuleRepository{db: db}
}

// List returns all rules ordered for display
func (r *CostRuleRepository) List(ctx context.Context) ([]domain.CostRule, error) {
	var rules []domain.CostRule
	err := r.db.WithContext(ctx).
		Order("category ASC, name ASC, id ASC").
		Find(&rules).Error
	return rules, err
}

// ListActive returns only active rules
func (r *CostRuleRepository) ListActive(ctx context.Context) ([]domain.CostRule, error) {
	var rules []domain.CostRule
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("category ASC, name ASC, id ASC").
		Find(&rules).Error
	return rules, err
}

// LoadActive returns the flat id -> value mapping of active rules
func (r *CostRuleRepository) LoadActive(ctx context.Context) (map[string]decimal.Decimal, error) {
	rules, err := r.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active cost rules: %w", err)
	}

	values := make(map[string]decimal.Decimal, len(rules))
	for _, rule := range rules {
		values[rule.ID] = rule.Value
	}
	return values, nil
}

func (r *CostRuleRepository) GetByID(ctx context.Context, id string) (*domain.CostRule, error) {
	var rule domain.CostRule
	err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *CostRuleRepository) Create(ctx context.Context, rule *domain.CostRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

// Upsert inserts the rule or overwrites every column of an existing row
func (r *CostRuleRepository) Upsert(ctx context.Context, rule *domain.CostRule) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "category", "type", "value", "description", "is_active", "updated_at"}),
		}).
		Create(rule).Error
}

func (r *CostRuleRepository) Update(ctx context.Context, rule *domain.CostRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// SetActive toggles a rule and reports whether a row was changed
func (r *CostRuleRepository) SetActive(ctx context.Context, id string, active bool) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.CostRule{}).
		Where("id = ?", id).
		Update("is_active", active)
	return result.RowsAffected > 0, result.Error
}

// Delete removes a rule and reports whether a row was deleted
func (r *CostRuleRepository) Delete(ctx context.Context, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&domain.CostRule{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *CostRuleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CostRule{}).Count(&count).Error
	return count, err
}
