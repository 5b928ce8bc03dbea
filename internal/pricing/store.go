package pricing

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// CostRuleStore holds the process-wide cost rule table.
//
// Mutations rebuild the active snapshot under the write lock and swap it in
// whole, so a RuleSet handed out by Snapshot is never modified afterwards.
type CostRuleStore struct {
	mu       sync.RWMutex
	rules    map[RuleID]Rule
	snapshot RuleSet
}

// NewCostRuleStore creates a store seeded with rules
func NewCostRuleStore(rules ...Rule) *CostRuleStore {
	s := &CostRuleStore{rules: make(map[RuleID]Rule, len(rules))}
	for _, r := range rules {
		s.rules[r.ID] = r
	}
	s.rebuild()
	return s
}

// Get returns the value of the active rule with id, or def if there is none
func (s *CostRuleStore) Get(id RuleID, def decimal.Decimal) decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Get(id, def)
}

// Lookup returns the stored rule regardless of its active flag
func (s *CostRuleStore) Lookup(id RuleID) (Rule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rules[id]
	return r, ok
}

// Create inserts a new rule. An inactive rule with the same id is replaced.
func (s *CostRuleStore) Create(rule Rule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.rules[rule.ID]; ok && existing.IsActive {
		return fmt.Errorf("%w: %s", ErrDuplicateRuleID, rule.ID)
	}
	s.rules[rule.ID] = rule
	s.rebuild()
	return nil
}

// Upsert inserts or replaces the rule with the same id
func (s *CostRuleStore) Upsert(rule Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rules[rule.ID] = rule
	s.rebuild()
}

// Remove deletes a rule
func (s *CostRuleStore) Remove(id RuleID) error {
	if IsProtected(id) {
		return fmt.Errorf("%w: %s", ErrProtectedRule, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rules[id]; !ok {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	delete(s.rules, id)
	s.rebuild()
	return nil
}

// SetActive toggles a rule without deleting it
func (s *CostRuleStore) SetActive(id RuleID, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rules[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRuleNotFound, id)
	}
	r.IsActive = active
	s.rules[id] = r
	s.rebuild()
	return nil
}

// Replace swaps the whole table in one step
func (s *CostRuleStore) Replace(rules []Rule) {
	next := make(map[RuleID]Rule, len(rules))
	for _, r := range rules {
		next[r.ID] = r
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = next
	s.rebuild()
}

// List returns all rules ordered by category, then name, then id
func (s *CostRuleStore) List() []Rule {
	s.mu.RLock()
	out := make([]Rule, 0, len(s.rules))
	for _, r := range s.rules {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Snapshot returns the current immutable view of active rule values
func (s *CostRuleStore) Snapshot() RuleSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// rebuild must be called with the write lock held
func (s *CostRuleStore) rebuild() {
	values := make(map[RuleID]decimal.Decimal, len(s.rules))
	for id, r := range s.rules {
		if r.IsActive {
			values[id] = r.Value
		}
	}
	s.snapshot = RuleSet{values: values}
}
