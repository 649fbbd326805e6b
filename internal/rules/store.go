package rules

import (
	"errors"
	"fmt"
)

// ErrInvalidRule is returned when a rule registration or parsed rule entry is malformed.
var ErrInvalidRule = errors.New("invalid pricing rule")

// Store holds the active pricing rule for each SKU.
type Store struct {
	rules map[string]PriceRule
}

// NewStore returns an empty rule store.
func NewStore() *Store {
	return &Store{rules: make(map[string]PriceRule)}
}

// AddTierRule registers or extends the tier table for a SKU. A quantity below 1
// or a negative price fails with ErrInvalidRule. If the SKU currently carries a
// custom pricing function, the function is discarded and a fresh table is
// started containing only this threshold. The last write for a given
// (sku, quantity) pair wins.
func (s *Store) AddTierRule(sku string, qty int, price Money) error {
	key := NormalizeSKU(sku)
	if key == "" {
		return fmt.Errorf("empty sku: %w", ErrInvalidRule)
	}
	if qty < 1 {
		return fmt.Errorf("sku %s: quantity %d must be at least 1: %w", key, qty, ErrInvalidRule)
	}
	if price < 0 {
		return fmt.Errorf("sku %s: price %d must not be negative: %w", key, price, ErrInvalidRule)
	}
	rule, ok := s.rules[key]
	if !ok || rule.Custom != nil {
		rule = PriceRule{Tiers: make(TierTable)}
	}
	rule.Tiers[qty] = price
	s.rules[key] = rule
	return nil
}

// AddCustomRule registers a custom pricing function for a SKU, overwriting any
// existing tier table or function. A nil function fails with ErrInvalidRule.
func (s *Store) AddCustomRule(sku string, fn CustomPriceFunc) error {
	key := NormalizeSKU(sku)
	if key == "" {
		return fmt.Errorf("empty sku: %w", ErrInvalidRule)
	}
	if fn == nil {
		return fmt.Errorf("sku %s: nil pricing function: %w", key, ErrInvalidRule)
	}
	s.rules[key] = PriceRule{Custom: fn}
	return nil
}

// Has reports whether a rule exists for the SKU. Callers normalize before calling.
func (s *Store) Has(sku string) bool {
	_, ok := s.rules[sku]
	return ok
}

// Rule returns the active rule for a normalized SKU.
func (s *Store) Rule(sku string) (PriceRule, bool) {
	rule, ok := s.rules[sku]
	return rule, ok
}

// Len returns the number of SKUs with a registered rule.
func (s *Store) Len() int {
	return len(s.rules)
}
