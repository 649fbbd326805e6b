package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/giuspe/poc-checkout/internal/rules"
)

// Money represents a monetary value stored in minor units.
type Money = rules.Money

var (
	// ErrNoRulesConfigured is returned when a total is requested with zero registered rules.
	ErrNoRulesConfigured = errors.New("no pricing rules configured")
	// ErrIncompleteRuleCoverage is returned when tiered decomposition leaves residual units unpriced.
	ErrIncompleteRuleCoverage = errors.New("pricing rules do not cover quantity")
	// ErrUnknownItem is returned when an item has no registered rule at all. The
	// cart rejects such items at add time, so only direct engine callers see it.
	ErrUnknownItem = errors.New("item has no pricing rule")
)

// TotalModifier rewrites a running cart total. Modifiers run strictly in
// registration order, each receiving the output of the previous one together
// with a read-only snapshot of the cart.
type TotalModifier func(total Money, items map[string]int) Money

// Total computes the cart total for the given items against the rule store,
// then folds the modifiers over the result.
//
// The empty-rules check runs before the empty-cart short-circuit, so an empty
// cart with zero rules still fails while an empty cart with at least one rule
// returns 0.
func Total(items map[string]int, store *rules.Store, modifiers []TotalModifier) (Money, error) {
	if store == nil || store.Len() == 0 {
		return 0, ErrNoRulesConfigured
	}
	if len(items) == 0 {
		return 0, nil
	}

	// SKUs are priced in sorted order so failures and logs are stable run to run.
	skus := make([]string, 0, len(items))
	for sku := range items {
		skus = append(skus, sku)
	}
	sort.Strings(skus)

	var total Money
	for _, sku := range skus {
		qty := items[sku]
		if qty <= 0 {
			continue
		}
		rule, ok := store.Rule(sku)
		if !ok {
			return 0, fmt.Errorf("sku %s: %w", sku, ErrUnknownItem)
		}
		if rule.IsCustom() {
			total += rule.Custom(qty)
			continue
		}
		subtotal, err := decompose(sku, qty, rule.Tiers)
		if err != nil {
			return 0, err
		}
		total += subtotal
	}

	if len(modifiers) > 0 {
		snapshot := make(map[string]int, len(items))
		for sku, qty := range items {
			snapshot[sku] = qty
		}
		for _, modify := range modifiers {
			total = modify(total, snapshot)
		}
	}
	return total, nil
}

// decompose greedily consumes qty with the largest thresholds first. Residual
// units after all thresholds are exhausted are fatal: silently dropping them
// would under-charge.
func decompose(sku string, qty int, tiers rules.TierTable) (Money, error) {
	thresholds := make([]int, 0, len(tiers))
	for t := range tiers {
		thresholds = append(thresholds, t)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(thresholds)))

	var subtotal Money
	remaining := qty
	for _, t := range thresholds {
		if remaining == 0 {
			break
		}
		if remaining < t {
			continue
		}
		clusters := remaining / t
		subtotal += Money(clusters) * tiers[t]
		remaining %= t
	}
	if remaining > 0 {
		return 0, fmt.Errorf("sku %s leaves %d unit(s) unpriced: %w", sku, remaining, ErrIncompleteRuleCoverage)
	}
	return subtotal, nil
}
