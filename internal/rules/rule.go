package rules

import "strings"

// Money represents a monetary value stored in minor units.
type Money = int64

// CustomPriceFunc prices the full requested quantity of one SKU in a single call.
type CustomPriceFunc func(qty int) Money

// TierTable maps a quantity threshold to the price charged for one cluster of
// exactly that size. Thresholds are unique; the latest registration for a
// threshold wins.
type TierTable map[int]Money

// PriceRule is the per-SKU rule variant. Exactly one of Tiers or Custom is set;
// registering one discards the other.
type PriceRule struct {
	Tiers  TierTable
	Custom CustomPriceFunc
}

// IsCustom reports whether the rule is backed by a custom pricing function.
func (r PriceRule) IsCustom() bool { return r.Custom != nil }

// NormalizeSKU trims and uppercases a SKU. All storage and lookups use the
// normalized form.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}
