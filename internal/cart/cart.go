package cart

import (
	"errors"
	"fmt"

	"github.com/giuspe/poc-checkout/internal/rules"
)

// ErrInvalidItem is returned when an item has an empty SKU or no matching pricing rule.
var ErrInvalidItem = errors.New("invalid cart item")

// Entry is one bulk-add element. A zero Qty defaults to 1. Add performs all
// validation, so entries carry no constraints of their own.
type Entry struct {
	SKU string `json:"sku"`
	Qty int    `json:"quantity"`
}

// Cart accumulates per-SKU quantities. Quantities only grow; there is no
// remove or decrement operation.
type Cart struct {
	items map[string]int
	known func(sku string) bool
}

// New returns an empty cart. The known probe checks normalized SKUs against
// rule store membership at add time; a nil probe accepts every SKU.
func New(known func(sku string) bool) *Cart {
	return &Cart{items: make(map[string]int), known: known}
}

// Add accumulates quantity for a SKU. The quantity is floored to a minimum of
// 1, so a non-positive request still adds one unit. An empty SKU after
// trimming, or a SKU without a registered rule, fails with ErrInvalidItem.
func (c *Cart) Add(sku string, qty int) error {
	key := rules.NormalizeSKU(sku)
	if key == "" {
		return fmt.Errorf("empty sku: %w", ErrInvalidItem)
	}
	if c.known != nil && !c.known(key) {
		return fmt.Errorf("sku %q has no pricing rule: %w", sku, ErrInvalidItem)
	}
	if qty < 1 {
		qty = 1
	}
	c.items[key] += qty
	return nil
}

// AddBatch dispatches every entry through Add, so each element gets the same
// validation. The first failure aborts the batch.
func (c *Cart) AddBatch(entries []Entry) error {
	for _, e := range entries {
		if err := c.Add(e.SKU, e.Qty); err != nil {
			return err
		}
	}
	return nil
}

// Items returns a copy of the accumulated SKU quantities.
func (c *Cart) Items() map[string]int {
	out := make(map[string]int, len(c.items))
	for sku, qty := range c.items {
		out[sku] = qty
	}
	return out
}

// Quantity returns the accumulated quantity for a SKU.
func (c *Cart) Quantity(sku string) int {
	return c.items[rules.NormalizeSKU(sku)]
}

// Len returns the number of distinct SKUs in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}
