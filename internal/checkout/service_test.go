package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giuspe/poc-checkout/internal/cart"
	"github.com/giuspe/poc-checkout/internal/checkout"
	"github.com/giuspe/poc-checkout/internal/pricing"
	"github.com/giuspe/poc-checkout/internal/rules"
)

const exampleRules = "A|10; A|20|3; A|40|5; A|80|10; A|150|20; B|5; B|7|2; C|10; C|20|3; B|15|4"

func TestCheckoutEndToEnd(t *testing.T) {
	svc, err := checkout.New(checkout.Options{Rules: exampleRules})
	require.NoError(t, err)

	require.NoError(t, svc.AddItems([]cart.Entry{
		{SKU: "A", Qty: 5},
		{SKU: "B", Qty: 3},
		{SKU: "C"},
	}))

	total, err := svc.Total()
	require.NoError(t, err)
	require.Equal(t, rules.Money(62), total)

	// Totals are idempotent reads.
	again, err := svc.Total()
	require.NoError(t, err)
	require.Equal(t, total, again)
}

func TestCheckoutRejectsBadDelimiters(t *testing.T) {
	_, err := checkout.New(checkout.Options{RuleDelimiter: "   "})
	require.ErrorIs(t, err, rules.ErrInvalidConfig)

	_, err = checkout.New(checkout.Options{FieldDelimiter: " "})
	require.ErrorIs(t, err, rules.ErrInvalidConfig)
}

func TestCheckoutLazyBuildOnFirstAdd(t *testing.T) {
	svc, err := checkout.New(checkout.Options{Rules: "A|10"})
	require.NoError(t, err)

	// The rule batch has not been parsed yet, but the first add triggers it.
	require.NoError(t, svc.AddItem("a", 2))
	total, err := svc.Total()
	require.NoError(t, err)
	require.Equal(t, rules.Money(20), total)
}

func TestCheckoutLazyBuildSurfacesParseErrors(t *testing.T) {
	svc, err := checkout.New(checkout.Options{Rules: "broken"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.AddItem("A", 1), rules.ErrInvalidRule)
	_, err = svc.Total()
	require.ErrorIs(t, err, rules.ErrInvalidRule)
}

func TestCheckoutLenientModeSkipsMalformed(t *testing.T) {
	svc, err := checkout.New(checkout.Options{Rules: "A|10; broken; B|5", Mode: rules.ModeLenient})
	require.NoError(t, err)

	require.NoError(t, svc.AddItem("A", 1))
	require.NoError(t, svc.AddItem("B", 1))
	total, err := svc.Total()
	require.NoError(t, err)
	require.Equal(t, rules.Money(15), total)
}

func TestCheckoutRecordsBatch(t *testing.T) {
	svc, err := checkout.New(checkout.Options{Records: []rules.Record{
		{SKU: "A", Price: 50},
		{SKU: "A", Price: 130, Quantity: 3},
	}})
	require.NoError(t, err)

	require.NoError(t, svc.AddItem("A", 4))
	total, err := svc.Total()
	require.NoError(t, err)
	require.Equal(t, rules.Money(180), total)
}

func TestCheckoutDirectRuleRegistration(t *testing.T) {
	svc, err := checkout.New(checkout.Options{})
	require.NoError(t, err)

	// Direct registration accepts a zero price, unlike text parsing.
	require.NoError(t, svc.AddTierRule("GIFT", 1, 0))
	require.NoError(t, svc.AddTierRule("A", 1, 30))
	require.NoError(t, svc.AddItem("GIFT", 1))
	require.NoError(t, svc.AddItem("A", 2))

	total, err := svc.Total()
	require.NoError(t, err)
	require.Equal(t, rules.Money(60), total)
}

func TestCheckoutTierOverwrite(t *testing.T) {
	svc, err := checkout.New(checkout.Options{Rules: "A|10"})
	require.NoError(t, err)

	require.NoError(t, svc.AddItem("A", 1))
	require.NoError(t, svc.AddTierRule("A", 1, 25))

	total, err := svc.Total()
	require.NoError(t, err)
	require.Equal(t, rules.Money(25), total, "total reflects only the latest price")
}

func TestCheckoutCustomRuleReplacesTiers(t *testing.T) {
	svc, err := checkout.New(checkout.Options{Rules: "A|10; A|20|3"})
	require.NoError(t, err)

	require.NoError(t, svc.AddCustomRule("A", func(qty int) rules.Money {
		return rules.Money(qty) * 8
	}))
	require.NoError(t, svc.AddItem("A", 6))

	total, err := svc.Total()
	require.NoError(t, err)
	require.Equal(t, rules.Money(48), total)
}

func TestCheckoutModifiersCompose(t *testing.T) {
	svc, err := checkout.New(checkout.Options{Rules: "A|100"})
	require.NoError(t, err)
	require.NoError(t, svc.AddItem("A", 1))

	require.NoError(t, svc.AddTotalModifier(func(total pricing.Money, items map[string]int) pricing.Money {
		return total * 2
	}))
	require.NoError(t, svc.AddTotalModifier(func(total pricing.Money, items map[string]int) pricing.Money {
		var units int
		for _, qty := range items {
			units += qty
		}
		return total + pricing.Money(units)
	}))
	require.Error(t, svc.AddTotalModifier(nil))

	total, err := svc.Total()
	require.NoError(t, err)
	require.Equal(t, rules.Money(201), total)
}

func TestCheckoutUnknownItem(t *testing.T) {
	svc, err := checkout.New(checkout.Options{Rules: "A|10"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.AddItem("Z", 1), cart.ErrInvalidItem)
}

func TestCheckoutNoRules(t *testing.T) {
	svc, err := checkout.New(checkout.Options{})
	require.NoError(t, err)

	_, err = svc.Total()
	require.ErrorIs(t, err, pricing.ErrNoRulesConfigured)
}

func TestCheckoutIncompleteCoverage(t *testing.T) {
	svc, err := checkout.New(checkout.Options{Rules: "A|20|3"})
	require.NoError(t, err)

	require.NoError(t, svc.AddItem("A", 4))
	_, err = svc.Total()
	require.ErrorIs(t, err, pricing.ErrIncompleteRuleCoverage)
}
