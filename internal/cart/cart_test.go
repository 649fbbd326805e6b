package cart_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/giuspe/poc-checkout/internal/cart"
	"github.com/giuspe/poc-checkout/internal/rules"
)

func knownStore(t *testing.T, skus ...string) *rules.Store {
	t.Helper()
	store := rules.NewStore()
	for _, sku := range skus {
		require.NoError(t, store.AddTierRule(sku, 1, 10))
	}
	return store
}

func TestAddAccumulates(t *testing.T) {
	store := knownStore(t, "A")
	c := cart.New(store.Has)

	require.NoError(t, c.Add("A", 2))
	require.NoError(t, c.Add("a", 3))
	require.Equal(t, 5, c.Quantity("A"))
	require.Equal(t, 1, c.Len())
}

func TestAddFloorsQuantityToOne(t *testing.T) {
	store := knownStore(t, "A")
	c := cart.New(store.Has)

	// Non-positive requests still add one unit.
	require.NoError(t, c.Add("A", 0))
	require.NoError(t, c.Add("A", -7))
	require.Equal(t, 2, c.Quantity("A"))
}

func TestAddRejectsEmptyOrUnknownSKU(t *testing.T) {
	store := knownStore(t, "A")
	c := cart.New(store.Has)

	require.ErrorIs(t, c.Add("", 1), cart.ErrInvalidItem)
	require.ErrorIs(t, c.Add("   ", 1), cart.ErrInvalidItem)
	require.ErrorIs(t, c.Add("Z", 1), cart.ErrInvalidItem)
	require.Equal(t, 0, c.Len())
}

func TestAddBatch(t *testing.T) {
	store := knownStore(t, "A", "B")
	c := cart.New(store.Has)

	err := c.AddBatch([]cart.Entry{
		{SKU: "A"}, // bare SKU defaults to quantity 1
		{SKU: "b", Qty: 2},
		{SKU: "A", Qty: 4},
	})
	require.NoError(t, err)
	require.Equal(t, 5, c.Quantity("A"))
	require.Equal(t, 2, c.Quantity("B"))
}

func TestAddBatchStopsOnFirstInvalid(t *testing.T) {
	store := knownStore(t, "A")
	c := cart.New(store.Has)

	err := c.AddBatch([]cart.Entry{
		{SKU: "A", Qty: 1},
		{SKU: "NOPE", Qty: 1},
		{SKU: "A", Qty: 1},
	})
	require.ErrorIs(t, err, cart.ErrInvalidItem)
	// Entries before the failure stay applied.
	require.Equal(t, 1, c.Quantity("A"))
}

func TestItemsReturnsCopy(t *testing.T) {
	store := knownStore(t, "A")
	c := cart.New(store.Has)
	require.NoError(t, c.Add("A", 2))

	snapshot := c.Items()
	snapshot["A"] = 100
	require.Equal(t, 2, c.Quantity("A"))
}
