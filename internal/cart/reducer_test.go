package cart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func item(productID, size string, price float64) LineItem {
	return LineItem{ProductID: productID, SelectedSize: size, Price: price}
}

func TestAddItemMergesByIdentity(t *testing.T) {
	c := Reduce(nil, AddItem{Item: item("p1", "M", 100)})
	c = Reduce(c, AddItem{Item: item("p1", "M", 100)})

	require.Len(t, c, 1)
	require.Equal(t, 2, c[0].Quantity)
}

func TestAddItemDistinctSizesAreDistinctLines(t *testing.T) {
	c := Reduce(nil, AddItem{Item: item("p1", "M", 100)})
	c = Reduce(c, AddItem{Item: item("p1", "L", 100)})

	require.Len(t, c, 2)
	require.Equal(t, "M", c[0].SelectedSize)
	require.Equal(t, "L", c[1].SelectedSize)
}

func TestAddItemIgnoresPayloadQuantity(t *testing.T) {
	c := Reduce(nil, AddItem{Item: LineItem{ProductID: "p1", Quantity: 99}})
	require.Equal(t, 1, c[0].Quantity)
}

func TestAddItemPreservesInsertionOrder(t *testing.T) {
	c := Reduce(nil, AddItem{Item: item("p1", "", 10)})
	c = Reduce(c, AddItem{Item: item("p2", "", 20)})
	c = Reduce(c, AddItem{Item: item("p1", "", 10)})

	require.Len(t, c, 2)
	require.Equal(t, "p1", c[0].ProductID)
	require.Equal(t, "p2", c[1].ProductID)
}

func TestRemoveItem(t *testing.T) {
	c := Reduce(nil, AddItem{Item: item("p1", "M", 100)})
	c = Reduce(c, AddItem{Item: item("p2", "", 50)})

	c = Reduce(c, RemoveItem{ProductID: "p1", SelectedSize: "M"})
	require.Len(t, c, 1)
	require.Equal(t, "p2", c[0].ProductID)
}

func TestRemoveMissingItemIsNoOp(t *testing.T) {
	c := Reduce(nil, AddItem{Item: item("p1", "M", 100)})
	next := Reduce(c, RemoveItem{ProductID: "ghost"})

	require.Equal(t, c, next)
}

func TestUpdateQuantityAppliesBlindly(t *testing.T) {
	c := Reduce(nil, AddItem{Item: item("p1", "", 100)})

	c = Reduce(c, UpdateQuantity{ProductID: "p1", Quantity: 7})
	require.Equal(t, 7, c[0].Quantity)

	// No bound enforced here; the HTTP edge rejects quantity < 1.
	c = Reduce(c, UpdateQuantity{ProductID: "p1", Quantity: 0})
	require.Equal(t, 0, c[0].Quantity)
}

func TestUpdateQuantityMissingKeyIsNoOp(t *testing.T) {
	c := Reduce(nil, AddItem{Item: item("p1", "", 100)})
	next := Reduce(c, UpdateQuantity{ProductID: "ghost", Quantity: 3})
	require.Equal(t, c, next)
}

func TestClear(t *testing.T) {
	c := Reduce(nil, AddItem{Item: item("p1", "", 100)})
	require.Empty(t, Reduce(c, Clear{}))
}

func TestSetReplacesWholesaleAndDedupes(t *testing.T) {
	snapshot := Cart{
		{ProductID: "p1", Quantity: 2, Price: 10},
		{ProductID: "p2", Quantity: 1, Price: 5},
		{ProductID: "p1", Quantity: 9, Price: 10},
	}
	c := Reduce(Cart{{ProductID: "old", Quantity: 1}}, Set{Cart: snapshot})

	require.Len(t, c, 2)
	require.Equal(t, "p1", c[0].ProductID)
	require.Equal(t, 2, c[0].Quantity)
}

func TestNilActionIsNoOp(t *testing.T) {
	c := Reduce(nil, AddItem{Item: item("p1", "", 100)})
	require.Equal(t, c, Reduce(c, nil))
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	c := Reduce(nil, AddItem{Item: item("p1", "", 100)})
	_ = Reduce(c, AddItem{Item: item("p1", "", 100)})
	require.Equal(t, 1, c[0].Quantity)
}

func TestTotals(t *testing.T) {
	c := Cart{
		{ProductID: "p1", Price: 100, Quantity: 2},
		{ProductID: "p2", Price: 50, Quantity: 1},
	}
	totals := c.Totals()
	require.Equal(t, 3, totals.Items)
	require.Equal(t, 250.0, totals.Price)
}
