package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemMergesSameConfiguration(t *testing.T) {
	c := New("s1")

	c.AddItem(Selection{ProductID: "p1", ProductIdentify: "pizza", BasePrice: 32})
	c.AddItem(Selection{ProductID: "p1", ProductIdentify: "pizza", BasePrice: 32})

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
	assert.Equal(t, 32.0, c.Lines[0].UnitPrice)
	assert.Equal(t, 64.0, c.Lines[0].Total())
}

func TestAddItemOptionalsOrderIndependent(t *testing.T) {
	c := New("s1")

	c.AddItem(Selection{ProductID: "p1", ProductIdentify: "burger", BasePrice: 20, OptionalIDs: []string{"bacon", "cheese"}})
	c.AddItem(Selection{ProductID: "p1", ProductIdentify: "burger", BasePrice: 20, OptionalIDs: []string{"cheese", "bacon"}})

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 2, c.Lines[0].Quantity)
}

func TestAddItemDistinguishesConfigurations(t *testing.T) {
	c := New("s1")

	c.AddItem(Selection{ProductID: "p1", ProductIdentify: "burger", BasePrice: 20})
	c.AddItem(Selection{ProductID: "p1", ProductIdentify: "burger", BasePrice: 20, OptionalIDs: []string{"cheese"}})
	c.AddItem(Selection{ProductID: "p1", ProductIdentify: "burger", BasePrice: 20, VariationID: "large", VariationDelta: 5})

	require.Len(t, c.Lines, 3)
	assert.Equal(t, BaseVariation, c.Lines[0].VariationID)
	assert.Equal(t, NoOptionals, c.Lines[0].OptionalsSignature)
	assert.Equal(t, 25.0, c.Lines[2].UnitPrice)
}

func TestDecrementRemovesLineAtZero(t *testing.T) {
	c := New("s1")
	line := c.AddItem(Selection{ProductID: "p1", ProductIdentify: "pizza", BasePrice: 32})

	require.True(t, c.DecrementItem(line.Key()))
	assert.Empty(t, c.Lines, "no zero-quantity lines may persist")
}

func TestIncrementDecrementRemove(t *testing.T) {
	c := New("s1")
	line := c.AddItem(Selection{ProductID: "p1", ProductIdentify: "pizza", BasePrice: 32})

	require.True(t, c.IncrementItem(line.Key()))
	assert.Equal(t, 2, c.Lines[0].Quantity)

	require.True(t, c.DecrementItem(line.Key()))
	assert.Equal(t, 1, c.Lines[0].Quantity)

	require.True(t, c.RemoveItem(line.Key()))
	assert.Empty(t, c.Lines)

	assert.False(t, c.IncrementItem("missing"))
	assert.False(t, c.DecrementItem("missing"))
	assert.False(t, c.RemoveItem("missing"))
}

func TestComputeTotals(t *testing.T) {
	c := New("s1")
	c.AddItem(Selection{ProductID: "p1", ProductIdentify: "pizza", BasePrice: 32})
	c.AddItem(Selection{ProductID: "p1", ProductIdentify: "pizza", BasePrice: 32})
	c.AddItem(Selection{ProductID: "p2", ProductIdentify: "soda", BasePrice: 6})

	totals := c.ComputeTotals()
	assert.Equal(t, 70.0, totals.Subtotal)
	assert.Equal(t, totals.Subtotal, totals.Total, "taxes and discounts default to zero")

	c.Taxes = 7
	c.Discounts = 10
	totals = c.ComputeTotals()
	assert.Equal(t, 70.0, totals.Subtotal)
	assert.Equal(t, 67.0, totals.Total)
}

func TestClear(t *testing.T) {
	c := New("s1")
	c.AddItem(Selection{ProductID: "p1", ProductIdentify: "pizza", BasePrice: 32})
	c.Clear()
	assert.True(t, c.Empty())
}
