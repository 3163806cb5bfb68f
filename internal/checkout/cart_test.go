package checkout

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProduct(name string, priceCents int64, stock int) Product {
	return Product{ID: uuid.New(), Name: name, Price: priceCents, Stock: stock}
}

func TestCartAddItemNewLine(t *testing.T) {
	cart := NewCart()
	p := testProduct("Paracetamol 500mg", 500, 10)

	cart.AddItem(p)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, p.ID, lines[0].ProductID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, int64(500), lines[0].Price)
}

func TestCartAddItemIncrementsExistingLine(t *testing.T) {
	cart := NewCart()
	p := testProduct("Paracetamol 500mg", 500, 10)

	cart.AddItem(p)
	cart.AddItem(p)
	cart.AddItem(p)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCartAddItemCappedAtStock(t *testing.T) {
	cart := NewCart()
	p := testProduct("Insulin Pen", 150000, 1)

	cart.AddItem(p)
	cart.AddItem(p)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity, "second add must not exceed stock")
}

func TestCartAddItemZeroStock(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("Out of stock", 100, 0))
	assert.True(t, cart.IsEmpty())
}

func TestCartRemoveItem(t *testing.T) {
	cart := NewCart()
	p1 := testProduct("Cetirizine", 300, 5)
	p2 := testProduct("Vitamin C", 800, 5)
	cart.AddItem(p1)
	cart.AddItem(p2)

	cart.RemoveItem(p1.ID)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, p2.ID, lines[0].ProductID)

	// absent product is a no-op
	cart.RemoveItem(uuid.New())
	assert.Len(t, cart.Lines(), 1)
}

func TestCartSetQuantity(t *testing.T) {
	cart := NewCart()
	p := testProduct("Amoxicillin", 1200, 8)
	cart.AddItem(p)

	cart.SetQuantity(p.ID, 5)
	assert.Equal(t, 5, cart.Lines()[0].Quantity)

	// zero leaves the line unchanged
	cart.SetQuantity(p.ID, 0)
	assert.Equal(t, 5, cart.Lines()[0].Quantity)

	// negative leaves the line unchanged
	cart.SetQuantity(p.ID, -2)
	assert.Equal(t, 5, cart.Lines()[0].Quantity)

	// above stock leaves the line unchanged
	cart.SetQuantity(p.ID, 9)
	assert.Equal(t, 5, cart.Lines()[0].Quantity)

	// at the ceiling is allowed
	cart.SetQuantity(p.ID, 8)
	assert.Equal(t, 8, cart.Lines()[0].Quantity)

	// unknown product is a no-op
	cart.SetQuantity(uuid.New(), 3)
	assert.Len(t, cart.Lines(), 1)
}

func TestCartClearIdempotent(t *testing.T) {
	cart := NewCart()
	cart.AddItem(testProduct("Ibuprofen", 600, 10))

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, int64(0), cart.Subtotal())

	cart.Clear()
	assert.True(t, cart.IsEmpty())
}

func TestCartSubtotalAdditivity(t *testing.T) {
	cart := NewCart()
	p1 := testProduct("A", 500, 10)
	p2 := testProduct("B", 1250, 10)

	cart.AddItem(p1)
	cart.AddItem(p1)
	cart.AddItem(p1)
	cart.AddItem(p2)
	cart.AddItem(p2)

	var want int64
	for _, l := range cart.Lines() {
		want += l.Price * int64(l.Quantity)
	}
	assert.Equal(t, want, cart.Subtotal())
	assert.Equal(t, int64(500*3+1250*2), cart.Subtotal())
	assert.Equal(t, 5, cart.TotalItems())
}

func TestCartQuantityInvariantUnderOpSequence(t *testing.T) {
	cart := NewCart()
	p := testProduct("Omeprazole", 900, 3)

	for i := 0; i < 10; i++ {
		cart.AddItem(p)
	}
	cart.SetQuantity(p.ID, 100)
	cart.SetQuantity(p.ID, -1)
	cart.SetQuantity(p.ID, 2)
	cart.AddItem(p)
	cart.AddItem(p)
	cart.AddItem(p)

	lines := cart.Lines()
	require.Len(t, lines, 1)
	assert.GreaterOrEqual(t, lines[0].Quantity, 1)
	assert.LessOrEqual(t, lines[0].Quantity, lines[0].Stock)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestCartLinesReturnsCopy(t *testing.T) {
	cart := NewCart()
	p := testProduct("A", 500, 10)
	cart.AddItem(p)

	lines := cart.Lines()
	lines[0].Quantity = 99

	assert.Equal(t, 1, cart.Lines()[0].Quantity)
}
