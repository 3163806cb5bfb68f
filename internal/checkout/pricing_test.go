package checkout

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotalsNoDiscount(t *testing.T) {
	// Three units at 50.00 each: subtotal 150.00, 13% tax 19.50, total 169.50.
	cart := NewCart()
	p := testProduct("Item", 5000, 10)
	cart.AddItem(p)
	cart.SetQuantity(p.ID, 3)

	got := ComputeTotals(cart, Discount{})

	assert.Equal(t, int64(15000), got.Subtotal)
	assert.Equal(t, int64(1950), got.Tax)
	assert.Equal(t, int64(0), got.Discount)
	assert.Equal(t, int64(16950), got.Total)
}

func TestComputeTotalsTotalIdentity(t *testing.T) {
	cart := NewCart()
	p1 := testProduct("A", 1234, 10)
	p2 := testProduct("B", 567, 10)
	cart.AddItem(p1)
	cart.SetQuantity(p1.ID, 4)
	cart.AddItem(p2)
	cart.SetQuantity(p2.ID, 7)

	got := ComputeTotals(cart, Discount{Type: DiscountFixed, Value: 5})

	assert.Equal(t, got.Subtotal+got.Tax-got.Discount, got.Total)
}

func TestComputeTotalsPercentageVsFixed(t *testing.T) {
	// On a 200.00 subtotal, a 10% discount and a fixed 20.00 discount are the
	// same amount off.
	cart := NewCart()
	p := testProduct("Item", 10000, 10)
	cart.AddItem(p)
	cart.SetQuantity(p.ID, 2)

	pct := ComputeTotals(cart, Discount{Type: DiscountPercentage, Value: 10})
	fixed := ComputeTotals(cart, Discount{Type: DiscountFixed, Value: 20})

	assert.Equal(t, int64(2000), pct.Discount)
	assert.Equal(t, pct.Discount, fixed.Discount)
	assert.Equal(t, pct.Total, fixed.Total)
	assert.Equal(t, int64(20000+2600-2000), pct.Total)
}

func TestComputeTotalsDiscountClamped(t *testing.T) {
	cart := NewCart()
	p := testProduct("Item", 1000, 10)
	cart.AddItem(p)

	got := ComputeTotals(cart, Discount{Type: DiscountFixed, Value: 999})

	assert.Equal(t, got.Subtotal+got.Tax, got.Discount)
	assert.Equal(t, int64(0), got.Total, "total must never go negative")
}

func TestComputeTotalsNegativeDiscountIgnored(t *testing.T) {
	cart := NewCart()
	p := testProduct("Item", 1000, 10)
	cart.AddItem(p)

	got := ComputeTotals(cart, Discount{Type: DiscountFixed, Value: -10})

	assert.Equal(t, int64(0), got.Discount)
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	got := ComputeTotals(NewCart(), Discount{Type: DiscountPercentage, Value: 50})

	assert.Equal(t, Totals{}, got)
}

func TestComputeTotalsIsPure(t *testing.T) {
	cart := NewCart()
	p := testProduct("Item", 3333, 10)
	cart.AddItem(p)
	cart.SetQuantity(p.ID, 3)

	d := Discount{Type: DiscountPercentage, Value: 7.5}
	first := ComputeTotals(cart, d)
	second := ComputeTotals(cart, d)

	assert.Equal(t, first, second)
}

func TestValidateCashAndChange(t *testing.T) {
	// Tendered 200.00 against a 169.50 total: valid, change 30.50.
	assert.True(t, ValidateCash(20000, 16950))
	assert.Equal(t, int64(3050), CashChange(20000, 16950))

	assert.True(t, ValidateCash(16950, 16950))
	assert.Equal(t, int64(0), CashChange(16950, 16950))

	assert.False(t, ValidateCash(16949, 16950))
}

func TestToCentsRounding(t *testing.T) {
	assert.Equal(t, int64(2000), ToCents(20))
	assert.Equal(t, int64(1995), ToCents(19.95))
	assert.Equal(t, int64(10), ToCents(0.095))
}

func TestTotalsMarshalJSON(t *testing.T) {
	b, err := json.Marshal(Totals{Subtotal: 15000, Tax: 1950, Discount: 0, Total: 16950})
	require.NoError(t, err)

	assert.JSONEq(t, `{"subtotal":150,"tax":19.5,"discount":0,"total":169.5}`, string(b))
}
