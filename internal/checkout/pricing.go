package checkout

import (
	"encoding/json"
	"math"
)

// TaxRate is the fixed sales tax applied to every checkout (13% VAT).
const TaxRate = 0.13

// DiscountType selects how a discount value is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Discount is the cashier-entered discount for the current checkout.
// For DiscountPercentage, Value is a percentage of the subtotal (0-100).
// For DiscountFixed, Value is a flat currency amount.
type Discount struct {
	Type   DiscountType `json:"type"`
	Value  float64      `json:"value"`
	Reason string       `json:"reason,omitempty"`
}

// Totals holds the derived pricing for a cart, all in cents.
type Totals struct {
	Subtotal int64
	Tax      int64
	Discount int64
	Total    int64
}

// MarshalJSON renders cent amounts as decimal currency values.
func (t Totals) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subtotal float64 `json:"subtotal"`
		Tax      float64 `json:"tax"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
	}{
		Subtotal: Cents(t.Subtotal).Decimal(),
		Tax:      Cents(t.Tax).Decimal(),
		Discount: Cents(t.Discount).Decimal(),
		Total:    Cents(t.Total).Decimal(),
	})
}

// Cents is a currency amount in cents.
type Cents int64

// Decimal converts cents to a decimal currency value for display.
func (c Cents) Decimal() float64 {
	return float64(c) / 100
}

// ToCents converts a decimal currency value to cents, rounding half up.
func ToCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

// ComputeTotals derives subtotal, tax, discount and total from the cart and
// discount settings. It is a pure function of its inputs: nothing is cached
// and repeated calls always recompute from the current lines.
//
// The discount is clamped to subtotal+tax so the total never goes negative.
func ComputeTotals(cart *Cart, discount Discount) Totals {
	subtotal := cart.Subtotal()
	tax := int64(math.Round(float64(subtotal) * TaxRate))

	var off int64
	switch discount.Type {
	case DiscountPercentage:
		off = int64(math.Round(float64(subtotal) * discount.Value / 100))
	case DiscountFixed:
		off = ToCents(discount.Value)
	}
	if off < 0 {
		off = 0
	}
	if off > subtotal+tax {
		off = subtotal + tax
	}

	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: off,
		Total:    subtotal + tax - off,
	}
}
