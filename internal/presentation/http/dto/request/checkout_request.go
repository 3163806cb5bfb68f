package request

import "github.com/google/uuid"

// AddItemRequest adds a product to the cart by id or scanned barcode
type AddItemRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
	Barcode   string     `json:"barcode"`
}

// SetQuantityRequest sets a cart line's quantity
type SetQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// SetDiscountRequest applies a discount to the cart
type SetDiscountRequest struct {
	Type   string  `json:"type" binding:"required,oneof=none percentage fixed"`
	Value  float64 `json:"value" binding:"min=0"`
	Reason string  `json:"reason"`
}

// BeginQRRequest opens a QR wallet payment
type BeginQRRequest struct {
	Method string `json:"method" binding:"required,oneof=khalti esewa connectips"`
}

// ConfirmCashRequest confirms a cash payment with the tendered amount
type ConfirmCashRequest struct {
	CashReceived float64 `json:"cash_received" binding:"required,gt=0"`
}

// ConfirmQRRequest confirms a QR payment. TransactionID is only needed for a
// manual confirmation keyed in by the cashier.
type ConfirmQRRequest struct {
	TransactionID string `json:"transaction_id"`
}
