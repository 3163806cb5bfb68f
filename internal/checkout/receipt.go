package checkout

import (
	"time"

	"github.com/google/uuid"
)

// ReceiptLine is one sold item on a receipt. Amounts are in cents.
type ReceiptLine struct {
	ProductID uuid.UUID
	Name      string
	Quantity  int
	UnitPrice int64
	Total     int64
}

// Receipt is the immutable record of a completed payment. It is snapshotted
// from the session at confirmation time and never changes afterwards, even
// though the cart is cleared right after.
type Receipt struct {
	TransactionID string
	IssuedAt      time.Time
	CashierID     uuid.UUID
	CashierName   string
	Lines         []ReceiptLine
	Totals        Totals
	Method        PaymentMethod
	CashReceived  int64 // cash only
	Change        int64 // cash only
}

func buildReceipt(cart *Cart, totals Totals, intent *PaymentIntent, cashierID uuid.UUID, cashierName string, now time.Time) *Receipt {
	lines := cart.Lines()
	out := make([]ReceiptLine, 0, len(lines))
	for i := range lines {
		out = append(out, ReceiptLine{
			ProductID: lines[i].ProductID,
			Name:      lines[i].Name,
			Quantity:  lines[i].Quantity,
			UnitPrice: lines[i].Price,
			Total:     lines[i].LineTotal(),
		})
	}

	return &Receipt{
		TransactionID: intent.TransactionID,
		IssuedAt:      now,
		CashierID:     cashierID,
		CashierName:   cashierName,
		Lines:         out,
		Totals:        totals,
		Method:        intent.Method,
		CashReceived:  intent.CashReceived,
		Change:        intent.Change,
	}
}
