package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is NOT a database entity; it is composed from a completed checkout at
// print/email time, with money already converted to decimals.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	TransactionID string        `json:"transaction_id"`
	Date          string        `json:"date"`
	Time          string        `json:"time"`
	Cashier       string        `json:"cashier,omitempty"`
	PaymentMethod string        `json:"payment_method"`
	Items         []ReceiptItem `json:"items"`
	SubTotal      float64       `json:"sub_total"`
	Tax           float64       `json:"tax"`
	Discount      float64       `json:"discount,omitempty"`
	Total         float64       `json:"total"`
	CashReceived  float64       `json:"cash_received,omitempty"`
	Change        float64       `json:"change,omitempty"`
}
