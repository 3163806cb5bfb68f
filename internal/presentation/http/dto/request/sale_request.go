package request

// EmailReceiptRequest sends a sale receipt to a customer email address
type EmailReceiptRequest struct {
	Email string `json:"email" binding:"required,email"`
}
