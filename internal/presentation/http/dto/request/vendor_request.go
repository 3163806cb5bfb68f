package request

// CreateVendorRequest represents the create vendor request payload
type CreateVendorRequest struct {
	Name          string  `json:"name" binding:"required"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address"`
}

// UpdateVendorRequest represents the update vendor request payload
type UpdateVendorRequest struct {
	Name          *string `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address"`
	Status        *string `json:"status" binding:"omitempty,oneof=active inactive"`
}
