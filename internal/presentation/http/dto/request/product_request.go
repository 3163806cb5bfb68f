package request

import (
	"time"

	"github.com/google/uuid"
)

// CreateProductRequest represents the create product request payload
type CreateProductRequest struct {
	Name         string     `json:"name" binding:"required"`
	CategoryID   *uuid.UUID `json:"category_id"`
	Barcode      string     `json:"barcode"`
	Quantity     int        `json:"quantity" binding:"min=0"`
	ReorderLevel int        `json:"reorder_level" binding:"min=0"`
	CostPrice    float64    `json:"cost_price" binding:"min=0"`
	SellingPrice float64    `json:"selling_price" binding:"required,gt=0"`
	BatchNo      *string    `json:"batch_no"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	Notes        *string    `json:"notes"`
}

// UpdateProductRequest represents the update product request payload
type UpdateProductRequest struct {
	Name         *string    `json:"name"`
	CategoryID   *uuid.UUID `json:"category_id"`
	Quantity     *int       `json:"quantity"`
	ReorderLevel *int       `json:"reorder_level"`
	CostPrice    *float64   `json:"cost_price"`
	SellingPrice *float64   `json:"selling_price"`
	BatchNo      *string    `json:"batch_no"`
	ExpiryDate   *time.Time `json:"expiry_date"`
	Notes        *string    `json:"notes"`
}

// CreateCategoryRequest represents the create category request payload
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}
