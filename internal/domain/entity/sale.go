package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ausadhi/pos-api/internal/domain/enum"
)

// Sale represents a completed checkout persisted at payment confirmation
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CashierID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"cashier_id"`
	TransactionID string          `gorm:"size:100;unique;not null" json:"transaction_id"`
	SaleDate      time.Time       `gorm:"not null;index" json:"sale_date"`
	Status        enum.SaleStatus `gorm:"size:50;default:'completed'" json:"status"`
	TotalItems    int             `gorm:"default:0" json:"total_items"`
	SubTotal      int64           `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Tax           int64           `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discount      int64           `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total         int64           `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PaymentMethod string          `gorm:"size:50;not null" json:"payment_method"`
	CashReceived  int64           `gorm:"default:0" json:"-"` // Cash sales only, cents
	Change        int64           `gorm:"default:0" json:"-"` // Cash sales only, cents
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Cashier User       `gorm:"foreignKey:CashierID" json:"-"`
	Items   []SaleItem `gorm:"foreignKey:SaleID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		SubTotal     float64 `json:"sub_total"`
		Tax          float64 `json:"tax"`
		Discount     float64 `json:"discount"`
		Total        float64 `json:"total"`
		CashReceived float64 `json:"cash_received"`
		Change       float64 `json:"change"`
	}{
		Alias:        Alias(s),
		SubTotal:     float64(s.SubTotal) / 100,
		Tax:          float64(s.Tax) / 100,
		Discount:     float64(s.Discount) / 100,
		Total:        float64(s.Total) / 100,
		CashReceived: float64(s.CashReceived) / 100,
		Change:       float64(s.Change) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// GetTotalDecimal returns the total as a decimal
func (s *Sale) GetTotalDecimal() float64 {
	return float64(s.Total) / 100
}

// SaleItem represents a line item on a sale. Name and price are snapshots
// taken at checkout time, so later product edits do not rewrite history.
type SaleItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	UnitPrice int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	Total     int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (si SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(si),
		UnitPrice: float64(si.UnitPrice) / 100,
		Total:     float64(si.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new sale item
func (si *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if si.ID == uuid.Nil {
		si.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}
