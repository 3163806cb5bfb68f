package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ausadhi/pos-api/internal/domain/enum"
)

// Vendor represents a supplier the pharmacy orders stock from
type Vendor struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Name          string            `gorm:"size:255;not null" json:"name"`
	ContactPerson *string           `gorm:"size:255" json:"contact_person"`
	Phone         *string           `gorm:"size:50" json:"phone,omitempty"`
	Email         *string           `gorm:"size:255" json:"email,omitempty"`
	Address       *string           `gorm:"type:text" json:"address,omitempty"`
	Status        enum.VendorStatus `gorm:"size:50;default:'active'" json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new vendor
func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Vendor model
func (Vendor) TableName() string {
	return "vendors"
}
