package models

import (
	"time"
)

// Order status values visible to this service. Fulfillment states past
// "pending" are owned by downstream collaborators.
const (
	OrderStatusPending = "pending"

	PaymentStatusPending = "pending"
)

// Order represents a paid-for print job created from an accepted quote.
// Exactly one order may exist per quote: the acceptance flow refuses quotes
// that are already accepted, and the unique index on quote_id backs that up
// at the storage layer.
type Order struct {
	ID          string `gorm:"primaryKey" json:"order_id"`
	OrderNumber string `gorm:"not null" json:"order_number"`
	QuoteID     string `gorm:"uniqueIndex;not null" json:"quote_id"`
	Quote       *Quote `gorm:"foreignKey:QuoteID" json:"quote,omitempty"`
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	User        *User  `gorm:"foreignKey:UserID" json:"-"`

	// Copied from the quote's total_price at acceptance, never recomputed
	TotalAmount float64 `gorm:"not null" json:"total_amount"`

	Status        string  `gorm:"not null;default:'pending'" json:"status"`
	PaymentStatus string  `gorm:"not null;default:'pending'" json:"payment_status"`
	PaymentID     *string `json:"payment_id,omitempty"`

	// Shipping address snapshot
	ShippingName       string `gorm:"not null" json:"shipping_name"`
	ShippingAddress    string `gorm:"not null" json:"shipping_address"`
	ShippingCity       string `gorm:"not null" json:"shipping_city"`
	ShippingPostalCode string `gorm:"not null" json:"shipping_postal_code"`
	ShippingCountry    string `gorm:"not null" json:"shipping_country"`
	ShippingPhone      string `json:"shipping_phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
