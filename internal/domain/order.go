package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order payment statuses
const (
	OrderPending = "Pending"
	OrderPaid    = "Paid"
)

// Payment methods
const (
	PaymentMethodWallet = "wallet"
	PaymentMethodQR     = "qr"
)

// Order Model
// Immutable once PaymentStatus reaches Paid.
type Order struct {
	ID            uint            `gorm:"primaryKey"`                          // Primary key
	UserID        uint            `gorm:"index;not null"`                      // Buyer
	AmountPaid    decimal.Decimal `gorm:"type:decimal(12,2);not null"`         // Order total
	PaymentMethod string          `gorm:"size:20;not null"`                    // wallet or qr
	PaymentStatus string          `gorm:"size:20;not null;default:Pending"`    // Pending or Paid
	Items         []OrderItem     `gorm:"constraint:OnDelete:CASCADE;"`        // Line items
	CreatedAt     time.Time       // Timestamp of creation
}

// OrderItem Model
type OrderItem struct {
	ID        uint            `gorm:"primaryKey"`                  // Primary key
	OrderID   uint            `gorm:"index;not null"`              // Foreign key to Order
	ProductID uint            `gorm:"not null"`                    // Foreign key to Product
	Quantity  int             `gorm:"not null"`                    // Units purchased, always positive
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"` // Unit price at purchase time
}
