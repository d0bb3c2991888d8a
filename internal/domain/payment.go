package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment statuses. The only transition is pending -> captured; captured is
// terminal.
const (
	PaymentPending  = "pending"
	PaymentCaptured = "captured"
)

// Payment Model
type Payment struct {
	ID            uint            `gorm:"primaryKey"`                        // Primary key
	UserID        uint            `gorm:"index;not null"`                    // Payer
	OrderID       uint            `gorm:"index;not null"`                    // Foreign key to Order
	Method        string          `gorm:"size:20;not null"`                  // wallet or qr
	Status        string          `gorm:"size:20;not null;default:pending"`  // pending or captured
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`       // Amount charged
	TransactionID string          `gorm:"size:100"`                          // External reference supplied by the payer
	ProofRef      string          `gorm:"size:255"`                          // Reference to an uploaded proof-of-payment artifact
	ConfirmedAt   *time.Time      // When an admin captured the payment
	CreatedAt     time.Time       // Timestamp of creation
}
