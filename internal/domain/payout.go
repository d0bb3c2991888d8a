package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payout statuses
const (
	PayoutPending  = "pending"
	PayoutApproved = "approved"
	PayoutRejected = "rejected"
	PayoutPaid     = "paid"
)

// Payout Model
// A withdrawal request. RequestID is the caller-supplied idempotency key; the
// unique index makes a replayed key resolve to the existing row. The wallet is
// debited only when an admin marks the payout paid.
type Payout struct {
	ID               uint            `gorm:"primaryKey"`                          // Primary key
	UserID           uint            `gorm:"index;not null"`                      // Requesting user
	Amount           decimal.Decimal `gorm:"type:decimal(12,2);not null"`         // Requested amount
	Status           string          `gorm:"size:50;not null;default:pending"`    // pending, approved, rejected or paid
	RequestID        string          `gorm:"size:100;uniqueIndex;not null"`       // Idempotency key
	Fee              decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"` // Processing fee (currently always zero)
	Tax              decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"` // Withheld tax (currently always zero)
	FinalAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"` // Amount after fee and tax
	ConfirmationNote string          // Free-form note left by the admin
	CreatedAt        time.Time       // Timestamp of creation
}
