package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet Model
// Balance is derived state: it always equals the sum of credits minus the sum
// of debits over the wallet's transactions. Only the ledger package mutates it.
type Wallet struct {
	ID        uint            `gorm:"primaryKey"`                           // Primary key
	UserID    uint            `gorm:"uniqueIndex"`                          // Foreign key to User
	Balance   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"` // Wallet balance, never negative
	UpdatedAt time.Time       // Timestamp of last balance change
}
