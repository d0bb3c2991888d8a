package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet transaction types
const (
	TransactionCredit = "credit"
	TransactionDebit  = "debit"
)

// WalletTransaction Model
// Immutable ledger entry. Rows are only ever appended, never updated.
type WalletTransaction struct {
	ID          uint            `gorm:"primaryKey"`                  // Primary key
	WalletID    uint            `gorm:"index;not null"`              // Foreign key to Wallet
	Type        string          `gorm:"size:10;not null"`            // credit or debit
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"` // Always positive
	Description string          // Human-readable context
	OrderID     *uint           `gorm:"index"` // Optional originating order
	CreatedAt   time.Time       // Timestamp of creation
}
