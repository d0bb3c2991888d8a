package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart Model
// One active cart per user; checkout consumes and deletes it.
type Cart struct {
	ID        uint       `gorm:"primaryKey"`  // Primary key
	UserID    uint       `gorm:"uniqueIndex"` // Foreign key to User
	Items     []CartItem // Line items
	CreatedAt time.Time  // Timestamp of creation
}

// CartItem Model
type CartItem struct {
	ID        uint            `gorm:"primaryKey"`                  // Primary key
	CartID    uint            `gorm:"index;not null"`              // Foreign key to Cart
	ProductID uint            `gorm:"not null"`                    // Foreign key to Product
	Quantity  int             `gorm:"not null"`                    // Units requested, always positive
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"` // Unit price snapshot taken when added
}
