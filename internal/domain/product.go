package domain

import "github.com/shopspring/decimal"

// Product Model
type Product struct {
	ID            uint            `gorm:"primaryKey"`                  // Primary key
	Name          string          `gorm:"not null"`                    // Product name
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"` // Current unit price
	StockQuantity int             `gorm:"not null;default:0"`          // Units in stock, never negative
}
