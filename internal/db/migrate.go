package db

import (
	"github.com/harshadakhorgade/Sales/internal/domain" // Importing domain models

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Wallet{},
		&domain.WalletTransaction{},
		&domain.Product{},
		&domain.Cart{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Payment{},
		&domain.Payout{},
	)
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	seedProducts(db)
	logrus.Info("Migration completed.") // Log successful migration
}

// seedProducts fills an empty catalogue with a starter set so a fresh install
// has something to sell
func seedProducts(db *gorm.DB) {
	var count int64
	if err := db.Model(&domain.Product{}).Count(&count).Error; err != nil {
		logrus.Fatalf("failed to inspect product catalogue: %v", err)
	}
	if count > 0 {
		return // Existing catalogue, leave it alone
	}
	products := []domain.Product{
		{Name: "Starter Pack", Price: decimal.NewFromInt(100), StockQuantity: 100},
		{Name: "Growth Pack", Price: decimal.NewFromInt(250), StockQuantity: 50},
		{Name: "Premium Pack", Price: decimal.NewFromInt(500), StockQuantity: 20},
	}
	if err := db.Create(&products).Error; err != nil {
		logrus.Fatalf("failed to seed products: %v", err)
	}
	logrus.Infof("Seeded %d products", len(products))
}
