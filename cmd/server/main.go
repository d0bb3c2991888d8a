package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"github.com/harshadakhorgade/Sales/internal/api"        // Custom package for API handlers
	"github.com/harshadakhorgade/Sales/internal/checkout"   // Order orchestration
	"github.com/harshadakhorgade/Sales/internal/commission" // Commission engine
	"github.com/harshadakhorgade/Sales/internal/config"     // Custom package for configuration
	"github.com/harshadakhorgade/Sales/internal/middleware" // Custom package for middleware
	"github.com/harshadakhorgade/Sales/internal/payment"    // Payment confirmation
	"github.com/harshadakhorgade/Sales/internal/payout"     // Payout workflow

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Commission depth follows the number of configured level rates
	if len(cfg.CommissionRates) == 0 {
		logrus.Warn("no commission rates configured; commission distribution is disabled")
	}
	engine := commission.NewEngine(cfg.CommissionRates)

	// Services around the ledger
	checkoutSvc := checkout.NewService(db, engine)
	paymentSvc := payment.NewService(db, engine)
	payoutSvc := payout.NewService(db)

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Auth routes
	r.POST("/user", api.RegisterHandler(db))            // Registration endpoint
	r.GET("/user", api.LoginHandler(db, cfg.JWTSecret)) // Login endpoint

	// Catalogue
	r.GET("/products", api.ListProductsHandler(db)) // Product listing endpoint

	// Cart routes (protected by JWT)
	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	cartGroup.POST("", api.AddToCartHandler(db)) // Add-to-cart endpoint
	cartGroup.GET("", api.GetCartHandler(db))    // View cart endpoint

	// Checkout and order routes (protected by JWT)
	orderGroup := r.Group("/")
	orderGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	orderGroup.POST("/checkout", api.CheckoutHandler(checkoutSvc, redisClient)) // Checkout endpoint
	orderGroup.GET("/orders", api.OrderHistoryHandler(db))                      // Order history endpoint

	// Wallet routes (protected by JWT)
	walletGroup := r.Group("/wallet")
	walletGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	walletGroup.GET("", api.GetWalletHandler(db, redisClient))                          // Balance endpoint
	walletGroup.GET("/transactions", api.GetTransactionHistoryHandler(db, redisClient)) // Transaction history endpoint
	walletGroup.POST("/withdraw", api.WithdrawHandler(payoutSvc))                       // Withdrawal request endpoint
	walletGroup.GET("/payouts", api.ListPayoutsHandler(db))                             // Payout history endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(db))
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient))                        // List users endpoint
	adminGroup.GET("/transactions", api.ListTransactionsHandler(db, redisClient))          // List ledger entries endpoint
	adminGroup.GET("/payments", api.ListPaymentsHandler(db))                               // List payments endpoint
	adminGroup.POST("/payments/confirm", api.ConfirmPaymentsHandler(paymentSvc))           // Batch confirmation endpoint
	adminGroup.POST("/payments/:id/confirm", api.ConfirmPaymentHandler(paymentSvc, redisClient)) // Single confirmation endpoint
	adminGroup.GET("/payouts", api.ListPayoutsAdminHandler(db))                            // List payouts endpoint
	adminGroup.POST("/payouts/:id", api.UpdatePayoutHandler(payoutSvc, redisClient))       // Payout transition endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
