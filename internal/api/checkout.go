package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes

	"github.com/harshadakhorgade/Sales/internal/checkout" // Order orchestration
	"github.com/harshadakhorgade/Sales/internal/domain"   // Importing domain models

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// CheckoutRequest represents a checkout request
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required"` // wallet or qr
	TransactionID string `json:"transaction_id"`                    // External reference for qr payments
	ProofRef      string `json:"proof_ref"`                         // Uploaded proof reference for qr payments
}

// CheckoutHandler places an order from the user's cart using the selected
// payment method
func CheckoutHandler(svc *checkout.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CheckoutRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		proof := checkout.Proof{TransactionID: req.TransactionID, ProofRef: req.ProofRef}
		orderID, err := svc.Checkout(c.Request.Context(), userID.(uint), req.PaymentMethod, proof)
		if err != nil {
			respondError(c, err)
			return
		}
		// The buyer's balance changed on the wallet path; sponsors earning
		// commission fall back on the short cache TTL.
		invalidateWalletCache(context.Background(), rdb, userID.(uint))
		c.JSON(http.StatusOK, gin.H{"success": true, "order_id": orderID})
	}
}

// OrderHistoryHandler returns the authenticated user's orders, newest first
func OrderHistoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var orders []domain.Order
		if err := db.Preload("Items").
			Where("user_id = ?", userID).
			Order("created_at desc, id desc").
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}
