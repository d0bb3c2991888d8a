package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Time durations

	"github.com/harshadakhorgade/Sales/internal/domain" // Importing domain models
	"github.com/harshadakhorgade/Sales/internal/ledger" // Wallet access
	"github.com/harshadakhorgade/Sales/internal/payout" // Withdrawal workflow
	"github.com/harshadakhorgade/Sales/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/shopspring/decimal"
	"gorm.io/gorm" // GORM ORM library
)

// invalidateWalletCache drops the cached balance and transaction history for
// a user after any wallet mutation.
func invalidateWalletCache(ctx context.Context, rdb *redis.Client, userID uint) {
	id := strconv.Itoa(int(userID))
	_ = utils.DeleteCache(ctx, rdb, "wallet:user:"+id)
	_ = utils.DeleteCacheByPrefix(ctx, rdb, "txhistory:user:"+id+":")
}

// GetWalletHandler returns wallet info for the authenticated user, creating
// the wallet with a zero balance on first access
func GetWalletHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()                                   // Context for Redis operations
		cacheKey := "wallet:user:" + strconv.Itoa(int(userID.(uint))) // Cache key for wallet
		var wallet domain.Wallet
		found, err := utils.GetCache(ctx, rdb, cacheKey, &wallet) // Try to get from cache
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"wallet": wallet, "cached": true})
			return
		}
		// Not cached: fetch (or lazily create) the wallet
		w, err := ledger.GetOrCreateWallet(db, userID.(uint))
		if err != nil {
			respondError(c, err)
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, w, 60*time.Second)  // Cache the wallet for 60 seconds
		c.JSON(http.StatusOK, gin.H{"wallet": w, "cached": false}) // Return wallet info
	}
}

// GetTransactionHistoryHandler returns the ledger entries of the
// authenticated user's wallet, newest first
func GetTransactionHistoryHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		wallet, err := ledger.GetOrCreateWallet(db, userID.(uint))
		if err != nil {
			respondError(c, err)
			return
		}
		page := 1      // Default page
		pageSize := 20 // Default page size
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		offset := (page - 1) * pageSize // Calculate offset
		// Redis cache key
		cacheKey := "txhistory:user:" + strconv.Itoa(int(userID.(uint))) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		ctx := context.Background() // Context for Redis operations
		var cached struct {
			Transactions []domain.WalletTransaction `json:"transactions"` // List of ledger entries
			Page         int                        `json:"page"`         // Current page
			PageSize     int                        `json:"page_size"`    // Page size
			Total        int64                      `json:"total"`        // Total entries
			TotalPages   int                        `json:"total_pages"`  // Total pages
		}
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"transactions": cached.Transactions,
				"page":         cached.Page,
				"page_size":    cached.PageSize,
				"total":        cached.Total,
				"total_pages":  cached.TotalPages,
				"cached":       true,
			})
			return
		}
		var total int64 // Total count of entries
		if err := db.Model(&domain.WalletTransaction{}).
			Where("wallet_id = ?", wallet.ID).
			Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var transactions []domain.WalletTransaction
		if err := db.Where("wallet_id = ?", wallet.ID).
			Order("created_at desc, id desc").
			Offset(offset).
			Limit(pageSize).
			Find(&transactions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		resp := gin.H{
			"transactions": transactions,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  totalPages,
			"cached":       false,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache the result for 60 seconds
		c.JSON(http.StatusOK, resp)                                  // Return transaction history
	}
}

// WithdrawRequest represents a withdrawal request
type WithdrawRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"` // Withdrawal amount
	RequestID string          `json:"request_id"`                // Idempotency key, generated when omitted
}

// WithdrawHandler files a withdrawal request against the user's wallet
func WithdrawHandler(svc *payout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req WithdrawRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || !req.Amount.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		p, err := svc.RequestWithdrawal(c.Request.Context(), userID.(uint), req.Amount, req.RequestID)
		if err != nil {
			respondError(c, err)
			return
		}
		// No cache invalidation needed: the balance is untouched until an
		// admin marks the payout paid.
		c.JSON(http.StatusOK, gin.H{"message": "Withdrawal request submitted", "payout": p})
	}
}

// ListPayoutsHandler returns the authenticated user's payout history, newest
// first
func ListPayoutsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var payouts []domain.Payout
		if err := db.Where("user_id = ?", userID).
			Order("created_at desc, id desc").
			Find(&payouts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payouts"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"payouts": payouts})
	}
}
