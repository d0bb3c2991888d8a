package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations

	"github.com/harshadakhorgade/Sales/internal/domain"  // Importing domain models
	"github.com/harshadakhorgade/Sales/internal/payment" // Payment confirmation
	"github.com/harshadakhorgade/Sales/internal/payout"  // Payout workflow
	"github.com/harshadakhorgade/Sales/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// parsePagination reads page/page_size query params with the usual bounds
func parsePagination(c *gin.Context) (page, pageSize int) {
	page = 1      // Default page number
	pageSize = 20 // Default page size
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
	return page, pageSize
}

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID        uint          `json:"id"`         // User ID
	Username  string        `json:"username"`   // Username
	Role      string        `json:"role"`       // User role
	SponsorID *uint         `json:"sponsor_id"` // Referring user
	Wallet    domain.Wallet `json:"wallet"`     // Associated wallet
}

// ListUsersHandler returns all users with their wallet info
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Use background context for Redis
		// Create a cache key based on pagination parameters
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		var cached struct {
			Users      []UserAdminResponse `json:"users"`       // List of users
			Page       int                 `json:"page"`        // Current page
			PageSize   int                 `json:"page_size"`   // Page size
			Total      int64               `json:"total"`       // Total number of users
			TotalPages int                 `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true,
			})
			return
		}
		page, pageSize := parsePagination(c)
		offset := (page - 1) * pageSize // Calculate offset for pagination
		var total int64                 // Total user count
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
			return
		}
		var users []domain.User // Slice to hold users
		// Preload Wallet relation, apply offset and limit for pagination
		if err := db.Preload("Wallet").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize // Calculate total pages
		resp := make([]UserAdminResponse, len(users))
		for i, u := range users {
			resp[i] = UserAdminResponse{
				ID:        u.ID,
				Username:  u.Username,
				Role:      u.Role,
				SponsorID: u.SponsorID,
				Wallet:    u.Wallet,
			}
		}
		respData := gin.H{
			"users":       resp,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages,
			"cached":      false,
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData)
	}
}

// ListTransactionsHandler returns all ledger entries, with optional filtering
// by user, type, or date
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		// Build cache key from all query params
		var keyParts []string // Parts of the cache key
		for _, k := range []string{"user_id", "type", "from", "to", "page", "page_size"} {
			keyParts = append(keyParts, k+"="+c.DefaultQuery(k, "")) // Append key-value pair
		}
		cacheKey := "admin:txs:" + strings.Join(keyParts, ":")
		var cached struct {
			Transactions []domain.WalletTransaction `json:"transactions"` // List of ledger entries
			Page         int                        `json:"page"`         // Current page
			PageSize     int                        `json:"page_size"`    // Page size
			Total        int64                      `json:"total"`        // Total entries
			TotalPages   int                        `json:"total_pages"`  // Total pages
		}
		// If cached data found, return it
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
		page, pageSize := parsePagination(c)
		offset := (page - 1) * pageSize                // Calculate offset for pagination
		query := db.Model(&domain.WalletTransaction{}) // Start building the query
		if userID := c.Query("user_id"); userID != "" {
			// Entries hang off the wallet, so resolve the user through it
			query = query.Where("wallet_id IN (?)",
				db.Model(&domain.Wallet{}).Select("id").Where("user_id = ?", userID))
		}
		if txType := c.Query("type"); txType != "" {
			query = query.Where("type = ?", txType) // Filter by credit/debit
		}
		if from := c.Query("from"); from != "" {
			query = query.Where("created_at >= ?", from) // Filter by start date
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("created_at <= ?", to) // Filter by end date
		}
		var total int64 // Total entry count
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var txs []domain.WalletTransaction
		if err := query.Order("created_at desc, id desc").Offset(offset).Limit(pageSize).Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize
		respData := gin.H{
			"transactions": txs,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  totalPages,
			"cached":       false,
		}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second)
		c.JSON(http.StatusOK, respData)
	}
}

// ListPaymentsHandler returns payments for admin review, optionally filtered
// by status
func ListPaymentsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := parsePagination(c)
		offset := (page - 1) * pageSize
		query := db.Model(&domain.Payment{})
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by payment status
		}
		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count payments"})
			return
		}
		var payments []domain.Payment
		if err := query.Order("created_at desc, id desc").Offset(offset).Limit(pageSize).Find(&payments).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"payments":  payments,
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		})
	}
}

// ConfirmPaymentHandler captures a single pending payment and distributes
// commission; confirming an already-captured payment is a safe no-op
func ConfirmPaymentHandler(svc *payment.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment id"})
			return
		}
		res, err := svc.Confirm(c.Request.Context(), uint(id))
		if err != nil {
			respondError(c, err)
			return
		}
		// The credited sponsors' cached balances are stale now
		ctx := context.Background()
		for _, creditedID := range res.Credited {
			invalidateWalletCache(ctx, rdb, creditedID)
		}
		c.JSON(http.StatusOK, gin.H{"payment": res.Payment, "confirmed": res.Applied})
	}
}

// ConfirmPaymentsRequest represents a batch confirmation request
type ConfirmPaymentsRequest struct {
	PaymentIDs []uint `json:"payment_ids" binding:"required"` // Payments to confirm
}

// ConfirmPaymentsHandler captures a batch of pending payments by looping the
// idempotent single-payment confirmation
func ConfirmPaymentsHandler(svc *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ConfirmPaymentsRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil || len(req.PaymentIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		confirmed, err := svc.ConfirmBatch(c.Request.Context(), req.PaymentIDs)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"confirmed": confirmed})
	}
}

// ListPayoutsAdminHandler returns payout requests for admin review,
// optionally filtered by status
func ListPayoutsAdminHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := parsePagination(c)
		offset := (page - 1) * pageSize
		query := db.Model(&domain.Payout{})
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by payout status
		}
		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count payouts"})
			return
		}
		var payouts []domain.Payout
		if err := query.Order("created_at desc, id desc").Offset(offset).Limit(pageSize).Find(&payouts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payouts"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"payouts":   payouts,
			"page":      page,
			"page_size": pageSize,
			"total":     total,
		})
	}
}

// UpdatePayoutRequest represents an admin payout transition
type UpdatePayoutRequest struct {
	Status string `json:"status" binding:"required"` // approved, rejected or paid
	Note   string `json:"note"`                      // Optional confirmation note
}

// UpdatePayoutHandler applies an admin payout transition; marking a payout
// paid debits the user's wallet
func UpdatePayoutHandler(svc *payout.Service, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payout id"})
			return
		}
		var req UpdatePayoutRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		p, err := svc.UpdateStatus(c.Request.Context(), uint(id), req.Status, req.Note)
		if err != nil {
			respondError(c, err)
			return
		}
		if p.Status == domain.PayoutPaid {
			// The user's wallet was debited
			invalidateWalletCache(context.Background(), rdb, p.UserID)
		}
		c.JSON(http.StatusOK, gin.H{"payout": p})
	}
}
