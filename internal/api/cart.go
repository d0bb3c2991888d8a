package api

import (
	"errors"
	"net/http" // HTTP status codes

	"github.com/harshadakhorgade/Sales/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/shopspring/decimal"
	"gorm.io/gorm" // GORM ORM library
)

// AddToCartRequest represents an add-to-cart request
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`    // Product to add
	Quantity  int  `json:"quantity" binding:"required,gt=0"` // Units to add
}

// AddToCartHandler adds a product to the user's active cart, creating the
// cart on first use. The unit price is snapshotted at add time.
func AddToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req AddToCartRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var product domain.Product
		if err := db.First(&product, req.ProductID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			var cart domain.Cart
			if err := tx.Where(domain.Cart{UserID: userID.(uint)}).FirstOrCreate(&cart).Error; err != nil {
				return err
			}
			// Merge with an existing line for the same product, keeping its
			// original price snapshot
			var item domain.CartItem
			err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
			if err == nil {
				item.Quantity += req.Quantity
				return tx.Save(&item).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			item = domain.CartItem{
				CartID:    cart.ID,
				ProductID: product.ID,
				Quantity:  req.Quantity,
				Price:     product.Price,
			}
			return tx.Create(&item).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Added to cart"})
	}
}

// GetCartHandler returns the user's active cart with its running total
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var cart domain.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusOK, gin.H{"items": []domain.CartItem{}, "total": decimal.Zero}) // Empty cart
			return
		}
		total := decimal.Zero
		for _, item := range cart.Items {
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		c.JSON(http.StatusOK, gin.H{"items": cart.Items, "total": total})
	}
}
