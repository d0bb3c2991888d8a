package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/harshadakhorgade/Sales/internal/commission" // Commission engine
	"github.com/harshadakhorgade/Sales/internal/domain"     // Importing domain models
	"github.com/harshadakhorgade/Sales/internal/ledger"     // Wallet mutations

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Service turns a user's active cart into an order. Payment method selects the
// settlement policy: wallet settles immediately (debit + commission in the
// same transaction), qr defers settlement to an admin confirmation.
type Service struct {
	db     *gorm.DB
	engine *commission.Engine
}

// Proof carries the payer-supplied evidence for a deferred (qr) payment.
type Proof struct {
	TransactionID string // External transaction reference
	ProofRef      string // Reference to the uploaded proof artifact
}

// NewService wires the checkout service.
func NewService(db *gorm.DB, engine *commission.Engine) *Service {
	return &Service{db: db, engine: engine}
}

// Checkout places an order for everything in the buyer's cart and clears the
// cart. The whole flow runs in one transaction: any failure leaves no order,
// no payment, no ledger entry and no stock change behind.
func (s *Service) Checkout(ctx context.Context, buyerID uint, method string, proof Proof) (uint, error) {
	var orderID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart domain.Cart
		if err := tx.Preload("Items").Where("user_id = ?", buyerID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("active cart: %w", domain.ErrNotFound)
			}
			return err
		}
		if len(cart.Items) == 0 {
			return fmt.Errorf("cart is empty: %w", domain.ErrNotFound)
		}
		total := decimal.Zero
		for _, item := range cart.Items {
			total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		}

		var err error
		switch method {
		case domain.PaymentMethodWallet:
			orderID, err = s.settleImmediate(tx, buyerID, &cart, total)
		case domain.PaymentMethodQR:
			orderID, err = s.settleDeferred(tx, buyerID, &cart, total, proof)
		default:
			return fmt.Errorf("%w: unsupported payment method %q", domain.ErrInvalidState, method)
		}
		if err != nil {
			return err
		}
		return clearCart(tx, &cart)
	})
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{
		"order_id": orderID,
		"user_id":  buyerID,
		"method":   method,
	}).Info("Checkout completed")
	return orderID, nil
}

// settleImmediate runs the wallet path: balance check, order marked Paid,
// payment captured, wallet debited and commission distributed per unit, all
// inside the caller's transaction.
func (s *Service) settleImmediate(tx *gorm.DB, buyerID uint, cart *domain.Cart, total decimal.Decimal) (uint, error) {
	// Fail fast before creating any rows. Debit re-checks under the row lock.
	wallet, err := ledger.GetOrCreateWallet(tx, buyerID)
	if err != nil {
		return 0, err
	}
	if wallet.Balance.LessThan(total) {
		return 0, fmt.Errorf("%w: balance %s, order total %s", domain.ErrInsufficientFunds, wallet.Balance, total)
	}
	order := domain.Order{
		UserID:        buyerID,
		AmountPaid:    total,
		PaymentMethod: domain.PaymentMethodWallet,
		PaymentStatus: domain.OrderPaid,
	}
	if err := tx.Create(&order).Error; err != nil {
		return 0, err
	}
	payment := domain.Payment{
		UserID:        buyerID,
		OrderID:       order.ID,
		Method:        domain.PaymentMethodWallet,
		Status:        domain.PaymentCaptured,
		Amount:        total,
		TransactionID: uuid.NewString(), // Internal reference, no external gateway involved
	}
	if err := tx.Create(&payment).Error; err != nil {
		return 0, err
	}
	description := fmt.Sprintf("Order #%d placed with wallet", order.ID)
	if err := ledger.Debit(tx, buyerID, total, description, &order.ID); err != nil {
		return 0, err
	}
	if err := s.fulfillItems(tx, buyerID, &order, cart.Items, true); err != nil {
		return 0, err
	}
	return order.ID, nil
}

// settleDeferred runs the qr path: the order and payment stay pending, stock
// is reserved and the cart cleared, but no debit and no commission happen
// until an admin confirms the payment.
func (s *Service) settleDeferred(tx *gorm.DB, buyerID uint, cart *domain.Cart, total decimal.Decimal, proof Proof) (uint, error) {
	order := domain.Order{
		UserID:        buyerID,
		AmountPaid:    total,
		PaymentMethod: domain.PaymentMethodQR,
		PaymentStatus: domain.OrderPending,
	}
	if err := tx.Create(&order).Error; err != nil {
		return 0, err
	}
	payment := domain.Payment{
		UserID:        buyerID,
		OrderID:       order.ID,
		Method:        domain.PaymentMethodQR,
		Status:        domain.PaymentPending,
		Amount:        total,
		TransactionID: proof.TransactionID,
		ProofRef:      proof.ProofRef,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return 0, err
	}
	if err := s.fulfillItems(tx, buyerID, &order, cart.Items, false); err != nil {
		return 0, err
	}
	return order.ID, nil
}

// fulfillItems persists the order items and decrements stock; with commission
// enabled it also distributes commission once per purchased unit.
func (s *Service) fulfillItems(tx *gorm.DB, buyerID uint, order *domain.Order, items []domain.CartItem, withCommission bool) error {
	for _, item := range items {
		orderItem := domain.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			return err
		}
		product, err := decrementStock(tx, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if !withCommission {
			continue
		}
		for unit := 0; unit < item.Quantity; unit++ {
			if _, err := s.engine.DistributeUnit(tx, buyerID, product, item.Price, &order.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// decrementStock checks and updates the product stock under an exclusive row
// lock, so two concurrent checkouts cannot both pass on a stale count.
func decrementStock(tx *gorm.DB, productID uint, quantity int) (*domain.Product, error) {
	var product domain.Product
	if err := ledger.Lock(tx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
		}
		return nil, err
	}
	if product.StockQuantity < quantity {
		return nil, fmt.Errorf("%w: %s has %d in stock, ordered %d",
			domain.ErrInsufficientStock, product.Name, product.StockQuantity, quantity)
	}
	product.StockQuantity -= quantity
	if err := tx.Save(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// clearCart removes the consumed cart and its items.
func clearCart(tx *gorm.DB, cart *domain.Cart) error {
	if err := tx.Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Delete(cart).Error
}
