package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harshadakhorgade/Sales/internal/commission" // Commission engine
	"github.com/harshadakhorgade/Sales/internal/domain"     // Importing domain models
	"github.com/harshadakhorgade/Sales/internal/ledger"     // Row lock helper

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Service drives the pending -> captured payment lifecycle for deferred
// (qr) settlements. Commission for these orders is withheld at checkout and
// distributed here, once, when an admin confirms that the money arrived.
type Service struct {
	db     *gorm.DB
	engine *commission.Engine
}

// NewService wires the payment confirmation service.
func NewService(db *gorm.DB, engine *commission.Engine) *Service {
	return &Service{db: db, engine: engine}
}

// Result reports a confirmation outcome.
type Result struct {
	Payment  *domain.Payment // Current payment state
	Applied  bool            // Whether this call did the capture
	Credited []uint          // Users who earned commission, deduplicated
}

// Confirm captures a pending payment, marks its order Paid and distributes
// commission once per unit of every order item, all in one transaction.
// Confirming an already-captured payment is a no-op returning the current
// state, which makes repeated admin clicks safe: commission can never be
// distributed twice. The result lists the sponsors whose wallets were
// credited, so callers can invalidate their cached balances.
func (s *Service) Confirm(ctx context.Context, paymentID uint) (*Result, error) {
	var pay domain.Payment
	res := &Result{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the payment row so two concurrent confirms serialize on the
		// pending -> captured check.
		if err := ledger.Lock(tx).First(&pay, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("payment %d: %w", paymentID, domain.ErrNotFound)
			}
			return err
		}
		if pay.Status == domain.PaymentCaptured {
			return nil // Already settled, nothing to do
		}
		now := time.Now()
		pay.Status = domain.PaymentCaptured
		pay.ConfirmedAt = &now
		if err := tx.Save(&pay).Error; err != nil {
			return err
		}
		var order domain.Order
		if err := tx.Preload("Items").First(&order, pay.OrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("order %d: %w", pay.OrderID, domain.ErrInvalidState)
			}
			return err
		}
		if err := tx.Model(&order).Update("payment_status", domain.OrderPaid).Error; err != nil {
			return err
		}
		seen := make(map[uint]bool)
		for _, item := range order.Items {
			var product domain.Product
			if err := tx.First(&product, item.ProductID).Error; err != nil {
				return err
			}
			for unit := 0; unit < item.Quantity; unit++ {
				credited, err := s.engine.DistributeUnit(tx, order.UserID, &product, item.Price, &order.ID)
				if err != nil {
					return err
				}
				for _, id := range credited {
					if !seen[id] {
						seen[id] = true
						res.Credited = append(res.Credited, id)
					}
				}
			}
		}
		res.Applied = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Payment = &pay
	if res.Applied {
		logrus.WithFields(logrus.Fields{
			"payment_id": pay.ID,
			"order_id":   pay.OrderID,
			"amount":     pay.Amount.String(),
		}).Info("Payment confirmed, commission distributed")
	}
	return res, nil
}

// ConfirmBatch confirms a set of payments one by one, relying on Confirm's
// idempotency instead of a separate bulk path. It reports how many payments
// were newly captured; a missing payment fails the whole batch.
func (s *Service) ConfirmBatch(ctx context.Context, paymentIDs []uint) (int, error) {
	confirmed := 0
	for _, id := range paymentIDs {
		res, err := s.Confirm(ctx, id)
		if err != nil {
			return confirmed, err
		}
		if res.Applied {
			confirmed++
		}
	}
	return confirmed, nil
}
