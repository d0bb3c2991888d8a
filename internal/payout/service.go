package payout

import (
	"context"
	"errors"
	"fmt"

	"github.com/harshadakhorgade/Sales/internal/domain" // Importing domain models
	"github.com/harshadakhorgade/Sales/internal/ledger" // Wallet lock and debit

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Service handles withdrawal requests and their admin transitions.
//
// Debit timing: the wallet is NOT debited when the request is made. The
// request only verifies the balance under the wallet row lock and records a
// pending payout; the debit happens exactly once, when an admin marks the
// payout paid, with the balance re-checked under the same lock. Transitions to
// approved or rejected therefore have no ledger effect.
type Service struct {
	db *gorm.DB
}

// NewService wires the payout service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// RequestWithdrawal records a pending withdrawal of wallet funds. The
// requestID is the caller-supplied idempotency key: a replayed key returns the
// existing payout unchanged, and the same key with a different amount is
// rejected. An empty key gets a generated one.
func (s *Service) RequestWithdrawal(ctx context.Context, userID uint, amount decimal.Decimal, requestID string) (*domain.Payout, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", domain.ErrInvalidState)
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	var payout domain.Payout
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Take the wallet lock before the duplicate check so two concurrent
		// requests with the same key serialize and the loser sees the row the
		// winner created.
		wallet, err := ledger.LockWallet(tx, userID)
		if err != nil {
			return err
		}
		var existing domain.Payout
		err = tx.Where("request_id = ?", requestID).First(&existing).Error
		if err == nil {
			if existing.UserID != userID || !existing.Amount.Equal(amount) {
				return fmt.Errorf("%w: request %s was already used with different parameters",
					domain.ErrInvalidState, requestID)
			}
			payout = existing // Replay, not an error
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if wallet.Balance.LessThan(amount) {
			return fmt.Errorf("%w: balance %s, requested %s", domain.ErrInsufficientFunds, wallet.Balance, amount)
		}
		payout = domain.Payout{
			UserID:      userID,
			Amount:      amount,
			Status:      domain.PayoutPending,
			RequestID:   requestID,
			FinalAmount: amount, // No fee or tax is applied
		}
		return tx.Create(&payout).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    userID,
		"payout_id":  payout.ID,
		"amount":     amount.String(),
		"request_id": requestID,
	}).Info("Withdrawal requested")
	return &payout, nil
}

// UpdateStatus applies an admin transition. Marking a payout paid debits the
// requested amount from the user's wallet and records the ledger entry in the
// same transaction; if the balance has meanwhile dropped below the amount the
// transition fails and the payout stays in its previous state. paid is
// terminal. Re-applying the current status is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, payoutID uint, status, note string) (*domain.Payout, error) {
	switch status {
	case domain.PayoutApproved, domain.PayoutRejected, domain.PayoutPaid:
	default:
		return nil, fmt.Errorf("%w: unknown payout status %q", domain.ErrInvalidState, status)
	}
	var payout domain.Payout
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ledger.Lock(tx).First(&payout, payoutID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("payout %d: %w", payoutID, domain.ErrNotFound)
			}
			return err
		}
		if payout.Status == status {
			return nil // Repeated admin action, nothing to do
		}
		if payout.Status == domain.PayoutPaid {
			return fmt.Errorf("%w: payout %d is already paid", domain.ErrInvalidState, payoutID)
		}
		if status == domain.PayoutPaid {
			description := fmt.Sprintf("Payout #%d approved by admin", payout.ID)
			if err := ledger.Debit(tx, payout.UserID, payout.Amount, description, nil); err != nil {
				return err
			}
		}
		payout.Status = status
		if note != "" {
			payout.ConfirmationNote = note
		}
		return tx.Save(&payout).Error
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"payout_id": payout.ID,
		"user_id":   payout.UserID,
		"status":    payout.Status,
		"amount":    payout.Amount.String(),
	}).Info("Payout status updated")
	return &payout, nil
}
