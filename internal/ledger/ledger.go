package ledger

import (
	"fmt"

	"github.com/harshadakhorgade/Sales/internal/domain" // Importing domain models

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // For row locks
)

// This package owns Wallet and WalletTransaction. Balances are mutated only
// here, and every mutation appends a ledger entry atomically with the balance
// write, so that balance == sum(credits) - sum(debits) holds after every
// commit. Credit and Debit open their own transaction; inside a caller's
// transaction that becomes a savepoint, so the pair still rolls back with the
// enclosing unit of work.

// Lock adds an exclusive row lock to the query. SQLite has no FOR UPDATE
// syntax and serializes writers on its own, so the clause is skipped there.
func Lock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// GetOrCreateWallet returns the user's wallet, creating it with a zero
// balance on first use.
func GetOrCreateWallet(tx *gorm.DB, userID uint) (*domain.Wallet, error) {
	var wallet domain.Wallet
	if err := tx.Where(domain.Wallet{UserID: userID}).FirstOrCreate(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// LockWallet returns the user's wallet with an exclusive row lock held for the
// rest of the transaction. The wallet is created first if it does not exist,
// so the lock is always taken on a real row.
func LockWallet(tx *gorm.DB, userID uint) (*domain.Wallet, error) {
	wallet, err := GetOrCreateWallet(tx, userID)
	if err != nil {
		return nil, err
	}
	if err := Lock(tx).First(wallet, wallet.ID).Error; err != nil {
		return nil, err
	}
	return wallet, nil
}

// Credit appends a credit entry and increases the wallet balance. Credits
// have no balance floor to check but still take the row lock: the balance is
// recomputed in Go on the locked row before being written back.
func Credit(tx *gorm.DB, userID uint, amount decimal.Decimal, description string, orderID *uint) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: credit amount must be positive, got %s", domain.ErrInvalidState, amount)
	}
	var wallet *domain.Wallet
	err := tx.Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = LockWallet(tx, userID)
		if err != nil {
			return err
		}
		wallet.Balance = wallet.Balance.Add(amount)
		if err := tx.Save(wallet).Error; err != nil {
			return err
		}
		entry := domain.WalletTransaction{
			WalletID:    wallet.ID,
			Type:        domain.TransactionCredit,
			Amount:      amount,
			Description: description,
			OrderID:     orderID,
		}
		return tx.Create(&entry).Error // Failure rolls back the balance change
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"wallet_id": wallet.ID,
		"amount":    amount.String(),
		"type":      domain.TransactionCredit,
	}).Info("Wallet credited")
	return nil
}

// Debit appends a debit entry and decreases the wallet balance. The
// sufficient-balance check runs under the wallet row lock so two concurrent
// debits can never both pass on a stale balance.
func Debit(tx *gorm.DB, userID uint, amount decimal.Decimal, description string, orderID *uint) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: debit amount must be positive, got %s", domain.ErrInvalidState, amount)
	}
	var wallet *domain.Wallet
	err := tx.Transaction(func(tx *gorm.DB) error {
		var err error
		wallet, err = LockWallet(tx, userID)
		if err != nil {
			return err
		}
		if wallet.Balance.LessThan(amount) {
			return fmt.Errorf("%w: balance %s, debit %s", domain.ErrInsufficientFunds, wallet.Balance, amount)
		}
		wallet.Balance = wallet.Balance.Sub(amount)
		if err := tx.Save(wallet).Error; err != nil {
			return err
		}
		entry := domain.WalletTransaction{
			WalletID:    wallet.ID,
			Type:        domain.TransactionDebit,
			Amount:      amount,
			Description: description,
			OrderID:     orderID,
		}
		return tx.Create(&entry).Error // Failure rolls back the balance change
	})
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":   userID,
		"wallet_id": wallet.ID,
		"amount":    amount.String(),
		"type":      domain.TransactionDebit,
	}).Info("Wallet debited")
	return nil
}
