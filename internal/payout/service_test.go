package payout

import (
	"context"
	"testing"

	"github.com/harshadakhorgade/Sales/internal/domain"
	"github.com/harshadakhorgade/Sales/internal/ledger"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Wallet{}, &domain.WalletTransaction{}, &domain.Payout{},
	))
	return db
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func balanceOf(t *testing.T, db *gorm.DB, userID uint) decimal.Decimal {
	t.Helper()
	wallet, err := ledger.GetOrCreateWallet(db, userID)
	require.NoError(t, err)
	return wallet.Balance
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func TestRequestWithdrawalLeavesBalanceUntouched(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, ledger.Credit(db, 1, dec("100"), "seed", nil))

	svc := NewService(db)
	p, err := svc.RequestWithdrawal(context.Background(), 1, dec("60"), "key-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutPending, p.Status)
	assert.True(t, p.FinalAmount.Equal(dec("60")), "final_amount = %s", p.FinalAmount)

	// Debit is deferred to the admin paid transition
	assert.True(t, balanceOf(t, db, 1).Equal(dec("100")), "balance = %s", balanceOf(t, db, 1))
	assert.EqualValues(t, 1, countRows(t, db, &domain.WalletTransaction{}), "only the seed credit may exist")
}

func TestRequestWithdrawalInsufficientBalance(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, ledger.Credit(db, 1, dec("30"), "seed", nil))

	svc := NewService(db)
	_, err := svc.RequestWithdrawal(context.Background(), 1, dec("60"), "key-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.EqualValues(t, 0, countRows(t, db, &domain.Payout{}))
}

func TestRequestWithdrawalReplaySameKey(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, ledger.Credit(db, 1, dec("100"), "seed", nil))

	svc := NewService(db)
	first, err := svc.RequestWithdrawal(context.Background(), 1, dec("60"), "abc")
	require.NoError(t, err)
	second, err := svc.RequestWithdrawal(context.Background(), 1, dec("60"), "abc")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "replay must return the existing payout")
	assert.EqualValues(t, 1, countRows(t, db, &domain.Payout{}), "exactly one payout row for key abc")
}

func TestRequestWithdrawalKeyReusedWithDifferentAmount(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, ledger.Credit(db, 1, dec("100"), "seed", nil))

	svc := NewService(db)
	_, err := svc.RequestWithdrawal(context.Background(), 1, dec("60"), "abc")
	require.NoError(t, err)
	_, err = svc.RequestWithdrawal(context.Background(), 1, dec("10"), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestRequestWithdrawalGeneratesKeyWhenOmitted(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, ledger.Credit(db, 1, dec("100"), "seed", nil))

	svc := NewService(db)
	p, err := svc.RequestWithdrawal(context.Background(), 1, dec("10"), "")
	require.NoError(t, err)
	assert.NotEmpty(t, p.RequestID)
}

func TestRequestWithdrawalRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)

	svc := NewService(db)
	_, err := svc.RequestWithdrawal(context.Background(), 1, decimal.Zero, "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestUpdateStatusApprovedHasNoLedgerEffect(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, ledger.Credit(db, 1, dec("100"), "seed", nil))
	svc := NewService(db)
	p, err := svc.RequestWithdrawal(context.Background(), 1, dec("60"), "abc")
	require.NoError(t, err)

	got, err := svc.UpdateStatus(context.Background(), p.ID, domain.PayoutApproved, "looks good")
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutApproved, got.Status)
	assert.Equal(t, "looks good", got.ConfirmationNote)
	assert.True(t, balanceOf(t, db, 1).Equal(dec("100")), "balance = %s", balanceOf(t, db, 1))
}

func TestUpdateStatusPaidDebitsWallet(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, ledger.Credit(db, 1, dec("100"), "seed", nil))
	svc := NewService(db)
	p, err := svc.RequestWithdrawal(context.Background(), 1, dec("60"), "abc")
	require.NoError(t, err)

	got, err := svc.UpdateStatus(context.Background(), p.ID, domain.PayoutPaid, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutPaid, got.Status)
	assert.True(t, balanceOf(t, db, 1).Equal(dec("40")), "balance = %s", balanceOf(t, db, 1))

	var debits int64
	require.NoError(t, db.Model(&domain.WalletTransaction{}).
		Where("type = ?", domain.TransactionDebit).Count(&debits).Error)
	assert.EqualValues(t, 1, debits)

	// Repeating the terminal transition is a no-op
	again, err := svc.UpdateStatus(context.Background(), p.ID, domain.PayoutPaid, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PayoutPaid, again.Status)
	assert.True(t, balanceOf(t, db, 1).Equal(dec("40")), "repeat transition must not debit again")
}

func TestUpdateStatusPaidFailsWhenBalanceDropped(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, ledger.Credit(db, 1, dec("100"), "seed", nil))
	svc := NewService(db)
	p, err := svc.RequestWithdrawal(context.Background(), 1, dec("60"), "abc")
	require.NoError(t, err)

	// The balance shrinks between the request and the approval
	require.NoError(t, ledger.Debit(db, 1, dec("70"), "order", nil))

	_, err = svc.UpdateStatus(context.Background(), p.ID, domain.PayoutPaid, "")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	var reloaded domain.Payout
	require.NoError(t, db.First(&reloaded, p.ID).Error)
	assert.Equal(t, domain.PayoutPending, reloaded.Status, "payout must stay in its previous state")
}

func TestUpdateStatusPaidIsTerminal(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, ledger.Credit(db, 1, dec("100"), "seed", nil))
	svc := NewService(db)
	p, err := svc.RequestWithdrawal(context.Background(), 1, dec("60"), "abc")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(context.Background(), p.ID, domain.PayoutPaid, "")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), p.ID, domain.PayoutRejected, "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestUpdateStatusUnknownTarget(t *testing.T) {
	db := newTestDB(t)

	svc := NewService(db)
	_, err := svc.UpdateStatus(context.Background(), 1, "cancelled", "")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestUpdateStatusUnknownPayout(t *testing.T) {
	db := newTestDB(t)

	svc := NewService(db)
	_, err := svc.UpdateStatus(context.Background(), 42, domain.PayoutPaid, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
