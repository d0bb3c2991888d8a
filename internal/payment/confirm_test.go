package payment

import (
	"context"
	"testing"

	"github.com/harshadakhorgade/Sales/internal/commission"
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
		&domain.User{}, &domain.Wallet{}, &domain.WalletTransaction{},
		&domain.Product{}, &domain.Order{}, &domain.OrderItem{}, &domain.Payment{},
	))
	return db
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func rates(vals ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(vals))
	for i, v := range vals {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func createUser(t *testing.T, db *gorm.DB, username string, sponsorID *uint) domain.User {
	t.Helper()
	user := domain.User{Username: username, Password: "x", SponsorID: sponsorID}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// seedPendingOrder builds the state a deferred (qr) checkout leaves behind: a
// Pending order with items and a pending payment, no ledger entries yet.
func seedPendingOrder(t *testing.T, db *gorm.DB, buyerID uint, quantity int) (domain.Order, domain.Payment) {
	t.Helper()
	product := domain.Product{Name: "widget", Price: dec("100"), StockQuantity: 10}
	require.NoError(t, db.Create(&product).Error)
	total := dec("100").Mul(decimal.NewFromInt(int64(quantity)))
	order := domain.Order{
		UserID:        buyerID,
		AmountPaid:    total,
		PaymentMethod: domain.PaymentMethodQR,
		PaymentStatus: domain.OrderPending,
	}
	require.NoError(t, db.Create(&order).Error)
	item := domain.OrderItem{OrderID: order.ID, ProductID: product.ID, Quantity: quantity, Price: dec("100")}
	require.NoError(t, db.Create(&item).Error)
	pay := domain.Payment{
		UserID:  buyerID,
		OrderID: order.ID,
		Method:  domain.PaymentMethodQR,
		Status:  domain.PaymentPending,
		Amount:  total,
	}
	require.NoError(t, db.Create(&pay).Error)
	return order, pay
}

func balanceOf(t *testing.T, db *gorm.DB, userID uint) decimal.Decimal {
	t.Helper()
	wallet, err := ledger.GetOrCreateWallet(db, userID)
	require.NoError(t, err)
	return wallet.Balance
}

func countLedgerRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&domain.WalletTransaction{}).Count(&count).Error)
	return count
}

func TestConfirmCapturesAndDistributes(t *testing.T) {
	db := newTestDB(t)
	root := createUser(t, db, "root", nil)
	mid := createUser(t, db, "mid", &root.ID)
	buyer := createUser(t, db, "buyer", &mid.ID)
	order, pay := seedPendingOrder(t, db, buyer.ID, 2)

	svc := NewService(db, commission.NewEngine(rates("0.05", "0.03")))
	res, err := svc.Confirm(context.Background(), pay.ID)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, domain.PaymentCaptured, res.Payment.Status)
	require.NotNil(t, res.Payment.ConfirmedAt)
	assert.ElementsMatch(t, []uint{mid.ID, root.ID}, res.Credited,
		"each sponsor reported once despite two units")

	var reloaded domain.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, domain.OrderPaid, reloaded.PaymentStatus)

	// 2 units x 5% and 3% of 100
	assert.True(t, balanceOf(t, db, mid.ID).Equal(dec("10")), "level 1 = %s", balanceOf(t, db, mid.ID))
	assert.True(t, balanceOf(t, db, root.ID).Equal(dec("6")), "level 2 = %s", balanceOf(t, db, root.ID))
	assert.EqualValues(t, 4, countLedgerRows(t, db))
}

func TestConfirmTwiceDistributesOnce(t *testing.T) {
	db := newTestDB(t)
	root := createUser(t, db, "root", nil)
	buyer := createUser(t, db, "buyer", &root.ID)
	_, pay := seedPendingOrder(t, db, buyer.ID, 2)

	svc := NewService(db, commission.NewEngine(rates("0.05")))
	first, err := svc.Confirm(context.Background(), pay.ID)
	require.NoError(t, err)
	require.True(t, first.Applied)
	balanceAfterFirst := balanceOf(t, db, root.ID)
	rowsAfterFirst := countLedgerRows(t, db)

	second, err := svc.Confirm(context.Background(), pay.ID)
	require.NoError(t, err)
	assert.False(t, second.Applied, "second confirm must be a no-op")
	assert.Empty(t, second.Credited)
	assert.Equal(t, domain.PaymentCaptured, second.Payment.Status)
	assert.True(t, balanceOf(t, db, root.ID).Equal(balanceAfterFirst), "balance changed on repeat confirm")
	assert.Equal(t, rowsAfterFirst, countLedgerRows(t, db), "ledger grew on repeat confirm")
}

func TestConfirmUnknownPayment(t *testing.T) {
	db := newTestDB(t)

	svc := NewService(db, commission.NewEngine(nil))
	_, err := svc.Confirm(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestConfirmBatchCountsOnlyNewCaptures(t *testing.T) {
	db := newTestDB(t)
	root := createUser(t, db, "root", nil)
	buyer := createUser(t, db, "buyer", &root.ID)
	_, pay1 := seedPendingOrder(t, db, buyer.ID, 1)
	_, pay2 := seedPendingOrder(t, db, buyer.ID, 1)

	svc := NewService(db, commission.NewEngine(rates("0.05")))
	res, err := svc.Confirm(context.Background(), pay1.ID)
	require.NoError(t, err)
	require.True(t, res.Applied)

	confirmed, err := svc.ConfirmBatch(context.Background(), []uint{pay1.ID, pay2.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, confirmed, "already-captured payment must not be counted")
	assert.True(t, balanceOf(t, db, root.ID).Equal(dec("10")), "root = %s", balanceOf(t, db, root.ID))
}
