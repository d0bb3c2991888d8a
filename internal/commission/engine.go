package commission

import (
	"fmt"

	"github.com/harshadakhorgade/Sales/internal/domain"   // Importing domain models
	"github.com/harshadakhorgade/Sales/internal/ledger"   // Wallet mutations
	"github.com/harshadakhorgade/Sales/internal/referral" // Sponsor chain walk

	"github.com/shopspring/decimal"
	"gorm.io/gorm" // GORM ORM library
)

// Engine distributes referral commission up the buyer's sponsor chain.
type Engine struct {
	rates []decimal.Decimal // Rate per level, level 1 = immediate sponsor
}

// NewEngine builds an engine from the configured level rates.
func NewEngine(rates []decimal.Decimal) *Engine {
	return &Engine{rates: rates}
}

// MaxDepth reports how many sponsor levels earn commission.
func (e *Engine) MaxDepth() int {
	return len(e.rates)
}

// DistributeUnit credits each ancestor of the buyer for exactly one purchased
// unit of the product: ancestor at level i earns rates[i] * unitPrice. Zero
// amounts are skipped. Returns the ids of the users credited, nearest level
// first, so callers can invalidate their cached balances.
//
// The engine keeps no record of having run; the caller must invoke it exactly
// once per unit ever sold, inside the transaction that settles the order.
func (e *Engine) DistributeUnit(tx *gorm.DB, buyerID uint, product *domain.Product, unitPrice decimal.Decimal, orderID *uint) ([]uint, error) {
	ancestors, err := referral.Ancestors(tx, buyerID, len(e.rates))
	if err != nil {
		return nil, err
	}
	credited := make([]uint, 0, len(ancestors))
	for i, ancestor := range ancestors {
		amount := e.rates[i].Mul(unitPrice).Round(2)
		if !amount.IsPositive() {
			continue
		}
		description := fmt.Sprintf("Level %d commission for 1 x %s", i+1, product.Name)
		if err := ledger.Credit(tx, ancestor.ID, amount, description, orderID); err != nil {
			return credited, err
		}
		credited = append(credited, ancestor.ID)
	}
	return credited, nil
}
