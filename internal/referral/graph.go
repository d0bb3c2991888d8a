package referral

import (
	"errors"
	"fmt"

	"github.com/harshadakhorgade/Sales/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Ancestors returns the sponsor chain of a user, nearest sponsor first. The
// walk stops at the first user without a sponsor or after maxDepth hops,
// whichever comes first; a chain shorter than maxDepth simply yields fewer
// entries. Sponsor pointers are set once at registration, so the walk cannot
// loop.
func Ancestors(tx *gorm.DB, userID uint, maxDepth int) ([]domain.User, error) {
	var user domain.User
	if err := tx.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
		}
		return nil, err
	}
	chain := make([]domain.User, 0, maxDepth)
	current := user
	for depth := 0; depth < maxDepth && current.SponsorID != nil; depth++ {
		var sponsor domain.User
		if err := tx.First(&sponsor, *current.SponsorID).Error; err != nil {
			return nil, err
		}
		chain = append(chain, sponsor)
		current = sponsor
	}
	return chain, nil
}
