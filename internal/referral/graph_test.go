package referral

import (
	"testing"

	"github.com/harshadakhorgade/Sales/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Wallet{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, sponsorID *uint) domain.User {
	t.Helper()
	user := domain.User{Username: username, Password: "x", SponsorID: sponsorID}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func TestAncestorsOrderedNearestFirst(t *testing.T) {
	db := newTestDB(t)
	root := createUser(t, db, "root", nil)
	mid := createUser(t, db, "mid", &root.ID)
	leaf := createUser(t, db, "leaf", &mid.ID)
	buyer := createUser(t, db, "buyer", &leaf.ID)

	chain, err := Ancestors(db, buyer.ID, 5)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, leaf.ID, chain[0].ID)
	assert.Equal(t, mid.ID, chain[1].ID)
	assert.Equal(t, root.ID, chain[2].ID)
}

func TestAncestorsStopsAtMaxDepth(t *testing.T) {
	db := newTestDB(t)
	root := createUser(t, db, "root", nil)
	mid := createUser(t, db, "mid", &root.ID)
	buyer := createUser(t, db, "buyer", &mid.ID)

	chain, err := Ancestors(db, buyer.ID, 1)
	require.NoError(t, err)
	require.Len(t, chain, 1)
	assert.Equal(t, mid.ID, chain[0].ID)
}

func TestAncestorsShortChainYieldsFewerEntries(t *testing.T) {
	db := newTestDB(t)
	root := createUser(t, db, "root", nil)
	buyer := createUser(t, db, "buyer", &root.ID)

	chain, err := Ancestors(db, buyer.ID, 10)
	require.NoError(t, err)
	assert.Len(t, chain, 1)
}

func TestAncestorsNoSponsor(t *testing.T) {
	db := newTestDB(t)
	buyer := createUser(t, db, "loner", nil)

	chain, err := Ancestors(db, buyer.ID, 3)
	require.NoError(t, err)
	assert.Empty(t, chain)
}

func TestAncestorsUnknownUser(t *testing.T) {
	db := newTestDB(t)

	_, err := Ancestors(db, 999, 3)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
