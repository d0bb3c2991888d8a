package domain

// User Model
// SponsorID points at the user who referred this one. It is assigned once at
// registration and never changed afterwards, which keeps the sponsor relation
// a forest: set-once parent pointers cannot form a cycle.
type User struct {
	ID        uint   `gorm:"primaryKey"`                                     // Primary key
	Username  string `gorm:"unique;not null"`                                // Unique username
	Password  string `gorm:"not null"`                                       // Hashed password
	Role      string `gorm:"default:user"`                                   // Role: user or admin
	SponsorID *uint  `gorm:"index"`                                          // Referring user, nil for roots
	Wallet    Wallet `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"` // One-to-one relationship with Wallet
}
