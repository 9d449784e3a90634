package postgres

import (
	"errors"

	"gorm.io/gorm"
)

/*
 * 'Friendship' represents an accepted friendship between two accounts.
 * The relationship is bidirectional, so the two UUIDs are stored in
 * canonical order: AccountUUID < Account2UUID. Exactly one row exists
 * per unordered pair.
 */
type Friendship struct {
	AccountUUID  string `gorm:"primaryKey;type:uuid;not null;index:idx_friendships_account2"`
	Account2UUID string `gorm:"primaryKey;type:uuid;not null"`

	// Relationships
	Account  Account `gorm:"foreignKey:AccountUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Account2 Account `gorm:"foreignKey:Account2UUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// GORM hook that rejects self-friendships and rows that are not in
// canonical order.
func (f *Friendship) BeforeSave(tx *gorm.DB) error {
	if f.AccountUUID == f.Account2UUID {
		return errors.New("cannot create a friendship between the same account")
	}
	if f.AccountUUID > f.Account2UUID {
		return errors.New("friendship pair is not in canonical order")
	}
	return nil
}

// SortPair returns the two UUIDs in canonical storage order.
func SortPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}
