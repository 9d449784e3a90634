package postgres

import (
	"time"
)

/*
 * 'BrokenTelephoneGame' is one archived round of the broken telephone
 * drawing game. The owner reference is nullable so the archive outlives
 * account deletion.
 */
type BrokenTelephoneGame struct {
	GameID      uint      `gorm:"primaryKey;autoIncrement"`
	AccountUUID *string   `gorm:"type:uuid"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Account *Account               `gorm:"foreignKey:AccountUUID;constraint:OnDelete:SET NULL;"`
	Entries []BrokenTelephoneEntry `gorm:"foreignKey:GameID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
