package postgres

import (
	"time"
)

/*
 * 'Verification' holds a single-use email verification address for an
 * account. 1-1 with Account: issuing a new verification replaces any
 * pending one for the same account.
 */
type Verification struct {
	AccountUUID   string    `gorm:"primaryKey;type:uuid;not null"`
	Address       string    `gorm:"size:32;not null;uniqueIndex"`
	TimeGenerated time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
