package postgres

import (
	"time"
)

/*
 * 'Block' represents one account blocking another. Unidirectional: the
 * blocker is always stored in the first column, so uniqueness is per
 * ordered pair and a reverse block may coexist with a forward one.
 */
type Block struct {
	BlockerUUID string    `gorm:"primaryKey;type:uuid;not null"`
	BlockedUUID string    `gorm:"primaryKey;type:uuid;not null;index:idx_blocks_blocked"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Blocker Account `gorm:"foreignKey:BlockerUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Blocked Account `gorm:"foreignKey:BlockedUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
