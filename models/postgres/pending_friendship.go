package postgres

import (
	"time"
)

/*
 * 'PendingFriendship' represents a friend request that has not been
 * accepted or declined yet. The relationship is unidirectional: the
 * sender is always stored in the first column. At most one request
 * exists per unordered pair, regardless of direction; the migration
 * adds a unique LEAST/GREATEST index on the pair to enforce that.
 */
type PendingFriendship struct {
	SenderUUID   string    `gorm:"primaryKey;type:uuid;not null"`
	ReceiverUUID string    `gorm:"primaryKey;type:uuid;not null;index:idx_pending_receiver"`
	CreatedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Relationships
	Sender   Account `gorm:"foreignKey:SenderUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver Account `gorm:"foreignKey:ReceiverUUID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
