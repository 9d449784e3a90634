package postgres

import (
	"time"
)

// UserType is the privilege level of an account. Lower value means a
// higher privilege, so comparisons use <=.
type UserType uint8

const (
	UserTypeAdmin UserType = iota
	UserTypeModerator
	UserTypeNone
)

/*
 * 'Account' contains the blueprint definition of a player account. It is
 * referenced by Friendship, PendingFriendship, Block, Verification and the
 * broken telephone tables.
 */
type Account struct {
	UUID          string    `gorm:"primaryKey;type:uuid;not null"`
	Email         string    `gorm:"size:254;not null;uniqueIndex"`
	Name          string    `gorm:"size:16;not null;uniqueIndex"`
	PasswordHash  string    `gorm:"size:255;not null"`
	UserType      UserType  `gorm:"default:2"`
	Verified      bool      `gorm:"default:false"`
	About         string    `gorm:"size:255"`
	DateGenerated time.Time `gorm:"default:CURRENT_TIMESTAMP"`

	// Aggregate counters. Kept nullable so that rows imported from older
	// backups stay readable; every write path treats NULL as zero.
	GamesPlayed  *int `gorm:"default:0"`
	TotalRating  *int `gorm:"default:0"`
	TotalFriends *int `gorm:"default:0"`
}
