package postgres

import (
	"gorm.io/datatypes"
)

// ContentType distinguishes the two kinds of broken telephone entries.
type ContentType uint8

const (
	ContentTypePrompt ContentType = iota
	ContentTypeImage
)

/*
 * 'BrokenTelephoneEntry' is a single contribution within a game: a text
 * prompt or a drawing, keyed by (game, stream, index). An index of 1 means
 * the contributor started the stream. TotalRating is denormalized here so
 * reads never join against the ratings table.
 */
type BrokenTelephoneEntry struct {
	GameID      uint    `gorm:"primaryKey;not null"`
	Stream      uint    `gorm:"primaryKey;not null"`
	Index       uint    `gorm:"primaryKey;not null;column:index"`
	AccountUUID *string `gorm:"type:uuid"`
	ContentType ContentType

	// Nullable on purpose: a NULL total under a live rating row is a data
	// integrity fault that the aggregator surfaces instead of patching.
	TotalRating *int `gorm:"default:0"`

	// Prompt entries store {"text": ...}, image entries store the stroke
	// payload produced by the client.
	Content datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	// Relationships
	Account *Account            `gorm:"foreignKey:AccountUUID;constraint:OnDelete:SET NULL;"`
	Game    BrokenTelephoneGame `gorm:"foreignKey:GameID;constraint:OnDelete:CASCADE;"`
}
