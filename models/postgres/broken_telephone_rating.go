package postgres

/*
 * 'BrokenTelephoneRating' is one account's 1-5 rating of one entry. The
 * composite key allows at most one rating per (entry, rater); the score
 * itself is mirrored into the entry's and the contributor's TotalRating
 * by the rating aggregator.
 */
type BrokenTelephoneRating struct {
	EntryGameID uint   `gorm:"primaryKey;not null"`
	EntryStream uint   `gorm:"primaryKey;not null"`
	EntryIndex  uint   `gorm:"primaryKey;not null"`
	AccountUUID string `gorm:"primaryKey;type:uuid;not null"`

	Rating int `gorm:"not null"`

	// Relationships
	Account Account `gorm:"foreignKey:AccountUUID;constraint:OnDelete:CASCADE;"`
}
