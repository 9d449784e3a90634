package ratings

import (
	"context"
	"errors"

	game_constants "Scrawl/constants/game"
	models "Scrawl/models/postgres"
	"Scrawl/services/accounts"
	"Scrawl/services/apperr"
	"Scrawl/utils"

	"gorm.io/gorm"
)

// The aggregator keeps three numbers in lockstep per rating: the rating
// row's own score, the entry's denormalized TotalRating, and (while the
// contributor account still exists) the contributor's TotalRating. Every
// operation is one transaction; any step failure rolls the rest back.

// EntryKey locates one broken telephone entry.
type EntryKey struct {
	GameID uint
	Stream uint
	Index  uint
}

// SubmitRating records a new 1-5 rating for an entry by raterUUID.
func SubmitRating(ctx context.Context, db *gorm.DB, raterUUID string, key EntryKey, score int) error {
	if score < game_constants.MinEntryRating || score > game_constants.MaxEntryRating {
		return apperr.Invalid("rating must be between 1 and 5")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&models.BrokenTelephoneRating{}).
			Where("entry_game_id = ? AND entry_stream = ? AND entry_index = ? AND account_uuid = ?",
				key.GameID, key.Stream, key.Index, raterUUID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("you already rated this entry")
		}

		entry, err := findEntry(tx, key)
		if err != nil {
			return err
		}
		if entry.TotalRating == nil {
			// a live entry should always carry a total; patching it with a
			// zero here would hide whatever corrupted it
			return apperr.Integrity("entry has no rating total")
		}

		rating := models.BrokenTelephoneRating{
			EntryGameID: key.GameID,
			EntryStream: key.Stream,
			EntryIndex:  key.Index,
			AccountUUID: raterUUID,
			Rating:      score,
		}
		if err := tx.Create(&rating).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				return apperr.Conflict("you already rated this entry")
			}
			return err
		}

		return applyDelta(tx, entry, score)
	})
}

// ReplaceRating updates an existing rating in place and shifts the
// aggregates by the difference between the new and old scores.
func ReplaceRating(ctx context.Context, db *gorm.DB, raterUUID string, key EntryKey, score int) error {
	if score < game_constants.MinEntryRating || score > game_constants.MaxEntryRating {
		return apperr.Invalid("rating must be between 1 and 5")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rating, err := findRating(tx, raterUUID, key)
		if err != nil {
			return err
		}

		entry, err := findRatedEntry(tx, key)
		if err != nil {
			return err
		}

		delta := score - rating.Rating
		err = tx.Model(&models.BrokenTelephoneRating{}).
			Where("entry_game_id = ? AND entry_stream = ? AND entry_index = ? AND account_uuid = ?",
				key.GameID, key.Stream, key.Index, raterUUID).
			UpdateColumn("rating", score).Error
		if err != nil {
			return err
		}

		return applyDelta(tx, entry, delta)
	})
}

// DeleteRating removes a rating and backs its score out of the
// aggregates.
func DeleteRating(ctx context.Context, db *gorm.DB, raterUUID string, key EntryKey) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rating, err := findRating(tx, raterUUID, key)
		if err != nil {
			return err
		}

		entry, err := findRatedEntry(tx, key)
		if err != nil {
			return err
		}

		err = tx.Where("entry_game_id = ? AND entry_stream = ? AND entry_index = ? AND account_uuid = ?",
			key.GameID, key.Stream, key.Index, raterUUID).
			Delete(&models.BrokenTelephoneRating{}).Error
		if err != nil {
			return err
		}

		return applyDelta(tx, entry, -rating.Rating)
	})
}

// PersonalRatings returns the scores an account has given within one
// game, keyed by stream and index.
func PersonalRatings(ctx context.Context, db *gorm.DB, accountUUID string, gameID uint) ([]models.BrokenTelephoneRating, error) {
	var ratings []models.BrokenTelephoneRating
	err := db.WithContext(ctx).
		Where("entry_game_id = ? AND account_uuid = ?", gameID, accountUUID).
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// applyDelta shifts the entry total and, when the contributor account is
// still around, the contributor's account total. Ratings on orphaned
// entries keep working; only the account-side aggregation is skipped.
func applyDelta(tx *gorm.DB, entry *models.BrokenTelephoneEntry, delta int) error {
	err := tx.Model(&models.BrokenTelephoneEntry{}).
		Where("game_id = ? AND stream = ? AND index = ?", entry.GameID, entry.Stream, entry.Index).
		UpdateColumn("total_rating", gorm.Expr("COALESCE(total_rating, 0) + ?", delta)).Error
	if err != nil {
		return err
	}

	if entry.AccountUUID == nil {
		return nil
	}
	err = accounts.AddToCounter(tx, *entry.AccountUUID, accounts.CounterTotalRating, delta)
	if apperr.Is(err, apperr.KindNotFound) {
		// contributor got deleted between the FK nullify and now; the
		// entry-side total is still correct
		return nil
	}
	return err
}

func findEntry(tx *gorm.DB, key EntryKey) (*models.BrokenTelephoneEntry, error) {
	var entry models.BrokenTelephoneEntry
	err := tx.Where("game_id = ? AND stream = ? AND index = ?", key.GameID, key.Stream, key.Index).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no such entry exists")
		}
		return nil, err
	}
	return &entry, nil
}

// findRatedEntry is findEntry for paths where a rating row already
// exists: the entry existed at submit time, so its absence now is a
// corruption worth surfacing, not an ordinary miss.
func findRatedEntry(tx *gorm.DB, key EntryKey) (*models.BrokenTelephoneEntry, error) {
	entry, err := findEntry(tx, key)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Integrity("a rating exists for an entry that no longer does")
	}
	return entry, err
}

func findRating(tx *gorm.DB, raterUUID string, key EntryKey) (*models.BrokenTelephoneRating, error) {
	var rating models.BrokenTelephoneRating
	err := tx.Where("entry_game_id = ? AND entry_stream = ? AND entry_index = ? AND account_uuid = ?",
		key.GameID, key.Stream, key.Index, raterUUID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("you have not rated this entry yet")
		}
		return nil, err
	}
	return &rating, nil
}
