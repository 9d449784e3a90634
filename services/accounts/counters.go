package accounts

import (
	models "Scrawl/models/postgres"
	"Scrawl/services/apperr"

	"gorm.io/gorm"
)

// Aggregate counter columns on the accounts table. Only these names may
// be passed to AddToCounter.
const (
	CounterGamesPlayed  = "games_played"
	CounterTotalRating  = "total_rating"
	CounterTotalFriends = "total_friends"
)

// AddToCounter adds delta to one of an account's aggregate counters. A
// NULL counter counts as zero, so the zero-default policy lives here and
// nowhere else. Deltas may be negative; the column is never left NULL.
func AddToCounter(tx *gorm.DB, accountUUID string, counter string, delta int) error {
	switch counter {
	case CounterGamesPlayed, CounterTotalRating, CounterTotalFriends:
	default:
		return apperr.Integrity("unknown aggregate counter")
	}

	result := tx.Model(&models.Account{}).
		Where("uuid = ?", accountUUID).
		UpdateColumn(counter, gorm.Expr("COALESCE("+counter+", 0) + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("no account with that UUID exists")
	}
	return nil
}
