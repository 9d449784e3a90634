package ratings_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"Scrawl/config"
	models "Scrawl/models/postgres"
	"Scrawl/services/accounts"
	"Scrawl/services/apperr"
	"Scrawl/services/ratings"
	"Scrawl/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if os.Getenv("POSTGRES_HOST") == "" {
		t.Skip("POSTGRES_HOST not set, skipping database test")
	}
	db, err := config.ConnectGORM()
	if err != nil {
		t.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	if err := config.MigrateDatabase(db); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return db
}

func registerTestAccount(t *testing.T, db *gorm.DB) string {
	t.Helper()
	name := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	account, err := accounts.Register(context.Background(), db, name+"@test.example", name, "hunter22")
	if err != nil {
		t.Fatalf("Failed to register test account: %v", err)
	}
	t.Cleanup(func() {
		accounts.Delete(context.Background(), db, account.UUID)
	})
	return account.UUID
}

// createTestGame archives a one-stream game with a prompt and a drawing
// contributed by contributorUUID, and returns the key of the drawing.
func createTestGame(t *testing.T, db *gorm.DB, contributorUUID string) ratings.EntryKey {
	t.Helper()

	game := models.BrokenTelephoneGame{AccountUUID: &contributorUUID}
	if err := db.Create(&game).Error; err != nil {
		t.Fatalf("Failed to create test game: %v", err)
	}
	t.Cleanup(func() {
		db.Where("entry_game_id = ?", game.GameID).Delete(&models.BrokenTelephoneRating{})
		db.Delete(&game)
	})

	entries := []models.BrokenTelephoneEntry{
		{
			GameID:      game.GameID,
			Stream:      1,
			Index:       1,
			AccountUUID: &contributorUUID,
			ContentType: models.ContentTypePrompt,
			Content:     datatypes.JSON([]byte(`{"text": "a cat playing chess"}`)),
		},
		{
			GameID:      game.GameID,
			Stream:      1,
			Index:       2,
			AccountUUID: &contributorUUID,
			ContentType: models.ContentTypeImage,
			Content:     datatypes.JSON([]byte(`{"strokes": []}`)),
		},
	}
	if err := db.Create(&entries).Error; err != nil {
		t.Fatalf("Failed to create test entries: %v", err)
	}

	return ratings.EntryKey{GameID: game.GameID, Stream: 1, Index: 2}
}

func entryTotal(t *testing.T, db *gorm.DB, key ratings.EntryKey) int {
	t.Helper()
	var entry models.BrokenTelephoneEntry
	err := db.Where("game_id = ? AND stream = ? AND index = ?", key.GameID, key.Stream, key.Index).
		First(&entry).Error
	if err != nil {
		t.Fatalf("Failed to read entry: %v", err)
	}
	if entry.TotalRating == nil {
		return 0
	}
	return *entry.TotalRating
}

func accountTotal(t *testing.T, db *gorm.DB, accountUUID string) int {
	t.Helper()
	account, err := utils.FindAccount(db, accountUUID)
	if err != nil {
		t.Fatalf("Failed to read account: %v", err)
	}
	if account.TotalRating == nil {
		return 0
	}
	return *account.TotalRating
}

func TestSubmitRating(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	t.Run("Score lands on the entry and the contributor", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		rater := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		assert.NoError(t, ratings.SubmitRating(ctx, db, rater, key, 3))

		assert.Equal(t, 3, entryTotal(t, db, key))
		assert.Equal(t, 3, accountTotal(t, db, contributor))
	})

	t.Run("Out of range scores are invalid", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		rater := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		assert.True(t, apperr.Is(ratings.SubmitRating(ctx, db, rater, key, 0), apperr.KindInvalid))
		assert.True(t, apperr.Is(ratings.SubmitRating(ctx, db, rater, key, 6), apperr.KindInvalid))
	})

	t.Run("Rating the same entry twice is a conflict", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		rater := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		assert.NoError(t, ratings.SubmitRating(ctx, db, rater, key, 4))
		err := ratings.SubmitRating(ctx, db, rater, key, 5)
		assert.True(t, apperr.Is(err, apperr.KindConflict))

		// the failed submit must not have touched the totals
		assert.Equal(t, 4, entryTotal(t, db, key))
		assert.Equal(t, 4, accountTotal(t, db, contributor))
	})

	t.Run("Unknown entry is not found", func(t *testing.T) {
		rater := registerTestAccount(t, db)
		err := ratings.SubmitRating(ctx, db, rater, ratings.EntryKey{GameID: 0, Stream: 9, Index: 9}, 3)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	t.Run("Two raters accumulate on the same entry", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		first := registerTestAccount(t, db)
		second := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		assert.NoError(t, ratings.SubmitRating(ctx, db, first, key, 2))
		assert.NoError(t, ratings.SubmitRating(ctx, db, second, key, 5))

		assert.Equal(t, 7, entryTotal(t, db, key))
		assert.Equal(t, 7, accountTotal(t, db, contributor))
	})

	t.Run("Deleted contributor no longer aggregates", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		rater := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		assert.NoError(t, accounts.Delete(ctx, db, contributor))

		// entry still accepts ratings, only the entry total moves
		assert.NoError(t, ratings.SubmitRating(ctx, db, rater, key, 5))
		assert.Equal(t, 5, entryTotal(t, db, key))
	})
}

func TestReplaceRating(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	t.Run("Totals shift by the score difference", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		rater := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		assert.NoError(t, ratings.SubmitRating(ctx, db, rater, key, 3))
		assert.NoError(t, ratings.ReplaceRating(ctx, db, rater, key, 5))

		assert.Equal(t, 5, entryTotal(t, db, key))
		assert.Equal(t, 5, accountTotal(t, db, contributor))

		assert.NoError(t, ratings.ReplaceRating(ctx, db, rater, key, 1))
		assert.Equal(t, 1, entryTotal(t, db, key))
		assert.Equal(t, 1, accountTotal(t, db, contributor))
	})

	t.Run("Replace without a prior rating is not found", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		rater := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		err := ratings.ReplaceRating(ctx, db, rater, key, 4)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestDeleteRating(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	t.Run("Delete backs the score out of both totals", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		rater := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		assert.NoError(t, ratings.SubmitRating(ctx, db, rater, key, 4))
		assert.NoError(t, ratings.DeleteRating(ctx, db, rater, key))

		assert.Equal(t, 0, entryTotal(t, db, key))
		assert.Equal(t, 0, accountTotal(t, db, contributor))
	})

	t.Run("Delete without a prior rating is not found", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		rater := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		err := ratings.DeleteRating(ctx, db, rater, key)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}

func TestPersonalRatings(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	t.Run("Lists only the caller's ratings for one game", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		rater := registerTestAccount(t, db)
		other := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		assert.NoError(t, ratings.SubmitRating(ctx, db, rater, key, 4))
		assert.NoError(t, ratings.SubmitRating(ctx, db, other, key, 2))

		list, err := ratings.PersonalRatings(ctx, db, rater, key.GameID)
		assert.NoError(t, err)
		if assert.Len(t, list, 1) {
			assert.Equal(t, rater, list[0].AccountUUID)
			assert.Equal(t, 4, list[0].Rating)
		}
	})

	t.Run("No ratings means an empty list", func(t *testing.T) {
		rater := registerTestAccount(t, db)
		list, err := ratings.PersonalRatings(ctx, db, rater, 1)
		assert.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestRatingIntegrityFaults(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	t.Run("Null entry total surfaces as a server fault", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		rater := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		err := db.Model(&models.BrokenTelephoneEntry{}).
			Where("game_id = ? AND stream = ? AND index = ?", key.GameID, key.Stream, key.Index).
			UpdateColumn("total_rating", gorm.Expr("NULL")).Error
		assert.NoError(t, err)

		err = ratings.SubmitRating(ctx, db, rater, key, 3)
		assert.True(t, apperr.Is(err, apperr.KindIntegrity))
	})

	t.Run("A rating that outlives its entry surfaces as a server fault", func(t *testing.T) {
		contributor := registerTestAccount(t, db)
		rater := registerTestAccount(t, db)
		key := createTestGame(t, db, contributor)

		assert.NoError(t, ratings.SubmitRating(ctx, db, rater, key, 4))

		err := db.Where("game_id = ? AND stream = ? AND index = ?", key.GameID, key.Stream, key.Index).
			Delete(&models.BrokenTelephoneEntry{}).Error
		assert.NoError(t, err)

		err = ratings.ReplaceRating(ctx, db, rater, key, 5)
		assert.True(t, apperr.Is(err, apperr.KindIntegrity))

		err = ratings.DeleteRating(ctx, db, rater, key)
		assert.True(t, apperr.Is(err, apperr.KindIntegrity))
	})
}
