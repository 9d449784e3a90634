package accounts_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"Scrawl/config"
	models "Scrawl/models/postgres"
	"Scrawl/services/accounts"
	"Scrawl/services/apperr"
	"Scrawl/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// openTestDB connects to the PostgreSQL instance configured in the env.
// Tests that need a database skip when none is configured.
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

// testName derives a unique alphanumeric account name.
func testName() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// registerTestAccount creates a throwaway account and schedules its
// removal.
func registerTestAccount(t *testing.T, db *gorm.DB) string {
	t.Helper()
	name := testName()
	account, err := accounts.Register(context.Background(), db, name+"@test.example", name, "hunter22")
	if err != nil {
		t.Fatalf("Failed to register test account: %v", err)
	}
	t.Cleanup(func() {
		accounts.Delete(context.Background(), db, account.UUID)
	})
	return account.UUID
}

func TestValidName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"Plain name", "alice", true},
		{"Mixed case with digits", "Bob42", true},
		{"Sixteen characters", "abcdefghij123456", true},
		{"Too short", "ab", false},
		{"Too long", "abcdefghij1234567", false},
		{"Spaces", "al ice", false},
		{"Symbols", "alice!", false},
		{"Empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accounts.ValidName(tt.input))
		})
	}
}

func TestRegister(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	t.Run("Creates an unverified account with zeroed counters", func(t *testing.T) {
		name := testName()
		account, err := accounts.Register(ctx, db, name+"@test.example", name, "hunter22")
		assert.NoError(t, err)
		t.Cleanup(func() { accounts.Delete(ctx, db, account.UUID) })

		assert.True(t, utils.ValidUUID(account.UUID))
		assert.False(t, account.Verified)

		stored, err := utils.FindAccount(db, account.UUID)
		assert.NoError(t, err)
		assert.Equal(t, name, stored.Name)
		assert.NotEqual(t, "hunter22", stored.PasswordHash)
	})

	t.Run("Rejects a duplicate email", func(t *testing.T) {
		name := testName()
		account, err := accounts.Register(ctx, db, name+"@test.example", name, "hunter22")
		assert.NoError(t, err)
		t.Cleanup(func() { accounts.Delete(ctx, db, account.UUID) })

		_, err = accounts.Register(ctx, db, name+"@test.example", testName(), "hunter22")
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	})

	t.Run("Rejects a duplicate name", func(t *testing.T) {
		name := testName()
		account, err := accounts.Register(ctx, db, name+"@test.example", name, "hunter22")
		assert.NoError(t, err)
		t.Cleanup(func() { accounts.Delete(ctx, db, account.UUID) })

		_, err = accounts.Register(ctx, db, testName()+"@test.example", name, "hunter22")
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	})

	t.Run("Rejects a malformed name", func(t *testing.T) {
		_, err := accounts.Register(ctx, db, testName()+"@test.example", "no spaces!", "hunter22")
		assert.True(t, apperr.Is(err, apperr.KindInvalid))
	})
}

func TestCheckCredentials(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	name := testName()
	account, err := accounts.Register(ctx, db, name+"@test.example", name, "hunter22")
	assert.NoError(t, err)
	t.Cleanup(func() { accounts.Delete(ctx, db, account.UUID) })

	t.Run("Accepts the right password", func(t *testing.T) {
		got, err := accounts.CheckCredentials(ctx, db, name+"@test.example", "hunter22")
		assert.NoError(t, err)
		assert.Equal(t, account.UUID, got.UUID)
	})

	t.Run("Rejects a wrong password", func(t *testing.T) {
		_, err := accounts.CheckCredentials(ctx, db, name+"@test.example", "wrong")
		assert.Error(t, err)
	})

	t.Run("Unknown email fails the same way as a wrong password", func(t *testing.T) {
		_, errUnknown := accounts.CheckCredentials(ctx, db, "nobody-"+name+"@test.example", "hunter22")
		_, errWrong := accounts.CheckCredentials(ctx, db, name+"@test.example", "wrong")
		assert.Error(t, errUnknown)
		assert.Equal(t, apperr.Message(errWrong), apperr.Message(errUnknown))
	})
}

func TestUpdateSettings(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	t.Run("Email change drops verification", func(t *testing.T) {
		accountUUID := registerTestAccount(t, db)

		// mark verified first so we can observe the drop
		assert.NoError(t, db.Table("accounts").Where("uuid = ?", accountUUID).Update("verified", true).Error)

		newEmail := testName() + "@test.example"
		err := accounts.UpdateSettings(ctx, db, accountUUID, accounts.SettingsChange{Email: &newEmail})
		assert.NoError(t, err)

		account, err := utils.FindAccount(db, accountUUID)
		assert.NoError(t, err)
		assert.Equal(t, newEmail, account.Email)
		assert.False(t, account.Verified)
	})

	t.Run("Unverified accounts may only change their email", func(t *testing.T) {
		accountUUID := registerTestAccount(t, db)

		about := "hello"
		err := accounts.UpdateSettings(ctx, db, accountUUID, accounts.SettingsChange{About: &about})
		assert.True(t, apperr.Is(err, apperr.KindForbidden))
	})

	t.Run("Verified account changes name and about", func(t *testing.T) {
		accountUUID := registerTestAccount(t, db)
		assert.NoError(t, db.Table("accounts").Where("uuid = ?", accountUUID).Update("verified", true).Error)

		newName := testName()
		about := "I draw"
		err := accounts.UpdateSettings(ctx, db, accountUUID, accounts.SettingsChange{Name: &newName, About: &about})
		assert.NoError(t, err)

		account, err := utils.FindAccount(db, accountUUID)
		assert.NoError(t, err)
		assert.Equal(t, newName, account.Name)
		assert.Equal(t, about, account.About)
	})

	t.Run("Name collision is a conflict", func(t *testing.T) {
		firstUUID := registerTestAccount(t, db)
		secondUUID := registerTestAccount(t, db)
		assert.NoError(t, db.Table("accounts").Where("uuid = ?", secondUUID).Update("verified", true).Error)

		first, err := utils.FindAccount(db, firstUUID)
		assert.NoError(t, err)

		err = accounts.UpdateSettings(ctx, db, secondUUID, accounts.SettingsChange{Name: &first.Name})
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	})

	t.Run("Email collision is a conflict", func(t *testing.T) {
		firstUUID := registerTestAccount(t, db)
		secondUUID := registerTestAccount(t, db)

		first, err := utils.FindAccount(db, firstUUID)
		assert.NoError(t, err)

		err = accounts.UpdateSettings(ctx, db, secondUUID, accounts.SettingsChange{Email: &first.Email})
		assert.True(t, apperr.Is(err, apperr.KindConflict))
	})
}

func TestDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	t.Run("Deleting twice reports not found", func(t *testing.T) {
		name := testName()
		account, err := accounts.Register(ctx, db, name+"@test.example", name, "hunter22")
		assert.NoError(t, err)

		assert.NoError(t, accounts.Delete(ctx, db, account.UUID))
		err = accounts.Delete(ctx, db, account.UUID)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	t.Run("Deleted account vanishes", func(t *testing.T) {
		name := testName()
		account, err := accounts.Register(ctx, db, name+"@test.example", name, "hunter22")
		assert.NoError(t, err)

		assert.NoError(t, accounts.Delete(ctx, db, account.UUID))
		exists, err := utils.AccountExists(db, account.UUID)
		assert.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("A rating without its entry fails deletion as a server fault", func(t *testing.T) {
		rater := registerTestAccount(t, db)

		game := models.BrokenTelephoneGame{}
		assert.NoError(t, db.Create(&game).Error)
		t.Cleanup(func() {
			db.Where("entry_game_id = ?", game.GameID).Delete(&models.BrokenTelephoneRating{})
			db.Delete(&game)
		})

		entry := models.BrokenTelephoneEntry{
			GameID:      game.GameID,
			Stream:      1,
			Index:       1,
			ContentType: models.ContentTypePrompt,
			Content:     datatypes.JSON([]byte(`{"text": "a lighthouse"}`)),
		}
		assert.NoError(t, db.Create(&entry).Error)

		rating := models.BrokenTelephoneRating{
			EntryGameID: game.GameID,
			EntryStream: 1,
			EntryIndex:  1,
			AccountUUID: rater,
			Rating:      3,
		}
		assert.NoError(t, db.Create(&rating).Error)

		// the entry disappears underneath the rating
		assert.NoError(t, db.Where("game_id = ? AND stream = ? AND index = ?", game.GameID, 1, 1).
			Delete(&models.BrokenTelephoneEntry{}).Error)

		err := accounts.Delete(ctx, db, rater)
		assert.True(t, apperr.Is(err, apperr.KindIntegrity))
	})
}
