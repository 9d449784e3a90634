package verification_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"Scrawl/config"
	game_constants "Scrawl/constants/game"
	"Scrawl/services/accounts"
	"Scrawl/services/apperr"
	"Scrawl/services/verification"
	"Scrawl/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
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

const allowedChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"

func TestNewAddress(t *testing.T) {
	t.Run("Has the configured length", func(t *testing.T) {
		assert.Len(t, verification.NewAddress(), game_constants.VerificationAddressLength)
	})

	t.Run("Only uses URL-safe characters", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			addr := verification.NewAddress()
			for _, r := range addr {
				assert.True(t, strings.ContainsRune(allowedChars, r),
					"address %q contains unexpected character %q", addr, r)
			}
		}
	})

	t.Run("Does not repeat", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 100; i++ {
			addr := verification.NewAddress()
			assert.False(t, seen[addr], "address %q generated twice", addr)
			seen[addr] = true
		}
	})
}

func TestIssueAndConsume(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	t.Run("Consuming an issued address verifies the account", func(t *testing.T) {
		accountUUID := registerTestAccount(t, db)

		address, err := verification.Issue(ctx, db, accountUUID)
		assert.NoError(t, err)
		assert.Len(t, address, game_constants.VerificationAddressLength)

		assert.NoError(t, verification.Consume(ctx, db, address))

		account, err := utils.FindAccount(db, accountUUID)
		assert.NoError(t, err)
		assert.True(t, account.Verified)
	})

	t.Run("An address is single use", func(t *testing.T) {
		accountUUID := registerTestAccount(t, db)

		address, err := verification.Issue(ctx, db, accountUUID)
		assert.NoError(t, err)

		assert.NoError(t, verification.Consume(ctx, db, address))
		err = verification.Consume(ctx, db, address)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	t.Run("Re-issuing replaces the previous address", func(t *testing.T) {
		accountUUID := registerTestAccount(t, db)

		first, err := verification.Issue(ctx, db, accountUUID)
		assert.NoError(t, err)
		second, err := verification.Issue(ctx, db, accountUUID)
		assert.NoError(t, err)
		assert.NotEqual(t, first, second)

		err = verification.Consume(ctx, db, first)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))

		assert.NoError(t, verification.Consume(ctx, db, second))
	})

	t.Run("Unknown address is not found", func(t *testing.T) {
		err := verification.Consume(ctx, db, verification.NewAddress())
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})
}
