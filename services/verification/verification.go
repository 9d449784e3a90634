package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"time"

	game_constants "Scrawl/constants/game"
	models "Scrawl/models/postgres"
	"Scrawl/services/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Verification addresses are 32 characters from a 64-symbol alphabet, so
// each address has a 1 in 64^32 chance to collide with another.
const addressCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"
const addressLength = game_constants.VerificationAddressLength

// NewAddress generates a fresh random verification address.
func NewAddress() string {
	b := make([]byte, addressLength)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	for i := range b {
		b[i] = addressCharset[int(b[i])%len(addressCharset)]
	}
	return string(b)
}

// Issue stores a pending verification for the account, replacing any
// prior one. Returns the address that the account must visit.
func Issue(ctx context.Context, db *gorm.DB, accountUUID string) (string, error) {
	v := models.Verification{
		AccountUUID:   accountUUID,
		Address:       NewAddress(),
		TimeGenerated: time.Now(),
	}

	// one pending verification per account: a new issuance supersedes
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_uuid"}},
		UpdateAll: true,
	}).Create(&v).Error
	if err != nil {
		return "", err
	}
	return v.Address, nil
}

// Consume deletes the verification matching the address and marks the
// owning account verified. Works the same for registration and email
// changes. A consumed or unknown address is NotFound, as is an address
// whose account has since been deleted.
func Consume(ctx context.Context, db *gorm.DB, address string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var v models.Verification
		if err := tx.Where("address = ?", address).First(&v).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("this verification address is not (or no longer) in use")
			}
			return err
		}

		if err := tx.Where("account_uuid = ?", v.AccountUUID).
			Delete(&models.Verification{}).Error; err != nil {
			return err
		}

		result := tx.Model(&models.Account{}).
			Where("uuid = ?", v.AccountUUID).
			UpdateColumn("verified", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("the account that this address belonged to no longer exists")
		}
		return nil
	})
}
