package accounts

import (
	"context"
	"errors"
	"regexp"
	"time"

	models "Scrawl/models/postgres"
	"Scrawl/services/apperr"
	"Scrawl/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var nameFormat = regexp.MustCompile(`^[a-zA-Z0-9]{3,16}$`)

// ValidName reports whether a display name is 3-16 alphanumeric characters.
func ValidName(name string) bool {
	return nameFormat.MatchString(name)
}

// Register creates a new unverified account. Duplicate emails and names
// are rejected as Conflict, with the schema's unique indexes as backstop
// against concurrent registrations.
func Register(ctx context.Context, db *gorm.DB, email, name, password string) (*models.Account, error) {
	if !ValidName(name) {
		return nil, apperr.Invalid("name must be 3-16 alphanumeric characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := models.Account{
		UUID:          uuid.NewString(),
		Email:         email,
		Name:          name,
		PasswordHash:  string(hash),
		UserType:      models.UserTypeNone,
		Verified:      false,
		DateGenerated: time.Now(),
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("this email is already in use")
		}

		if err := tx.Model(&models.Account{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("this name is already in use")
		}

		if err := tx.Create(&account).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				return apperr.Conflict("this email or name is already in use")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateSettings applies a settings change for an account. A non-nil
// email wins over everything else: the email is swapped, the account
// drops back to unverified and a fresh verification must be issued by
// the caller. Other fields require the account to be verified already.
type SettingsChange struct {
	Email    *string
	Name     *string
	About    *string
	Password *string
}

// EmailChanged reports whether the change carries a new email address.
func (s SettingsChange) EmailChanged() bool { return s.Email != nil }

func UpdateSettings(ctx context.Context, db *gorm.DB, accountUUID string, change SettingsChange) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := utils.FindAccount(tx, accountUUID)
		if err != nil {
			return err
		}

		// an email change defers all other edits until re-verification
		if change.Email != nil {
			var count int64
			if err := tx.Model(&models.Account{}).Where("email = ?", *change.Email).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return apperr.Conflict("this email is already in use")
			}
			account.Email = *change.Email
			account.Verified = false
			if err := tx.Save(account).Error; err != nil {
				if utils.IsUniqueViolation(err) {
					return apperr.Conflict("this email is already in use")
				}
				return err
			}
			return nil
		}

		if !account.Verified {
			return apperr.Forbidden("you cannot change any further settings until you verify your email")
		}

		if change.Name != nil {
			if !ValidName(*change.Name) {
				return apperr.Invalid("name must be 3-16 alphanumeric characters")
			}
			var count int64
			if err := tx.Model(&models.Account{}).Where("name = ?", *change.Name).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return apperr.Conflict("this name is already in use")
			}
			account.Name = *change.Name
		}

		if change.About != nil {
			account.About = *change.About
		}

		if change.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*change.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			account.PasswordHash = string(hash)
		}

		if err := tx.Save(account).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				return apperr.Conflict("this name is already in use")
			}
			return err
		}
		return nil
	})
}

// Delete removes an account and everything hanging off it. Contributor
// references on archived games and entries are nullified explicitly so
// the archive keeps working without the account; relationship rows and
// the account's own ratings go away entirely, with the rating totals
// backed out first.
func Delete(ctx context.Context, db *gorm.DB, accountUUID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := utils.FindAccount(tx, accountUUID); err != nil {
			return err
		}

		// back out this account's ratings from entry totals and from the
		// rated contributors' totals before the rating rows disappear
		var ratings []models.BrokenTelephoneRating
		if err := tx.Where("account_uuid = ?", accountUUID).Find(&ratings).Error; err != nil {
			return err
		}
		for _, r := range ratings {
			var entry models.BrokenTelephoneEntry
			err := tx.Where("game_id = ? AND stream = ? AND index = ?", r.EntryGameID, r.EntryStream, r.EntryIndex).
				First(&entry).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Integrity("a rating exists for an entry that no longer does")
				}
				return err
			}
			err = tx.Model(&models.BrokenTelephoneEntry{}).
				Where("game_id = ? AND stream = ? AND index = ?", r.EntryGameID, r.EntryStream, r.EntryIndex).
				UpdateColumn("total_rating", gorm.Expr("COALESCE(total_rating, 0) - ?", r.Rating)).Error
			if err != nil {
				return err
			}
			if entry.AccountUUID != nil {
				if err := AddToCounter(tx, *entry.AccountUUID, CounterTotalRating, -r.Rating); err != nil &&
					!apperr.Is(err, apperr.KindNotFound) {
					return err
				}
			}
		}
		if err := tx.Where("account_uuid = ?", accountUUID).
			Delete(&models.BrokenTelephoneRating{}).Error; err != nil {
			return err
		}

		// nullify contributor references so the archive survives
		if err := tx.Model(&models.BrokenTelephoneEntry{}).
			Where("account_uuid = ?", accountUUID).
			UpdateColumn("account_uuid", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.BrokenTelephoneGame{}).
			Where("account_uuid = ?", accountUUID).
			UpdateColumn("account_uuid", nil).Error; err != nil {
			return err
		}

		// friendships decrement the counterpart's counter on the way out
		var friendships []models.Friendship
		if err := tx.Where("account_uuid = ? OR account2_uuid = ?", accountUUID, accountUUID).
			Find(&friendships).Error; err != nil {
			return err
		}
		for _, f := range friendships {
			other := f.AccountUUID
			if other == accountUUID {
				other = f.Account2UUID
			}
			if err := AddToCounter(tx, other, CounterTotalFriends, -1); err != nil &&
				!apperr.Is(err, apperr.KindNotFound) {
				return err
			}
		}
		if err := tx.Where("account_uuid = ? OR account2_uuid = ?", accountUUID, accountUUID).
			Delete(&models.Friendship{}).Error; err != nil {
			return err
		}

		if err := tx.Where("sender_uuid = ? OR receiver_uuid = ?", accountUUID, accountUUID).
			Delete(&models.PendingFriendship{}).Error; err != nil {
			return err
		}
		if err := tx.Where("blocker_uuid = ? OR blocked_uuid = ?", accountUUID, accountUUID).
			Delete(&models.Block{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_uuid = ?", accountUUID).
			Delete(&models.Verification{}).Error; err != nil {
			return err
		}

		return tx.Where("uuid = ?", accountUUID).Delete(&models.Account{}).Error
	})
}

// CheckCredentials verifies an email/password pair and returns the
// matching account. Both a missing account and a wrong password come
// back as the same error so login responses never reveal which.
func CheckCredentials(ctx context.Context, db *gorm.DB, email, password string) (*models.Account, error) {
	var account models.Account
	if err := db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Forbidden("invalid credentials")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.Forbidden("invalid credentials")
	}
	return &account, nil
}
