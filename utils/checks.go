package utils

import (
	"errors"

	models "Scrawl/models/postgres"
	"Scrawl/services/apperr"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// FindAccount fetches an account by UUID, translating a missing row into
// the taxonomy's NotFound.
func FindAccount(db *gorm.DB, accountUUID string) (*models.Account, error) {
	var account models.Account
	if err := db.Where("uuid = ?", accountUUID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no account with that UUID exists")
		}
		return nil, err
	}
	return &account, nil
}

// AccountExists reports whether an account row exists for the UUID.
func AccountExists(db *gorm.DB, accountUUID string) (bool, error) {
	var count int64
	err := db.Model(&models.Account{}).
		Where("uuid = ?", accountUUID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (SQLSTATE 23505). Used inside transactions to remap races that
// slipped past a precondition check into an ordinary Conflict.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// ValidUUID reports whether s parses as a UUID. Path parameters go through
// this before reaching any query.
func ValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
