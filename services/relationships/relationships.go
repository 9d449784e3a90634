package relationships

import (
	"context"

	models "Scrawl/models/postgres"
	"Scrawl/services/accounts"
	"Scrawl/services/apperr"
	"Scrawl/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The ledger keeps three mutually exclusive relations per pair of
// accounts: Friendship (canonical order), PendingFriendship (directed)
// and Block (directed). Every mutation runs in one transaction that
// first locks both account rows in canonical order (lockPair), so two
// concurrent calls on the same pair serialize instead of both passing
// their precondition checks. The unique indexes on the relation tables
// remain as backstop for races against rows the lock doesn't cover.

// RequestFriendship inserts a pending request from sender to receiver.
func RequestFriendship(ctx context.Context, db *gorm.DB, senderUUID, receiverUUID string) error {
	if senderUUID == receiverUUID {
		return apperr.Invalid("you cannot send a friend request to yourself")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPair(tx, senderUUID, receiverUUID); err != nil {
			return err
		}

		first, second := models.SortPair(senderUUID, receiverUUID)
		var count int64
		if err := tx.Model(&models.Friendship{}).
			Where("account_uuid = ? AND account2_uuid = ?", first, second).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("you are already friends")
		}

		// one request per unordered pair, regardless of direction
		if err := tx.Model(&models.PendingFriendship{}).
			Where("(sender_uuid = ? AND receiver_uuid = ?) OR (sender_uuid = ? AND receiver_uuid = ?)",
				senderUUID, receiverUUID, receiverUUID, senderUUID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("a request for this friendship already exists")
		}

		if err := tx.Model(&models.Block{}).
			Where("(blocker_uuid = ? AND blocked_uuid = ?) OR (blocker_uuid = ? AND blocked_uuid = ?)",
				senderUUID, receiverUUID, receiverUUID, senderUUID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("a block exists between the two accounts")
		}

		request := models.PendingFriendship{
			SenderUUID:   senderUUID,
			ReceiverUUID: receiverUUID,
		}
		if err := tx.Create(&request).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				return apperr.Conflict("a request for this friendship already exists")
			}
			return err
		}
		return nil
	})
}

// AcceptFriendship converts a pending request sent by senderUUID to
// acceptorUUID into a friendship and bumps both friend counters. A second
// accept finds no pending row and comes back NotFound.
func AcceptFriendship(ctx context.Context, db *gorm.DB, acceptorUUID, senderUUID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPair(tx, acceptorUUID, senderUUID); err != nil {
			return err
		}

		result := tx.Where("sender_uuid = ? AND receiver_uuid = ?", senderUUID, acceptorUUID).
			Delete(&models.PendingFriendship{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("there is no such request for a friendship")
		}

		first, second := models.SortPair(acceptorUUID, senderUUID)
		friendship := models.Friendship{
			AccountUUID:  first,
			Account2UUID: second,
		}
		if err := tx.Create(&friendship).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				return apperr.Conflict("you are already friends")
			}
			return err
		}

		if err := accounts.AddToCounter(tx, acceptorUUID, accounts.CounterTotalFriends, 1); err != nil {
			return err
		}
		return accounts.AddToCounter(tx, senderUUID, accounts.CounterTotalFriends, 1)
	})
}

// DeclineFriendship drops a pending request sent by senderUUID to
// declinerUUID. No counters move.
func DeclineFriendship(ctx context.Context, db *gorm.DB, declinerUUID, senderUUID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPair(tx, declinerUUID, senderUUID); err != nil {
			return err
		}

		result := tx.Where("sender_uuid = ? AND receiver_uuid = ?", senderUUID, declinerUUID).
			Delete(&models.PendingFriendship{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("there is no such request for a friendship")
		}
		return nil
	})
}

// RemoveFriendship deletes the friendship between the two accounts, from
// either side, and decrements both friend counters.
func RemoveFriendship(ctx context.Context, db *gorm.DB, accountUUID, otherUUID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPair(tx, accountUUID, otherUUID); err != nil {
			return err
		}

		first, second := models.SortPair(accountUUID, otherUUID)
		result := tx.Where("account_uuid = ? AND account2_uuid = ?", first, second).
			Delete(&models.Friendship{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("no such friendship exists")
		}

		if err := accounts.AddToCounter(tx, accountUUID, accounts.CounterTotalFriends, -1); err != nil {
			return err
		}
		return accounts.AddToCounter(tx, otherUUID, accounts.CounterTotalFriends, -1)
	})
}

// CreateBlock inserts a block and atomically clears any friendship and
// any pending request (both directions) between the two accounts. A
// pre-existing reverse block does not prevent a forward one.
func CreateBlock(ctx context.Context, db *gorm.DB, blockerUUID, blockedUUID string) error {
	if blockerUUID == blockedUUID {
		return apperr.Invalid("you cannot block yourself")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPair(tx, blockerUUID, blockedUUID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Block{}).
			Where("blocker_uuid = ? AND blocked_uuid = ?", blockerUUID, blockedUUID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperr.Conflict("this account was already blocked")
		}

		block := models.Block{
			BlockerUUID: blockerUUID,
			BlockedUUID: blockedUUID,
		}
		if err := tx.Create(&block).Error; err != nil {
			if utils.IsUniqueViolation(err) {
				return apperr.Conflict("this account was already blocked")
			}
			return err
		}

		first, second := models.SortPair(blockerUUID, blockedUUID)
		result := tx.Where("account_uuid = ? AND account2_uuid = ?", first, second).
			Delete(&models.Friendship{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			if err := accounts.AddToCounter(tx, blockerUUID, accounts.CounterTotalFriends, -1); err != nil {
				return err
			}
			if err := accounts.AddToCounter(tx, blockedUUID, accounts.CounterTotalFriends, -1); err != nil {
				return err
			}
		}

		// only one request can exist per the ledger invariant, but both
		// directions are cleared independently anyway
		if err := tx.Where("sender_uuid = ? AND receiver_uuid = ?", blockerUUID, blockedUUID).
			Delete(&models.PendingFriendship{}).Error; err != nil {
			return err
		}
		return tx.Where("sender_uuid = ? AND receiver_uuid = ?", blockedUUID, blockerUUID).
			Delete(&models.PendingFriendship{}).Error
	})
}

// RemoveBlock deletes a block from the blocker's side. Nothing that the
// block tore down is restored.
func RemoveBlock(ctx context.Context, db *gorm.DB, blockerUUID, blockedUUID string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockPair(tx, blockerUUID, blockedUUID); err != nil {
			return err
		}

		result := tx.Where("blocker_uuid = ? AND blocked_uuid = ?", blockerUUID, blockedUUID).
			Delete(&models.Block{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.NotFound("no such block exists")
		}
		return nil
	})
}

// ListFriends returns the UUIDs of every friend of the account. The
// account can sit in either column of the canonical pair.
func ListFriends(ctx context.Context, db *gorm.DB, accountUUID string) ([]string, error) {
	var friendships []models.Friendship
	err := db.WithContext(ctx).
		Where("account_uuid = ? OR account2_uuid = ?", accountUUID, accountUUID).
		Find(&friendships).Error
	if err != nil {
		return nil, err
	}

	friends := make([]string, 0, len(friendships))
	for _, f := range friendships {
		if f.AccountUUID == accountUUID {
			friends = append(friends, f.Account2UUID)
		} else {
			friends = append(friends, f.AccountUUID)
		}
	}
	return friends, nil
}

// PendingEntry is one unresolved request seen from a given account.
type PendingEntry struct {
	OtherUUID string `json:"uuid"`
	Incoming  bool   `json:"incoming"`
}

// ListPending returns every unresolved request the account is part of,
// on either side.
func ListPending(ctx context.Context, db *gorm.DB, accountUUID string) ([]PendingEntry, error) {
	var requests []models.PendingFriendship
	err := db.WithContext(ctx).
		Where("sender_uuid = ? OR receiver_uuid = ?", accountUUID, accountUUID).
		Find(&requests).Error
	if err != nil {
		return nil, err
	}

	entries := make([]PendingEntry, 0, len(requests))
	for _, r := range requests {
		if r.SenderUUID == accountUUID {
			entries = append(entries, PendingEntry{OtherUUID: r.ReceiverUUID, Incoming: false})
		} else {
			entries = append(entries, PendingEntry{OtherUUID: r.SenderUUID, Incoming: true})
		}
	}
	return entries, nil
}

// ListBlocked returns the UUIDs this account has blocked.
func ListBlocked(ctx context.Context, db *gorm.DB, accountUUID string) ([]string, error) {
	var blocks []models.Block
	err := db.WithContext(ctx).
		Where("blocker_uuid = ?", accountUUID).
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}

	blocked := make([]string, 0, len(blocks))
	for _, b := range blocks {
		blocked = append(blocked, b.BlockedUUID)
	}
	return blocked, nil
}

// lockPair takes FOR UPDATE locks on both account rows, always in
// canonical order so two transactions on the same pair cannot deadlock.
// The lock serializes racing mutations on the pair for the life of the
// transaction and doubles as the existence check for both accounts.
func lockPair(tx *gorm.DB, actorUUID, targetUUID string) error {
	first, second := models.SortPair(actorUUID, targetUUID)
	var locked []models.Account
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("uuid").
		Where("uuid IN ?", []string{first, second}).
		Order("uuid").
		Find(&locked).Error
	if err != nil {
		return err
	}

	found := make(map[string]bool, len(locked))
	for _, account := range locked {
		found[account.UUID] = true
	}
	if !found[actorUUID] {
		return apperr.NotFound("the requester UUID doesn't exist")
	}
	if !found[targetUUID] {
		return apperr.NotFound("the requested UUID doesn't exist")
	}
	return nil
}
