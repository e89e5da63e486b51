package repositories

import (
	"time"

	"github.com/rdavila/packstore/internal/models"
	"github.com/rdavila/packstore/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OwnershipRepository tracks which packs, items and legends a user holds.
// Pack copies are row-counted; item and legend grants are idempotent.
type OwnershipRepository struct {
	db *gorm.DB
}

func NewOwnershipRepository(db *gorm.DB) *OwnershipRepository {
	return &OwnershipRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *OwnershipRepository) WithTx(tx *gorm.DB) *OwnershipRepository {
	return &OwnershipRepository{db: tx}
}

// HasPack reports whether the user holds at least one copy of the pack
func (r *OwnershipRepository) HasPack(userID, packID uint) (bool, error) {
	var count int64
	result := r.db.Model(&models.UserPack{}).
		Where("user_id = ? AND pack_id = ?", userID, packID).
		Count(&count)
	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check pack ownership")
	}
	return count > 0, nil
}

// AddPack records one purchased copy of a pack
func (r *OwnershipRepository) AddPack(userID, packID uint, obtainedAt time.Time) error {
	userPack := &models.UserPack{
		UserID:     userID,
		PackID:     packID,
		ObtainedAt: obtainedAt,
	}
	result := r.db.Create(userPack)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to add user pack")
	}
	return nil
}

// ConsumeOldestPack deletes exactly one owned copy of the pack, oldest
// first. Zero affected rows means no copy remained, which is how a lost
// race between two concurrent opens surfaces.
func (r *OwnershipRepository) ConsumeOldestPack(userID, packID uint) error {
	oldest := r.db.Model(&models.UserPack{}).
		Select("id").
		Where("user_id = ? AND pack_id = ?", userID, packID).
		Order("id").
		Limit(1)

	result := r.db.Where("id = (?)", oldest).Delete(&models.UserPack{})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to consume pack")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotOwned, "user does not own this pack")
	}
	return nil
}

// ListUserPacks retrieves all pack copies a user holds, with pack info
func (r *OwnershipRepository) ListUserPacks(userID uint) ([]models.UserPack, error) {
	var userPacks []models.UserPack
	result := r.db.
		Preload("Pack").
		Where("user_id = ?", userID).
		Order("id").
		Find(&userPacks)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list user packs")
	}
	return userPacks, nil
}

// ListOwnedItemIDs retrieves the set of item ids the user owns
func (r *OwnershipRepository) ListOwnedItemIDs(userID uint) (map[uint]bool, error) {
	var itemIDs []uint
	result := r.db.Model(&models.UserItem{}).
		Where("user_id = ?", userID).
		Pluck("item_id", &itemIDs)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list owned items")
	}

	owned := make(map[uint]bool, len(itemIDs))
	for _, id := range itemIDs {
		owned[id] = true
	}
	return owned, nil
}

// ListUserItems retrieves all items a user owns, with item info
func (r *OwnershipRepository) ListUserItems(userID uint) ([]models.UserItem, error) {
	var userItems []models.UserItem
	result := r.db.
		Preload("Item").
		Where("user_id = ?", userID).
		Order("id").
		Find(&userItems)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list user items")
	}
	return userItems, nil
}

// GrantItemIfAbsent inserts an item ownership row unless the (user, item)
// pair already exists. The selector already filters owned items; this
// guards the race where the same item was granted since the pool load.
func (r *OwnershipRepository) GrantItemIfAbsent(userID, itemID uint) error {
	userItem := &models.UserItem{
		UserID: userID,
		ItemID: itemID,
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoNothing: true,
	}).Create(userItem)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to grant item")
	}
	return nil
}

// GrantLegendIfAbsent inserts a legend ownership row unless the
// (user, legend) pair already exists
func (r *OwnershipRepository) GrantLegendIfAbsent(userID, legendID uint) error {
	userLegend := &models.UserLegend{
		UserID:   userID,
		LegendID: legendID,
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "legend_id"}},
		DoNothing: true,
	}).Create(userLegend)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to grant legend")
	}
	return nil
}
