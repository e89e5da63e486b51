package models

import "time"

// UserPack records one purchased, un-opened copy of a pack. A user may
// hold several copies of the same pack, each its own row. Opening a pack
// deletes the oldest row for that (user, pack) pair.
type UserPack struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index:idx_user_pack"`
	PackID     uint      `gorm:"not null;index:idx_user_pack"`
	ObtainedAt time.Time `gorm:"not null"`

	Pack Pack `gorm:"foreignKey:PackID"`
}

func (UserPack) TableName() string {
	return "user_packs"
}

// UserItem records item ownership. At most one row per (user, item);
// inserts are idempotent.
type UserItem struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index:idx_user_item,unique"`
	ItemID     uint      `gorm:"not null;index:idx_user_item,unique"`
	AcquiredAt time.Time `gorm:"autoCreateTime"`

	Item Item `gorm:"foreignKey:ItemID"`
}

func (UserItem) TableName() string {
	return "user_items"
}

// UserLegend records legend ownership, mirroring UserItem. Only written
// when legend rewards are enabled.
type UserLegend struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"not null;index:idx_user_legend,unique"`
	LegendID   uint      `gorm:"not null;index:idx_user_legend,unique"`
	AcquiredAt time.Time `gorm:"autoCreateTime"`

	Legend Legend `gorm:"foreignKey:LegendID"`
}

func (UserLegend) TableName() string {
	return "user_legends"
}
