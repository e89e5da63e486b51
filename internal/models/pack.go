package models

import (
	"gorm.io/gorm"
)

// Pack is a purchasable bundle that yields one random reward when opened.
type Pack struct {
	ID          uint   `gorm:"primaryKey"`
	PackName    string `gorm:"type:varchar(100);not null"`
	Price       int64  `gorm:"not null"`
	Description string `gorm:"type:text"`

	Rewards []PackReward `gorm:"foreignKey:PackID;constraint:OnDelete:CASCADE"`
}

// BeforeSave hook for validation
func (p *Pack) BeforeSave(tx *gorm.DB) error {
	if p.PackName == "" {
		return gorm.ErrInvalidData
	}
	if p.Price <= 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

func (Pack) TableName() string {
	return "packs"
}

// PackReward is one weighted possible outcome of opening a pack. It
// references either an item or a legend (at least one must be set).
// DropRate is a relative weight, not a normalized probability.
type PackReward struct {
	ID       uint    `gorm:"primaryKey"`
	PackID   uint    `gorm:"not null;index"`
	ItemID   *uint   `gorm:"index"`
	LegendID *uint   `gorm:"index"`
	DropRate float64 `gorm:"not null;default:0"`

	Item   *Item   `gorm:"foreignKey:ItemID"`
	Legend *Legend `gorm:"foreignKey:LegendID"`
}

// HasItem reports whether this reward grants an item.
func (r *PackReward) HasItem() bool {
	return r.ItemID != nil
}

// HasLegend reports whether this reward grants a legend.
func (r *PackReward) HasLegend() bool {
	return r.LegendID != nil
}

// BeforeSave hook for validation
func (r *PackReward) BeforeSave(tx *gorm.DB) error {
	if r.ItemID == nil && r.LegendID == nil {
		return gorm.ErrInvalidData
	}
	if r.DropRate < 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

func (PackReward) TableName() string {
	return "pack_rewards"
}
