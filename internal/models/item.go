package models

import "strings"

// Item is an in-game item (weapons, heirlooms, ...). Items may belong to
// a legend, like heirlooms do.
type Item struct {
	ID          uint   `gorm:"primaryKey"`
	ItemName    string `gorm:"type:varchar(100);not null"`
	Category    string `gorm:"type:varchar(50);not null;index"`
	Subcategory string `gorm:"type:varchar(50)"`
	LegendID    *uint  `gorm:"index"`
	Damage      int    `gorm:"default:0"`
	AmmoType    string `gorm:"type:varchar(30)"`
	Description string `gorm:"type:text"`
}

// ImageFile derives the display image reference from the item name,
// e.g. "Kraber Sniper" -> "kraber_sniper.png".
func (i *Item) ImageFile() string {
	return strings.ToLower(strings.ReplaceAll(i.ItemName, " ", "_")) + ".png"
}

func (Item) TableName() string {
	return "items"
}

// Item category constants
const (
	ItemCategoryWeapon   = "Weapon"
	ItemCategoryHeirloom = "Heirloom"
	ItemCategorySkin     = "Skin"
)
