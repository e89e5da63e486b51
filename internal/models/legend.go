package models

// Legend is a playable character. Legends link to their abilities and
// may be granted as pack rewards.
type Legend struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(100);uniqueIndex;not null"`
	Role        string `gorm:"type:varchar(50);not null"`
	Description string `gorm:"type:text"`

	Abilities []Ability `gorm:"foreignKey:LegendID;constraint:OnDelete:CASCADE"`
}

func (Legend) TableName() string {
	return "legends"
}

// Legend role constants
const (
	LegendRoleOffensive = "Offensive"
	LegendRoleDefensive = "Defensive"
	LegendRoleSupport   = "Support"
	LegendRoleRecon     = "Recon"
)

// Ability belongs to a legend. Each legend carries one passive, one
// tactical and one ultimate.
type Ability struct {
	ID          uint   `gorm:"primaryKey"`
	LegendID    uint   `gorm:"not null;index"`
	AbilityName string `gorm:"type:varchar(100);not null"`
	AbilityType string `gorm:"type:varchar(20);not null"`
	Description string `gorm:"type:text"`
}

func (Ability) TableName() string {
	return "abilities"
}

// Ability type constants
const (
	AbilityTypePassive  = "Passive"
	AbilityTypeTactical = "Tactical"
	AbilityTypeUltimate = "Ultimate"
)
