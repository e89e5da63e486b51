package models

import "time"

// Transaction is an append-only ledger row for economic actions. It is
// write-only from the engine's perspective: never read back for decisions.
type Transaction struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Action    string    `gorm:"type:varchar(30);not null;index"`
	PackID    uint      `gorm:"not null"`
	RewardID  *uint     `gorm:""`
	Amount    int64     `gorm:"not null;default:0"`
	Reference string    `gorm:"type:varchar(36);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

// Ledger action constants
const (
	ActionBuyPack  = "BUY_PACK"
	ActionOpenPack = "OPEN_PACK"
)

func (Transaction) TableName() string {
	return "transactions"
}
