package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Coins        int64     `gorm:"default:0;not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// CanAfford reports whether the user's balance covers the given price.
func (u *User) CanAfford(price int64) bool {
	return u.Coins >= price
}

// BeforeSave hook for validation
func (u *User) BeforeSave(tx *gorm.DB) error {
	if strings.TrimSpace(u.Username) == "" {
		return gorm.ErrInvalidData
	}
	if u.Coins < 0 {
		return gorm.ErrInvalidData
	}
	return nil
}

func (User) TableName() string {
	return "users"
}
