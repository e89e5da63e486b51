// Package dto holds the immutable projection types returned by the API.
// Each is built from the full entity by a pure mapping function and
// carries only the fields the caller should see.
package dto

import (
	"time"

	"github.com/rdavila/packstore/internal/models"
)

type UserDTO struct {
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Coins     int64     `json:"coins"`
	CreatedAt time.Time `json:"created_at"`
}

func FromUser(user *models.User) UserDTO {
	return UserDTO{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Coins:     user.Coins,
		CreatedAt: user.CreatedAt,
	}
}

type PackDTO struct {
	PackID      uint   `json:"pack_id"`
	PackName    string `json:"pack_name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
}

func FromPack(pack *models.Pack) PackDTO {
	return PackDTO{
		PackID:      pack.ID,
		PackName:    pack.PackName,
		Price:       pack.Price,
		Description: pack.Description,
	}
}

type ItemDTO struct {
	ItemID      uint   `json:"item_id"`
	ItemName    string `json:"item_name"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory"`
	Description string `json:"description"`
}

func FromItem(item *models.Item) ItemDTO {
	return ItemDTO{
		ItemID:      item.ID,
		ItemName:    item.ItemName,
		Category:    item.Category,
		Subcategory: item.Subcategory,
		Description: item.Description,
	}
}

type UserPackDTO struct {
	UserPackID uint      `json:"user_pack_id"`
	PackID     uint      `json:"pack_id"`
	PackName   string    `json:"pack_name"`
	ObtainedAt time.Time `json:"obtained_at"`
}

func FromUserPack(userPack *models.UserPack) UserPackDTO {
	return UserPackDTO{
		UserPackID: userPack.ID,
		PackID:     userPack.PackID,
		PackName:   userPack.Pack.PackName,
		ObtainedAt: userPack.ObtainedAt,
	}
}

type UserItemDTO struct {
	UserItemID uint      `json:"user_item_id"`
	ItemID     uint      `json:"item_id"`
	ItemName   string    `json:"item_name"`
	Category   string    `json:"category"`
	AcquiredAt time.Time `json:"acquired_at"`
}

func FromUserItem(userItem *models.UserItem) UserItemDTO {
	return UserItemDTO{
		UserItemID: userItem.ID,
		ItemID:     userItem.ItemID,
		ItemName:   userItem.Item.ItemName,
		Category:   userItem.Item.Category,
		AcquiredAt: userItem.AcquiredAt,
	}
}

type TransactionDTO struct {
	TransactionID uint      `json:"transaction_id"`
	Action        string    `json:"action"`
	PackID        uint      `json:"pack_id"`
	RewardID      *uint     `json:"reward_id,omitempty"`
	Amount        int64     `json:"amount"`
	Reference     string    `json:"reference"`
	CreatedAt     time.Time `json:"created_at"`
}

func FromTransaction(transaction *models.Transaction) TransactionDTO {
	return TransactionDTO{
		TransactionID: transaction.ID,
		Action:        transaction.Action,
		PackID:        transaction.PackID,
		RewardID:      transaction.RewardID,
		Amount:        transaction.Amount,
		Reference:     transaction.Reference,
		CreatedAt:     transaction.CreatedAt,
	}
}

// Receipt confirms a successful purchase. No reward is granted at buy
// time; the pack sits in the user's inventory until opened.
type Receipt struct {
	Message   string `json:"message"`
	PackID    uint   `json:"pack_id"`
	PackName  string `json:"pack_name"`
	Price     int64  `json:"price"`
	Balance   int64  `json:"balance"`
	Reference string `json:"reference"`
}

// RewardDTO is the payload of a drawn reward. Exactly one of item or
// legend fields is populated.
type RewardDTO struct {
	RewardID   uint   `json:"reward_id"`
	ItemID     *uint  `json:"item_id,omitempty"`
	ItemName   string `json:"item_name,omitempty"`
	ItemImage  string `json:"item_image,omitempty"`
	LegendID   *uint  `json:"legend_id,omitempty"`
	LegendName string `json:"legend_name,omitempty"`
}

func FromReward(reward *models.PackReward) RewardDTO {
	out := RewardDTO{
		RewardID: reward.ID,
		ItemID:   reward.ItemID,
		LegendID: reward.LegendID,
	}
	if reward.Item != nil {
		out.ItemName = reward.Item.ItemName
		out.ItemImage = reward.Item.ImageFile()
	}
	if reward.Legend != nil {
		out.LegendName = reward.Legend.Name
	}
	return out
}

// RewardResult is returned by a successful pack opening.
type RewardResult struct {
	Message   string    `json:"message"`
	Reward    RewardDTO `json:"reward"`
	Reference string    `json:"reference"`
}
