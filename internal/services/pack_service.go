package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rdavila/packstore/internal/dto"
	"github.com/rdavila/packstore/internal/models"
	"github.com/rdavila/packstore/internal/repositories"
	"github.com/rdavila/packstore/pkg/errors"
	"github.com/rdavila/packstore/pkg/logger"
	"gorm.io/gorm"
)

// PackService is the pack transaction engine. Each of its two operations
// runs inside a single database transaction: every mutation either
// commits together or rolls back together, and errors surface to the
// caller unchanged. The service never retries on its own.
type PackService struct {
	db            *gorm.DB
	packRepo      *repositories.PackRepository
	userRepo      *repositories.UserRepository
	ownershipRepo *repositories.OwnershipRepository
	ledgerRepo    *repositories.TransactionRepository
	selector      *RewardSelector

	legendRewardsEnabled bool
}

func NewPackService(
	db *gorm.DB,
	packRepo *repositories.PackRepository,
	userRepo *repositories.UserRepository,
	ownershipRepo *repositories.OwnershipRepository,
	ledgerRepo *repositories.TransactionRepository,
	selector *RewardSelector,
	legendRewardsEnabled bool,
) *PackService {
	return &PackService{
		db:                   db,
		packRepo:             packRepo,
		userRepo:             userRepo,
		ownershipRepo:        ownershipRepo,
		ledgerRepo:           ledgerRepo,
		selector:             selector,
		legendRewardsEnabled: legendRewardsEnabled,
	}
}

// BuyPack debits the pack price from the user's balance, records one
// owned copy and appends a BUY_PACK ledger row. No reward is granted at
// purchase time.
func (s *PackService) BuyPack(userID, packID uint) (*dto.Receipt, error) {
	var receipt *dto.Receipt

	err := s.db.Transaction(func(tx *gorm.DB) error {
		pack, err := s.packRepo.WithTx(tx).GetPackByID(packID)
		if err != nil {
			return err
		}

		userRepo := s.userRepo.WithTx(tx)
		user, err := userRepo.GetUserByID(userID)
		if err != nil {
			return err
		}

		if !user.CanAfford(pack.Price) {
			return errors.New(errors.ErrCodeInsufficientFunds,
				fmt.Sprintf("insufficient coins: have %d, need %d", user.Coins, pack.Price))
		}

		if err := userRepo.DeductCoins(userID, pack.Price); err != nil {
			return err
		}

		if err := s.ownershipRepo.WithTx(tx).AddPack(userID, packID, time.Now().UTC()); err != nil {
			return err
		}

		reference := uuid.NewString()
		entry := &models.Transaction{
			UserID:    userID,
			Action:    models.ActionBuyPack,
			PackID:    packID,
			Amount:    pack.Price,
			Reference: reference,
		}
		if err := s.ledgerRepo.WithTx(tx).Append(entry); err != nil {
			return err
		}

		receipt = &dto.Receipt{
			Message:   "Pack purchased successfully",
			PackID:    pack.ID,
			PackName:  pack.PackName,
			Price:     pack.Price,
			Balance:   user.Coins - pack.Price,
			Reference: reference,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Pack purchased", "user_id", userID, "pack_id", packID, "reference", receipt.Reference)
	return receipt, nil
}

// OpenPack consumes one owned copy of the pack and grants one weighted
// random reward the user does not already hold. Any failure after the
// transaction starts rolls back every mutation: a pack is never consumed
// without a reward, and a reward is never granted without consuming a pack.
func (s *PackService) OpenPack(userID, packID uint) (*dto.RewardResult, error) {
	var result *dto.RewardResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		ownershipRepo := s.ownershipRepo.WithTx(tx)

		owns, err := ownershipRepo.HasPack(userID, packID)
		if err != nil {
			return err
		}
		if !owns {
			return errors.New(errors.ErrCodeNotOwned, "user does not own this pack")
		}

		pool, err := s.packRepo.WithTx(tx).GetRewardPool(packID)
		if err != nil {
			return err
		}
		if len(pool) == 0 {
			return errors.New(errors.ErrCodeEmptyPool, "pack has no configured rewards")
		}
		if !s.legendRewardsEnabled {
			pool = excludeLegendOnly(pool)
			if len(pool) == 0 {
				return errors.New(errors.ErrCodeEmptyPool, "pack has no item rewards and legend rewards are disabled")
			}
		}

		ownedItemIDs, err := ownershipRepo.ListOwnedItemIDs(userID)
		if err != nil {
			return err
		}

		reward, err := s.selector.Draw(pool, ownedItemIDs)
		if err != nil {
			return err
		}

		switch {
		case reward.HasItem():
			if err := ownershipRepo.GrantItemIfAbsent(userID, *reward.ItemID); err != nil {
				return err
			}
		case reward.HasLegend():
			if err := ownershipRepo.GrantLegendIfAbsent(userID, *reward.LegendID); err != nil {
				return err
			}
		}

		if err := ownershipRepo.ConsumeOldestPack(userID, packID); err != nil {
			return err
		}

		reference := uuid.NewString()
		rewardID := reward.ID
		entry := &models.Transaction{
			UserID:    userID,
			Action:    models.ActionOpenPack,
			PackID:    packID,
			RewardID:  &rewardID,
			Reference: reference,
		}
		if err := s.ledgerRepo.WithTx(tx).Append(entry); err != nil {
			return err
		}

		result = &dto.RewardResult{
			Message:   "Pack opened successfully",
			Reward:    dto.FromReward(reward),
			Reference: reference,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Pack opened", "user_id", userID, "pack_id", packID,
		"reward_id", result.Reward.RewardID, "reference", result.Reference)
	return result, nil
}

// excludeLegendOnly drops pool entries that reference a legend without an
// item, for deployments that have nowhere to surface legend grants.
func excludeLegendOnly(pool []models.PackReward) []models.PackReward {
	filtered := make([]models.PackReward, 0, len(pool))
	for _, reward := range pool {
		if !reward.HasItem() && reward.HasLegend() {
			continue
		}
		filtered = append(filtered, reward)
	}
	return filtered
}
