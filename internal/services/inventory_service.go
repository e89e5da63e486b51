package services

import (
	"github.com/rdavila/packstore/internal/dto"
	"github.com/rdavila/packstore/internal/repositories"
)

// InventoryService serves the read side: user profile and what the user
// currently holds. Plain reads, no transactions needed.
type InventoryService struct {
	userRepo      *repositories.UserRepository
	ownershipRepo *repositories.OwnershipRepository
	ledgerRepo    *repositories.TransactionRepository
}

func NewInventoryService(
	userRepo *repositories.UserRepository,
	ownershipRepo *repositories.OwnershipRepository,
	ledgerRepo *repositories.TransactionRepository,
) *InventoryService {
	return &InventoryService{
		userRepo:      userRepo,
		ownershipRepo: ownershipRepo,
		ledgerRepo:    ledgerRepo,
	}
}

func (s *InventoryService) GetProfile(userID uint) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	profile := dto.FromUser(user)
	return &profile, nil
}

func (s *InventoryService) GetUserPacks(userID uint) ([]dto.UserPackDTO, error) {
	userPacks, err := s.ownershipRepo.ListUserPacks(userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserPackDTO, 0, len(userPacks))
	for i := range userPacks {
		out = append(out, dto.FromUserPack(&userPacks[i]))
	}
	return out, nil
}

func (s *InventoryService) GetUserItems(userID uint) ([]dto.UserItemDTO, error) {
	userItems, err := s.ownershipRepo.ListUserItems(userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.UserItemDTO, 0, len(userItems))
	for i := range userItems {
		out = append(out, dto.FromUserItem(&userItems[i]))
	}
	return out, nil
}

func (s *InventoryService) GetTransactionHistory(userID uint, limit int) ([]dto.TransactionDTO, error) {
	transactions, err := s.ledgerRepo.ListByUser(userID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TransactionDTO, 0, len(transactions))
	for i := range transactions {
		out = append(out, dto.FromTransaction(&transactions[i]))
	}
	return out, nil
}
