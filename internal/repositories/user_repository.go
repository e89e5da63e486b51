package repositories

import (
	"fmt"

	"github.com/rdavila/packstore/internal/models"
	"github.com/rdavila/packstore/pkg/errors"
	"gorm.io/gorm"
)

// UserRepository is the account store: user lookup and coin balance
// reads/decrements.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// CreateUser creates a new user
func (r *UserRepository) CreateUser(user *models.User) error {
	result := r.db.Create(user)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByID retrieves a user by ID
func (r *UserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	result := r.db.First(&user, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (r *UserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	result := r.db.Where("username = ?", username).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}

// GetBalance retrieves user's coin balance
func (r *UserRepository) GetBalance(userID uint) (int64, error) {
	var user models.User
	result := r.db.Select("coins").First(&user, userID)

	if result.Error == gorm.ErrRecordNotFound {
		return 0, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get balance")
	}

	return user.Coins, nil
}

// DeductCoins decrements the user's balance by amount. The WHERE clause
// guards the balance against going negative under concurrent purchases;
// zero affected rows means the balance no longer covers the amount.
func (r *UserRepository) DeductCoins(userID uint, amount int64) error {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND coins >= ?", userID, amount).
		Update("coins", gorm.Expr("coins - ?", amount))
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to deduct coins")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeInsufficientFunds,
			fmt.Sprintf("insufficient coins to deduct %d", amount))
	}
	return nil
}
