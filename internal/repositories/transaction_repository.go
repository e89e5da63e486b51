package repositories

import (
	"github.com/rdavila/packstore/internal/models"
	"github.com/rdavila/packstore/pkg/errors"
	"gorm.io/gorm"
)

// TransactionRepository is the append-only ledger. The engine only ever
// writes here; nothing reads the ledger to make decisions.
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

// Append writes one ledger row
func (r *TransactionRepository) Append(transaction *models.Transaction) error {
	result := r.db.Create(transaction)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to append transaction")
	}
	return nil
}

// ListByUser retrieves a user's ledger history, newest first
func (r *TransactionRepository) ListByUser(userID uint, limit int) ([]models.Transaction, error) {
	var transactions []models.Transaction
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&transactions)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list transactions")
	}
	return transactions, nil
}
