package repositories

import (
	"github.com/rdavila/packstore/internal/models"
	"github.com/rdavila/packstore/pkg/errors"
	"gorm.io/gorm"
)

// PackRepository is the catalog store: read access to packs and their
// reward pools. Catalog entities are immutable during a transaction.
type PackRepository struct {
	db *gorm.DB
}

func NewPackRepository(db *gorm.DB) *PackRepository {
	return &PackRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction.
func (r *PackRepository) WithTx(tx *gorm.DB) *PackRepository {
	return &PackRepository{db: tx}
}

// GetPackByID retrieves a pack by ID
func (r *PackRepository) GetPackByID(id uint) (*models.Pack, error) {
	var pack models.Pack
	result := r.db.First(&pack, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "pack not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get pack")
	}

	return &pack, nil
}

// GetRewardPool retrieves the full reward pool for a pack with item and
// legend info preloaded, ordered by reward id. The order is the
// tie-break order of the weighted draw.
func (r *PackRepository) GetRewardPool(packID uint) ([]models.PackReward, error) {
	var rewards []models.PackReward
	result := r.db.
		Preload("Item").
		Preload("Legend").
		Where("pack_id = ?", packID).
		Order("id").
		Find(&rewards)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get reward pool")
	}

	return rewards, nil
}

// GetPackByName retrieves a pack by its display name
func (r *PackRepository) GetPackByName(name string) (*models.Pack, error) {
	var pack models.Pack
	result := r.db.Where("pack_name = ?", name).First(&pack)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "pack not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get pack")
	}

	return &pack, nil
}

// CreatePack creates a pack together with its reward pool entries
func (r *PackRepository) CreatePack(pack *models.Pack) error {
	result := r.db.Create(pack)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create pack")
	}
	return nil
}

// CreateReward adds a single reward-pool entry to an existing pack
func (r *PackRepository) CreateReward(reward *models.PackReward) error {
	result := r.db.Create(reward)
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create pack reward")
	}
	return nil
}
