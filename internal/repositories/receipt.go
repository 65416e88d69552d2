package repositories

import (
	"errors"

	"reclaim/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateReceipt is returned when a receipt with the same content hash
// already exists for the owner.
var ErrDuplicateReceipt = errors.New("duplicate receipt content hash")

// ReceiptRepository persists normalized receipts.
type ReceiptRepository interface {
	Create(receipt *models.Receipt) error
	GetByID(id uint) (*models.Receipt, error)
	GetByOwnerAndHash(ownerID uint, contentHash string) (*models.Receipt, error)
	ListByOwner(ownerID uint, limit, offset int) ([]models.Receipt, error)
	UpdateCategory(id uint, category string) error
	Delete(id uint) error
}

type receiptRepository struct {
	db *gorm.DB
}

func NewReceiptRepository(db *gorm.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Create(receipt *models.Receipt) error {
	if err := r.db.Create(receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReceipt
		}
		return err
	}
	return nil
}

func (r *receiptRepository) GetByID(id uint) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := r.db.First(&receipt, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) GetByOwnerAndHash(ownerID uint, contentHash string) (*models.Receipt, error) {
	var receipt models.Receipt
	err := r.db.Where("owner_id = ? AND content_hash = ?", ownerID, contentHash).
		First(&receipt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

func (r *receiptRepository) ListByOwner(ownerID uint, limit, offset int) ([]models.Receipt, error) {
	var receipts []models.Receipt
	err := r.db.Where("owner_id = ?", ownerID).
		Order("date DESC").
		Limit(limit).Offset(offset).
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) UpdateCategory(id uint, category string) error {
	res := r.db.Model(&models.Receipt{}).Where("id = ?", id).
		Update("category", category)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *receiptRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Receipt{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
