package repositories

import (
	"context"
	"errors"
	"log"

	"reclaim/internal/models"
	"reclaim/internal/repositories/cache"

	"gorm.io/gorm"
)

// ErrDuplicateRule is returned when a rule already exists for the merchant.
var ErrDuplicateRule = errors.New("rule already exists for merchant")

// MerchantRuleRepository manages per-merchant policy overrides. Reads go
// through Redis since rules are consulted on every receipt confirm.
type MerchantRuleRepository interface {
	Create(rule *models.MerchantRule) error
	GetByName(ctx context.Context, merchantName string) (*models.MerchantRule, error)
	List() ([]models.MerchantRule, error)
	Update(rule *models.MerchantRule) error
	Delete(id uint) error
}

type merchantRuleRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewMerchantRuleRepository(db *gorm.DB, cacheSvc *cache.CacheService) MerchantRuleRepository {
	return &merchantRuleRepository{db: db, cache: cacheSvc}
}

func (r *merchantRuleRepository) Create(rule *models.MerchantRule) error {
	if err := r.db.Create(rule).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRule
		}
		return err
	}
	return nil
}

func (r *merchantRuleRepository) GetByName(ctx context.Context, merchantName string) (*models.MerchantRule, error) {
	var rule models.MerchantRule

	if r.cache != nil {
		key := r.cache.GenerateKey("rule", "merchant", merchantName)
		if found, err := r.cache.Get(ctx, key, &rule); err == nil && found {
			return &rule, nil
		}
	}

	err := r.db.Where("merchant_name = ?", merchantName).First(&rule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if r.cache != nil {
		key := r.cache.GenerateKey("rule", "merchant", merchantName)
		if err := r.cache.Set(ctx, key, &rule); err != nil {
			log.Printf("failed to cache merchant rule: %v", err)
		}
	}
	return &rule, nil
}

func (r *merchantRuleRepository) List() ([]models.MerchantRule, error) {
	var rules []models.MerchantRule
	err := r.db.Order("merchant_name ASC").Find(&rules).Error
	return rules, err
}

func (r *merchantRuleRepository) Update(rule *models.MerchantRule) error {
	if err := r.db.Save(rule).Error; err != nil {
		return err
	}
	r.invalidate(rule.MerchantName)
	return nil
}

func (r *merchantRuleRepository) Delete(id uint) error {
	var rule models.MerchantRule
	if err := r.db.First(&rule, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := r.db.Delete(&rule).Error; err != nil {
		return err
	}
	r.invalidate(rule.MerchantName)
	return nil
}

func (r *merchantRuleRepository) invalidate(merchantName string) {
	if r.cache == nil {
		return
	}
	key := r.cache.GenerateKey("rule", "merchant", merchantName)
	if err := r.cache.Delete(context.Background(), key); err != nil {
		log.Printf("failed to invalidate merchant rule cache: %v", err)
	}
}
