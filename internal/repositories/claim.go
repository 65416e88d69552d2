package repositories

import (
	"errors"

	"reclaim/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrDuplicateCode signals a claim code collision; the issuer retries
	// with a fresh code.
	ErrDuplicateCode = errors.New("claim code already exists")
	// ErrActiveClaimExists enforces the single-active-claim invariant.
	ErrActiveClaimExists = errors.New("active claim exists for receipt")
)

// ClaimRepository persists claims and their audit trail. Claims are never
// deleted.
type ClaimRepository interface {
	CreateForReceipt(claim *models.Claim) error
	UpdateToken(id uint, token string) error
	GetByCode(code string) (*models.Claim, error)
	GetByID(id uint) (*models.Claim, error)
	HasActiveClaim(receiptID uint) (bool, error)
	TransitionState(id uint, fromState string, updates map[string]interface{}) (bool, error)
	CreateAttempt(attempt *models.VerificationAttempt) error
	ListAttempts(claimID uint) ([]models.VerificationAttempt, error)
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

// CreateForReceipt inserts the claim after checking that no active claim
// exists for the receipt. The existence check is check-then-act, and when the
// receipt has no claims yet there are no claim rows a lock could grab, so the
// transaction locks the parent receipt row first: concurrent issuers for the
// same receipt queue on that lock and the second one sees the first one's
// committed claim. The partial unique index on (receipt_id) for active states
// backstops the invariant at the storage layer.
func (r *claimRepository) CreateForReceipt(claim *models.Claim) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var rec models.Receipt
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&rec, claim.ReceiptID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var active int64
		err = tx.Model(&models.Claim{}).
			Where("receipt_id = ? AND state IN ?", claim.ReceiptID,
				[]string{models.ClaimStateIssued, models.ClaimStateVerified}).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrActiveClaimExists
		}

		// With the receipt row locked, a duplicated key here can only be the
		// claim_code index.
		if err := tx.Create(claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateCode
			}
			return err
		}
		return nil
	})
}

func (r *claimRepository) UpdateToken(id uint, token string) error {
	return r.db.Model(&models.Claim{}).Where("id = ?", id).
		Update("token", token).Error
}

func (r *claimRepository) GetByCode(code string) (*models.Claim, error) {
	var claim models.Claim
	if err := r.db.Where("claim_code = ?", code).First(&claim).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) GetByID(id uint) (*models.Claim, error) {
	var claim models.Claim
	if err := r.db.First(&claim, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) HasActiveClaim(receiptID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Claim{}).
		Where("receipt_id = ? AND state IN ?", receiptID,
			[]string{models.ClaimStateIssued, models.ClaimStateVerified}).
		Count(&count).Error
	return count > 0, err
}

// TransitionState performs the atomic compare-and-transition at the heart of
// the verifier: the row is updated only if it is still in fromState. The bool
// reports whether this caller won the transition. Racing callers lose and must
// re-read the now-current state.
func (r *claimRepository) TransitionState(id uint, fromState string, updates map[string]interface{}) (bool, error) {
	res := r.db.Model(&models.Claim{}).
		Where("id = ? AND state = ?", id, fromState).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *claimRepository) CreateAttempt(attempt *models.VerificationAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *claimRepository) ListAttempts(claimID uint) ([]models.VerificationAttempt, error) {
	var attempts []models.VerificationAttempt
	err := r.db.Where("claim_id = ?", claimID).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}
