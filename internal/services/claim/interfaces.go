package claim

import (
	"time"

	"reclaim/internal/models"
)

// Store persists claims. CreateForReceipt must enforce both the
// single-active-claim invariant and claim code uniqueness. TransitionState is
// the conditional write used to retire a claim whose issuance response could
// not be produced.
type Store interface {
	CreateForReceipt(claim *models.Claim) error
	UpdateToken(id uint, token string) error
	TransitionState(id uint, fromState string, updates map[string]interface{}) (bool, error)
}

// ReceiptSource reads receipts for ownership and amount checks.
type ReceiptSource interface {
	GetByID(id uint) (*models.Receipt, error)
}

// TokenSigner mints the portable signed credential. The signing key lives
// outside this package.
type TokenSigner interface {
	Sign(claimID, receiptID uint) (token string, expiresAt time.Time, err error)
}
