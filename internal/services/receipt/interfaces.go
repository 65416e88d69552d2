package receipt

import (
	"context"

	"reclaim/internal/models"
)

// RuleSource looks up a merchant policy rule by normalized name.
type RuleSource interface {
	GetByName(ctx context.Context, merchantName string) (*models.MerchantRule, error)
}

// ClaimChecker reports whether a receipt is still referenced by an active
// claim. Used to guard deletion.
type ClaimChecker interface {
	HasActiveClaim(receiptID uint) (bool, error)
}
