package verify

import (
	"context"

	"reclaim/internal/models"
)

// ClaimStore is the storage contract the state machine runs against.
// TransitionState must be an atomic conditional write: update only if the row
// is still in fromState, and report whether this caller won.
type ClaimStore interface {
	GetByCode(code string) (*models.Claim, error)
	TransitionState(id uint, fromState string, updates map[string]interface{}) (bool, error)
	CreateAttempt(attempt *models.VerificationAttempt) error
	ListAttempts(claimID uint) ([]models.VerificationAttempt, error)
}

// AttemptLimiter is the shared PIN-attempt counter, keyed by claim code. It
// lives outside process memory so every server instance sees the same count.
type AttemptLimiter interface {
	Fail(ctx context.Context, code string) (int64, error)
	Count(ctx context.Context, code string) (int64, error)
	Reset(ctx context.Context, code string) error
}
