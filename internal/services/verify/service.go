// Package verify implements the claim state machine a merchant drives:
// lookup, verify, redeem (full or partial) and refuse. Every transition is a
// single atomic compare-and-transition against storage; two terminals racing
// on the same code resolve to exactly one winner without any lock being held
// while a human reads a PIN off a screen.
package verify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	domainErrors "reclaim/internal/errors"
	"reclaim/internal/models"
	"reclaim/internal/repositories"
	"reclaim/internal/utils"
	"reclaim/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// LookupResult is the PIN-less read a merchant terminal gets after scanning
// a code.
type LookupResult struct {
	Valid     bool          `json:"valid"`
	Claim     *models.Claim `json:"claim,omitempty"`
	IsExpired bool          `json:"is_expired"`
	IsUsed    bool          `json:"is_used"`
}

type Service struct {
	claims  ClaimStore
	limiter AttemptLimiter
	now     func() time.Time
}

func NewService(claims ClaimStore, limiter AttemptLimiter) *Service {
	if claims == nil {
		panic("claim store is required")
	}
	if limiter == nil {
		panic("attempt limiter is required")
	}
	return &Service{
		claims:  claims,
		limiter: limiter,
		now:     time.Now,
	}
}

// Lookup finds a claim by code without requiring the PIN. Read-only; it does
// not write an audit row and does not transition state.
func (s *Service) Lookup(ctx context.Context, code string) (*LookupResult, error) {
	claim, err := s.getByCode(code)
	if err != nil {
		return nil, err
	}

	expired := claim.State == models.ClaimStateExpired || claim.IsExpired(s.now())
	used := claim.IsTerminal() && claim.State != models.ClaimStateExpired

	return &LookupResult{
		Valid:     !expired && !used,
		Claim:     claim,
		IsExpired: expired,
		IsUsed:    used,
	}, nil
}

// Verify checks the PIN and moves an issued claim to verified. Expiry is
// evaluated lazily here; a stale claim is transitioned to expired on first
// observation. A correct PIN never rescues a claim that is already terminal:
// state wins over secret-correctness.
func (s *Service) Verify(ctx context.Context, staffID uint, code, pin string) (*models.Claim, error) {
	claim, err := s.getByCode(code)
	if err != nil {
		return nil, err
	}

	if claim.State != models.ClaimStateIssued {
		s.audit(claim.ID, staffID, models.AttemptResultAlreadyUsed, nil, "")
		return nil, domainErrors.ErrAlreadyUsed
	}

	if claim.IsExpired(s.now()) {
		// Losing this transition means someone else observed expiry first;
		// the outcome for this caller is the same either way.
		if _, terr := s.claims.TransitionState(claim.ID, models.ClaimStateIssued,
			map[string]interface{}{"state": models.ClaimStateExpired}); terr != nil {
			log.Printf("failed to mark claim %d expired: %v", claim.ID, terr)
		}
		s.audit(claim.ID, staffID, models.AttemptResultExpired, nil, "")
		return nil, domainErrors.ErrClaimExpired
	}

	if err := s.checkPin(ctx, claim, pin, staffID); err != nil {
		return nil, err
	}

	won, err := s.claims.TransitionState(claim.ID, models.ClaimStateIssued,
		map[string]interface{}{"state": models.ClaimStateVerified})
	if err != nil {
		return nil, fmt.Errorf("failed to transition claim: %w", err)
	}
	if !won {
		s.audit(claim.ID, staffID, models.AttemptResultAlreadyUsed, nil, "")
		return nil, domainErrors.ErrAlreadyUsed
	}

	s.resetAttempts(ctx, claim.ClaimCode)
	s.audit(claim.ID, staffID, models.AttemptResultVerified, nil, "")

	claim.State = models.ClaimStateVerified
	return claim, nil
}

// Redeem executes the terminal transition for a verified claim: redeemed when
// the refund covers the original amount, partial otherwise. Exactly one of
// any set of racing Redeem/Refuse calls succeeds.
func (s *Service) Redeem(ctx context.Context, staffID uint, code, pin string, refundAmount float64, notes string) (*models.Claim, error) {
	claim, err := s.getByCode(code)
	if err != nil {
		return nil, err
	}

	if claim.State != models.ClaimStateVerified {
		s.audit(claim.ID, staffID, models.AttemptResultAlreadyUsed, nil, "")
		return nil, domainErrors.ErrAlreadyUsed
	}

	if err := s.checkPin(ctx, claim, pin, staffID); err != nil {
		return nil, err
	}

	if refundAmount <= 0 || refundAmount > claim.OriginalAmount {
		s.audit(claim.ID, staffID, models.AttemptResultInvalidAmount, &refundAmount, notes)
		return nil, domainErrors.ErrInvalidAmount
	}

	target := models.ClaimStatePartial
	result := models.AttemptResultPartialApproved
	if sameAmount(refundAmount, claim.OriginalAmount) {
		target = models.ClaimStateRedeemed
		result = models.AttemptResultApproved
	}

	redeemedAt := s.now()
	won, err := s.claims.TransitionState(claim.ID, models.ClaimStateVerified,
		map[string]interface{}{
			"state":           target,
			"redeemed_amount": refundAmount,
			"redeemed_at":     redeemedAt,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to transition claim: %w", err)
	}
	if !won {
		s.audit(claim.ID, staffID, models.AttemptResultAlreadyUsed, nil, "")
		return nil, domainErrors.ErrAlreadyUsed
	}

	s.resetAttempts(ctx, claim.ClaimCode)
	s.audit(claim.ID, staffID, result, &refundAmount, notes)

	claim.State = target
	claim.RedeemedAmount = &refundAmount
	claim.RedeemedAt = &redeemedAt
	return claim, nil
}

// Refuse executes the refused terminal transition for a verified claim.
func (s *Service) Refuse(ctx context.Context, staffID uint, code, pin, reason string) (*models.Claim, error) {
	claim, err := s.getByCode(code)
	if err != nil {
		return nil, err
	}

	if claim.State != models.ClaimStateVerified {
		s.audit(claim.ID, staffID, models.AttemptResultAlreadyUsed, nil, "")
		return nil, domainErrors.ErrAlreadyUsed
	}

	if err := s.checkPin(ctx, claim, pin, staffID); err != nil {
		return nil, err
	}

	won, err := s.claims.TransitionState(claim.ID, models.ClaimStateVerified,
		map[string]interface{}{"state": models.ClaimStateRefused})
	if err != nil {
		return nil, fmt.Errorf("failed to transition claim: %w", err)
	}
	if !won {
		s.audit(claim.ID, staffID, models.AttemptResultAlreadyUsed, nil, "")
		return nil, domainErrors.ErrAlreadyUsed
	}

	s.resetAttempts(ctx, claim.ClaimCode)
	s.audit(claim.ID, staffID, models.AttemptResultRefused, nil, reason)

	claim.State = models.ClaimStateRefused
	return claim, nil
}

// Attempts returns the audit trail for a claim, oldest first.
func (s *Service) Attempts(ctx context.Context, code string) ([]models.VerificationAttempt, error) {
	claim, err := s.getByCode(code)
	if err != nil {
		return nil, err
	}
	return s.claims.ListAttempts(claim.ID)
}

func (s *Service) getByCode(code string) (*models.Claim, error) {
	normalized := utils.NormalizeClaimCode(code)

	v := validation.New()
	v.ClaimCode("claim_code", normalized)
	if !v.Valid() {
		return nil, domainErrors.NewValidationError("%s", v.Summary())
	}

	claim, err := s.claims.GetByCode(normalized)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, domainErrors.ErrClaimNotFound
		}
		return nil, fmt.Errorf("failed to load claim: %w", err)
	}
	return claim, nil
}

// checkPin enforces the bounded-attempt lockout, then compares the supplied
// PIN against the stored hash. A mismatch never consumes the claim; it only
// counts toward the lockout.
func (s *Service) checkPin(ctx context.Context, claim *models.Claim, pin string, staffID uint) error {
	count, err := s.limiter.Count(ctx, claim.ClaimCode)
	if err != nil {
		log.Printf("attempt counter read failed for claim %d: %v", claim.ID, err)
	}
	if count >= MaxPinAttempts {
		s.audit(claim.ID, staffID, models.AttemptResultPinMismatch, nil, "attempt limit reached")
		return domainErrors.ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(claim.PinHash), []byte(pin)) != nil {
		if _, ferr := s.limiter.Fail(ctx, claim.ClaimCode); ferr != nil {
			log.Printf("attempt counter increment failed for claim %d: %v", claim.ID, ferr)
		}
		s.audit(claim.ID, staffID, models.AttemptResultPinMismatch, nil, "")
		return domainErrors.ErrPinMismatch
	}
	return nil
}

func (s *Service) resetAttempts(ctx context.Context, code string) {
	if err := s.limiter.Reset(ctx, code); err != nil {
		log.Printf("attempt counter reset failed for code %s: %v", code, err)
	}
}

// audit appends one attempt row. The trail is the record of record for
// disputes, so a write failure is logged loudly but cannot undo the
// transition that already happened.
func (s *Service) audit(claimID, staffID uint, result string, refundAmount *float64, notes string) {
	attempt := &models.VerificationAttempt{
		ClaimID:      claimID,
		Result:       result,
		RefundAmount: refundAmount,
		Notes:        notes,
		PerformedBy:  staffID,
	}
	if err := s.claims.CreateAttempt(attempt); err != nil {
		log.Printf("failed to write verification attempt for claim %d: %v", claimID, err)
	}
}

func sameAmount(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}
