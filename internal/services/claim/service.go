// Package claim issues verifiable claims against stored receipts: a public
// lookup code, a redemption PIN, a signed bearer token and a scannable
// encoding of the code. The code identifies the claim, the PIN authorizes its
// use; they travel over separate channels on purpose.
package claim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	domainErrors "reclaim/internal/errors"
	"reclaim/internal/models"
	"reclaim/internal/repositories"
	"reclaim/internal/utils"
	"reclaim/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// maxCodeRetries bounds regeneration when a generated code collides with an
// existing one. Collisions are rare but must be handled, not assumed away.
const maxCodeRetries = 5

// IssueResult carries everything the issuance response needs. Pin is the only
// place the plaintext PIN ever appears; the claim record stores a hash.
type IssueResult struct {
	Claim *models.Claim `json:"claim"`
	Pin   string        `json:"pin"`
	Token string        `json:"token"`
	QRPNG []byte        `json:"-"`
}

type Service struct {
	store    Store
	receipts ReceiptSource
	tokens   TokenSigner
}

func NewService(store Store, receipts ReceiptSource, tokens TokenSigner) *Service {
	if store == nil {
		panic("claim store is required")
	}
	if receipts == nil {
		panic("receipt source is required")
	}
	if tokens == nil {
		panic("token signer is required")
	}
	return &Service{
		store:    store,
		receipts: receipts,
		tokens:   tokens,
	}
}

// Issue creates a claim for a receipt owned by the caller. It fails with
// ErrClaimConflict while another claim for the receipt is still active.
func (s *Service) Issue(ctx context.Context, ownerID, receiptID uint, claimType string) (*IssueResult, error) {
	v := validation.New()
	v.IssueClaim(receiptID, claimType)
	if !v.Valid() {
		return nil, domainErrors.NewValidationError("%s", v.Summary())
	}

	rec, err := s.receipts.GetByID(receiptID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, domainErrors.ErrReceiptNotFound
		}
		return nil, fmt.Errorf("failed to load receipt: %w", err)
	}
	if rec.OwnerID != ownerID {
		return nil, domainErrors.ErrReceiptNotFound
	}

	pin, err := utils.GeneratePIN()
	if err != nil {
		return nil, fmt.Errorf("failed to generate pin: %w", err)
	}
	pinHash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash pin: %w", err)
	}

	claim := &models.Claim{
		ReceiptID:      receiptID,
		PinHash:        string(pinHash),
		ClaimType:      claimType,
		State:          models.ClaimStateIssued,
		OriginalAmount: rec.Total,
		ExpiresAt:      time.Now().Add(models.ClaimValidity),
	}

	// The unique index on claim_code resolves concurrent issuance races;
	// pre-checking and hoping is not enough.
	for attempt := 0; ; attempt++ {
		code, genErr := utils.GenerateClaimCode()
		if genErr != nil {
			return nil, fmt.Errorf("failed to generate claim code: %w", genErr)
		}
		claim.ClaimCode = code

		err = s.store.CreateForReceipt(claim)
		if err == nil {
			break
		}
		if errors.Is(err, repositories.ErrActiveClaimExists) {
			return nil, domainErrors.ErrClaimConflict
		}
		if errors.Is(err, repositories.ErrDuplicateCode) && attempt < maxCodeRetries {
			log.Printf("claim code collision, regenerating (attempt %d)", attempt+1)
			continue
		}
		return nil, fmt.Errorf("failed to create claim: %w", err)
	}

	tokenStr, _, err := s.tokens.Sign(claim.ID, receiptID)
	if err != nil {
		s.discard(claim)
		return nil, fmt.Errorf("failed to sign claim token: %w", err)
	}
	if err := s.store.UpdateToken(claim.ID, tokenStr); err != nil {
		s.discard(claim)
		return nil, fmt.Errorf("failed to store claim token: %w", err)
	}
	claim.Token = tokenStr

	// Only the lookup code goes into the QR image; the PIN is displayed as
	// text and relayed by a human.
	qrPNG, err := utils.EncodeClaimCodeQR(claim.ClaimCode)
	if err != nil {
		s.discard(claim)
		return nil, fmt.Errorf("failed to encode claim code: %w", err)
	}

	return &IssueResult{
		Claim: claim,
		Pin:   pin,
		Token: tokenStr,
		QRPNG: qrPNG,
	}, nil
}

// discard retires a committed claim whose issuance response failed before the
// PIN could be delivered. The claim is unusable without the PIN, so it is
// expired on the spot rather than left blocking the receipt for 90 days.
func (s *Service) discard(claim *models.Claim) {
	if _, err := s.store.TransitionState(claim.ID, models.ClaimStateIssued,
		map[string]interface{}{"state": models.ClaimStateExpired}); err != nil {
		log.Printf("failed to discard claim %d after issuance failure: %v", claim.ID, err)
	}
}
