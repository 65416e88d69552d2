// Package receipt implements the receipt pipeline: OCR preview, confirmation
// with policy resolution, and content-hash deduplication.
package receipt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	domainErrors "reclaim/internal/errors"
	"reclaim/internal/models"
	"reclaim/internal/ocr"
	"reclaim/internal/repositories"
	"reclaim/internal/services/extract"
	"reclaim/internal/services/policy"
	"reclaim/internal/validation"
)

// ScanPreview is the non-persisted result of submitting a raw file.
type ScanPreview struct {
	Merchant   string     `json:"merchant"`
	Date       *time.Time `json:"date"`
	Total      *float64   `json:"total"`
	RefundType string     `json:"refund_type"`
	Confidence string     `json:"confidence"`
	RawText    string     `json:"raw_text"`
}

// ConfirmInput carries the user-reviewed fields of a preview.
type ConfirmInput struct {
	Merchant   string  `json:"merchant"`
	Date       string  `json:"date"`
	Total      float64 `json:"total"`
	Category   string  `json:"category"`
	RefundType string  `json:"refund_type"`
	Confidence string  `json:"confidence"`
}

type Service struct {
	engine    ocr.Engine
	extractor *extract.Extractor
	rules     RuleSource
	receipts  repositories.ReceiptRepository
	claims    ClaimChecker
}

func NewService(engine ocr.Engine, extractor *extract.Extractor, rules RuleSource,
	receipts repositories.ReceiptRepository, claims ClaimChecker) *Service {
	if engine == nil {
		panic("ocr engine is required")
	}
	if extractor == nil {
		panic("extractor is required")
	}
	if receipts == nil {
		panic("receipt repository is required")
	}

	return &Service{
		engine:    engine,
		extractor: extractor,
		rules:     rules,
		receipts:  receipts,
		claims:    claims,
	}
}

// Scan runs OCR and field extraction without persisting anything. It never
// fails: an unreadable file degrades to empty fields with low confidence.
func (s *Service) Scan(ctx context.Context, data []byte, contentType string) *ScanPreview {
	rawText, err := s.engine.RecognizeText(ctx, data, contentType)
	if err != nil {
		log.Printf("ocr failed, degrading to empty text: %v", err)
		rawText = ""
	}

	result := s.extractor.Extract(rawText)
	return &ScanPreview{
		Merchant:   result.Merchant,
		Date:       result.Date,
		Total:      result.Total,
		RefundType: result.RefundType,
		Confidence: result.Confidence,
		RawText:    rawText,
	}
}

// Confirm persists the reviewed fields as a receipt. The content hash makes
// re-submission idempotent: a duplicate returns the pre-existing receipt and
// created=false. Return/warranty dates are resolved once, here.
func (s *Service) Confirm(ctx context.Context, ownerID uint, in ConfirmInput) (*models.Receipt, bool, error) {
	if in.Category == "" {
		in.Category = "uncategorized"
	}
	if in.RefundType == "" {
		in.RefundType = models.RefundTypeNotSpecified
	}
	if in.Confidence == "" {
		in.Confidence = models.ConfidenceLow
	}

	v := validation.New()
	v.ConfirmReceipt(in.Merchant, in.Date, in.Total, in.RefundType, in.Confidence)
	v.MaxLength("category", in.Category, 100)
	if !v.Valid() {
		return nil, false, domainErrors.NewValidationError("%s", v.Summary())
	}

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return nil, false, domainErrors.NewValidationError("date: must be an ISO date (YYYY-MM-DD)")
	}

	normalized := policy.NormalizeMerchant(in.Merchant)

	var rule *models.MerchantRule
	if s.rules != nil {
		rule, err = s.rules.GetByName(ctx, normalized)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, false, fmt.Errorf("failed to look up merchant rule: %w", err)
		}
	}
	returnBy, warrantyEnds := policy.Resolve(rule, in.RefundType, date)

	hash := ContentHash(in.Merchant, date, in.Total)

	rec := &models.Receipt{
		OwnerID:      ownerID,
		Merchant:     in.Merchant,
		Date:         date,
		Total:        in.Total,
		Category:     in.Category,
		ReturnBy:     returnBy,
		WarrantyEnds: warrantyEnds,
		RefundType:   in.RefundType,
		Confidence:   in.Confidence,
		ContentHash:  hash,
	}

	if err := s.receipts.Create(rec); err != nil {
		if errors.Is(err, repositories.ErrDuplicateReceipt) {
			existing, lookupErr := s.receipts.GetByOwnerAndHash(ownerID, hash)
			if lookupErr != nil {
				return nil, false, fmt.Errorf("duplicate receipt lookup failed: %w", lookupErr)
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to create receipt: %w", err)
	}
	return rec, true, nil
}

// Get returns a receipt owned by the caller.
func (s *Service) Get(ctx context.Context, ownerID, receiptID uint) (*models.Receipt, error) {
	rec, err := s.receipts.GetByID(receiptID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, domainErrors.ErrReceiptNotFound
		}
		return nil, err
	}
	if rec.OwnerID != ownerID {
		return nil, domainErrors.ErrReceiptNotFound
	}
	return rec, nil
}

// List returns the caller's receipts, newest purchase first.
func (s *Service) List(ctx context.Context, ownerID uint, limit, offset int) ([]models.Receipt, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.receipts.ListByOwner(ownerID, limit, offset)
}

// UpdateCategory changes the one user-editable field of a stored receipt.
func (s *Service) UpdateCategory(ctx context.Context, ownerID, receiptID uint, category string) (*models.Receipt, error) {
	v := validation.New()
	v.Required("category", category)
	v.MaxLength("category", category, 100)
	if !v.Valid() {
		return nil, domainErrors.NewValidationError("%s", v.Summary())
	}

	if _, err := s.Get(ctx, ownerID, receiptID); err != nil {
		return nil, err
	}
	if err := s.receipts.UpdateCategory(receiptID, category); err != nil {
		return nil, err
	}
	return s.Get(ctx, ownerID, receiptID)
}

// Delete removes a receipt unless an active claim still references it.
func (s *Service) Delete(ctx context.Context, ownerID, receiptID uint) error {
	if _, err := s.Get(ctx, ownerID, receiptID); err != nil {
		return err
	}

	if s.claims != nil {
		active, err := s.claims.HasActiveClaim(receiptID)
		if err != nil {
			return fmt.Errorf("failed to check active claims: %w", err)
		}
		if active {
			return domainErrors.ErrClaimConflict
		}
	}

	return s.receipts.Delete(receiptID)
}

// ContentHash fingerprints the normalized receipt fields: case/whitespace
// normalized merchant, the ISO date, and the total rounded to cents. The same
// physical slip always hashes the same, so offline retries cannot create
// duplicates.
func ContentHash(merchant string, date time.Time, total float64) string {
	cents := int64(math.Round(total * 100))
	payload := fmt.Sprintf("%s|%s|%d",
		policy.NormalizeMerchant(merchant),
		date.Format("2006-01-02"),
		cents,
	)
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
