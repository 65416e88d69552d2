// Package extract turns raw OCR text into structured candidate fields.
// Receipts are inherently noisy scans, so the contract is "always return a
// best-effort structure": a missing field yields nil/empty and degrades
// confidence rather than failing the upload.
package extract

import (
	"strings"
	"time"

	"reclaim/internal/models"
)

// Result holds the candidate fields recovered from one receipt text.
type Result struct {
	Merchant   string     `json:"merchant"`
	Date       *time.Time `json:"date"`
	Total      *float64   `json:"total"`
	RefundType string     `json:"refund_type"`
	Confidence string     `json:"confidence"`
}

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract applies the matchers in precedence order: total, date, merchant,
// then refund-type boilerplate. Confidence is high only when every field
// matched its primary pattern; any fallback heuristic caps it at medium, any
// missing field drops it to low. Extract never fails.
func (e *Extractor) Extract(rawText string) Result {
	lines := strings.Split(rawText, "\n")

	total, totalFallback := findTotal(lines)
	date, dateFallback := findDate(rawText)
	merchant, merchantFallback := findMerchant(lines)

	confidence := models.ConfidenceHigh
	if totalFallback || dateFallback || merchantFallback {
		confidence = models.ConfidenceMedium
	}
	if total == nil || date == nil || merchant == "" {
		confidence = models.ConfidenceLow
	}

	return Result{
		Merchant:   merchant,
		Date:       date,
		Total:      total,
		RefundType: detectRefundType(rawText),
		Confidence: confidence,
	}
}
