package models

import "time"

// Verification attempt results. Every verifier operation, success or failure,
// writes exactly one attempt row; this is the dispute-resolution trail.
const (
	AttemptResultVerified        = "verified"
	AttemptResultApproved        = "approved"
	AttemptResultPartialApproved = "partial_approved"
	AttemptResultRefused         = "refused"
	AttemptResultPinMismatch     = "pin_mismatch"
	AttemptResultExpired         = "expired"
	AttemptResultAlreadyUsed     = "already_used"
	AttemptResultInvalidAmount   = "invalid_amount"
)

// VerificationAttempt is an append-only audit record. It has no UpdatedAt on
// purpose: rows are never modified after insert.
type VerificationAttempt struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ClaimID      uint      `gorm:"not null;index" json:"claim_id"`
	Result       string    `gorm:"not null" json:"result"`
	RefundAmount *float64  `json:"refund_amount"`
	Notes        string    `json:"notes"`
	PerformedBy  uint      `gorm:"not null" json:"performed_by"`
	CreatedAt    time.Time `json:"created_at"`
}
