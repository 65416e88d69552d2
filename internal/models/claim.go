package models

import (
	"time"

	"gorm.io/gorm"
)

// Claim states. A claim moves issued -> verified -> {redeemed | partial | refused},
// or issued -> expired when observed past its expiry.
const (
	ClaimStateIssued   = "issued"
	ClaimStateVerified = "verified"
	ClaimStateRedeemed = "redeemed"
	ClaimStatePartial  = "partial"
	ClaimStateRefused  = "refused"
	ClaimStateExpired  = "expired"
)

// Claim types
const (
	ClaimTypeReturn   = "return"
	ClaimTypeWarranty = "warranty"
	ClaimTypeExchange = "exchange"
)

// ClaimValidity is how long an issued claim stays redeemable.
const ClaimValidity = 90 * 24 * time.Hour

// Claim is a redeemable attestation derived from one receipt. ClaimCode is the
// public lookup key; the redemption PIN is stored only as a bcrypt hash and the
// plaintext leaves the system exactly once, in the issuance response.
type Claim struct {
	gorm.Model
	ReceiptID      uint       `gorm:"not null;index" json:"receipt_id"`
	ClaimCode      string     `gorm:"uniqueIndex;not null" json:"claim_code"`
	PinHash        string     `gorm:"not null" json:"-"`
	Token          string     `gorm:"type:text" json:"-"`
	ClaimType      string     `gorm:"not null" json:"claim_type"`
	State          string     `gorm:"not null;default:'issued';index" json:"state"`
	OriginalAmount float64    `gorm:"not null" json:"original_amount"`
	RedeemedAmount *float64   `json:"redeemed_amount"`
	ExpiresAt      time.Time  `gorm:"not null" json:"expires_at"`
	RedeemedAt     *time.Time `json:"redeemed_at"`
}

// IsTerminal reports whether no further transition is possible.
func (c *Claim) IsTerminal() bool {
	switch c.State {
	case ClaimStateRedeemed, ClaimStatePartial, ClaimStateRefused, ClaimStateExpired:
		return true
	}
	return false
}

// IsActive reports whether the claim still blocks issuance of a new claim
// for the same receipt.
func (c *Claim) IsActive() bool {
	return c.State == ClaimStateIssued || c.State == ClaimStateVerified
}

// IsExpired compares the expiry against the given instant. Expiry is evaluated
// lazily on access; there is no background sweep.
func (c *Claim) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
