package models

import (
	"time"

	"gorm.io/gorm"
)

// Extraction confidence levels
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// Refund types detected from receipt boilerplate or set on confirm
const (
	RefundTypeNotSpecified = "not_specified"
	RefundTypeFull         = "full"
	RefundTypeStoreCredit  = "store_credit"
	RefundTypeExchangeOnly = "exchange_only"
	RefundTypePartial      = "partial"
	RefundTypeNone         = "none"
)

// Receipt is a digitized paper receipt. ContentHash is unique per owner so
// re-uploading the same slip is idempotent.
type Receipt struct {
	gorm.Model
	OwnerID      uint       `gorm:"not null;uniqueIndex:idx_receipts_owner_hash" json:"owner_id"`
	Merchant     string     `gorm:"not null" json:"merchant"`
	Date         time.Time  `gorm:"not null" json:"date"`
	Total        float64    `gorm:"not null" json:"total"`
	Category     string     `gorm:"default:'uncategorized'" json:"category"`
	ReturnBy     *time.Time `json:"return_by"`
	WarrantyEnds *time.Time `json:"warranty_ends"`
	RefundType   string     `gorm:"default:'not_specified'" json:"refund_type"`
	Confidence   string     `gorm:"not null;default:'low'" json:"confidence"`
	ContentHash  string     `gorm:"not null;uniqueIndex:idx_receipts_owner_hash" json:"-"`
}
