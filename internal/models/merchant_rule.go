package models

import "gorm.io/gorm"

// Default policy applied when no merchant rule matches
const (
	DefaultReturnPolicyDays = 30
	DefaultWarrantyMonths   = 12
)

// MerchantRule overrides the default return/warranty policy for one merchant.
// MerchantName is stored case/whitespace-normalized.
type MerchantRule struct {
	gorm.Model
	MerchantName     string `gorm:"uniqueIndex;not null" json:"merchant_name"`
	ReturnPolicyDays int    `gorm:"not null" json:"return_policy_days"`
	WarrantyMonths   int    `gorm:"not null" json:"warranty_months"`
}
