// Package policy computes return-by and warranty-end dates from per-merchant
// rules with a default fallback. Resolution is pure: the same inputs always
// produce the same outputs. Dates are computed once at confirm time and never
// recomputed retroactively, so edits to merchant rules only affect receipts
// confirmed afterwards.
package policy

import (
	"strings"
	"time"

	"reclaim/internal/models"
)

// NormalizeMerchant lowercases a merchant name and collapses internal
// whitespace. Rule lookups and content hashing both use this form.
func NormalizeMerchant(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Resolve applies the merchant rule (nil means use defaults) to a purchase
// date. A refund type of none forces returnBy to nil regardless of any rule.
// Warranty uses month arithmetic, not a fixed day count.
func Resolve(rule *models.MerchantRule, refundType string, purchaseDate time.Time) (returnBy, warrantyEnds *time.Time) {
	returnDays := models.DefaultReturnPolicyDays
	warrantyMonths := models.DefaultWarrantyMonths
	if rule != nil {
		returnDays = rule.ReturnPolicyDays
		warrantyMonths = rule.WarrantyMonths
	}

	if refundType != models.RefundTypeNone {
		rb := purchaseDate.AddDate(0, 0, returnDays)
		returnBy = &rb
	}

	we := purchaseDate.AddDate(0, warrantyMonths, 0)
	warrantyEnds = &we
	return returnBy, warrantyEnds
}
