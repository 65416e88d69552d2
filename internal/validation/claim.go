package validation

import (
	"regexp"

	"reclaim/internal/models"
)

var (
	claimCodeRegex = regexp.MustCompile(`^[A-Z2-9]{8}$`)
	pinRegex       = regexp.MustCompile(`^\d{6}$`)
)

// IssueClaim validates a claim issuance request.
func (v *Validator) IssueClaim(receiptID uint, claimType string) {
	v.Required("receipt_id", receiptID)
	v.OneOf("claim_type", claimType,
		models.ClaimTypeReturn,
		models.ClaimTypeWarranty,
		models.ClaimTypeExchange,
	)
}

// ClaimCode validates the shape of a lookup code after normalization.
func (v *Validator) ClaimCode(field, code string) {
	v.Check(claimCodeRegex.MatchString(code), field, "must be an 8-character claim code")
}

// PIN validates the shape of a redemption PIN.
func (v *Validator) PIN(field, pin string) {
	v.Check(pinRegex.MatchString(pin), field, "must be 6 digits")
}

// MerchantRule validates a rule create/update request.
func (v *Validator) MerchantRule(merchantName string, returnPolicyDays, warrantyMonths int) {
	v.Required("merchant_name", merchantName)
	v.MaxLength("merchant_name", merchantName, 200)
	v.Check(returnPolicyDays >= 0 && returnPolicyDays <= 365, "return_policy_days", "must be between 0 and 365")
	v.Check(warrantyMonths >= 0 && warrantyMonths <= 120, "warranty_months", "must be between 0 and 120")
}
