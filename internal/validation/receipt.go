package validation

import "reclaim/internal/models"

// ConfirmReceipt validates the edited fields of a receipt confirmation.
func (v *Validator) ConfirmReceipt(merchant, date string, total float64, refundType, confidence string) {
	v.Required("merchant", merchant)
	v.MaxLength("merchant", merchant, 200)
	v.Required("date", date)
	if date != "" {
		v.ISODate("date", date)
	}
	v.Check(total > 0, "total", "must be a positive amount")
	v.Range("total", total, 0.01, 1000000)
	v.OneOf("refund_type", refundType,
		models.RefundTypeNotSpecified,
		models.RefundTypeFull,
		models.RefundTypeStoreCredit,
		models.RefundTypeExchangeOnly,
		models.RefundTypePartial,
		models.RefundTypeNone,
	)
	v.OneOf("confidence", confidence,
		models.ConfidenceHigh,
		models.ConfidenceMedium,
		models.ConfidenceLow,
	)
}
