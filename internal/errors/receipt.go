package errors

var (
	ErrReceiptNotFound = &DomainError{
		Code:    "RECEIPT_NOT_FOUND",
		Message: "receipt not found",
	}
	ErrRuleNotFound = &DomainError{
		Code:    "RULE_NOT_FOUND",
		Message: "merchant rule not found",
	}
)
