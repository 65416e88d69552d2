package errors

var (
	ErrClaimNotFound = &DomainError{
		Code:    "CLAIM_NOT_FOUND",
		Message: "claim code not found",
	}
	ErrClaimConflict = &DomainError{
		Code:    "CLAIM_CONFLICT",
		Message: "an active claim already exists for this receipt",
	}
	ErrClaimExpired = &DomainError{
		Code:    "CLAIM_EXPIRED",
		Message: "claim has expired",
	}
	ErrAlreadyUsed = &DomainError{
		Code:    "ALREADY_USED",
		Message: "claim has already been used",
	}
	ErrPinMismatch = &DomainError{
		Code:    "PIN_MISMATCH",
		Message: "PIN does not match",
	}
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "refund amount must be positive and no greater than the original amount",
	}
	ErrTooManyAttempts = &DomainError{
		Code:    "TOO_MANY_ATTEMPTS",
		Message: "too many failed PIN attempts, claim temporarily locked",
	}
)
