// Package errors defines the domain error taxonomy surfaced to callers.
// All of these are recoverable-by-caller conditions; none are fatal to the
// process.
package errors

import "fmt"

// DomainError is a coded error returned verbatim to the API layer.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewValidationError wraps a field-level validation failure.
func NewValidationError(format string, args ...interface{}) *DomainError {
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: fmt.Sprintf(format, args...),
	}
}
