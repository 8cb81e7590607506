package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared across bounded contexts
const (
	CodeNotFound                = "NOT_FOUND"
	CodeInvalidInput            = "INVALID_INPUT"
	CodeInvalidState            = "INVALID_STATE"
	CodeInvalidTransition       = "INVALID_TRANSITION"
	CodeMissingSerial           = "MISSING_SERIAL"
	CodeEmptyCancellationReason = "EMPTY_CANCELLATION_REASON"
	CodeConcurrencyConflict     = "CONCURRENCY_CONFLICT"
)

// Common domain errors
var (
	ErrNotFound            = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError(CodeConcurrencyConflict, "Resource was modified by another process")
	ErrInvalidState        = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
)

// AsDomainError extracts a DomainError from err. Typed domain errors unwrap
// to one, so they are found as well.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
