package dto

import "net/http"

// Error codes returned in the error envelope. Domain codes are passed
// through unchanged so clients can switch on the lifecycle taxonomy.

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeNotImplemented is used when an optional capability is not configured
	ErrCodeNotImplemented = "NOT_IMPLEMENTED"
)

// Request error codes
const (
	// ErrCodeValidation is used when request binding or validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodePayloadTooLarge is used when the body exceeds the configured limit
	ErrCodePayloadTooLarge = "PAYLOAD_TOO_LARGE"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when an order or request does not exist
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when a display id is already taken
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when a save races another writer
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
)

// Lifecycle error codes
const (
	ErrCodeInvalidState            = "INVALID_STATE"
	ErrCodeInvalidTransition       = "INVALID_TRANSITION"
	ErrCodeMissingSerial           = "MISSING_SERIAL"
	ErrCodeEmptyCancellationReason = "EMPTY_CANCELLATION_REASON"
	ErrCodeEmptyRejectionReason    = "EMPTY_REJECTION_REASON"
)

// Document error codes
const (
	ErrCodePDFUnavailable = "PDF_UNAVAILABLE"
	ErrCodeRenderTimeout  = "RENDER_TIMEOUT"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:       http.StatusInternalServerError,
	ErrCodeNotImplemented: http.StatusNotImplemented,

	// Request errors -> 400 Bad Request
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Lifecycle rule violations -> 422 Unprocessable Entity
	ErrCodeInvalidState:            http.StatusUnprocessableEntity,
	ErrCodeInvalidTransition:       http.StatusUnprocessableEntity,
	ErrCodeMissingSerial:           http.StatusUnprocessableEntity,
	ErrCodeEmptyCancellationReason: http.StatusUnprocessableEntity,
	ErrCodeEmptyRejectionReason:    http.StatusUnprocessableEntity,

	// Document errors
	ErrCodePDFUnavailable: http.StatusNotImplemented,
	ErrCodeRenderTimeout:  http.StatusGatewayTimeout,

	// Input errors raised by aggregate constructors
	"INVALID_ORDER":        http.StatusBadRequest,
	"INVALID_ORDER_ITEM":   http.StatusBadRequest,
	"INVALID_SERIAL_TYPE":  http.StatusBadRequest,
	"INVALID_ADDRESS":      http.StatusBadRequest,
	"INVALID_DISPLAY_ID":   http.StatusBadRequest,
	"INVALID_ITEM_NAME":    http.StatusBadRequest,
	"INVALID_MARGINS":      http.StatusBadRequest,
	"INVALID_PRICE":        http.StatusBadRequest,
	"INVALID_QUANTITY":     http.StatusBadRequest,
	"INVALID_REASON":       http.StatusBadRequest,
	"INVALID_REQUEST_TYPE": http.StatusBadRequest,
	"INVALID_PAPER_SIZE":   http.StatusBadRequest,
	"NO_ITEMS":             http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
