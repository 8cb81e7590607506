package handler

import (
	"encoding/json"
	"fmt"

	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/appzetogit/indiankart-sub000/internal/interfaces/http/dto"
)

// APIResponse is the envelope with a typed data field. Handlers write
// dto.Response; this form describes single-resource responses and decodes them.
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// ListResponse is the envelope of the paginated order and return listings
type ListResponse[T any] struct {
	Success bool     `json:"success" example:"true"`
	Data    []T      `json:"data"`
	Meta    dto.Meta `json:"meta"`
}

// ErrorResponse documents a failed request. Lifecycle refusals carry
// INVALID_TRANSITION, MISSING_SERIAL or EMPTY_CANCELLATION_REASON.
type ErrorResponse struct {
	Success bool      `json:"success" example:"false"`
	Error   ErrorBody `json:"error"`
}

// ErrorBody is the error part of ErrorResponse
type ErrorBody struct {
	Code      string                 `json:"code" example:"MISSING_SERIAL"`
	Message   string                 `json:"message" example:"serial number required before packing for 1 item(s): Phone X"`
	RequestID string                 `json:"request_id,omitempty" example:"8f14e45f-ea9e-4c2b-9d6e-0c1f0c7a1b2d"`
	Details   []dto.ValidationDetail `json:"details,omitempty"`
}

// DecodeResponse reads an envelope written by this API. An error envelope is
// returned as a *shared.DomainError carrying its code.
func DecodeResponse[T any](body []byte) (APIResponse[T], error) {
	var resp APIResponse[T]
	if err := json.Unmarshal(body, &resp); err != nil {
		return resp, fmt.Errorf("decode response: %w", err)
	}
	if !resp.Success {
		if resp.Error == nil {
			return resp, shared.NewDomainError(dto.ErrCodeInternal, "error response without error body")
		}
		return resp, shared.NewDomainError(resp.Error.Code, resp.Error.Message)
	}
	return resp, nil
}
