package postsale

import (
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeReturnRequest = "ReturnRequest"

// Event type constants
const (
	EventTypeReturnRequestRaised = "ReturnRequestRaised"
	EventTypeReturnStatusChanged = "ReturnStatusChanged"
)

// ReturnRequestRaisedEvent is raised when a customer opens a request
type ReturnRequestRaisedEvent struct {
	shared.BaseDomainEvent
	RequestID      uuid.UUID   `json:"request_id"`
	RequestNumber  string      `json:"request_number"`
	RequestType    RequestType `json:"request_type"`
	OrderID        uuid.UUID   `json:"order_id"`
	OrderDisplayID string      `json:"order_display_id"`
	Reason         string      `json:"reason"`
}

// NewReturnRequestRaisedEvent creates a new ReturnRequestRaisedEvent
func NewReturnRequestRaisedEvent(r *ReturnRequest) *ReturnRequestRaisedEvent {
	return &ReturnRequestRaisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnRequestRaised, AggregateTypeReturnRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		RequestType:     r.Type,
		OrderID:         r.OrderID,
		OrderDisplayID:  r.OrderDisplayID,
		Reason:          r.Reason,
	}
}

// ReturnStatusChangedEvent is raised for every successful lifecycle transition
type ReturnStatusChangedEvent struct {
	shared.BaseDomainEvent
	RequestID     uuid.UUID    `json:"request_id"`
	RequestNumber string       `json:"request_number"`
	RequestType   RequestType  `json:"request_type"`
	OrderID       uuid.UUID    `json:"order_id"`
	FromStatus    ReturnStatus `json:"from_status"`
	ToStatus      ReturnStatus `json:"to_status"`
	Note          string       `json:"note"`
}

// NewReturnStatusChangedEvent creates a new ReturnStatusChangedEvent
func NewReturnStatusChangedEvent(r *ReturnRequest, from ReturnStatus, note string) *ReturnStatusChangedEvent {
	return &ReturnStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReturnStatusChanged, AggregateTypeReturnRequest, r.ID),
		RequestID:       r.ID,
		RequestNumber:   r.RequestNumber,
		RequestType:     r.Type,
		OrderID:         r.OrderID,
		FromStatus:      from,
		ToStatus:        r.Status,
		Note:            note,
	}
}
