package postsale

import (
	"fmt"
	"strings"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CodeEmptyRejectionReason is returned when a request is rejected without a note
const CodeEmptyRejectionReason = "EMPTY_REJECTION_REASON"

// DefaultCancellationReason is used when a cancellation is raised without a reason
const DefaultCancellationReason = "User requested cancellation"

// InvalidTransitionError is returned when a status change is outside the lifecycle table
type InvalidTransitionError struct {
	Type RequestType
	From ReturnStatus
	To   ReturnStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.From.IsTerminal() {
		return fmt.Sprintf("%s request is %s and cannot move to %s", e.Type, e.From, e.To)
	}
	return fmt.Sprintf("cannot move %s request from %s to %s", e.Type, e.From, e.To)
}

// Domain returns the DomainError view used by the HTTP layer
func (e *InvalidTransitionError) Domain() *shared.DomainError {
	return shared.NewDomainError(shared.CodeInvalidTransition, e.Error())
}

func (e *InvalidTransitionError) Unwrap() error { return e.Domain() }

// ProductSnapshot captures the product as it was on the order
type ProductSnapshot struct {
	Name  string
	Image string
	Price decimal.Decimal
}

// TimelineEntry records one status change of a request
type TimelineEntry struct {
	Status ReturnStatus
	Time   time.Time
	Note   string
}

// ReturnRequest is the aggregate root for a return, replacement or cancellation request.
// It references an order by id and never owns it.
type ReturnRequest struct {
	shared.BaseAggregateRoot
	RequestNumber  string
	OrderID        uuid.UUID
	OrderDisplayID string
	ItemID         *uuid.UUID
	Type           RequestType
	Product        ProductSnapshot
	Reason         string
	Comment        string
	Images         []string
	CustomerName   string
	Status         ReturnStatus
	Timeline       []TimelineEntry
	Date           time.Time
}

// NewReturnRequest raises a Return or Replacement request for one order item
func NewReturnRequest(order *fulfillment.Order, itemID uuid.UUID, typ RequestType, reason, comment string, images []string) (*ReturnRequest, error) {
	if order == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order cannot be nil")
	}
	if typ != RequestTypeReturn && typ != RequestTypeReplacement {
		return nil, shared.NewDomainError("INVALID_REQUEST_TYPE", fmt.Sprintf("Item requests must be Return or Replacement, got %q", typ))
	}
	item := order.GetItem(itemID)
	if item == nil {
		return nil, shared.NewDomainError(fulfillment.CodeInvalidOrderItem, "Product not found in order")
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Reason is required")
	}

	r := newRequest(order, typ, reason, comment)
	r.ItemID = &item.ID
	r.Product = ProductSnapshot{Name: item.Name, Image: item.Image, Price: item.UnitPrice}
	r.Images = append([]string(nil), images...)
	r.AddDomainEvent(NewReturnRequestRaisedEvent(r))
	return r, nil
}

// NewCancellationRequest raises a whole-order cancellation request.
// Only orders that have not been packed can be cancelled this way.
func NewCancellationRequest(order *fulfillment.Order, reason, comment string) (*ReturnRequest, error) {
	if order == nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order cannot be nil")
	}
	if !order.CanRequestCancellation() {
		return nil, shared.NewDomainError(shared.CodeInvalidState,
			fmt.Sprintf("Order cannot be cancelled in its current status: %s", order.Status))
	}
	if strings.TrimSpace(reason) == "" {
		reason = DefaultCancellationReason
	}

	r := newRequest(order, RequestTypeCancellation, reason, comment)
	r.Product = ProductSnapshot{Name: "Whole Order Cancellation", Price: order.ItemsTotal()}
	if len(order.Items) > 0 {
		r.Product.Image = order.Items[0].Image
	}
	r.AddDomainEvent(NewReturnRequestRaisedEvent(r))
	return r, nil
}

func newRequest(order *fulfillment.Order, typ RequestType, reason, comment string) *ReturnRequest {
	r := &ReturnRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           order.ID,
		OrderDisplayID:    order.DisplayID,
		Type:              typ,
		Reason:            strings.TrimSpace(reason),
		Comment:           strings.TrimSpace(comment),
		CustomerName:      order.Customer.Name,
		Status:            ReturnStatusPending,
	}
	r.Date = r.CreatedAt
	r.RequestNumber = fmt.Sprintf("%s-%d", typ.numberPrefix(), r.CreatedAt.UnixMilli())
	r.Timeline = []TimelineEntry{{
		Status: ReturnStatusPending,
		Time:   r.CreatedAt,
		Note:   fmt.Sprintf("%s request initiated", typ),
	}}
	return r
}

// Advance moves the request to target. Anything outside the lifecycle table fails
// with InvalidTransitionError and leaves the request untouched. Rejections need a note.
func (r *ReturnRequest) Advance(target ReturnStatus, note string) error {
	if !r.Status.CanTransitionTo(target, r.Type) {
		return &InvalidTransitionError{Type: r.Type, From: r.Status, To: target}
	}
	note = strings.TrimSpace(note)
	if target == ReturnStatusRejected && note == "" {
		return shared.NewDomainError(CodeEmptyRejectionReason, "Rejection reason is required")
	}
	if note == "" {
		note = fmt.Sprintf("Status updated to %s", target)
	}

	from := r.Status
	now := time.Now()
	r.Status = target
	r.Timeline = append(r.Timeline, TimelineEntry{Status: target, Time: now, Note: note})
	r.Touch(now)

	r.AddDomainEvent(NewReturnStatusChangedEvent(r, from, note))
	return nil
}

// AllowedNextStatuses returns the statuses the request can move to
func (r *ReturnRequest) AllowedNextStatuses() []ReturnStatus {
	return r.Status.NextStatuses(r.Type)
}

// IsTerminal returns true if the request accepts no further transitions
func (r *ReturnRequest) IsTerminal() bool {
	return r.Status.IsTerminal()
}

// IsCancellation returns true for whole-order cancellation requests
func (r *ReturnRequest) IsCancellation() bool {
	return r.Type == RequestTypeCancellation
}

// CancelsOrder reports whether the current status means the referenced order must be cancelled
func (r *ReturnRequest) CancelsOrder() bool {
	return r.IsCancellation() && (r.Status == ReturnStatusApproved || r.Status == ReturnStatusCompleted)
}

// LastTimelineEntry returns the most recent timeline entry
func (r *ReturnRequest) LastTimelineEntry() (TimelineEntry, bool) {
	if len(r.Timeline) == 0 {
		return TimelineEntry{}, false
	}
	return r.Timeline[len(r.Timeline)-1], true
}
