package postsale

import (
	"context"
	"fmt"
	"strings"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// OrderGateway is the part of the order service the post-sale flow needs.
// Orders are only ever changed through their own state machine.
type OrderGateway interface {
	LoadOrder(ctx context.Context, idOrDisplayID string) (*fulfillment.Order, error)
	CancelForRequest(ctx context.Context, orderID uuid.UUID, reason string) error
}

// ReturnService handles return, replacement and cancellation requests
type ReturnService struct {
	returnRepo     postsale.ReturnRequestRepository
	orders         OrderGateway
	eventPublisher shared.EventPublisher
	observer       shared.RejectionObserver
	logger         *zap.Logger
}

// NewReturnService creates a new ReturnService
func NewReturnService(returnRepo postsale.ReturnRequestRepository, orders OrderGateway, logger *zap.Logger) *ReturnService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReturnService{
		returnRepo: returnRepo,
		orders:     orders,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ReturnService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRejectionObserver sets the observer told about refused commands
func (s *ReturnService) SetRejectionObserver(observer shared.RejectionObserver) {
	s.observer = observer
}

// ListReturns retrieves requests newest first
func (s *ReturnService) ListReturns(ctx context.Context, filter ReturnListFilter) ([]ReturnResponse, int64, error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, 0, err
	}

	requests, err := s.returnRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.returnRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToReturnResponses(requests), total, nil
}

// FindReturns returns domain requests matching filter, used by exports
func (s *ReturnService) FindReturns(ctx context.Context, filter ReturnListFilter) ([]postsale.ReturnRequest, error) {
	domainFilter, err := toDomainFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.returnRepo.FindAll(ctx, domainFilter)
}

// GetReturn retrieves a request by uuid or request number
func (s *ReturnService) GetReturn(ctx context.Context, idOrNumber string) (*ReturnResponse, error) {
	request, err := s.load(ctx, idOrNumber)
	if err != nil {
		return nil, err
	}
	response := ToReturnResponse(request)
	return &response, nil
}

// RaiseReturn opens a Return or Replacement request for an order item
func (s *ReturnService) RaiseReturn(ctx context.Context, req RaiseReturnRequest) (*ReturnResponse, error) {
	order, err := s.orders.LoadOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	request, err := postsale.NewReturnRequest(order, req.ItemID, postsale.RequestType(req.Type), req.Reason, req.comment(), req.Images)
	if err != nil {
		shared.ObserveError(s.observer, postsale.AggregateTypeReturnRequest, err)
		return nil, err
	}

	if err := s.save(ctx, request); err != nil {
		return nil, err
	}

	response := ToReturnResponse(request)
	return &response, nil
}

// RaiseCancellation opens a whole-order cancellation request. The order
// itself is untouched until the request is approved.
func (s *ReturnService) RaiseCancellation(ctx context.Context, req RaiseCancellationRequest) (*ReturnResponse, error) {
	order, err := s.orders.LoadOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}

	request, err := postsale.NewCancellationRequest(order, req.Reason, req.Comment)
	if err != nil {
		shared.ObserveError(s.observer, postsale.AggregateTypeReturnRequest, err)
		return nil, err
	}

	if err := s.save(ctx, request); err != nil {
		return nil, err
	}

	response := ToReturnResponse(request)
	return &response, nil
}

// UpdateStatus moves a request along its lifecycle.
//
// An approved cancellation request also cancels its order. The order is
// checked first, so a refusal leaves both untouched; the request is then saved
// and the order cancelled last. If that final order write fails, submitting
// the request's current status again re-runs the cancellation, which is
// idempotent, without recording a second transition.
func (s *ReturnService) UpdateStatus(ctx context.Context, idOrNumber string, req UpdateReturnStatusRequest) (*ReturnResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "returns", "update_status",
		telemetry.WithAttribute(telemetry.SpanAttrTargetStatus, req.Status))
	defer span.End()

	request, err := s.load(ctx, idOrNumber)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrRequestID, request.ID,
		telemetry.SpanAttrRequestNumber, request.RequestNumber,
		telemetry.SpanAttrRequestType, string(request.Type),
		telemetry.SpanAttrRequestStatus, string(request.Status),
		telemetry.SpanAttrOrderDisplayID, request.OrderDisplayID,
	)

	target := postsale.ReturnStatus(req.Status)
	if target == request.Status && request.CancelsOrder() {
		if err := s.cancelOrder(ctx, span, request); err != nil {
			return nil, err
		}
		telemetry.SetOK(span)
		response := ToReturnResponse(request)
		return &response, nil
	}

	if err := request.Advance(target, req.Note); err != nil {
		shared.ObserveError(s.observer, postsale.AggregateTypeReturnRequest, err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	cancelOrder := request.CancelsOrder()
	if cancelOrder {
		if err := s.checkCancellable(ctx, request); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	if err := s.save(ctx, request); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if cancelOrder {
		if err := s.cancelOrder(ctx, span, request); err != nil {
			return nil, err
		}
	}
	telemetry.SetOK(span)

	response := ToReturnResponse(request)
	return &response, nil
}

func (s *ReturnService) cancelOrder(ctx context.Context, span trace.Span, request *postsale.ReturnRequest) error {
	telemetry.AddEvent(span, "order_cancellation", telemetry.SpanAttrOrderID, request.OrderID)
	if err := s.orders.CancelForRequest(ctx, request.OrderID, cancellationNote(request)); err != nil {
		s.logger.Error("request saved but order cancellation failed",
			zap.String("request_number", request.RequestNumber),
			zap.String("order_display_id", request.OrderDisplayID),
			zap.Error(err))
		telemetry.RecordError(span, err)
		return fmt.Errorf("cancel order %s for request %s: %w", request.OrderDisplayID, request.RequestNumber, err)
	}
	return nil
}

// checkCancellable fails when the request's order can no longer be cancelled
func (s *ReturnService) checkCancellable(ctx context.Context, request *postsale.ReturnRequest) error {
	order, err := s.orders.LoadOrder(ctx, request.OrderID.String())
	if err != nil {
		return err
	}
	if order.Status == fulfillment.OrderStatusCancelled || order.Status.CanTransitionTo(fulfillment.OrderStatusCancelled) {
		return nil
	}
	s.logger.Info("order refused cancellation",
		zap.String("request_number", request.RequestNumber),
		zap.String("order_display_id", request.OrderDisplayID),
		zap.String("order_status", string(order.Status)))
	return &fulfillment.InvalidTransitionError{From: order.Status, To: fulfillment.OrderStatusCancelled}
}

func (s *ReturnService) load(ctx context.Context, idOrNumber string) (*postsale.ReturnRequest, error) {
	ref := strings.TrimSpace(idOrNumber)
	if id, err := uuid.Parse(ref); err == nil {
		return s.returnRepo.FindByID(ctx, id)
	}
	if ref == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "request id is required")
	}
	return s.returnRepo.FindByRequestNumber(ctx, strings.ToUpper(ref))
}

// save persists the request, then publishes its events
func (s *ReturnService) save(ctx context.Context, request *postsale.ReturnRequest) error {
	if err := s.returnRepo.Save(ctx, request); err != nil {
		return err
	}

	events := request.GetDomainEvents()
	request.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return nil
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish return request events",
			zap.String("request_number", request.RequestNumber),
			zap.Error(err))
	}
	return nil
}

func cancellationNote(r *postsale.ReturnRequest) string {
	return fmt.Sprintf("Cancellation request %s %s: %s", r.RequestNumber, strings.ToLower(string(r.Status)), r.Reason)
}

func toDomainFilter(filter ReturnListFilter) (postsale.ReturnFilter, error) {
	base := shared.DefaultFilter()
	base.OrderBy = "date"
	if filter.Page > 0 {
		base.Page = filter.Page
	}
	if filter.PageSize > 0 {
		base.PageSize = filter.PageSize
	}
	base.Search = strings.TrimSpace(filter.Search)

	out := postsale.ReturnFilter{
		Filter: base,
		Type:   postsale.RequestType(filter.Type),
		Status: postsale.ReturnStatus(filter.Status),
	}
	if filter.OrderID != "" {
		id, err := uuid.Parse(filter.OrderID)
		if err != nil {
			return postsale.ReturnFilter{}, shared.NewDomainError(shared.CodeInvalidInput, "order_id must be a uuid")
		}
		out.OrderID = &id
	}
	return out, nil
}
