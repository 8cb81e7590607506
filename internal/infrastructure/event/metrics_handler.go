package event

import (
	"context"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
)

// LifecycleRecorder receives lifecycle counts; implemented by metrics.Lifecycle
type LifecycleRecorder interface {
	OrderPlaced(paymentMethod string)
	OrderTransitioned(from, to string)
	OrderCancelled(from string, prepaid bool)
	SerialsAssigned(serialType string, n int)
	RequestRaised(requestType string)
	RequestTransitioned(requestType, to string)
	DocumentRendered(format string, bulk bool)
}

// MetricsHandler feeds domain events into lifecycle counters
type MetricsHandler struct {
	recorder LifecycleRecorder
}

// NewMetricsHandler creates a MetricsHandler
func NewMetricsHandler(recorder LifecycleRecorder) *MetricsHandler {
	return &MetricsHandler{recorder: recorder}
}

// EventTypes returns the event types this handler counts
func (h *MetricsHandler) EventTypes() []string {
	return []string{
		fulfillment.EventTypeOrderPlaced,
		fulfillment.EventTypeOrderStatusChanged,
		fulfillment.EventTypeOrderCancelled,
		fulfillment.EventTypeOrderSerialsAssigned,
		postsale.EventTypeReturnRequestRaised,
		postsale.EventTypeReturnStatusChanged,
		printing.EventTypeDocumentRendered,
	}
}

// Handle records one event
func (h *MetricsHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *fulfillment.OrderPlacedEvent:
		h.recorder.OrderPlaced(e.PaymentMode)
	case *fulfillment.OrderStatusChangedEvent:
		h.recorder.OrderTransitioned(string(e.FromStatus), string(e.ToStatus))
	case *fulfillment.OrderCancelledEvent:
		h.recorder.OrderCancelled(string(e.FromStatus), e.WasPrepaid)
	case *fulfillment.OrderSerialsAssignedEvent:
		counts := make(map[fulfillment.SerialType]int)
		for _, s := range e.Serials {
			counts[s.Type]++
		}
		for typ, n := range counts {
			h.recorder.SerialsAssigned(string(typ), n)
		}
	case *postsale.ReturnRequestRaisedEvent:
		h.recorder.RequestRaised(string(e.RequestType))
	case *postsale.ReturnStatusChangedEvent:
		h.recorder.RequestTransitioned(string(e.RequestType), string(e.ToStatus))
	case *printing.DocumentRenderedEvent:
		h.recorder.DocumentRendered(string(e.Format), e.Bulk)
	}
	return nil
}

var _ shared.EventHandler = (*MetricsHandler)(nil)
