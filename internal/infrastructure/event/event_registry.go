package event

import (
	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
)

// RegisterAllEvents registers every domain event type with the serializer
func RegisterAllEvents(serializer *EventSerializer) {
	// Order lifecycle
	serializer.Register(fulfillment.EventTypeOrderPlaced, &fulfillment.OrderPlacedEvent{})
	serializer.Register(fulfillment.EventTypeOrderStatusChanged, &fulfillment.OrderStatusChangedEvent{})
	serializer.Register(fulfillment.EventTypeOrderCancelled, &fulfillment.OrderCancelledEvent{})
	serializer.Register(fulfillment.EventTypeOrderSerialsAssigned, &fulfillment.OrderSerialsAssignedEvent{})

	// Post-sale requests
	serializer.Register(postsale.EventTypeReturnRequestRaised, &postsale.ReturnRequestRaisedEvent{})
	serializer.Register(postsale.EventTypeReturnStatusChanged, &postsale.ReturnStatusChangedEvent{})

	// Documents
	serializer.Register(printing.EventTypeDocumentRendered, &printing.DocumentRenderedEvent{})
}
