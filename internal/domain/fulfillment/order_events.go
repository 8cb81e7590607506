package fulfillment

import (
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced          = "OrderPlaced"
	EventTypeOrderStatusChanged   = "OrderStatusChanged"
	EventTypeOrderCancelled       = "OrderCancelled"
	EventTypeOrderSerialsAssigned = "OrderSerialsAssigned"
)

// OrderPlacedEvent is raised when a new order enters the system
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	DisplayID   string          `json:"display_id"`
	ItemCount   int             `json:"item_count"`
	ItemsTotal  decimal.Decimal `json:"items_total"`
	PaymentMode string          `json:"payment_mode"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		DisplayID:       order.DisplayID,
		ItemCount:       len(order.Items),
		ItemsTotal:      order.ItemsTotal(),
		PaymentMode:     order.Payment.Method,
	}
}

// OrderStatusChangedEvent is raised for every successful status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID   `json:"order_id"`
	DisplayID  string      `json:"display_id"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status"`
	Note       string      `json:"note,omitempty"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from OrderStatus, note string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		DisplayID:       order.DisplayID,
		FromStatus:      from,
		ToStatus:        order.Status,
		Note:            note,
	}
}

// OrderCancelledEvent is raised when an order reaches Cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID   `json:"order_id"`
	DisplayID  string      `json:"display_id"`
	FromStatus OrderStatus `json:"from_status"`
	Reason     string      `json:"reason"`
	WasPrepaid bool        `json:"was_prepaid"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order, from OrderStatus) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		DisplayID:       order.DisplayID,
		FromStatus:      from,
		Reason:          order.CancellationReason,
		WasPrepaid:      order.Payment.Status == PaymentStatusPaid,
	}
}

// SerialAssignmentInfo describes one recorded serial
type SerialAssignmentInfo struct {
	ItemID uuid.UUID  `json:"item_id"`
	Serial string     `json:"serial"`
	Type   SerialType `json:"type"`
}

// OrderSerialsAssignedEvent is raised when serial records change
type OrderSerialsAssignedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID              `json:"order_id"`
	DisplayID string                 `json:"display_id"`
	Status    OrderStatus            `json:"status"`
	Serials   []SerialAssignmentInfo `json:"serials"`
}

// NewOrderSerialsAssignedEvent creates a new OrderSerialsAssignedEvent
func NewOrderSerialsAssignedEvent(order *Order, updates []SerialUpdate) *OrderSerialsAssignedEvent {
	serials := make([]SerialAssignmentInfo, len(updates))
	for i, u := range updates {
		serials[i] = SerialAssignmentInfo{ItemID: u.ItemID, Serial: u.Serial, Type: u.Type}
	}
	return &OrderSerialsAssignedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSerialsAssigned, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		DisplayID:       order.DisplayID,
		Status:          order.Status,
		Serials:         serials,
	}
}
