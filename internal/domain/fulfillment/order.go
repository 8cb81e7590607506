package fulfillment

import (
	"fmt"
	"strings"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus represents whether an order has been paid for
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
)

// DefaultPaymentMethod is used when an order is placed without one
const DefaultPaymentMethod = "COD"

// Payment holds the payment summary of an order. Gateway logic lives elsewhere.
type Payment struct {
	Method        string
	Status        PaymentStatus
	TransactionID string
	PaidAt        *time.Time
}

// IsPrepaid returns true when nothing is collected on delivery
func (p Payment) IsPrepaid() bool {
	return p.Status == PaymentStatusPaid || !strings.EqualFold(p.Method, DefaultPaymentMethod)
}

// Customer is a read-only reference to the user who placed the order
type Customer struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// OrderItem is a line of an order. ID is unique within the order and stable across updates.
type OrderItem struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	ProductRef   string
	Name         string
	Image        string
	Variant      string
	UnitPrice    decimal.Decimal
	Quantity     int
	SerialNumber string
	SerialType   SerialType
}

// HasSerial returns true when the item carries a non-empty serial
func (i OrderItem) HasSerial() bool {
	return strings.TrimSpace(i.SerialNumber) != ""
}

// LineTotal returns unit price times quantity
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TimelineEntry records one status change
type TimelineEntry struct {
	Status OrderStatus
	Time   time.Time
	Note   string
}

// NewOrderItem describes an item when an order is placed
type NewOrderItem struct {
	ProductRef string
	Name       string
	Image      string
	Variant    string
	UnitPrice  decimal.Decimal
	Quantity   int
}

// Order is the aggregate root for a customer order moving through fulfillment
type Order struct {
	shared.BaseAggregateRoot
	DisplayID          string
	Date               time.Time
	Customer           Customer
	Items              []OrderItem
	Status             OrderStatus
	Timeline           []TimelineEntry
	Payment            Payment
	ShippingAddress    valueobject.Address
	BillingAddress     valueobject.Address
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string
}

// NewOrder creates a Pending order with its initial timeline entry
func NewOrder(displayID string, customer Customer, shipping valueobject.Address, payment Payment, items []NewOrderItem) (*Order, error) {
	displayID = strings.TrimSpace(displayID)
	if displayID == "" {
		return nil, shared.NewDomainError("INVALID_DISPLAY_ID", "Display ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "Order must contain at least one item")
	}
	if err := shipping.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_ADDRESS", err.Error())
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		DisplayID:         strings.ToUpper(displayID),
		Customer:          customer,
		Status:            OrderStatusPending,
		ShippingAddress:   shipping,
		Payment:           payment,
	}
	order.Date = order.CreatedAt

	if order.Payment.Method == "" {
		order.Payment.Method = DefaultPaymentMethod
	}
	if order.Payment.Status == "" {
		order.Payment.Status = PaymentStatusPending
	}

	order.Items = make([]OrderItem, 0, len(items))
	for _, in := range items {
		if strings.TrimSpace(in.Name) == "" {
			return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
		}
		if in.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity for %s must be positive", in.Name))
		}
		if in.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Price for %s cannot be negative", in.Name))
		}
		order.Items = append(order.Items, OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			ProductRef: in.ProductRef,
			Name:       strings.TrimSpace(in.Name),
			Image:      in.Image,
			Variant:    in.Variant,
			UnitPrice:  in.UnitPrice,
			Quantity:   in.Quantity,
			SerialType: SerialTypeSerialNumber,
		})
	}

	order.Timeline = []TimelineEntry{{Status: OrderStatusPending, Time: order.CreatedAt, Note: "Order placed"}}
	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// Transition moves the order to target, optionally recording serials in the same step.
//
// Rules, all checked before anything is mutated:
//   - terminal orders reject every call
//   - target == current status only applies the serial updates
//   - Cancelled needs a non-empty note
//   - otherwise target must lie later on the forward path
//   - entering Packed (or jumping past it) needs a serial on every item,
//     either stored already or supplied in updates
func (o *Order) Transition(target OrderStatus, note string, updates []SerialUpdate) error {
	if !target.IsValid() || o.Status.IsTerminal() {
		return &InvalidTransitionError{From: o.Status, To: target}
	}

	normalized, err := normalizeSerialUpdates(o.Items, updates)
	if err != nil {
		return err
	}

	if target == o.Status {
		o.applySerials(normalized)
		return nil
	}

	note = strings.TrimSpace(note)
	if target == OrderStatusCancelled && note == "" {
		return &EmptyCancellationReasonError{}
	}
	if !o.Status.CanTransitionTo(target) {
		return &InvalidTransitionError{From: o.Status, To: target}
	}
	if o.Status.crossesPackedGate(target) {
		if missing := o.missingSerials(normalized); len(missing) > 0 {
			return o.missingSerialError(missing)
		}
	}

	from := o.Status
	now := time.Now()
	o.applySerials(normalized)
	o.Status = target
	o.Timeline = append(o.Timeline, TimelineEntry{Status: target, Time: now, Note: note})
	o.Touch(now)

	switch target {
	case OrderStatusDelivered:
		o.DeliveredAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
		o.CancellationReason = note
	}

	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, note))
	if target == OrderStatusCancelled {
		o.AddDomainEvent(NewOrderCancelledEvent(o, from))
	}

	return nil
}

// Cancel cancels the order. The reason is mandatory.
func (o *Order) Cancel(reason string) error {
	return o.Transition(OrderStatusCancelled, reason, nil)
}

// Advance moves the order to the next status on the forward path
func (o *Order) Advance(note string, updates []SerialUpdate) error {
	next, ok := o.Status.Next()
	if !ok {
		return &InvalidTransitionError{From: o.Status, To: o.Status}
	}
	return o.Transition(next, note, updates)
}

// AssignSerials overwrites serial records without touching status or timeline.
// It is allowed in every status, including terminal ones.
func (o *Order) AssignSerials(updates []SerialUpdate) error {
	normalized, err := normalizeSerialUpdates(o.Items, updates)
	if err != nil {
		return err
	}
	o.applySerials(normalized)
	return nil
}

// Serials returns the serial ledger of the order
func (o *Order) Serials() SerialLedger {
	ledger := make(SerialLedger, len(o.Items))
	for _, item := range o.Items {
		ledger[item.ID] = SerialRecord{Type: item.SerialType, Value: item.SerialNumber}
	}
	return ledger
}

// MissingSerials returns the ids of items without a serial, in item order
func (o *Order) MissingSerials() []uuid.UUID {
	return o.missingSerials(nil)
}

// GetItem returns the item with the given id
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

// NextStatus returns the next status on the forward path, if any
func (o *Order) NextStatus() (OrderStatus, bool) {
	if o.Status.IsTerminal() {
		return "", false
	}
	return o.Status.Next()
}

// CanRequestCancellation returns true while the order has not been packed
func (o *Order) CanRequestCancellation() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// LastTimelineEntry returns the most recent timeline entry
func (o *Order) LastTimelineEntry() (TimelineEntry, bool) {
	if len(o.Timeline) == 0 {
		return TimelineEntry{}, false
	}
	return o.Timeline[len(o.Timeline)-1], true
}

// TotalQuantity returns the sum of item quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// ItemsTotal returns the GST-inclusive sum of line totals
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// EffectiveBillingAddress falls back to the shipping address when no billing address was given
func (o *Order) EffectiveBillingAddress() valueobject.Address {
	if o.BillingAddress.IsEmpty() {
		return o.ShippingAddress
	}
	return o.BillingAddress
}

// IsTerminal returns true if the order accepts no further transitions
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

func (o *Order) applySerials(updates []SerialUpdate) {
	if len(updates) == 0 {
		return
	}
	for _, u := range updates {
		item := o.GetItem(u.ItemID)
		item.SerialNumber = u.Serial
		item.SerialType = u.Type
	}
	o.Touch(time.Now())
	o.AddDomainEvent(NewOrderSerialsAssignedEvent(o, updates))
}

func (o *Order) missingSerials(pending []SerialUpdate) []uuid.UUID {
	supplied := make(map[uuid.UUID]struct{}, len(pending))
	for _, u := range pending {
		supplied[u.ItemID] = struct{}{}
	}
	var missing []uuid.UUID
	for _, item := range o.Items {
		if item.HasSerial() {
			continue
		}
		if _, ok := supplied[item.ID]; ok {
			continue
		}
		missing = append(missing, item.ID)
	}
	return missing
}

func (o *Order) missingSerialError(ids []uuid.UUID) *MissingSerialError {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = o.GetItem(id).Name
	}
	return &MissingSerialError{ItemIDs: ids, ItemNames: names}
}
