package fulfillment

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "Pending"
	OrderStatusConfirmed      OrderStatus = "Confirmed"
	OrderStatusPacked         OrderStatus = "Packed"
	OrderStatusDispatched     OrderStatus = "Dispatched"
	OrderStatusOutForDelivery OrderStatus = "Out for Delivery"
	OrderStatusDelivered      OrderStatus = "Delivered"
	OrderStatusCancelled      OrderStatus = "Cancelled"
)

// forwardPath is the only direction an order moves in. Cancelled sits outside it.
var forwardPath = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPacked,
	OrderStatusDispatched,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
}

// AllOrderStatuses returns every status in display order
func AllOrderStatuses() []OrderStatus {
	out := make([]OrderStatus, 0, len(forwardPath)+1)
	out = append(out, forwardPath...)
	return append(out, OrderStatusCancelled)
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPacked, OrderStatusDispatched,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that accept no further transitions
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// rank returns the position on the forward path, or -1 for Cancelled and unknown values
func (s OrderStatus) rank() int {
	switch s {
	case OrderStatusPending:
		return 0
	case OrderStatusConfirmed:
		return 1
	case OrderStatusPacked:
		return 2
	case OrderStatusDispatched:
		return 3
	case OrderStatusOutForDelivery:
		return 4
	case OrderStatusDelivered:
		return 5
	}
	return -1
}

// RequiresSerials reports whether an order in this status must have a serial on every item
func (s OrderStatus) RequiresSerials() bool {
	return s.rank() >= OrderStatusPacked.rank()
}

// CanTransitionTo checks if the status can move to target.
// Forward jumps are allowed, backward moves are not, and Cancelled is reachable
// from every non-terminal status. Other preconditions (serial gate, cancellation
// reason) are checked by Order.Transition.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	if s.IsTerminal() || !s.IsValid() || !target.IsValid() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	return target.rank() > s.rank()
}

// Next returns the next status on the forward path. ok is false for terminal statuses.
func (s OrderStatus) Next() (next OrderStatus, ok bool) {
	r := s.rank()
	if r < 0 || r+1 >= len(forwardPath) {
		return "", false
	}
	return forwardPath[r+1], true
}

// crossesPackedGate returns true when moving from s to target enters Packed or a later status
// from a status before Packed
func (s OrderStatus) crossesPackedGate(target OrderStatus) bool {
	return !s.RequiresSerials() && target.RequiresSerials()
}
