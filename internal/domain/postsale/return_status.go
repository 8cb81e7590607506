package postsale

// RequestType discriminates the kind of post-sale request
type RequestType string

const (
	RequestTypeReturn       RequestType = "Return"
	RequestTypeReplacement  RequestType = "Replacement"
	RequestTypeCancellation RequestType = "Cancellation"
)

// IsValid checks if the request type is known
func (t RequestType) IsValid() bool {
	switch t {
	case RequestTypeReturn, RequestTypeReplacement, RequestTypeCancellation:
		return true
	}
	return false
}

// String returns the string representation of RequestType
func (t RequestType) String() string {
	return string(t)
}

// numberPrefix returns the prefix of the human-readable request number
func (t RequestType) numberPrefix() string {
	if t == RequestTypeCancellation {
		return "CAN"
	}
	return "RET"
}

// ReturnStatus represents the status of a post-sale request
type ReturnStatus string

const (
	ReturnStatusPending               ReturnStatus = "Pending"
	ReturnStatusApproved              ReturnStatus = "Approved"
	ReturnStatusPickupScheduled       ReturnStatus = "Pickup Scheduled"
	ReturnStatusReceivedAtWarehouse   ReturnStatus = "Received at Warehouse"
	ReturnStatusRefundInitiated       ReturnStatus = "Refund Initiated"
	ReturnStatusReplacementDispatched ReturnStatus = "Replacement Dispatched"
	ReturnStatusCompleted             ReturnStatus = "Completed"
	ReturnStatusRejected              ReturnStatus = "Rejected"
)

// AllReturnStatuses returns every status in lifecycle order
func AllReturnStatuses() []ReturnStatus {
	return []ReturnStatus{
		ReturnStatusPending,
		ReturnStatusApproved,
		ReturnStatusPickupScheduled,
		ReturnStatusReceivedAtWarehouse,
		ReturnStatusRefundInitiated,
		ReturnStatusReplacementDispatched,
		ReturnStatusCompleted,
		ReturnStatusRejected,
	}
}

// IsValid checks if the status is a valid ReturnStatus
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusPickupScheduled,
		ReturnStatusReceivedAtWarehouse, ReturnStatusRefundInitiated,
		ReturnStatusReplacementDispatched, ReturnStatusCompleted, ReturnStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of ReturnStatus
func (s ReturnStatus) String() string {
	return string(s)
}

// IsTerminal returns true for Completed and Rejected
func (s ReturnStatus) IsTerminal() bool {
	return s == ReturnStatusCompleted || s == ReturnStatusRejected
}

// NextStatuses returns the statuses reachable from s for a request of type t
func (s ReturnStatus) NextStatuses(t RequestType) []ReturnStatus {
	switch s {
	case ReturnStatusPending:
		return []ReturnStatus{ReturnStatusApproved, ReturnStatusRejected}
	case ReturnStatusApproved:
		return []ReturnStatus{ReturnStatusPickupScheduled}
	case ReturnStatusPickupScheduled:
		return []ReturnStatus{ReturnStatusReceivedAtWarehouse}
	case ReturnStatusReceivedAtWarehouse:
		switch t {
		case RequestTypeReturn:
			return []ReturnStatus{ReturnStatusRefundInitiated}
		case RequestTypeReplacement:
			return []ReturnStatus{ReturnStatusReplacementDispatched}
		}
		return nil
	case ReturnStatusRefundInitiated, ReturnStatusReplacementDispatched:
		return []ReturnStatus{ReturnStatusCompleted}
	case ReturnStatusCompleted, ReturnStatusRejected:
		return nil // Terminal states
	}
	return nil
}

// CanTransitionTo checks if the status can transition to target for a request of type t
func (s ReturnStatus) CanTransitionTo(target ReturnStatus, t RequestType) bool {
	for _, next := range s.NextStatuses(t) {
		if next == target {
			return true
		}
	}
	return false
}
