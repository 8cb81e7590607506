package shared

// RejectionObserver is told about commands the domain refused, such as an
// invalid status transition. Successful changes are observed through events.
type RejectionObserver interface {
	ObserveRejection(aggregateType, code string)
}

// ObserveError reports err to o when err carries a DomainError code
func ObserveError(o RejectionObserver, aggregateType string, err error) {
	if o == nil || err == nil {
		return
	}
	if de, ok := AsDomainError(err); ok {
		o.ObserveRejection(aggregateType, de.Code)
	}
}
