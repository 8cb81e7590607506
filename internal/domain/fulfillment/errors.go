package fulfillment

import (
	"fmt"
	"strings"

	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// Error codes specific to the fulfillment context
const (
	CodeInvalidOrderItem  = "INVALID_ORDER_ITEM"
	CodeInvalidSerialType = "INVALID_SERIAL_TYPE"
)

// InvalidTransitionError is returned when the target status is not reachable from the current one
type InvalidTransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *InvalidTransitionError) Error() string {
	if e.From.IsTerminal() {
		return fmt.Sprintf("order is %s and cannot move to %s", e.From, e.To)
	}
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

// Domain returns the DomainError view used by the HTTP layer
func (e *InvalidTransitionError) Domain() *shared.DomainError {
	return shared.NewDomainError(shared.CodeInvalidTransition, e.Error())
}

// Unwrap exposes the DomainError to errors.As
func (e *InvalidTransitionError) Unwrap() error { return e.Domain() }

// MissingSerialError is returned when the Packed gate is unmet. It names every offending item.
type MissingSerialError struct {
	ItemIDs   []uuid.UUID
	ItemNames []string
}

func (e *MissingSerialError) Error() string {
	names := e.ItemNames
	if len(names) == 0 {
		names = make([]string, len(e.ItemIDs))
		for i, id := range e.ItemIDs {
			names[i] = id.String()
		}
	}
	return fmt.Sprintf("serial number required before packing for %d item(s): %s",
		len(e.ItemIDs), strings.Join(names, ", "))
}

// Domain returns the DomainError view used by the HTTP layer
func (e *MissingSerialError) Domain() *shared.DomainError {
	return shared.NewDomainError(shared.CodeMissingSerial, e.Error())
}

// Unwrap exposes the DomainError to errors.As
func (e *MissingSerialError) Unwrap() error { return e.Domain() }

// EmptyCancellationReasonError is returned when an order is cancelled without a reason
type EmptyCancellationReasonError struct{}

func (e *EmptyCancellationReasonError) Error() string {
	return "cancellation reason is required"
}

// Domain returns the DomainError view used by the HTTP layer
func (e *EmptyCancellationReasonError) Domain() *shared.DomainError {
	return shared.NewDomainError(shared.CodeEmptyCancellationReason, e.Error())
}

// Unwrap exposes the DomainError to errors.As
func (e *EmptyCancellationReasonError) Unwrap() error { return e.Domain() }
