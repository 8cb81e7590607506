package fulfillment

import (
	"fmt"
	"strings"

	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// SerialType identifies what kind of identity value is recorded for an item
type SerialType string

const (
	SerialTypeSerialNumber SerialType = "Serial Number"
	SerialTypeIMEI         SerialType = "IMEI"
)

// IsValid checks if the serial type is known
func (t SerialType) IsValid() bool {
	return t == SerialTypeSerialNumber || t == SerialTypeIMEI
}

// String returns the string representation of SerialType
func (t SerialType) String() string {
	return string(t)
}

// ParseSerialType resolves a raw type, defaulting empty input to Serial Number
func ParseSerialType(raw string) (SerialType, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return SerialTypeSerialNumber, nil
	}
	t := SerialType(raw)
	if !t.IsValid() {
		return "", shared.NewDomainError(CodeInvalidSerialType, fmt.Sprintf("unknown serial type: %s", raw))
	}
	return t, nil
}

// SerialUpdate is a request to record an identity value against an order item
type SerialUpdate struct {
	ItemID uuid.UUID
	Serial string
	Type   SerialType
}

// SerialRecord is the ledger value for a single item
type SerialRecord struct {
	Type  SerialType
	Value string
}

// SerialLedger maps item ids to their identity record
type SerialLedger map[uuid.UUID]SerialRecord

// Has returns true when the item has a non-empty serial
func (l SerialLedger) Has(itemID uuid.UUID) bool {
	return strings.TrimSpace(l[itemID].Value) != ""
}

// normalizeSerialUpdates validates updates against the order's items and drops
// entries with an empty serial. Nothing is mutated.
func normalizeSerialUpdates(items []OrderItem, updates []SerialUpdate) ([]SerialUpdate, error) {
	if len(updates) == 0 {
		return nil, nil
	}
	known := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		known[item.ID] = struct{}{}
	}

	out := make([]SerialUpdate, 0, len(updates))
	for _, u := range updates {
		if _, ok := known[u.ItemID]; !ok {
			return nil, shared.NewDomainError(CodeInvalidOrderItem, fmt.Sprintf("item %s does not belong to this order", u.ItemID))
		}
		serial := strings.TrimSpace(u.Serial)
		if serial == "" {
			continue
		}
		typ, err := ParseSerialType(string(u.Type))
		if err != nil {
			return nil, err
		}
		out = append(out, SerialUpdate{ItemID: u.ItemID, Serial: serial, Type: typ})
	}
	return out, nil
}
