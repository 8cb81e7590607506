package printing

import (
	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/google/uuid"
)

// EventTypeDocumentRendered is raised once per order included in a render
const EventTypeDocumentRendered = "DocumentRendered"

// DocumentRenderedEvent records that an order's label and invoice were printed
type DocumentRenderedEvent struct {
	shared.BaseDomainEvent
	OrderID       uuid.UUID    `json:"order_id"`
	DisplayID     string       `json:"display_id"`
	InvoiceNumber string       `json:"invoice_number"`
	Format        OutputFormat `json:"format"`
	Bulk          bool         `json:"bulk"`
}

// NewDocumentRenderedEvent creates a new DocumentRenderedEvent
func NewDocumentRenderedEvent(doc PrintableDocument, format OutputFormat, bulk bool) *DocumentRenderedEvent {
	return &DocumentRenderedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDocumentRendered, fulfillment.AggregateTypeOrder, doc.OrderID),
		OrderID:         doc.OrderID,
		DisplayID:       doc.OrderDisplayID,
		InvoiceNumber:   doc.Invoice.InvoiceNumber,
		Format:          format,
		Bulk:            bulk,
	}
}
