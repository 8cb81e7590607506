package printing

import (
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
	"github.com/google/uuid"
)

// Declaration printed under the invoice table
const Declaration = "The goods sold are intended for end user consumption and not for resale."

// PrintableDocument is the shipping label plus the tax invoice of one order,
// ready to be rendered. The invoice is taken as computed and never recomputed here.
type PrintableDocument struct {
	OrderID        uuid.UUID
	OrderDisplayID string
	Label          ShippingLabel
	Invoice        invoice.Document
	PageSetup      PageSetup
	Declaration    string
	PrintedAt      time.Time
}

// Compose builds the printable document for order from an already computed invoice
func Compose(order *fulfillment.Order, inv invoice.Document, printedAt time.Time) PrintableDocument {
	return PrintableDocument{
		OrderID:        order.ID,
		OrderDisplayID: order.DisplayID,
		Label:          newShippingLabel(order, inv, printedAt),
		Invoice:        inv,
		PageSetup:      DefaultPageSetup(),
		Declaration:    Declaration,
		PrintedAt:      printedAt,
	}
}

// FileName returns the base file name for the rendered document
func (d PrintableDocument) FileName(format OutputFormat) string {
	return invoice.InvoiceNumber(d.OrderDisplayID) + format.Extension()
}

// BulkFileName names a multi-order document, e.g. orders-20261016-1504.pdf
func BulkFileName(printedAt time.Time, format OutputFormat) string {
	return "orders-" + printedAt.Format("20060102-1504") + format.Extension()
}

// RenderedDocument is the output of rendering one or more printable documents
type RenderedDocument struct {
	FileName    string
	Format      OutputFormat
	ContentType string
	Content     []byte
	PageCount   int
	// URL is set when the rendered file was also stored
	URL string
}
