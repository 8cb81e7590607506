package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultHSNCode is the HSN classification printed on every line
const DefaultHSNCode = "90029000"

// DefaultTaxRate is the GST rate included in every price (18%)
var DefaultTaxRate = decimal.NewFromFloat(0.18)

// Line is one computed invoice row. Amounts are unrounded.
type Line struct {
	ItemID       uuid.UUID
	Name         string
	SerialNumber string
	SerialType   fulfillment.SerialType
	HSNCode      string
	TaxRate      decimal.Decimal
	Quantity     int
	UnitPrice    decimal.Decimal
	Gross        decimal.Decimal
	Discount     decimal.Decimal
	Taxable      decimal.Decimal
	Tax          decimal.Decimal
	Cess         decimal.Decimal
	Total        decimal.Decimal
}

// Description returns the "HSN | rate | cess" column text
func (l Line) Description() string {
	return fmt.Sprintf("HSN: %s | %s%% | 0%%", l.HSNCode, l.TaxRate.Mul(decimal.NewFromInt(100)).StringFixed(2))
}

// Document is a computed tax invoice. It is derived from an order and never persisted.
type Document struct {
	InvoiceNumber   string
	OrderID         uuid.UUID
	OrderDisplayID  string
	OrderDate       time.Time
	Seller          SellerSettings
	BillingAddress  valueobject.Address
	ShippingAddress valueobject.Address
	TaxRate         decimal.Decimal
	Lines           []Line
	TotalQuantity   int
	Subtotal        decimal.Decimal
	TaxableTotal    decimal.Decimal
	TaxTotal        decimal.Decimal
	HandlingFee     decimal.Decimal
	GrandTotal      decimal.Decimal
}

// IsEmpty returns true when the invoice has no lines
func (d Document) IsEmpty() bool {
	return len(d.Lines) == 0
}

// Calculator computes GST-inclusive invoices
type Calculator struct {
	TaxRate     decimal.Decimal
	HandlingFee decimal.Decimal
	HSNCode     string
}

// NewCalculator creates a Calculator. The rate must be in [0, 1) and the fee non-negative.
func NewCalculator(taxRate, handlingFee decimal.Decimal, hsnCode string) (*Calculator, error) {
	if taxRate.IsNegative() || taxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("tax rate must be in [0, 1), got %s", taxRate))
	}
	if handlingFee.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "handling fee cannot be negative")
	}
	if strings.TrimSpace(hsnCode) == "" {
		hsnCode = DefaultHSNCode
	}
	return &Calculator{TaxRate: taxRate, HandlingFee: handlingFee, HSNCode: strings.TrimSpace(hsnCode)}, nil
}

// DefaultCalculator returns a calculator with the 18% rate, no handling fee and the default HSN code
func DefaultCalculator() *Calculator {
	return &Calculator{TaxRate: DefaultTaxRate, HandlingFee: decimal.Zero, HSNCode: DefaultHSNCode}
}

// ComputeInvoice computes an invoice with the default calculator
func ComputeInvoice(order *fulfillment.Order, settings SellerSettings, items []fulfillment.OrderItem) Document {
	return DefaultCalculator().Compute(order, settings, items)
}

// Compute builds the invoice for items of order. A nil items slice means the whole
// order; a non-nil empty slice yields an invoice with no lines and zero totals.
// Totals accumulate unrounded values; rounding happens only when presenting.
func (c *Calculator) Compute(order *fulfillment.Order, settings SellerSettings, items []fulfillment.OrderItem) Document {
	if items == nil {
		items = order.Items
	}

	doc := Document{
		InvoiceNumber:   InvoiceNumber(order.DisplayID),
		OrderID:         order.ID,
		OrderDisplayID:  order.DisplayID,
		OrderDate:       order.Date,
		Seller:          settings.WithDefaults(),
		BillingAddress:  order.EffectiveBillingAddress(),
		ShippingAddress: order.ShippingAddress,
		TaxRate:         c.TaxRate,
		Lines:           make([]Line, 0, len(items)),
		Subtotal:        decimal.Zero,
		TaxableTotal:    decimal.Zero,
		TaxTotal:        decimal.Zero,
		HandlingFee:     c.HandlingFee,
	}

	divisor := decimal.NewFromInt(1).Add(c.TaxRate)
	for _, item := range items {
		gross := item.LineTotal()
		taxable := gross.Div(divisor)
		tax := gross.Sub(taxable)

		doc.Lines = append(doc.Lines, Line{
			ItemID:       item.ID,
			Name:         item.Name,
			SerialNumber: item.SerialNumber,
			SerialType:   item.SerialType,
			HSNCode:      c.HSNCode,
			TaxRate:      c.TaxRate,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			Gross:        gross,
			Discount:     decimal.Zero,
			Taxable:      taxable,
			Tax:          tax,
			Cess:         decimal.Zero,
			Total:        gross,
		})

		doc.TotalQuantity += item.Quantity
		doc.Subtotal = doc.Subtotal.Add(gross)
		doc.TaxableTotal = doc.TaxableTotal.Add(taxable)
		doc.TaxTotal = doc.TaxTotal.Add(tax)
	}

	doc.GrandTotal = doc.Subtotal.Add(doc.HandlingFee)
	return doc
}

// SelectItems returns the order items with the given ids, in the order requested.
// With no ids it returns nil, which Compute treats as the whole order.
func SelectItems(order *fulfillment.Order, ids ...uuid.UUID) ([]fulfillment.OrderItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	items := make([]fulfillment.OrderItem, 0, len(ids))
	for _, id := range ids {
		item := order.GetItem(id)
		if item == nil {
			return nil, shared.NewDomainError(fulfillment.CodeInvalidOrderItem, fmt.Sprintf("item %s is not part of order %s", id, order.DisplayID))
		}
		items = append(items, *item)
	}
	return items, nil
}

// InvoiceNumber derives the invoice number from an order display id
func InvoiceNumber(displayID string) string {
	return "INV-" + strings.ToUpper(displayID)
}

// Round2 rounds an amount to two decimals for presentation
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatAmount renders an amount with exactly two decimals
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
