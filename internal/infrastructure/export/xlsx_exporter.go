// Package export writes order and post-sale request spreadsheets.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/xuri/excelize/v2"
)

const (
	// OrdersSheet is the sheet name of order exports
	OrdersSheet = "Orders"
	// ReturnsSheet is the sheet name of post-sale request exports
	ReturnsSheet = "Returns"

	defaultSheet = "Sheet1"
	dateLayout   = "02/01/2006 15:04"
)

var orderHeaders = []string{
	"Order ID", "Date", "Customer", "Email", "Phone", "City", "PIN",
	"Status", "Payment", "Items", "Quantity", "Serial Numbers", "Total (INR)",
}

var returnHeaders = []string{
	"Request ID", "Type", "Order ID", "Customer", "Product",
	"Price (INR)", "Reason", "Comment", "Status", "Date", "Last Update",
}

// XLSXExporter renders orders and return requests into XLSX workbooks
type XLSXExporter struct {
	location *time.Location
}

// ExporterOption configures an XLSXExporter
type ExporterOption func(*XLSXExporter)

// WithLocation sets the time zone dates are printed in (default UTC)
func WithLocation(loc *time.Location) ExporterOption {
	return func(e *XLSXExporter) {
		if loc != nil {
			e.location = loc
		}
	}
}

// NewXLSXExporter creates a new XLSXExporter
func NewXLSXExporter(opts ...ExporterOption) *XLSXExporter {
	e := &XLSXExporter{location: time.UTC}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Orders writes one row per order
func (e *XLSXExporter) Orders(orders []fulfillment.Order) ([]byte, error) {
	rows := make([][]any, len(orders))
	for i := range orders {
		o := &orders[i]
		names := make([]string, len(o.Items))
		var serials []string
		for j, item := range o.Items {
			names[j] = fmt.Sprintf("%s x%d", item.Name, item.Quantity)
			if item.SerialNumber != "" {
				serials = append(serials, item.SerialNumber)
			}
		}
		rows[i] = []any{
			o.DisplayID,
			e.formatTime(o.Date),
			o.Customer.Name,
			o.Customer.Email,
			o.ShippingAddress.Phone,
			o.ShippingAddress.City,
			o.ShippingAddress.PostalCode,
			string(o.Status),
			paymentLabel(o.Payment),
			strings.Join(names, ", "),
			o.TotalQuantity(),
			strings.Join(serials, ", "),
			invoice.FormatAmount(o.ItemsTotal()),
		}
	}
	return writeSheet(OrdersSheet, orderHeaders, rows)
}

// Returns writes one row per return, replacement or cancellation request
func (e *XLSXExporter) Returns(requests []postsale.ReturnRequest) ([]byte, error) {
	rows := make([][]any, len(requests))
	for i := range requests {
		r := &requests[i]
		lastUpdate := ""
		if n := len(r.Timeline); n > 0 {
			lastUpdate = r.Timeline[n-1].Note
		}
		rows[i] = []any{
			r.RequestNumber,
			string(r.Type),
			r.OrderDisplayID,
			r.CustomerName,
			r.Product.Name,
			invoice.FormatAmount(r.Product.Price),
			r.Reason,
			r.Comment,
			string(r.Status),
			e.formatTime(r.Date),
			lastUpdate,
		}
	}
	return writeSheet(ReturnsSheet, returnHeaders, rows)
}

func (e *XLSXExporter) formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(e.location).Format(dateLayout)
}

func paymentLabel(p fulfillment.Payment) string {
	if p.IsPrepaid() {
		return "Prepaid (" + p.Method + ")"
	}
	return p.Method
}

func writeSheet(sheet string, headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("failed to write header %s: %w", h, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to style header: %w", err)
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
