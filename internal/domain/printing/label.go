package printing

import (
	"fmt"
	"strings"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
)

// Fixed label markings
const (
	Carrier        = "E-Kart Logistics"
	ServiceCode    = "STD"
	HandlingMark   = "FRAGILE"
	RouteCode      = "B2"
	SortCode       = "E"
	TrackingPrefix = "FMPP"

	PaymentTagPrepaid = "PREPAID"
	PaymentTagCOD     = "COD"
)

// LabelItem is one row of the label item table
type LabelItem struct {
	Index    int
	Name     string
	Quantity int
}

// ShippingLabel is the carrier label attached to the parcel
type ShippingLabel struct {
	Carrier        string
	ServiceCode    string
	SortCode       string
	HandlingMark   string
	PaymentTag     string
	OrderReference string
	Marketplace    string
	Recipient      valueobject.Address
	SellerName     string
	SellerAddress  string
	GSTNumber      string
	Items          []LabelItem
	ItemCount      int
	HandoverDate   string
	PrintDate      string
	TrackingCode   string
	RouteCode      string
	PrintedAtText  string
}

// TrackingCode returns FMPP followed by the first eight characters of the display id
func TrackingCode(displayID string) string {
	ref := displayID
	if len(ref) > 8 {
		ref = ref[:8]
	}
	return TrackingPrefix + strings.ToUpper(ref)
}

// PrintedAtText formats the footer stamp, e.g. "Printed at 1504 hrs, 16/10/26"
func PrintedAtText(t time.Time) string {
	return fmt.Sprintf("Printed at %s hrs, %s", t.Format("1504"), t.Format("02/01/06"))
}

// PaymentTag returns PREPAID or COD for the order payment
func PaymentTag(p fulfillment.Payment) string {
	if p.IsPrepaid() {
		return PaymentTagPrepaid
	}
	return PaymentTagCOD
}

func newShippingLabel(order *fulfillment.Order, inv invoice.Document, printedAt time.Time) ShippingLabel {
	label := ShippingLabel{
		Carrier:        Carrier,
		ServiceCode:    ServiceCode,
		SortCode:       SortCode,
		HandlingMark:   HandlingMark,
		PaymentTag:     PaymentTag(order.Payment),
		OrderReference: order.DisplayID,
		Marketplace:    inv.Seller.SellerName,
		Recipient:      order.ShippingAddress,
		SellerName:     inv.Seller.SellerName,
		SellerAddress:  inv.Seller.SellerAddress,
		GSTNumber:      inv.Seller.GSTNumber,
		Items:          make([]LabelItem, 0, len(inv.Lines)),
		HandoverDate:   order.Date.Format("02/01"),
		PrintDate:      printedAt.Format("02/01"),
		TrackingCode:   TrackingCode(order.DisplayID),
		RouteCode:      RouteCode,
		PrintedAtText:  PrintedAtText(printedAt),
	}
	if label.Recipient.Name == "" {
		label.Recipient.Name = order.Customer.Name
	}
	for i, line := range inv.Lines {
		label.Items = append(label.Items, LabelItem{Index: i + 1, Name: line.Name, Quantity: line.Quantity})
		label.ItemCount += line.Quantity
	}
	return label
}
