package document

import (
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ============================================================================
// Settings DTOs
// ============================================================================

// UpdateSettingsRequest updates the seller identity. Blank fields keep their stored value.
type UpdateSettingsRequest struct {
	SellerName    string `json:"sellerName" binding:"omitempty,max=200"`
	SellerAddress string `json:"sellerAddress" binding:"omitempty,max=500"`
	GSTNumber     string `json:"gstNumber" binding:"omitempty,max=20"`
	PANNumber     string `json:"panNumber" binding:"omitempty,max=20"`
	LogoURL       string `json:"logoUrl" binding:"omitempty,url"`
	SignatureURL  string `json:"signatureUrl" binding:"omitempty,url"`
	FSSAI         string `json:"fssai" binding:"omitempty,max=30"`
	ContactEmail  string `json:"contactEmail" binding:"omitempty,email"`
	ContactPhone  string `json:"contactPhone" binding:"omitempty,max=20"`
}

func (r UpdateSettingsRequest) toPatch() invoice.SellerSettings {
	return invoice.SellerSettings{
		SellerName:    r.SellerName,
		SellerAddress: r.SellerAddress,
		GSTNumber:     r.GSTNumber,
		PANNumber:     r.PANNumber,
		LogoURL:       r.LogoURL,
		SignatureURL:  r.SignatureURL,
		FSSAI:         r.FSSAI,
		ContactEmail:  r.ContactEmail,
		ContactPhone:  r.ContactPhone,
	}
}

// SettingsResponse represents the seller settings
type SettingsResponse struct {
	SellerName    string     `json:"sellerName"`
	SellerAddress string     `json:"sellerAddress"`
	GSTNumber     string     `json:"gstNumber"`
	PANNumber     string     `json:"panNumber"`
	LogoURL       string     `json:"logoUrl"`
	SignatureURL  string     `json:"signatureUrl"`
	FSSAI         string     `json:"fssai"`
	ContactEmail  string     `json:"contactEmail,omitempty"`
	ContactPhone  string     `json:"contactPhone,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// ToSettingsResponse converts settings to the response DTO
func ToSettingsResponse(s invoice.SellerSettings) SettingsResponse {
	resp := SettingsResponse{
		SellerName:    s.SellerName,
		SellerAddress: s.SellerAddress,
		GSTNumber:     s.GSTNumber,
		PANNumber:     s.PANNumber,
		LogoURL:       s.LogoURL,
		SignatureURL:  s.SignatureURL,
		FSSAI:         s.FSSAI,
		ContactEmail:  s.ContactEmail,
		ContactPhone:  s.ContactPhone,
	}
	if !s.UpdatedAt.IsZero() {
		updatedAt := s.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}
	return resp
}

// ============================================================================
// Invoice DTOs
// ============================================================================

// InvoiceLineResponse is one invoice row, rounded to two decimals
type InvoiceLineResponse struct {
	ItemID       uuid.UUID       `json:"itemId"`
	Name         string          `json:"name"`
	SerialNumber string          `json:"serialNumber,omitempty"`
	SerialType   string          `json:"serialType,omitempty"`
	Description  string          `json:"description"`
	HSNCode      string          `json:"hsnCode"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Gross        decimal.Decimal `json:"gross"`
	Discount     decimal.Decimal `json:"discount"`
	Taxable      decimal.Decimal `json:"taxable"`
	IGST         decimal.Decimal `json:"igst"`
	Cess         decimal.Decimal `json:"cess"`
	Total        decimal.Decimal `json:"total"`
}

// InvoiceResponse represents a computed tax invoice
type InvoiceResponse struct {
	InvoiceNumber   string                `json:"invoiceNumber"`
	OrderID         uuid.UUID             `json:"orderId"`
	OrderDisplayID  string                `json:"orderDisplayId"`
	OrderDate       time.Time             `json:"orderDate"`
	Seller          SettingsResponse      `json:"seller"`
	BillingAddress  valueobject.Address   `json:"billingAddress"`
	ShippingAddress valueobject.Address   `json:"shippingAddress"`
	TaxRate         decimal.Decimal       `json:"taxRate"`
	Lines           []InvoiceLineResponse `json:"lines"`
	TotalQuantity   int                   `json:"totalQuantity"`
	Subtotal        decimal.Decimal       `json:"subtotal"`
	TaxableTotal    decimal.Decimal       `json:"taxableTotal"`
	TaxTotal        decimal.Decimal       `json:"taxTotal"`
	HandlingFee     decimal.Decimal       `json:"handlingFee"`
	GrandTotal      decimal.Decimal       `json:"grandTotal"`
}

// ToInvoiceResponse converts a computed invoice, rounding amounts for presentation
func ToInvoiceResponse(doc invoice.Document) InvoiceResponse {
	lines := make([]InvoiceLineResponse, len(doc.Lines))
	for i, l := range doc.Lines {
		lines[i] = InvoiceLineResponse{
			ItemID:       l.ItemID,
			Name:         l.Name,
			SerialNumber: l.SerialNumber,
			SerialType:   string(l.SerialType),
			Description:  l.Description(),
			HSNCode:      l.HSNCode,
			Quantity:     l.Quantity,
			UnitPrice:    invoice.Round2(l.UnitPrice),
			Gross:        invoice.Round2(l.Gross),
			Discount:     invoice.Round2(l.Discount),
			Taxable:      invoice.Round2(l.Taxable),
			IGST:         invoice.Round2(l.Tax),
			Cess:         invoice.Round2(l.Cess),
			Total:        invoice.Round2(l.Total),
		}
	}
	return InvoiceResponse{
		InvoiceNumber:   doc.InvoiceNumber,
		OrderID:         doc.OrderID,
		OrderDisplayID:  doc.OrderDisplayID,
		OrderDate:       doc.OrderDate,
		Seller:          ToSettingsResponse(doc.Seller),
		BillingAddress:  doc.BillingAddress,
		ShippingAddress: doc.ShippingAddress,
		TaxRate:         doc.TaxRate,
		Lines:           lines,
		TotalQuantity:   doc.TotalQuantity,
		Subtotal:        invoice.Round2(doc.Subtotal),
		TaxableTotal:    invoice.Round2(doc.TaxableTotal),
		TaxTotal:        invoice.Round2(doc.TaxTotal),
		HandlingFee:     invoice.Round2(doc.HandlingFee),
		GrandTotal:      invoice.Round2(doc.GrandTotal),
	}
}

// ============================================================================
// Render DTOs
// ============================================================================

// RenderBulkRequest asks for the label + invoice of several orders in one file
type RenderBulkRequest struct {
	OrderIDs []string `json:"orderIds" binding:"required,min=1,max=100,dive,required"`
	Format   string   `json:"format" binding:"omitempty,oneof=html pdf"`
}

// ExportFile is a generated spreadsheet
type ExportFile struct {
	FileName    string
	ContentType string
	Content     []byte
	Rows        int
}
