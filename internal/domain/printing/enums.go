package printing

import (
	"strings"

	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
)

// DocType represents the part of a printable document
type DocType string

const (
	DocTypeShippingLabel DocType = "SHIPPING_LABEL"
	DocTypeTaxInvoice    DocType = "TAX_INVOICE"
)

// IsValid checks if the DocType is a valid value
func (d DocType) IsValid() bool {
	switch d {
	case DocTypeShippingLabel, DocTypeTaxInvoice:
		return true
	}
	return false
}

// String returns the string representation of DocType
func (d DocType) String() string {
	return string(d)
}

// DisplayName returns the heading printed for DocType
func (d DocType) DisplayName() string {
	switch d {
	case DocTypeShippingLabel:
		return "Shipping Label"
	case DocTypeTaxInvoice:
		return "Tax Invoice"
	default:
		return string(d)
	}
}

// OutputFormat is the rendered output of a document
type OutputFormat string

const (
	OutputFormatHTML OutputFormat = "html"
	OutputFormatPDF  OutputFormat = "pdf"
)

// ParseOutputFormat parses a format query value; empty means HTML
func ParseOutputFormat(raw string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return OutputFormatHTML, nil
	case OutputFormatHTML, OutputFormatPDF:
		return f, nil
	}
	return "", shared.NewDomainError(shared.CodeInvalidInput, "format must be html or pdf")
}

// ContentType returns the MIME type of the format
func (f OutputFormat) ContentType() string {
	if f == OutputFormatPDF {
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}

// Extension returns the file extension including the dot
func (f OutputFormat) Extension() string {
	return "." + string(f)
}

// PaperSize represents the paper size for printing
type PaperSize string

const (
	PaperSizeA4       PaperSize = "A4"        // 210mm x 297mm
	PaperSizeA5       PaperSize = "A5"        // 148mm x 210mm
	PaperSizeLabel4x6 PaperSize = "LABEL_4X6" // 102mm x 152mm thermal label
)

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5, PaperSizeLabel4x6:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	case PaperSizeLabel4x6:
		return 102, 152
	default:
		return 210, 297
	}
}

// Orientation represents the page orientation for printing
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}
