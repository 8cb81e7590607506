package printing

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPDFRenderer struct {
	mock.Mock
}

func (m *MockPDFRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RenderResult), args.Error(1)
}

func (m *MockPDFRenderer) Close() error {
	return m.Called().Error(0)
}

type MockPDFStorage struct {
	mock.Mock
}

func (m *MockPDFStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*StoreResult), args.Error(1)
}

func (m *MockPDFStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *MockPDFStorage) Delete(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}

var testPrintedAt = time.Date(2026, 10, 16, 15, 4, 0, 0, time.UTC)

func createTestDocument(t *testing.T, displayID string, settings invoice.SellerSettings) printing.PrintableDocument {
	t.Helper()
	address := valueobject.Address{
		Name:       "Meera Iyer",
		Street:     "7 Park Street",
		City:       "Kolkata",
		State:      "West Bengal",
		PostalCode: "700016",
		Country:    "India",
	}
	order, err := fulfillment.NewOrder(displayID, fulfillment.Customer{Name: "Meera Iyer", Email: "meera@example.com"},
		address, fulfillment.Payment{Method: "Razorpay", Status: fulfillment.PaymentStatusPaid},
		[]fulfillment.NewOrderItem{
			{Name: "Phone X", UnitPrice: decimal.NewFromInt(2000), Quantity: 1},
			{Name: "Charger", UnitPrice: decimal.NewFromInt(500), Quantity: 1},
		})
	require.NoError(t, err)
	order.Date = time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC)
	order.Items[0].SerialNumber = "356938035643809"

	inv := invoice.ComputeInvoice(order, settings, nil)
	return printing.Compose(order, inv, testPrintedAt)
}

func newTestDocumentRenderer(t *testing.T, pdf PDFRenderer, storage PDFStorage) *DocumentRenderer {
	t.Helper()
	r, err := NewDocumentRenderer(&DocumentRendererConfig{PDF: pdf, Storage: storage})
	require.NoError(t, err)
	return r
}

func TestDocumentRenderer_RenderHTML_LabelAndInvoice(t *testing.T) {
	r := newTestDocumentRenderer(t, nil, nil)
	doc := createTestDocument(t, "ORD-K7M2QZ", invoice.SellerSettings{})

	html, err := r.RenderHTML([]printing.PrintableDocument{doc})
	require.NoError(t, err)

	// label
	for _, want := range []string{
		"E-Kart Logistics", "STD", "PREPAID", "FRAGILE", "ORD-K7M2QZ",
		"Meera Iyer", "7 Park Street", "Kolkata, West Bengal - 700016",
		"HBD: 12/10", "CPD: 16/10", "FMPPORD-K7M2", "B2", "Printed at 1504 hrs, 16/10/26",
		"GSTIN: 123456789",
	} {
		assert.Contains(t, html, want)
	}

	// invoice
	for _, want := range []string{
		"Tax Invoice", "INV-ORD-K7M2QZ", "PAN: LBCPS9976F", "IndianKart", "123 E-com St, Digital City",
		"HSN: 90029000 | 18.00% | 0%", "IMEI/SN: 356938035643809",
		"2000.00", "1694.92", "305.08", "423.73", "76.27",
		"TOTAL QTY: 2", "₹2500.00", "All values are in INR",
		"The goods sold are intended for end user consumption and not for resale.",
		"FSSAI: N/A", "Authorized Signature", "E. &amp; O.E.",
	} {
		assert.Contains(t, html, want)
	}

	assert.Contains(t, html, "size: 210mm 297mm")
	assert.NotContains(t, html, "sheet page-break")
	assert.NotContains(t, html, "<img", "no logo or signature configured")
}

func TestDocumentRenderer_RenderHTML_SellerSettings(t *testing.T) {
	r := newTestDocumentRenderer(t, nil, nil)
	doc := createTestDocument(t, "ORD-K7M2QZ", invoice.SellerSettings{
		SellerName:   "Acme <Retail>",
		LogoURL:      "https://cdn.example.com/logo.png",
		SignatureURL: "https://cdn.example.com/sign.png",
		FSSAI:        "10020042000123",
	})

	html, err := r.RenderHTML([]printing.PrintableDocument{doc})
	require.NoError(t, err)

	assert.Contains(t, html, "Acme &lt;Retail&gt;")
	assert.NotContains(t, html, "Acme <Retail>")
	assert.Contains(t, html, `src="https://cdn.example.com/logo.png"`)
	assert.Contains(t, html, `src="https://cdn.example.com/sign.png"`)
	assert.Contains(t, html, "FSSAI: 10020042000123")
}

func TestDocumentRenderer_RenderHTML_BulkPageBreaks(t *testing.T) {
	r := newTestDocumentRenderer(t, nil, nil)
	docs := []printing.PrintableDocument{
		createTestDocument(t, "ORD-AAA234", invoice.SellerSettings{}),
		createTestDocument(t, "ORD-BBB234", invoice.SellerSettings{}),
		createTestDocument(t, "ORD-CCC234", invoice.SellerSettings{}),
	}

	html, err := r.RenderHTML(docs)
	require.NoError(t, err)

	assert.Equal(t, 3, strings.Count(html, `class="sheet`))
	assert.Equal(t, 2, strings.Count(html, "sheet page-break"), "no break after the last order")
	assert.Less(t, strings.Index(html, "INV-ORD-AAA234"), strings.Index(html, "INV-ORD-BBB234"))
	assert.Less(t, strings.Index(html, "INV-ORD-BBB234"), strings.Index(html, "INV-ORD-CCC234"))
}

func TestDocumentRenderer_RenderHTML_NoDocuments(t *testing.T) {
	r := newTestDocumentRenderer(t, nil, nil)

	_, err := r.RenderHTML(nil)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestDocumentRenderer_Render_HTML(t *testing.T) {
	r := newTestDocumentRenderer(t, nil, nil)
	doc := createTestDocument(t, "ORD-K7M2QZ", invoice.SellerSettings{})

	out, err := r.Render(context.Background(), printing.OutputFormatHTML, []printing.PrintableDocument{doc})
	require.NoError(t, err)

	assert.Equal(t, "INV-ORD-K7M2QZ.html", out.FileName)
	assert.Equal(t, "text/html; charset=utf-8", out.ContentType)
	assert.Equal(t, 1, out.PageCount)
	assert.Contains(t, string(out.Content), "Tax Invoice")
	assert.Empty(t, out.URL)
}

func TestDocumentRenderer_Render_PDFUnavailable(t *testing.T) {
	r := newTestDocumentRenderer(t, nil, nil)
	doc := createTestDocument(t, "ORD-K7M2QZ", invoice.SellerSettings{})

	assert.False(t, r.SupportsPDF())
	_, err := r.Render(context.Background(), printing.OutputFormatPDF, []printing.PrintableDocument{doc})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodePDFUnavailable, renderErr.Code)
}

func TestDocumentRenderer_Render_PDFStored(t *testing.T) {
	pdf := new(MockPDFRenderer)
	storage := new(MockPDFStorage)
	r := newTestDocumentRenderer(t, pdf, storage)
	docs := []printing.PrintableDocument{
		createTestDocument(t, "ORD-AAA234", invoice.SellerSettings{}),
		createTestDocument(t, "ORD-BBB234", invoice.SellerSettings{}),
	}

	pdf.On("Render", mock.Anything, mock.MatchedBy(func(req *RenderRequest) bool {
		return req.Setup == printing.DefaultPageSetup() && strings.Contains(req.HTML, "INV-ORD-BBB234")
	})).Return(&RenderResult{PDFData: []byte("%PDF-1.7"), PageCount: 2}, nil)
	storage.On("Store", mock.Anything, &StoreRequest{
		FileName:    "orders-20261016-1504.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.7"),
	}).Return(&StoreResult{Path: "2026/10/1-orders.pdf", URL: "/api/v1/documents/files/2026/10/1-orders.pdf"}, nil)

	out, err := r.Render(context.Background(), printing.OutputFormatPDF, docs)
	require.NoError(t, err)

	assert.Equal(t, "orders-20261016-1504.pdf", out.FileName)
	assert.Equal(t, []byte("%PDF-1.7"), out.Content)
	assert.Equal(t, 2, out.PageCount)
	assert.Equal(t, "/api/v1/documents/files/2026/10/1-orders.pdf", out.URL)
	pdf.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestDocumentRenderer_Render_StorageFailureKeepsPDF(t *testing.T) {
	pdf := new(MockPDFRenderer)
	storage := new(MockPDFStorage)
	r := newTestDocumentRenderer(t, pdf, storage)
	doc := createTestDocument(t, "ORD-K7M2QZ", invoice.SellerSettings{})

	pdf.On("Render", mock.Anything, mock.Anything).Return(&RenderResult{PDFData: []byte("%PDF"), PageCount: 1}, nil)
	storage.On("Store", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))

	out, err := r.Render(context.Background(), printing.OutputFormatPDF, []printing.PrintableDocument{doc})
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF"), out.Content)
	assert.Empty(t, out.URL)
}

func TestDocumentRenderer_Render_PDFEngineError(t *testing.T) {
	pdf := new(MockPDFRenderer)
	r := newTestDocumentRenderer(t, pdf, nil)
	doc := createTestDocument(t, "ORD-K7M2QZ", invoice.SellerSettings{})

	pdf.On("Render", mock.Anything, mock.Anything).
		Return(nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering timed out", context.DeadlineExceeded))

	_, err := r.Render(context.Background(), printing.OutputFormatPDF, []printing.PrintableDocument{doc})

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRenderTimeout, renderErr.Code)
}
