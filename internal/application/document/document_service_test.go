package document

import (
	"context"
	"errors"
	"testing"
	"time"

	orderapp "github.com/appzetogit/indiankart-sub000/internal/application/fulfillment"
	returnapp "github.com/appzetogit/indiankart-sub000/internal/application/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderReader is a mock implementation of OrderReader
type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) LoadOrder(ctx context.Context, idOrDisplayID string) (*fulfillment.Order, error) {
	args := m.Called(ctx, idOrDisplayID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.Order), args.Error(1)
}

func (m *MockOrderReader) FindOrders(ctx context.Context, filter orderapp.OrderListFilter) ([]fulfillment.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]fulfillment.Order), args.Error(1)
}

// MockReturnReader is a mock implementation of ReturnReader
type MockReturnReader struct {
	mock.Mock
}

func (m *MockReturnReader) FindReturns(ctx context.Context, filter returnapp.ReturnListFilter) ([]postsale.ReturnRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]postsale.ReturnRequest), args.Error(1)
}

// MockRenderer is a mock implementation of Renderer
type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Render(ctx context.Context, format printing.OutputFormat, docs []printing.PrintableDocument) (*printing.RenderedDocument, error) {
	args := m.Called(ctx, format, docs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printing.RenderedDocument), args.Error(1)
}

// MockExporter is a mock implementation of Exporter
type MockExporter struct {
	mock.Mock
}

func (m *MockExporter) Orders(orders []fulfillment.Order) ([]byte, error) {
	args := m.Called(orders)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockExporter) Returns(requests []postsale.ReturnRequest) ([]byte, error) {
	args := m.Called(requests)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

var testNow = time.Date(2026, 10, 16, 15, 4, 0, 0, time.UTC)

func createTestOrder(t *testing.T, displayID string) *fulfillment.Order {
	t.Helper()
	shipping := valueobject.Address{
		Name:       "Meera Iyer",
		Street:     "12 Park Street",
		City:       "Kolkata",
		State:      "West Bengal",
		PostalCode: "700016",
	}
	order, err := fulfillment.NewOrder(displayID, fulfillment.Customer{Name: "Meera Iyer"}, shipping,
		fulfillment.Payment{Method: "Razorpay", Status: fulfillment.PaymentStatusPaid},
		[]fulfillment.NewOrderItem{
			{Name: "Phone X", UnitPrice: decimal.NewFromInt(2000), Quantity: 1},
			{Name: "Charger", UnitPrice: decimal.NewFromInt(250), Quantity: 2},
		})
	require.NoError(t, err)
	return order
}

type docDeps struct {
	orders    *MockOrderReader
	returns   *MockReturnReader
	settings  *MockSettingsRepository
	renderer  *MockRenderer
	exporter  *MockExporter
	publisher *MockEventPublisher
}

func newTestDocumentService() (*DocumentService, docDeps) {
	deps := docDeps{
		orders:    new(MockOrderReader),
		returns:   new(MockReturnReader),
		settings:  new(MockSettingsRepository),
		renderer:  new(MockRenderer),
		exporter:  new(MockExporter),
		publisher: new(MockEventPublisher),
	}
	settings := NewSettingsService(deps.settings, nil)
	service := NewDocumentService(deps.orders, deps.returns, settings, deps.renderer, deps.exporter, nil)
	service.SetEventPublisher(deps.publisher)
	service.now = func() time.Time { return testNow }
	return service, deps
}

func TestDocumentService_ComputeInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("whole order", func(t *testing.T) {
		service, deps := newTestDocumentService()
		order := createTestOrder(t, "ORD-A1B2C3")
		deps.orders.On("LoadOrder", mock.Anything, "ORD-A1B2C3").Return(order, nil)
		deps.settings.On("Get", mock.Anything).Return(&invoice.SellerSettings{SellerName: "Acme"}, nil)

		resp, err := service.ComputeInvoice(ctx, "ORD-A1B2C3", nil)
		require.NoError(t, err)

		assert.Equal(t, "INV-ORD-A1B2C3", resp.InvoiceNumber)
		assert.Equal(t, "Acme", resp.Seller.SellerName)
		require.Len(t, resp.Lines, 2)
		assert.Equal(t, 3, resp.TotalQuantity)
		assert.Equal(t, "2500.00", resp.GrandTotal.StringFixed(2))
		assert.Equal(t, "2118.64", resp.TaxableTotal.StringFixed(2))
		assert.Equal(t, "381.36", resp.TaxTotal.StringFixed(2))
		assert.Equal(t, "1694.92", resp.Lines[0].Taxable.StringFixed(2))
		assert.Equal(t, "305.08", resp.Lines[0].IGST.StringFixed(2))
	})

	t.Run("selected items only", func(t *testing.T) {
		service, deps := newTestDocumentService()
		order := createTestOrder(t, "ORD-A1B2C3")
		deps.orders.On("LoadOrder", mock.Anything, "ORD-A1B2C3").Return(order, nil)
		deps.settings.On("Get", mock.Anything).Return(&invoice.SellerSettings{}, nil)

		charger := order.Items[1].ID
		resp, err := service.ComputeInvoice(ctx, "ORD-A1B2C3", []string{charger.String(), " "})
		require.NoError(t, err)

		require.Len(t, resp.Lines, 1)
		assert.Equal(t, charger, resp.Lines[0].ItemID)
		assert.Equal(t, 2, resp.TotalQuantity)
		assert.Equal(t, "500.00", resp.GrandTotal.StringFixed(2))
	})

	t.Run("malformed item id", func(t *testing.T) {
		service, deps := newTestDocumentService()
		deps.orders.On("LoadOrder", mock.Anything, "ORD-A1B2C3").Return(createTestOrder(t, "ORD-A1B2C3"), nil)

		_, err := service.ComputeInvoice(ctx, "ORD-A1B2C3", []string{"not-a-uuid"})
		domainErr, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeInvalidInput, domainErr.Code)
	})

	t.Run("item from another order", func(t *testing.T) {
		service, deps := newTestDocumentService()
		deps.orders.On("LoadOrder", mock.Anything, "ORD-A1B2C3").Return(createTestOrder(t, "ORD-A1B2C3"), nil)

		_, err := service.ComputeInvoice(ctx, "ORD-A1B2C3", []string{uuid.New().String()})
		domainErr, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, fulfillment.CodeInvalidOrderItem, domainErr.Code)
		deps.settings.AssertNotCalled(t, "Get", mock.Anything)
	})

	t.Run("order not found", func(t *testing.T) {
		service, deps := newTestDocumentService()
		deps.orders.On("LoadOrder", mock.Anything, "ORD-MISSING").Return(nil, shared.ErrNotFound)

		_, err := service.ComputeInvoice(ctx, "ORD-MISSING", nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDocumentService_RenderOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("renders one document and publishes an event", func(t *testing.T) {
		service, deps := newTestDocumentService()
		order := createTestOrder(t, "ORD-A1B2C3")
		deps.orders.On("LoadOrder", mock.Anything, "ORD-A1B2C3").Return(order, nil)
		deps.settings.On("Get", mock.Anything).Return(&invoice.SellerSettings{}, nil)

		rendered := &printing.RenderedDocument{FileName: "INV-ORD-A1B2C3.html", Format: printing.OutputFormatHTML}
		deps.renderer.On("Render", mock.Anything, printing.OutputFormatHTML, mock.MatchedBy(func(docs []printing.PrintableDocument) bool {
			return len(docs) == 1 &&
				docs[0].OrderID == order.ID &&
				docs[0].Invoice.InvoiceNumber == "INV-ORD-A1B2C3" &&
				docs[0].PrintedAt.Equal(testNow)
		})).Return(rendered, nil)
		deps.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			if len(events) != 1 {
				return false
			}
			evt, ok := events[0].(*printing.DocumentRenderedEvent)
			return ok && evt.OrderID == order.ID && !evt.Bulk && evt.Format == printing.OutputFormatHTML
		})).Return(nil)

		out, err := service.RenderOrder(ctx, "ORD-A1B2C3", "")
		require.NoError(t, err)
		assert.Same(t, rendered, out)
		deps.renderer.AssertExpectations(t)
		deps.publisher.AssertExpectations(t)
	})

	t.Run("unsupported format", func(t *testing.T) {
		service, deps := newTestDocumentService()

		_, err := service.RenderOrder(ctx, "ORD-A1B2C3", "docx")
		domainErr, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeInvalidInput, domainErr.Code)
		deps.orders.AssertNotCalled(t, "LoadOrder", mock.Anything, mock.Anything)
	})

	t.Run("renderer failure is returned without events", func(t *testing.T) {
		service, deps := newTestDocumentService()
		deps.orders.On("LoadOrder", mock.Anything, "ORD-A1B2C3").Return(createTestOrder(t, "ORD-A1B2C3"), nil)
		deps.settings.On("Get", mock.Anything).Return(&invoice.SellerSettings{}, nil)
		deps.renderer.On("Render", mock.Anything, printing.OutputFormatPDF, mock.Anything).Return(nil, errors.New("chrome crashed"))

		_, err := service.RenderOrder(ctx, "ORD-A1B2C3", "pdf")
		assert.EqualError(t, err, "chrome crashed")
		deps.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail the render", func(t *testing.T) {
		service, deps := newTestDocumentService()
		deps.orders.On("LoadOrder", mock.Anything, "ORD-A1B2C3").Return(createTestOrder(t, "ORD-A1B2C3"), nil)
		deps.settings.On("Get", mock.Anything).Return(&invoice.SellerSettings{}, nil)
		deps.renderer.On("Render", mock.Anything, printing.OutputFormatHTML, mock.Anything).
			Return(&printing.RenderedDocument{}, nil)
		deps.publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("bus closed"))

		_, err := service.RenderOrder(ctx, "ORD-A1B2C3", "html")
		assert.NoError(t, err)
	})
}

func TestDocumentService_RenderBulk(t *testing.T) {
	ctx := context.Background()

	t.Run("keeps request order and skips repeats", func(t *testing.T) {
		service, deps := newTestDocumentService()
		first := createTestOrder(t, "ORD-AAAAAA")
		second := createTestOrder(t, "ORD-BBBBBB")
		deps.orders.On("LoadOrder", mock.Anything, "ORD-BBBBBB").Return(second, nil)
		deps.orders.On("LoadOrder", mock.Anything, "ORD-AAAAAA").Return(first, nil)
		deps.orders.On("LoadOrder", mock.Anything, first.ID.String()).Return(first, nil)
		deps.settings.On("Get", mock.Anything).Return(&invoice.SellerSettings{}, nil)
		deps.renderer.On("Render", mock.Anything, printing.OutputFormatPDF, mock.MatchedBy(func(docs []printing.PrintableDocument) bool {
			return len(docs) == 2 && docs[0].OrderID == second.ID && docs[1].OrderID == first.ID
		})).Return(&printing.RenderedDocument{FileName: "orders-20261016-1504.pdf"}, nil)
		deps.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			if len(events) != 2 {
				return false
			}
			for _, e := range events {
				if evt, ok := e.(*printing.DocumentRenderedEvent); !ok || !evt.Bulk {
					return false
				}
			}
			return true
		})).Return(nil)

		out, err := service.RenderBulk(ctx, RenderBulkRequest{
			OrderIDs: []string{"ORD-BBBBBB", "ORD-AAAAAA", first.ID.String()},
			Format:   "pdf",
		})
		require.NoError(t, err)
		assert.Equal(t, "orders-20261016-1504.pdf", out.FileName)
		deps.renderer.AssertExpectations(t)
		deps.publisher.AssertExpectations(t)
	})

	t.Run("no orders", func(t *testing.T) {
		service, _ := newTestDocumentService()

		_, err := service.RenderBulk(ctx, RenderBulkRequest{})
		domainErr, ok := shared.AsDomainError(err)
		require.True(t, ok)
		assert.Equal(t, shared.CodeInvalidInput, domainErr.Code)
	})

	t.Run("missing order aborts the batch", func(t *testing.T) {
		service, deps := newTestDocumentService()
		deps.orders.On("LoadOrder", mock.Anything, "ORD-AAAAAA").Return(createTestOrder(t, "ORD-AAAAAA"), nil)
		deps.orders.On("LoadOrder", mock.Anything, "ORD-ZZZZZZ").Return(nil, shared.ErrNotFound)

		_, err := service.RenderBulk(ctx, RenderBulkRequest{OrderIDs: []string{"ORD-AAAAAA", "ORD-ZZZZZZ"}})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		deps.renderer.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDocumentService_ExportOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("exports up to the row cap", func(t *testing.T) {
		service, deps := newTestDocumentService()
		orders := []fulfillment.Order{*createTestOrder(t, "ORD-AAAAAA")}
		deps.orders.On("FindOrders", mock.Anything, orderapp.OrderListFilter{
			Status:   "Pending",
			Page:     1,
			PageSize: MaxExportRows,
		}).Return(orders, nil)
		deps.exporter.On("Orders", orders).Return([]byte("xlsx"), nil)

		file, err := service.ExportOrders(ctx, orderapp.OrderListFilter{Status: "Pending", Page: 3, PageSize: 20})
		require.NoError(t, err)

		assert.Equal(t, "orders-20261016-1504.xlsx", file.FileName)
		assert.Equal(t, XLSXContentType, file.ContentType)
		assert.Equal(t, []byte("xlsx"), file.Content)
		assert.Equal(t, 1, file.Rows)
	})

	t.Run("exporter failure is wrapped", func(t *testing.T) {
		service, deps := newTestDocumentService()
		deps.orders.On("FindOrders", mock.Anything, mock.Anything).Return([]fulfillment.Order{}, nil)
		deps.exporter.On("Orders", mock.Anything).Return(nil, errors.New("disk full"))

		_, err := service.ExportOrders(ctx, orderapp.OrderListFilter{})
		assert.ErrorContains(t, err, "failed to export orders")
	})
}

func TestDocumentService_ExportReturns(t *testing.T) {
	ctx := context.Background()
	service, deps := newTestDocumentService()

	deps.returns.On("FindReturns", mock.Anything, returnapp.ReturnListFilter{
		Type:     "Return",
		Page:     1,
		PageSize: MaxExportRows,
	}).Return([]postsale.ReturnRequest{}, nil)
	deps.exporter.On("Returns", []postsale.ReturnRequest{}).Return([]byte("xlsx"), nil)

	file, err := service.ExportReturns(ctx, returnapp.ReturnListFilter{Type: "Return"})
	require.NoError(t, err)

	assert.Equal(t, "returns-20261016-1504.xlsx", file.FileName)
	assert.Equal(t, 0, file.Rows)
}
