package document

import (
	"context"
	"fmt"
	"strings"
	"time"

	orderapp "github.com/appzetogit/indiankart-sub000/internal/application/fulfillment"
	returnapp "github.com/appzetogit/indiankart-sub000/internal/application/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxExportRows caps the rows written to one spreadsheet
const MaxExportRows = 5000

// XLSXContentType is the MIME type of exported spreadsheets
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// OrderReader loads orders for documents and exports
type OrderReader interface {
	LoadOrder(ctx context.Context, idOrDisplayID string) (*fulfillment.Order, error)
	FindOrders(ctx context.Context, filter orderapp.OrderListFilter) ([]fulfillment.Order, error)
}

// ReturnReader loads post-sale requests for exports
type ReturnReader interface {
	FindReturns(ctx context.Context, filter returnapp.ReturnListFilter) ([]postsale.ReturnRequest, error)
}

// Renderer renders printable documents to HTML or PDF
type Renderer interface {
	Render(ctx context.Context, format printing.OutputFormat, docs []printing.PrintableDocument) (*printing.RenderedDocument, error)
}

// Exporter writes spreadsheets of orders and post-sale requests
type Exporter interface {
	Orders(orders []fulfillment.Order) ([]byte, error)
	Returns(requests []postsale.ReturnRequest) ([]byte, error)
}

// DocumentService computes invoices, renders labels + invoices and exports spreadsheets
type DocumentService struct {
	orders         OrderReader
	returns        ReturnReader
	settings       *SettingsService
	calculator     *invoice.Calculator
	renderer       Renderer
	exporter       Exporter
	eventPublisher shared.EventPublisher
	now            func() time.Time
	logger         *zap.Logger
}

// NewDocumentService creates a new DocumentService using the default 18% calculator
func NewDocumentService(
	orders OrderReader,
	returns ReturnReader,
	settings *SettingsService,
	renderer Renderer,
	exporter Exporter,
	logger *zap.Logger,
) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		orders:     orders,
		returns:    returns,
		settings:   settings,
		calculator: invoice.DefaultCalculator(),
		renderer:   renderer,
		exporter:   exporter,
		now:        time.Now,
		logger:     logger,
	}
}

// SetCalculator replaces the invoice calculator (configured rate, fee and HSN code)
func (s *DocumentService) SetCalculator(calculator *invoice.Calculator) {
	if calculator != nil {
		s.calculator = calculator
	}
}

// SetEventPublisher sets the event publisher for DocumentRendered events
func (s *DocumentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ComputeInvoice computes the invoice of an order. With no item ids the whole
// order is invoiced; otherwise only the listed items.
func (s *DocumentService) ComputeInvoice(ctx context.Context, orderRef string, itemIDs []string) (*InvoiceResponse, error) {
	order, err := s.orders.LoadOrder(ctx, orderRef)
	if err != nil {
		return nil, err
	}

	ids, err := parseItemIDs(itemIDs)
	if err != nil {
		return nil, err
	}
	items, err := invoice.SelectItems(order, ids...)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.sellerSettings(ctx)
	if err != nil {
		return nil, err
	}

	resp := ToInvoiceResponse(s.calculator.Compute(order, settings, items))
	return &resp, nil
}

// RenderOrder renders the shipping label and tax invoice of one order
func (s *DocumentService) RenderOrder(ctx context.Context, orderRef, format string) (*printing.RenderedDocument, error) {
	outputFormat, err := printing.ParseOutputFormat(format)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.LoadOrder(ctx, orderRef)
	if err != nil {
		return nil, err
	}

	return s.render(ctx, outputFormat, []*fulfillment.Order{order}, false)
}

// RenderBulk renders several orders into one file, one page per order, in request order.
// Repeated references are rendered once.
func (s *DocumentService) RenderBulk(ctx context.Context, req RenderBulkRequest) (*printing.RenderedDocument, error) {
	outputFormat, err := printing.ParseOutputFormat(req.Format)
	if err != nil {
		return nil, err
	}
	if len(req.OrderIDs) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "at least one order is required")
	}

	orders := make([]*fulfillment.Order, 0, len(req.OrderIDs))
	seen := make(map[uuid.UUID]struct{}, len(req.OrderIDs))
	for _, ref := range req.OrderIDs {
		order, err := s.orders.LoadOrder(ctx, ref)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[order.ID]; dup {
			continue
		}
		seen[order.ID] = struct{}{}
		orders = append(orders, order)
	}

	return s.render(ctx, outputFormat, orders, true)
}

// ExportOrders writes the orders matching filter to an XLSX sheet
func (s *DocumentService) ExportOrders(ctx context.Context, filter orderapp.OrderListFilter) (*ExportFile, error) {
	filter.Page = 1
	filter.PageSize = MaxExportRows

	orders, err := s.orders.FindOrders(ctx, filter)
	if err != nil {
		return nil, err
	}
	content, err := s.exporter.Orders(orders)
	if err != nil {
		return nil, fmt.Errorf("failed to export orders: %w", err)
	}

	s.logger.Info("orders exported", zap.Int("rows", len(orders)))

	return &ExportFile{
		FileName:    exportFileName("orders", s.now()),
		ContentType: XLSXContentType,
		Content:     content,
		Rows:        len(orders),
	}, nil
}

// ExportReturns writes the post-sale requests matching filter to an XLSX sheet
func (s *DocumentService) ExportReturns(ctx context.Context, filter returnapp.ReturnListFilter) (*ExportFile, error) {
	filter.Page = 1
	filter.PageSize = MaxExportRows

	requests, err := s.returns.FindReturns(ctx, filter)
	if err != nil {
		return nil, err
	}
	content, err := s.exporter.Returns(requests)
	if err != nil {
		return nil, fmt.Errorf("failed to export return requests: %w", err)
	}

	s.logger.Info("return requests exported", zap.Int("rows", len(requests)))

	return &ExportFile{
		FileName:    exportFileName("returns", s.now()),
		ContentType: XLSXContentType,
		Content:     content,
		Rows:        len(requests),
	}, nil
}

func (s *DocumentService) render(ctx context.Context, format printing.OutputFormat, orders []*fulfillment.Order, bulk bool) (*printing.RenderedDocument, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "documents", "render",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentFormat, string(format)),
		telemetry.WithAttribute(telemetry.SpanAttrDocumentCount, len(orders)),
	)
	defer span.End()

	settings, err := s.settings.sellerSettings(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	printedAt := s.now()
	docs := make([]printing.PrintableDocument, len(orders))
	for i, order := range orders {
		// invoice computed once here and handed to the renderer as is
		inv := s.calculator.Compute(order, settings, nil)
		docs[i] = printing.Compose(order, inv, printedAt)
	}

	out, err := s.renderer.Render(ctx, format, docs)
	if err != nil {
		s.logger.Error("document rendering failed",
			zap.Int("orders", len(docs)),
			zap.String("format", string(format)),
			zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)

	s.publishRendered(ctx, docs, format, bulk)
	return out, nil
}

func (s *DocumentService) publishRendered(ctx context.Context, docs []printing.PrintableDocument, format printing.OutputFormat, bulk bool) {
	if s.eventPublisher == nil {
		return
	}
	events := make([]shared.DomainEvent, len(docs))
	for i, doc := range docs {
		events[i] = printing.NewDocumentRenderedEvent(doc, format, bulk)
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish document events", zap.Error(err))
	}
}

func parseItemIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		id, err := uuid.Parse(r)
		if err != nil {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "invalid item id: "+r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func exportFileName(prefix string, now time.Time) string {
	return prefix + "-" + now.Format("20060102-1504") + ".xlsx"
}
