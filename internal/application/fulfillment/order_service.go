package fulfillment

import (
	"context"
	"strings"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxDisplayIDAttempts bounds display id collision retries
const maxDisplayIDAttempts = 5

// OrderService handles order fulfillment operations
type OrderService struct {
	orderRepo      fulfillment.OrderRepository
	eventPublisher shared.EventPublisher
	observer       shared.RejectionObserver
	logger         *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo fulfillment.OrderRepository, logger *zap.Logger) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetRejectionObserver sets the observer told about refused commands
func (s *OrderService) SetRejectionObserver(observer shared.RejectionObserver) {
	s.observer = observer
}

// GetOrder retrieves an order by uuid or display id
func (s *OrderService) GetOrder(ctx context.Context, idOrDisplayID string) (*OrderResponse, error) {
	order, err := s.load(ctx, idOrDisplayID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// LoadOrder returns the domain order for other application services
func (s *OrderService) LoadOrder(ctx context.Context, idOrDisplayID string) (*fulfillment.Order, error) {
	return s.load(ctx, idOrDisplayID)
}

// ListOrders retrieves a list of orders with filtering and pagination
func (s *OrderService) ListOrders(ctx context.Context, filter OrderListFilter) ([]OrderListItemResponse, int64, error) {
	domainFilter := toDomainFilter(filter)

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToOrderListItemResponses(orders), total, nil
}

// FindOrders returns domain orders matching filter, used by exports
func (s *OrderService) FindOrders(ctx context.Context, filter OrderListFilter) ([]fulfillment.Order, error) {
	return s.orderRepo.FindAll(ctx, toDomainFilter(filter))
}

// CreateOrder places a new order in Pending status
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	displayID, err := s.displayID(ctx, req.DisplayID)
	if err != nil {
		return nil, err
	}

	items := make([]fulfillment.NewOrderItem, len(req.Items))
	for i, in := range req.Items {
		items[i] = fulfillment.NewOrderItem{
			ProductRef: in.ProductRef,
			Name:       in.Name,
			Image:      in.Image,
			Variant:    in.Variant,
			UnitPrice:  in.Price,
			Quantity:   in.Quantity,
		}
	}

	customer := fulfillment.Customer{
		ID:    req.Customer.ID,
		Name:  strings.TrimSpace(req.Customer.Name),
		Email: strings.TrimSpace(req.Customer.Email),
		Phone: strings.TrimSpace(req.Customer.Phone),
	}
	payment := fulfillment.Payment{
		Method:        req.Payment.Method,
		Status:        fulfillment.PaymentStatus(req.Payment.Status),
		TransactionID: req.Payment.TransactionID,
	}

	order, err := fulfillment.NewOrder(displayID, customer, req.ShippingAddress.ToAddress(), payment, items)
	if err != nil {
		return nil, err
	}
	if req.BillingAddress != nil {
		order.BillingAddress = req.BillingAddress.ToAddress()
	}

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateStatus moves an order to a new status. Serials supplied with the
// request are recorded in the same step, so an order can be packed in one call.
func (s *OrderService) UpdateStatus(ctx context.Context, idOrDisplayID string, req UpdateStatusRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "orders", "update_status",
		telemetry.WithAttribute(telemetry.SpanAttrTargetStatus, req.Status))
	defer span.End()

	order, err := s.load(ctx, idOrDisplayID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID,
		telemetry.SpanAttrOrderDisplayID, order.DisplayID,
		telemetry.SpanAttrOrderStatus, string(order.Status),
		telemetry.SpanAttrItemCount, len(order.Items),
	)

	updates, err := toSerialUpdates(req.SerialNumbers)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	for _, u := range updates {
		telemetry.AddEvent(span, "serial_supplied",
			telemetry.SpanAttrItemID, u.ItemID,
			telemetry.SpanAttrSerialType, string(u.Type),
		)
	}

	if err := order.Transition(fulfillment.OrderStatus(req.Status), req.Note, updates); err != nil {
		s.reject(order, err)
		telemetry.RecordError(span, err)
		return nil, err
	}

	if err := s.save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)

	response := ToOrderResponse(order)
	return &response, nil
}

// UpdateSerials overwrites item serials without changing status
func (s *OrderService) UpdateSerials(ctx context.Context, idOrDisplayID string, req UpdateSerialsRequest) (*OrderResponse, error) {
	order, err := s.load(ctx, idOrDisplayID)
	if err != nil {
		return nil, err
	}

	updates, err := toSerialUpdates(req.Serials)
	if err != nil {
		return nil, err
	}

	if err := order.AssignSerials(updates); err != nil {
		s.reject(order, err)
		return nil, err
	}

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// CancelOrder cancels an order with a mandatory reason
func (s *OrderService) CancelOrder(ctx context.Context, idOrDisplayID string, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.load(ctx, idOrDisplayID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		s.reject(order, err)
		return nil, err
	}

	if err := s.save(ctx, order); err != nil {
		return nil, err
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// CancelForRequest cancels the order referenced by an approved cancellation request.
// An order that is already cancelled is left as is.
func (s *OrderService) CancelForRequest(ctx context.Context, orderID uuid.UUID, reason string) error {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status == fulfillment.OrderStatusCancelled {
		return nil
	}

	if err := order.Cancel(reason); err != nil {
		s.reject(order, err)
		return err
	}
	return s.save(ctx, order)
}

func (s *OrderService) load(ctx context.Context, idOrDisplayID string) (*fulfillment.Order, error) {
	ref := strings.TrimSpace(idOrDisplayID)
	if id, err := uuid.Parse(ref); err == nil {
		return s.orderRepo.FindByID(ctx, id)
	}
	if ref == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "order id is required")
	}
	return s.orderRepo.FindByDisplayID(ctx, strings.ToUpper(ref))
}

func (s *OrderService) displayID(ctx context.Context, requested string) (string, error) {
	if requested = strings.ToUpper(strings.TrimSpace(requested)); requested != "" {
		exists, err := s.orderRepo.ExistsByDisplayID(ctx, requested)
		if err != nil {
			return "", err
		}
		if exists {
			return "", shared.NewDomainError("ALREADY_EXISTS", "Order with this display id already exists")
		}
		return requested, nil
	}

	for i := 0; i < maxDisplayIDAttempts; i++ {
		candidate := fulfillment.NewDisplayID()
		exists, err := s.orderRepo.ExistsByDisplayID(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", shared.NewDomainError("DISPLAY_ID_EXHAUSTED", "Could not allocate a unique display id")
}

// save persists the order, then publishes its events. Event delivery failures
// are logged and never fail the command.
func (s *OrderService) save(ctx context.Context, order *fulfillment.Order) error {
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return err
	}

	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return nil
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.String("display_id", order.DisplayID),
			zap.Error(err))
	}
	return nil
}

func (s *OrderService) reject(order *fulfillment.Order, err error) {
	s.logger.Debug("order command rejected",
		zap.String("display_id", order.DisplayID),
		zap.String("status", order.Status.String()),
		zap.Error(err))
	shared.ObserveError(s.observer, fulfillment.AggregateTypeOrder, err)
}

func toDomainFilter(filter OrderListFilter) fulfillment.OrderFilter {
	base := shared.DefaultFilter()
	if filter.Page > 0 {
		base.Page = filter.Page
	}
	if filter.PageSize > 0 {
		base.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		base.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		base.OrderDir = filter.OrderDir
	}
	base.Search = strings.TrimSpace(filter.Search)

	return fulfillment.OrderFilter{
		Filter:        base,
		Status:        fulfillment.OrderStatus(filter.Status),
		CustomerEmail: strings.TrimSpace(filter.CustomerEmail),
	}
}
