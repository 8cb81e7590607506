package fulfillment

import (
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Requests ====================

// CustomerInput identifies the customer placing an order
type CustomerInput struct {
	ID    string `json:"id"`
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone" binding:"omitempty,max=20"`
}

// AddressInput is a postal address in requests
type AddressInput struct {
	Name       string `json:"name" binding:"required,max=200"`
	Email      string `json:"email" binding:"omitempty,email"`
	Phone      string `json:"phone" binding:"omitempty,max=20"`
	Street     string `json:"street" binding:"required,max=500"`
	City       string `json:"city" binding:"required,max=100"`
	State      string `json:"state" binding:"omitempty,max=100"`
	PostalCode string `json:"postalCode" binding:"omitempty,len=6,numeric"`
	Country    string `json:"country" binding:"omitempty,max=100"`
}

// ToAddress converts the input to a domain address
func (a AddressInput) ToAddress() valueobject.Address {
	addr := valueobject.Address{
		Name:       a.Name,
		Street:     a.Street,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}.WithContact(a.Email, a.Phone)
	if addr.Country == "" {
		addr.Country = "India"
	}
	return addr
}

// PaymentInput is the payment summary supplied when an order is placed
type PaymentInput struct {
	Method        string `json:"method" binding:"omitempty,max=50"`
	Status        string `json:"status" binding:"omitempty,oneof=Pending Paid"`
	TransactionID string `json:"transactionId" binding:"omitempty,max=100"`
}

// CreateOrderItemInput describes an order line in a create request
type CreateOrderItemInput struct {
	ProductRef string          `json:"productId" binding:"omitempty,max=100"`
	Name       string          `json:"name" binding:"required,min=1,max=200"`
	Image      string          `json:"image" binding:"omitempty,max=1000"`
	Variant    string          `json:"variant" binding:"omitempty,max=200"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	Quantity   int             `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest places a new order. DisplayID is generated when empty.
type CreateOrderRequest struct {
	DisplayID       string                 `json:"displayId" binding:"omitempty,max=20"`
	Customer        CustomerInput          `json:"customer" binding:"required"`
	ShippingAddress AddressInput           `json:"shippingAddress" binding:"required"`
	BillingAddress  *AddressInput          `json:"billingAddress"`
	Payment         PaymentInput           `json:"payment"`
	Items           []CreateOrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// SerialInput sets the serial/IMEI of one order item
type SerialInput struct {
	ItemID uuid.UUID `json:"itemId" binding:"required"`
	Serial string    `json:"serial" binding:"omitempty,max=100"`
	Type   string    `json:"type" binding:"omitempty,serial_type"`
}

// UpdateStatusRequest moves an order to a new status, optionally recording serials
type UpdateStatusRequest struct {
	Status        string        `json:"status" binding:"required,order_status"`
	Note          string        `json:"note" binding:"omitempty,max=500"`
	SerialNumbers []SerialInput `json:"serialNumbers" binding:"omitempty,dive"`
}

// UpdateSerialsRequest overwrites serials without changing status
type UpdateSerialsRequest struct {
	Serials []SerialInput `json:"serials" binding:"required,min=1,dive"`
}

// CancelOrderRequest cancels an order. A blank reason is refused by the order
// itself with EMPTY_CANCELLATION_REASON.
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search        string `form:"search"`
	Status        string `form:"status" binding:"omitempty,order_status"`
	CustomerEmail string `form:"customer_email" binding:"omitempty,email"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy       string `form:"order_by" binding:"omitempty,oneof=created_at date display_id status"`
	OrderDir      string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// toSerialUpdates converts serial inputs to domain updates
func toSerialUpdates(inputs []SerialInput) ([]fulfillment.SerialUpdate, error) {
	updates := make([]fulfillment.SerialUpdate, 0, len(inputs))
	for _, in := range inputs {
		typ, err := fulfillment.ParseSerialType(in.Type)
		if err != nil {
			return nil, err
		}
		updates = append(updates, fulfillment.SerialUpdate{ItemID: in.ItemID, Serial: in.Serial, Type: typ})
	}
	return updates, nil
}

// ==================== Responses ====================

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductRef   string          `json:"productId,omitempty"`
	Name         string          `json:"name"`
	Image        string          `json:"image,omitempty"`
	Variant      string          `json:"variant,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
	SerialNumber string          `json:"serialNumber,omitempty"`
	SerialType   string          `json:"serialType"`
}

// TimelineEntryResponse represents one status change
type TimelineEntryResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
	Note   string    `json:"note,omitempty"`
}

// PaymentResponse represents the order payment summary
type PaymentResponse struct {
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
}

// CustomerResponse represents the customer of an order
type CustomerResponse struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                 uuid.UUID               `json:"id"`
	DisplayID          string                  `json:"displayId"`
	Date               time.Time               `json:"date"`
	Customer           CustomerResponse        `json:"customer"`
	Items              []OrderItemResponse     `json:"items"`
	Status             string                  `json:"status"`
	NextStatus         string                  `json:"nextStatus,omitempty"`
	Timeline           []TimelineEntryResponse `json:"timeline"`
	Payment            PaymentResponse         `json:"payment"`
	ShippingAddress    valueobject.Address     `json:"shippingAddress"`
	BillingAddress     valueobject.Address     `json:"billingAddress"`
	ItemsTotal         decimal.Decimal         `json:"total"`
	TotalQuantity      int                     `json:"totalQuantity"`
	MissingSerials     []uuid.UUID             `json:"missingSerials"`
	DeliveredAt        *time.Time              `json:"deliveredAt,omitempty"`
	CancelledAt        *time.Time              `json:"cancelledAt,omitempty"`
	CancellationReason string                  `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time               `json:"createdAt"`
	UpdatedAt          time.Time               `json:"updatedAt"`
	Version            int                     `json:"version"`
}

// OrderListItemResponse represents an order in list responses (less detail)
type OrderListItemResponse struct {
	ID            uuid.UUID       `json:"id"`
	DisplayID     string          `json:"displayId"`
	Date          time.Time       `json:"date"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	ItemCount     int             `json:"itemCount"`
	ItemsTotal    decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"paymentMethod"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ToOrderResponse converts a domain Order to its response DTO
func ToOrderResponse(order *fulfillment.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ID:           item.ID,
			ProductRef:   item.ProductRef,
			Name:         item.Name,
			Image:        item.Image,
			Variant:      item.Variant,
			Price:        item.UnitPrice,
			Quantity:     item.Quantity,
			LineTotal:    item.LineTotal(),
			SerialNumber: item.SerialNumber,
			SerialType:   string(item.SerialType),
		}
	}

	timeline := make([]TimelineEntryResponse, len(order.Timeline))
	for i, entry := range order.Timeline {
		timeline[i] = TimelineEntryResponse{Status: string(entry.Status), Time: entry.Time, Note: entry.Note}
	}

	resp := OrderResponse{
		ID:        order.ID,
		DisplayID: order.DisplayID,
		Date:      order.Date,
		Customer: CustomerResponse{
			ID:    order.Customer.ID,
			Name:  order.Customer.Name,
			Email: order.Customer.Email,
			Phone: order.Customer.Phone,
		},
		Items:    items,
		Status:   string(order.Status),
		Timeline: timeline,
		Payment: PaymentResponse{
			Method:        order.Payment.Method,
			Status:        string(order.Payment.Status),
			TransactionID: order.Payment.TransactionID,
			PaidAt:        order.Payment.PaidAt,
		},
		ShippingAddress:    order.ShippingAddress,
		BillingAddress:     order.EffectiveBillingAddress(),
		ItemsTotal:         order.ItemsTotal(),
		TotalQuantity:      order.TotalQuantity(),
		MissingSerials:     order.MissingSerials(),
		DeliveredAt:        order.DeliveredAt,
		CancelledAt:        order.CancelledAt,
		CancellationReason: order.CancellationReason,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
		Version:            order.Version,
	}
	if next, ok := order.NextStatus(); ok {
		resp.NextStatus = string(next)
	}
	return resp
}

// ToOrderListItemResponse converts a domain Order to a list response DTO
func ToOrderListItemResponse(order *fulfillment.Order) OrderListItemResponse {
	return OrderListItemResponse{
		ID:            order.ID,
		DisplayID:     order.DisplayID,
		Date:          order.Date,
		CustomerName:  order.Customer.Name,
		CustomerEmail: order.Customer.Email,
		ItemCount:     len(order.Items),
		ItemsTotal:    order.ItemsTotal(),
		Status:        string(order.Status),
		PaymentMethod: order.Payment.Method,
		UpdatedAt:     order.UpdatedAt,
	}
}

// ToOrderListItemResponses converts a slice of orders
func ToOrderListItemResponses(orders []fulfillment.Order) []OrderListItemResponse {
	responses := make([]OrderListItemResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderListItemResponse(&orders[i])
	}
	return responses
}
