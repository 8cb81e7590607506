package models

import (
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderTimelineEntry is the stored form of one order status change
type OrderTimelineEntry struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
	Note   string    `json:"note,omitempty"`
}

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	DisplayID          string               `gorm:"type:varchar(32);not null;uniqueIndex"`
	Date               time.Time            `gorm:"not null;index"`
	CustomerRef        string               `gorm:"type:varchar(64);index"`
	CustomerName       string               `gorm:"type:varchar(200);not null"`
	CustomerEmail      string               `gorm:"type:varchar(200);index"`
	CustomerPhone      string               `gorm:"type:varchar(30)"`
	Items              []OrderItemModel     `gorm:"foreignKey:OrderID;references:ID"`
	Status             string               `gorm:"type:varchar(20);not null;default:'Pending';index"`
	Timeline           []OrderTimelineEntry `gorm:"type:jsonb;serializer:json"`
	PaymentMethod      string               `gorm:"type:varchar(30);not null;default:'COD'"`
	PaymentStatus      string               `gorm:"type:varchar(20);not null;default:'Pending'"`
	TransactionID      string               `gorm:"type:varchar(100)"`
	PaidAt             *time.Time
	ShippingAddress    valueobject.Address `gorm:"type:jsonb;not null"`
	BillingAddress     valueobject.Address `gorm:"type:jsonb"`
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
	CancellationReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *fulfillment.Order {
	order := &fulfillment.Order{
		BaseAggregateRoot: m.ToAggregateRoot(),
		DisplayID:         m.DisplayID,
		Date:              m.Date,
		Customer: fulfillment.Customer{
			ID:    m.CustomerRef,
			Name:  m.CustomerName,
			Email: m.CustomerEmail,
			Phone: m.CustomerPhone,
		},
		Status: fulfillment.OrderStatus(m.Status),
		Payment: fulfillment.Payment{
			Method:        m.PaymentMethod,
			Status:        fulfillment.PaymentStatus(m.PaymentStatus),
			TransactionID: m.TransactionID,
			PaidAt:        m.PaidAt,
		},
		ShippingAddress:    m.ShippingAddress,
		BillingAddress:     m.BillingAddress,
		DeliveredAt:        m.DeliveredAt,
		CancelledAt:        m.CancelledAt,
		CancellationReason: m.CancellationReason,
		Items:              make([]fulfillment.OrderItem, len(m.Items)),
		Timeline:           make([]fulfillment.TimelineEntry, len(m.Timeline)),
	}
	for i := range m.Items {
		order.Items[i] = m.Items[i].ToDomain()
	}
	for i, e := range m.Timeline {
		order.Timeline[i] = fulfillment.TimelineEntry{
			Status: fulfillment.OrderStatus(e.Status),
			Time:   e.Time,
			Note:   e.Note,
		}
	}
	return order
}

// FromDomain populates the persistence model from a domain Order.
// Items keep their position so the stored order is the placed order.
func (m *OrderModel) FromDomain(o *fulfillment.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.DisplayID = o.DisplayID
	m.Date = o.Date
	m.CustomerRef = o.Customer.ID
	m.CustomerName = o.Customer.Name
	m.CustomerEmail = o.Customer.Email
	m.CustomerPhone = o.Customer.Phone
	m.Status = string(o.Status)
	m.PaymentMethod = o.Payment.Method
	m.PaymentStatus = string(o.Payment.Status)
	m.TransactionID = o.Payment.TransactionID
	m.PaidAt = o.Payment.PaidAt
	m.ShippingAddress = o.ShippingAddress
	m.BillingAddress = o.BillingAddress
	m.DeliveredAt = o.DeliveredAt
	m.CancelledAt = o.CancelledAt
	m.CancellationReason = o.CancellationReason

	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(o.ID, i, item)
	}
	m.Timeline = make([]OrderTimelineEntry, len(o.Timeline))
	for i, e := range o.Timeline {
		m.Timeline[i] = OrderTimelineEntry{Status: string(e.Status), Time: e.Time, Note: e.Note}
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *fulfillment.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for an order line and its serial record.
type OrderItemModel struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position     int             `gorm:"not null;default:0"`
	ProductRef   string          `gorm:"type:varchar(64)"`
	Name         string          `gorm:"type:varchar(300);not null"`
	Image        string          `gorm:"type:varchar(1000)"`
	Variant      string          `gorm:"type:varchar(200)"`
	UnitPrice    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity     int             `gorm:"not null"`
	SerialNumber string          `gorm:"type:varchar(100);index"`
	SerialType   string          `gorm:"type:varchar(20);not null;default:'Serial Number'"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem.
func (m *OrderItemModel) ToDomain() fulfillment.OrderItem {
	return fulfillment.OrderItem{
		ID:           m.ID,
		OrderID:      m.OrderID,
		ProductRef:   m.ProductRef,
		Name:         m.Name,
		Image:        m.Image,
		Variant:      m.Variant,
		UnitPrice:    m.UnitPrice,
		Quantity:     m.Quantity,
		SerialNumber: m.SerialNumber,
		SerialType:   fulfillment.SerialType(m.SerialType),
	}
}

// OrderItemModelFromDomain creates the persistence model of the item at position
func OrderItemModelFromDomain(orderID uuid.UUID, position int, item fulfillment.OrderItem) OrderItemModel {
	return OrderItemModel{
		ID:           item.ID,
		OrderID:      orderID,
		Position:     position,
		ProductRef:   item.ProductRef,
		Name:         item.Name,
		Image:        item.Image,
		Variant:      item.Variant,
		UnitPrice:    item.UnitPrice,
		Quantity:     item.Quantity,
		SerialNumber: item.SerialNumber,
		SerialType:   string(item.SerialType),
	}
}
