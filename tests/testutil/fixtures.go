// Package testutil holds shared fixtures for the fulfillment tests:
// faker-built orders that can be walked through the status machine, and a
// recorder for the domain events services publish.
package testutil

import (
	"testing"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// paymentMethods are the methods seen on storefront orders
var paymentMethods = []string{"COD", "UPI", "Card", "NetBanking"}

// OrderFactory builds realistic orders from faker data.
// A fixed seed makes every generated order reproducible.
type OrderFactory struct {
	faker *gofakeit.Faker
}

// NewOrderFactory creates an OrderFactory. Seed 0 picks a random seed.
func NewOrderFactory(seed uint64) *OrderFactory {
	return &OrderFactory{faker: gofakeit.New(seed)}
}

// OrderOption customises a generated order before it is built
type OrderOption func(*orderDraft)

type orderDraft struct {
	displayID string
	customer  fulfillment.Customer
	address   valueobject.Address
	payment   fulfillment.Payment
	items     []fulfillment.NewOrderItem
}

// WithDisplayID fixes the display ID instead of generating one
func WithDisplayID(id string) OrderOption {
	return func(s *orderDraft) { s.displayID = id }
}

// WithCustomerEmail fixes the customer's email
func WithCustomerEmail(email string) OrderOption {
	return func(s *orderDraft) { s.customer.Email = email }
}

// WithPayment sets the payment method and status
func WithPayment(method string, status fulfillment.PaymentStatus) OrderOption {
	return func(s *orderDraft) {
		s.payment.Method = method
		s.payment.Status = status
	}
}

// WithItems replaces the generated items
func WithItems(items ...fulfillment.NewOrderItem) OrderOption {
	return func(s *orderDraft) { s.items = items }
}

// Customer generates a customer reference
func (f *OrderFactory) Customer() fulfillment.Customer {
	return fulfillment.Customer{
		ID:    f.faker.UUID(),
		Name:  f.faker.Name(),
		Email: f.faker.Email(),
		Phone: f.faker.Numerify("9#########"),
	}
}

// Address generates an Indian shipping address with a six digit PIN code
func (f *OrderFactory) Address(name string) valueobject.Address {
	return valueobject.Address{
		Name:       name,
		Phone:      f.faker.Numerify("9#########"),
		Street:     f.faker.Street(),
		City:       f.faker.City(),
		State:      f.faker.State(),
		PostalCode: f.faker.Numerify("4#####"),
		Country:    "India",
	}
}

// Item generates an order line priced between 199 and 49999 rupees
func (f *OrderFactory) Item() fulfillment.NewOrderItem {
	return fulfillment.NewOrderItem{
		ProductRef: f.faker.UUID(),
		Name:       f.faker.ProductName(),
		Image:      f.faker.URL(),
		Variant:    f.faker.Color(),
		UnitPrice:  decimal.NewFromFloat(f.faker.Price(199, 49999)).Round(2),
		Quantity:   f.faker.IntRange(1, 3),
	}
}

// Serial generates an IMEI-shaped serial
func (f *OrderFactory) Serial() string {
	return f.faker.Numerify("35#############")
}

// Order builds a pending order with one to three items
func (f *OrderFactory) Order(t *testing.T, opts ...OrderOption) *fulfillment.Order {
	t.Helper()

	draft := orderDraft{
		displayID: fulfillment.NewDisplayID(),
		customer:  f.Customer(),
		payment: fulfillment.Payment{
			Method: f.faker.RandomString(paymentMethods),
			Status: fulfillment.PaymentStatusPending,
		},
	}
	draft.address = f.Address(draft.customer.Name)
	n := f.faker.IntRange(1, 3)
	for range n {
		draft.items = append(draft.items, f.Item())
	}
	for _, opt := range opts {
		opt(&draft)
	}

	order, err := fulfillment.NewOrder(draft.displayID, draft.customer, draft.address, draft.payment, draft.items)
	require.NoError(t, err, "Failed to build order fixture")
	order.ClearDomainEvents()
	return order
}

// AdvanceOrder walks order forward one status at a time until it reaches
// target, assigning generated serials to every item on the way into Packed.
func (f *OrderFactory) AdvanceOrder(t *testing.T, order *fulfillment.Order, target fulfillment.OrderStatus) {
	t.Helper()

	for order.Status != target {
		next, ok := order.NextStatus()
		require.True(t, ok, "Order %s cannot advance past %s", order.DisplayID, order.Status)

		var updates []fulfillment.SerialUpdate
		if next == fulfillment.OrderStatusPacked {
			for _, item := range order.Items {
				if !item.HasSerial() {
					updates = append(updates, fulfillment.SerialUpdate{
						ItemID: item.ID,
						Serial: f.Serial(),
						Type:   fulfillment.SerialTypeIMEI,
					})
				}
			}
		}
		require.NoError(t, order.Transition(next, "", updates))
	}
	order.ClearDomainEvents()
}
