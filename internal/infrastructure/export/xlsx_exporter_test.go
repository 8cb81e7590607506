package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func createTestOrder(t *testing.T) *fulfillment.Order {
	t.Helper()
	shipping := valueobject.Address{
		Name:       "Arjun Rao",
		Phone:      "9876543210",
		Street:     "22 MG Road",
		City:       "Bengaluru",
		State:      "Karnataka",
		PostalCode: "560001",
	}
	order, err := fulfillment.NewOrder("ORD-XP7K2M",
		fulfillment.Customer{Name: "Arjun Rao", Email: "arjun@example.com"},
		shipping,
		fulfillment.Payment{Method: "COD"},
		[]fulfillment.NewOrderItem{
			{Name: "Phone X", UnitPrice: decimal.NewFromInt(2000), Quantity: 1},
			{Name: "Case", UnitPrice: decimal.RequireFromString("249.50"), Quantity: 2},
		})
	require.NoError(t, err)
	order.Date = time.Date(2026, 10, 12, 9, 30, 0, 0, time.UTC)
	order.Items[0].SerialNumber = "356938035643809"
	return order
}

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestXLSXExporter_Orders(t *testing.T) {
	exporter := NewXLSXExporter()
	order := createTestOrder(t)

	data, err := exporter.Orders([]fulfillment.Order{*order})
	require.NoError(t, err)

	rows := readRows(t, data, OrdersSheet)
	require.Len(t, rows, 2)
	assert.Equal(t, orderHeaders, rows[0])

	row := rows[1]
	assert.Equal(t, "ORD-XP7K2M", row[0])
	assert.Equal(t, "12/10/2026 09:30", row[1])
	assert.Equal(t, "Arjun Rao", row[2])
	assert.Equal(t, "arjun@example.com", row[3])
	assert.Equal(t, "9876543210", row[4])
	assert.Equal(t, "Bengaluru", row[5])
	assert.Equal(t, "560001", row[6])
	assert.Equal(t, "Pending", row[7])
	assert.Equal(t, "COD", row[8])
	assert.Equal(t, "Phone X x1, Case x2", row[9])
	assert.Equal(t, "3", row[10])
	assert.Equal(t, "356938035643809", row[11])
	assert.Equal(t, "2499.00", row[12])
}

func TestXLSXExporter_OrdersEmpty(t *testing.T) {
	data, err := NewXLSXExporter().Orders(nil)
	require.NoError(t, err)

	rows := readRows(t, data, OrdersSheet)
	require.Len(t, rows, 1, "header only")
}

func TestXLSXExporter_WithLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	exporter := NewXLSXExporter(WithLocation(ist))

	data, err := exporter.Orders([]fulfillment.Order{*createTestOrder(t)})
	require.NoError(t, err)

	rows := readRows(t, data, OrdersSheet)
	assert.Equal(t, "12/10/2026 15:00", rows[1][1])
}

func TestXLSXExporter_Returns(t *testing.T) {
	order := createTestOrder(t)
	req, err := postsale.NewReturnRequest(order, order.Items[0].ID, postsale.RequestTypeReturn, "Defective", "Screen flickers", nil)
	require.NoError(t, err)
	req.Date = time.Date(2026, 10, 14, 18, 5, 0, 0, time.UTC)

	data, err := NewXLSXExporter().Returns([]postsale.ReturnRequest{*req})
	require.NoError(t, err)

	rows := readRows(t, data, ReturnsSheet)
	require.Len(t, rows, 2)
	assert.Equal(t, returnHeaders, rows[0])

	row := rows[1]
	assert.Equal(t, req.RequestNumber, row[0])
	assert.Equal(t, "Return", row[1])
	assert.Equal(t, "ORD-XP7K2M", row[2])
	assert.Equal(t, "Phone X", row[4])
	assert.Equal(t, "2000.00", row[5])
	assert.Equal(t, "Defective", row[6])
	assert.Equal(t, "Screen flickers", row[7])
	assert.Equal(t, "Pending", row[8])
	assert.Equal(t, "14/10/2026 18:05", row[9])
	assert.Equal(t, "Return request initiated", row[10])
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, "COD", paymentLabel(fulfillment.Payment{Method: "COD"}))
	assert.Equal(t, "Prepaid (COD)", paymentLabel(fulfillment.Payment{Method: "COD", Status: fulfillment.PaymentStatusPaid}))
	assert.Equal(t, "Prepaid (Razorpay)", paymentLabel(fulfillment.Payment{Method: "Razorpay"}))
}
