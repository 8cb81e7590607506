package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/printing"
	"github.com/appzetogit/indiankart-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newEventTestOrder(t *testing.T) *fulfillment.Order {
	t.Helper()
	order, err := fulfillment.NewOrder("ORD-EVT234",
		fulfillment.Customer{ID: "cust-1", Name: "Asha", Email: "asha@example.com"},
		valueobject.Address{Name: "Asha", Street: "12 MG Road", City: "Bengaluru", State: "Karnataka", PostalCode: "560001", Country: "India"},
		fulfillment.Payment{Method: "Online", Status: fulfillment.PaymentStatusPaid},
		[]fulfillment.NewOrderItem{{Name: "Phone", UnitPrice: decimal.NewFromInt(11800), Quantity: 1}})
	require.NoError(t, err)
	return order
}

type fakeRecorder struct {
	calls []string
}

func (r *fakeRecorder) OrderPlaced(method string)         { r.calls = append(r.calls, "placed:"+method) }
func (r *fakeRecorder) OrderTransitioned(from, to string) { r.calls = append(r.calls, "order:"+from+">"+to) }
func (r *fakeRecorder) OrderCancelled(from string, prepaid bool) {
	if prepaid {
		r.calls = append(r.calls, "cancelled:"+from+":prepaid")
		return
	}
	r.calls = append(r.calls, "cancelled:"+from)
}
func (r *fakeRecorder) SerialsAssigned(typ string, n int) {
	r.calls = append(r.calls, "serials:"+typ+":"+string(rune('0'+n)))
}
func (r *fakeRecorder) RequestRaised(typ string)           { r.calls = append(r.calls, "raised:"+typ) }
func (r *fakeRecorder) RequestTransitioned(typ, to string) { r.calls = append(r.calls, "request:"+typ+">"+to) }
func (r *fakeRecorder) DocumentRendered(format string, bulk bool) {
	if bulk {
		r.calls = append(r.calls, "document:"+format+":bulk")
		return
	}
	r.calls = append(r.calls, "document:"+format)
}

func TestMetricsHandler_OrderLifecycle(t *testing.T) {
	recorder := &fakeRecorder{}
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewMetricsHandler(recorder))
	ctx := context.Background()

	order := newEventTestOrder(t)
	require.NoError(t, order.Transition(fulfillment.OrderStatusPacked, "", []fulfillment.SerialUpdate{
		{ItemID: order.Items[0].ID, Serial: "356938035643809", Type: fulfillment.SerialTypeIMEI},
	}))
	require.NoError(t, order.Cancel("customer changed mind"))
	require.NoError(t, bus.Publish(ctx, order.GetDomainEvents()...))

	assert.Equal(t, []string{
		"placed:Online",
		"serials:IMEI:1",
		"order:Pending>Packed",
		"order:Packed>Cancelled",
		"cancelled:Packed:prepaid",
	}, recorder.calls)
}

func TestMetricsHandler_PostSaleAndDocuments(t *testing.T) {
	recorder := &fakeRecorder{}
	handler := NewMetricsHandler(recorder)
	ctx := context.Background()

	order := newEventTestOrder(t)
	request, err := postsale.NewCancellationRequest(order, "", "")
	require.NoError(t, err)
	require.NoError(t, request.Advance(postsale.ReturnStatusApproved, ""))
	for _, e := range request.GetDomainEvents() {
		require.NoError(t, handler.Handle(ctx, e))
	}

	doc := printing.PrintableDocument{OrderID: order.ID, OrderDisplayID: order.DisplayID}
	require.NoError(t, handler.Handle(ctx, printing.NewDocumentRenderedEvent(doc, printing.OutputFormatPDF, true)))

	assert.Equal(t, []string{
		"raised:Cancellation",
		"request:Cancellation>Approved",
		"document:pdf:bulk",
	}, recorder.calls)
}

func TestMetricsHandler_IgnoresUnknownEvents(t *testing.T) {
	recorder := &fakeRecorder{}
	handler := NewMetricsHandler(recorder)

	require.NoError(t, handler.Handle(context.Background(), newStubEvent("SomethingElse")))
	assert.Empty(t, recorder.calls)
	assert.Len(t, handler.EventTypes(), 7)
}

func TestAuditHandler_LogsPayload(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewAuditHandler(serializer, zap.New(core)))

	order := newEventTestOrder(t)
	require.NoError(t, bus.Publish(context.Background(), order.GetDomainEvents()...))

	entries := logs.FilterMessage("domain event").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "OrderPlaced", fields["event_type"])
	assert.Equal(t, "Order", fields["aggregate_type"])
	assert.Equal(t, order.ID.String(), fields["aggregate_id"])
	assert.IsType(t, time.Time{}, fields["occurred_at"])

	payload, ok := fields["payload"].(json.RawMessage)
	require.True(t, ok)
	assert.Contains(t, string(payload), `"display_id":"ORD-EVT234"`)
}

func TestAuditHandler_UnknownEventFails(t *testing.T) {
	handler := NewAuditHandler(NewEventSerializer(), nil)

	err := handler.Handle(context.Background(), newStubEvent("Unregistered"))
	assert.Error(t, err)
	assert.Nil(t, handler.EventTypes())
}
