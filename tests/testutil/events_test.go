package testutil

import (
	"context"
	"testing"

	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRecorder(t *testing.T) {
	order, err := fulfillment.NewOrder("ORD-EVT123",
		fulfillment.Customer{Name: "Asha"},
		NewOrderFactory(1).Address("Asha"),
		fulfillment.Payment{},
		[]fulfillment.NewOrderItem{NewOrderFactory(1).Item()})
	require.NoError(t, err)
	require.NoError(t, order.Transition(fulfillment.OrderStatusConfirmed, "", nil))

	recorder := NewEventRecorder()
	for _, e := range order.GetDomainEvents() {
		require.NoError(t, recorder.Handle(context.Background(), e))
	}

	assert.Empty(t, recorder.EventTypes())
	assert.Equal(t, []string{fulfillment.EventTypeOrderPlaced, fulfillment.EventTypeOrderStatusChanged}, recorder.Types())
	assert.Len(t, recorder.OfType(fulfillment.EventTypeOrderStatusChanged), 1)
	assert.Len(t, recorder.Events(), 2)

	recorder.Reset()
	assert.Empty(t, recorder.Events())
}
