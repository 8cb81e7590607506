package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const (
	statusChanged = "OrderStatusChanged"
	serialsAdded  = "OrderSerialsAssigned"
)

type stubEvent struct {
	shared.BaseDomainEvent
}

func newStubEvent(eventType string) *stubEvent {
	return &stubEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", uuid.New())}
}

// spyHandler records the event types it receives, in order
type spyHandler struct {
	types []string
	err   error

	mu   sync.Mutex
	seen []string
}

func spy(types ...string) *spyHandler { return &spyHandler{types: types} }

func (h *spyHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, event.EventType())
	return h.err
}

func (h *spyHandler) EventTypes() []string { return h.types }

func (h *spyHandler) received() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.seen...)
}

type panicHandler struct{}

func (panicHandler) Handle(context.Context, shared.DomainEvent) error { panic("boom") }
func (panicHandler) EventTypes() []string                             { return nil }

func TestInMemoryEventBus_PublishRouting(t *testing.T) {
	tests := []struct {
		name      string
		subscribe []string // nil subscribes with the handler's own types
		own       []string
		publish   []string
		want      []string
	}{
		{"exact type", []string{statusChanged}, nil, []string{statusChanged}, []string{statusChanged}},
		{"several events in one call", []string{statusChanged}, nil, []string{statusChanged, serialsAdded, statusChanged}, []string{statusChanged, statusChanged}},
		{"own event types", nil, []string{serialsAdded}, []string{statusChanged, serialsAdded}, []string{serialsAdded}},
		{"wildcard", nil, nil, []string{statusChanged, "ReturnStatusChanged"}, []string{statusChanged, "ReturnStatusChanged"}},
		{"no match", []string{"DocumentRendered"}, nil, []string{statusChanged}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bus := NewInMemoryEventBus(zap.NewNop())
			h := spy(tt.own...)
			bus.Subscribe(h, tt.subscribe...)

			events := make([]shared.DomainEvent, 0, len(tt.publish))
			for _, typ := range tt.publish {
				events = append(events, newStubEvent(typ))
			}
			require.NoError(t, bus.Publish(context.Background(), events...))
			assert.Equal(t, tt.want, h.received())
		})
	}
}

func TestInMemoryEventBus_FailingHandlersAreContained(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := spy(statusChanged)
	failing.err = errors.New("metrics backend down")
	after := spy(statusChanged)
	bus.Subscribe(failing)
	bus.Subscribe(panicHandler{}, statusChanged)
	bus.Subscribe(after)

	event := newStubEvent(statusChanged)
	require.NoError(t, bus.Publish(context.Background(), event, nil))

	assert.Len(t, failing.received(), 1)
	assert.Len(t, after.received(), 1)

	entries := logs.FilterMessage("handler failed to process event").All()
	require.Len(t, entries, 2)
	assert.Equal(t, event.EventID().String(), entries[0].ContextMap()["event_id"])
	assert.Contains(t, entries[1].ContextMap()["error"], "panicked: boom")
}

func TestInMemoryEventBus_RegistrationOrder(t *testing.T) {
	bus := NewInMemoryEventBus(nil)

	var order []string
	record := func(name string) shared.EventHandler {
		return &funcHandler{fn: func() { order = append(order, name) }}
	}
	bus.Subscribe(record("audit"))
	bus.Subscribe(record("metrics"), statusChanged)
	bus.Subscribe(record("late"))

	require.NoError(t, bus.Publish(context.Background(), newStubEvent(statusChanged)))
	assert.Equal(t, []string{"audit", "metrics", "late"}, order)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	h := spy(statusChanged)
	bus.Subscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newStubEvent(statusChanged)))
	bus.Unsubscribe(h)
	require.NoError(t, bus.Publish(context.Background(), newStubEvent(statusChanged)))

	assert.Len(t, h.received(), 1)
}

func TestInMemoryEventBus_Lifecycle(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	assert.False(t, bus.Running())

	require.NoError(t, bus.Start(context.Background()))
	assert.True(t, bus.Running())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.Running())
}

func TestInMemoryEventBus_StopWaitsForInflight(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	release := make(chan struct{})
	started := make(chan struct{})
	bus.Subscribe(&funcHandler{fn: func() {
		close(started)
		<-release
	}})

	go func() { _ = bus.Publish(context.Background(), newStubEvent(statusChanged)) }()
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, bus.Stop(context.Background()))
}

// funcHandler adapts a func to a wildcard EventHandler. It is used through a
// pointer because the registry compares handlers.
type funcHandler struct{ fn func() }

func (f *funcHandler) Handle(context.Context, shared.DomainEvent) error {
	f.fn()
	return nil
}

func (f *funcHandler) EventTypes() []string { return nil }
