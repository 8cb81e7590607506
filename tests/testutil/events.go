package testutil

import (
	"context"
	"sync"

	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
)

// EventRecorder is an event handler that keeps every event it receives
type EventRecorder struct {
	mu         sync.Mutex
	eventTypes []string
	events     []shared.DomainEvent
}

// NewEventRecorder creates a recorder for the given event types; none means all
func NewEventRecorder(eventTypes ...string) *EventRecorder {
	return &EventRecorder{eventTypes: eventTypes}
}

// EventTypes implements shared.EventHandler
func (r *EventRecorder) EventTypes() []string {
	return r.eventTypes
}

// Handle implements shared.EventHandler
func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// Events returns a copy of the recorded events in arrival order
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.DomainEvent(nil), r.events...)
}

// Types returns the recorded event types in arrival order
func (r *EventRecorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, len(r.events))
	for i, e := range r.events {
		types[i] = e.EventType()
	}
	return types
}

// OfType returns the recorded events with the given type
func (r *EventRecorder) OfType(eventType string) []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range r.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets everything recorded so far
func (r *EventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
