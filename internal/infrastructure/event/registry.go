package event

import (
	"sync"

	"github.com/appzetogit/indiankart-sub000/internal/domain/shared"
)

type subscription struct {
	handler    shared.EventHandler
	eventTypes map[string]struct{} // nil means every event
}

func (s *subscription) matches(eventType string) bool {
	if s.eventTypes == nil {
		return true
	}
	_, ok := s.eventTypes[eventType]
	return ok
}

// HandlerRegistry manages event handler registrations.
// Handlers are returned in the order they were first registered, and a
// handler is returned at most once per event type.
type HandlerRegistry struct {
	mu   sync.RWMutex
	subs []*subscription
}

// NewHandlerRegistry creates a new handler registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{}
}

// Register adds a handler for specific event types.
// If no event types are provided, the handler receives all events.
// Registering an existing handler widens its subscription.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub := r.find(handler)
	if sub == nil {
		sub = &subscription{handler: handler, eventTypes: map[string]struct{}{}}
		r.subs = append(r.subs, sub)
		if len(eventTypes) == 0 {
			sub.eventTypes = nil
		}
	}

	if len(eventTypes) == 0 {
		sub.eventTypes = nil
		return
	}
	if sub.eventTypes == nil {
		return
	}
	for _, eventType := range eventTypes {
		sub.eventTypes[eventType] = struct{}{}
	}
}

// Unregister removes a handler from all event types
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.subs[:0]
	for _, sub := range r.subs {
		if sub.handler != handler {
			kept = append(kept, sub)
		}
	}
	for i := len(kept); i < len(r.subs); i++ {
		r.subs[i] = nil
	}
	r.subs = kept
}

// GetHandlers returns the handlers subscribed to eventType, wildcard ones included
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]shared.EventHandler, 0, len(r.subs))
	for _, sub := range r.subs {
		if sub.matches(eventType) {
			result = append(result, sub.handler)
		}
	}
	return result
}

// GetAllHandlers returns all registered handlers
func (r *HandlerRegistry) GetAllHandlers() []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]shared.EventHandler, len(r.subs))
	for i, sub := range r.subs {
		result[i] = sub.handler
	}
	return result
}

func (r *HandlerRegistry) find(handler shared.EventHandler) *subscription {
	for _, sub := range r.subs {
		if sub.handler == handler {
			return sub
		}
	}
	return nil
}
