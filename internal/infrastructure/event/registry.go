package event

import (
	"slices"
	"sync"

	"github.com/aquafarm/backend/internal/domain/shared"
)

// HandlerRegistry maps event types to handlers.
// Handlers registered without types receive every event.
type HandlerRegistry struct {
	mu       sync.RWMutex
	byType   map[string][]shared.EventHandler
	wildcard []shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{byType: make(map[string][]shared.EventHandler)}
}

// Register adds handler for eventTypes. Registering the same pair twice is a no-op.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		if !slices.Contains(r.wildcard, handler) {
			r.wildcard = append(r.wildcard, handler)
		}
		return
	}
	for _, eventType := range eventTypes {
		if !slices.Contains(r.byType[eventType], handler) {
			r.byType[eventType] = append(r.byType[eventType], handler)
		}
	}
}

// Unregister removes handler from every event type
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	isTarget := func(h shared.EventHandler) bool { return h == handler }
	r.wildcard = slices.DeleteFunc(r.wildcard, isTarget)
	for eventType, handlers := range r.byType {
		if handlers = slices.DeleteFunc(handlers, isTarget); len(handlers) == 0 {
			delete(r.byType, eventType)
		} else {
			r.byType[eventType] = handlers
		}
	}
}

// GetHandlers returns the type-specific handlers followed by the wildcard handlers.
// The returned slice is a copy.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specific := r.byType[eventType]
	out := make([]shared.EventHandler, 0, len(specific)+len(r.wildcard))
	out = append(out, specific...)
	return append(out, r.wildcard...)
}

// GetAllHandlers returns every distinct registered handler
func (r *HandlerRegistry) GetAllHandlers() []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := slices.Clone(r.wildcard)
	for _, handlers := range r.byType {
		for _, h := range handlers {
			if !slices.Contains(out, h) {
				out = append(out, h)
			}
		}
	}
	return out
}
