package testutil

import (
	"context"
	"sync"

	"github.com/aquafarm/backend/internal/domain/shared"
)

// MockEventHandler records every event it receives
type MockEventHandler struct {
	mu         sync.Mutex
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	panicWith  any
}

// NewMockEventHandler creates a handler subscribed to eventTypes.
// With no types it receives every event.
func NewMockEventHandler(eventTypes ...string) *MockEventHandler {
	return &MockEventHandler{eventTypes: eventTypes}
}

// EventTypes returns the subscribed event types
func (h *MockEventHandler) EventTypes() []string {
	return h.eventTypes
}

// Handle records event, then panics or fails when configured to
func (h *MockEventHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	err, p := h.err, h.panicWith
	h.mu.Unlock()
	if p != nil {
		panic(p)
	}
	return err
}

// Handled returns a copy of the recorded events
func (h *MockEventHandler) Handled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]shared.DomainEvent, len(h.handled))
	copy(out, h.handled)
	return out
}

// HandledCount returns the number of recorded events
func (h *MockEventHandler) HandledCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

// HandledTypes returns the event types in delivery order
func (h *MockEventHandler) HandledTypes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	types := make([]string, 0, len(h.handled))
	for _, e := range h.handled {
		types = append(types, e.EventType())
	}
	return types
}

// SetError makes Handle return err
func (h *MockEventHandler) SetError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

// SetPanic makes Handle panic with v
func (h *MockEventHandler) SetPanic(v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panicWith = v
}

// Reset clears recorded events and configured failures
func (h *MockEventHandler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = nil
	h.err = nil
	h.panicWith = nil
}

var _ shared.EventHandler = (*MockEventHandler)(nil)
