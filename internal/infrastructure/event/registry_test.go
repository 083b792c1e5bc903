package event

import (
	"testing"

	"github.com/aquafarm/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHandlerRegistry_TypedAndWildcard(t *testing.T) {
	registry := NewHandlerRegistry()
	typed := testutil.NewMockEventHandler()
	wildcard := testutil.NewMockEventHandler()

	registry.Register(typed, "LotCreated", "LotClosed")
	registry.Register(wildcard)

	assert.Equal(t, []any{typed, wildcard}, toAny(registry.GetHandlers("LotCreated")))
	assert.Equal(t, []any{wildcard}, toAny(registry.GetHandlers("SaleRecorded")))
}

func TestHandlerRegistry_DuplicateRegistrationIgnored(t *testing.T) {
	registry := NewHandlerRegistry()
	handler := testutil.NewMockEventHandler()

	registry.Register(handler, "LotCreated")
	registry.Register(handler, "LotCreated")
	registry.Register(handler)
	registry.Register(handler)

	assert.Len(t, registry.GetHandlers("LotCreated"), 2)
	assert.Len(t, registry.GetAllHandlers(), 1)
}

func TestHandlerRegistry_Unregister(t *testing.T) {
	registry := NewHandlerRegistry()
	keep := testutil.NewMockEventHandler()
	drop := testutil.NewMockEventHandler()
	registry.Register(keep, "LotCreated")
	registry.Register(drop, "LotCreated", "LotClosed")
	registry.Register(drop)

	registry.Unregister(drop)

	assert.Equal(t, []any{keep}, toAny(registry.GetHandlers("LotCreated")))
	assert.Empty(t, registry.GetHandlers("LotClosed"))
	assert.Len(t, registry.GetAllHandlers(), 1)
}

func TestHandlerRegistry_GetHandlersReturnsCopy(t *testing.T) {
	registry := NewHandlerRegistry()
	registry.Register(testutil.NewMockEventHandler(), "LotCreated")

	handlers := registry.GetHandlers("LotCreated")
	handlers[0] = nil

	assert.NotNil(t, registry.GetHandlers("LotCreated")[0])
}

func toAny[T any](in []T) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
