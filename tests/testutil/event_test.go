package testutil

import (
	"context"
	"testing"

	"github.com/aquafarm/backend/internal/domain/farm"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleEvent() *farm.SaleRecordedEvent {
	actor := farm.Actor{UserID: TestUserID(), UserName: "operador"}
	return farm.NewSaleRecordedEvent(TestTenantID(), uuid.New(), actor, 1, 40, Dec("12.5"))
}

func TestNewMockEventHandler(t *testing.T) {
	handler := NewMockEventHandler(farm.EventTypeSaleRecorded, farm.EventTypeIntakeRecorded)

	assert.Equal(t, []string{farm.EventTypeSaleRecorded, farm.EventTypeIntakeRecorded}, handler.EventTypes())
	assert.Zero(t, handler.HandledCount())
}

func TestMockEventHandler_Handle(t *testing.T) {
	handler := NewMockEventHandler()
	event := saleEvent()

	require.NoError(t, handler.Handle(context.Background(), event))

	assert.Equal(t, 1, handler.HandledCount())
	assert.Same(t, event, handler.Handled()[0])
	assert.Equal(t, []string{farm.EventTypeSaleRecorded}, handler.HandledTypes())
}

func TestMockEventHandler_SetError(t *testing.T) {
	handler := NewMockEventHandler()
	handler.SetError(assert.AnError)

	err := handler.Handle(context.Background(), saleEvent())

	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, handler.HandledCount())
}

func TestMockEventHandler_SetPanic(t *testing.T) {
	handler := NewMockEventHandler()
	handler.SetPanic("boom")

	assert.PanicsWithValue(t, "boom", func() {
		_ = handler.Handle(context.Background(), saleEvent())
	})
	assert.Equal(t, 1, handler.HandledCount())
}

func TestMockEventHandler_Reset(t *testing.T) {
	handler := NewMockEventHandler()
	handler.SetError(assert.AnError)
	_ = handler.Handle(context.Background(), saleEvent())

	handler.Reset()

	assert.Zero(t, handler.HandledCount())
	assert.NoError(t, handler.Handle(context.Background(), saleEvent()))
}
