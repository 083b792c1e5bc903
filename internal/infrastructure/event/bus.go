// Package event delivers committed farm domain events to in-process handlers.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// InMemoryEventBus delivers events synchronously on the publisher's goroutine.
// A failing or panicking handler is logged and never stops delivery to the others.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	inFlight sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger.Named("event_bus"),
	}
}

// Publish hands every event to its handlers. It only fails when ctx is already done.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.inFlight.Add(1)
	defer b.inFlight.Done()

	for _, event := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.logger.Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.String("tenant_id", event.TenantID().String()),
					zap.String("handler", handlerName(handler)),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler; with no explicit types it uses handler.EventTypes()
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Handler subscribed",
		zap.String("handler", handlerName(handler)),
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start is a no-op; delivery is synchronous
func (b *InMemoryEventBus) Start(context.Context) error {
	b.logger.Info("Event bus started", zap.Int("handlers", len(b.registry.GetAllHandlers())))
	return nil
}

// Stop waits for in-flight Publish calls or until ctx is done
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.inFlight.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.logger.Info("Event bus stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event bus stop: %w", ctx.Err())
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "event.dispatch "+event.EventType(),
		telemetry.WithSpanKind(trace.SpanKindConsumer),
		telemetry.WithAttribute("event.type", event.EventType()),
		telemetry.WithAttribute("event.id", event.EventID().String()),
		telemetry.WithAttribute("event.handler", handlerName(handler)),
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, event.TenantID().String()),
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
		telemetry.RecordError(span, err)
		span.End()
	}()

	return handler.Handle(ctx, event)
}

func handlerName(h shared.EventHandler) string {
	if named, ok := h.(interface{ Name() string }); ok {
		return named.Name()
	}
	return fmt.Sprintf("%T", h)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
