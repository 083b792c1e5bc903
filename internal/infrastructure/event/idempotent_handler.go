package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aquafarm/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotencyStats is a snapshot of an IdempotentHandler's counters
type IdempotencyStats struct {
	EventsProcessed int64 `json:"events_processed"`
	EventsDuplicate int64 `json:"events_duplicate"`
	EventsFailed    int64 `json:"events_failed"`
}

// IdempotentHandler runs the wrapped handler at most once per event ID.
// When the wrapped handler fails the claim is released, so a redelivery retries it.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	logger  *zap.Logger

	processed atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// IdempotentHandlerOption configures an IdempotentHandler
type IdempotentHandlerOption func(*IdempotentHandler)

// WithIdempotencyConfig overrides the TTL and enabled flag
func WithIdempotencyConfig(config shared.IdempotencyConfig) IdempotentHandlerOption {
	return func(h *IdempotentHandler) {
		h.config = config
	}
}

// NewIdempotentHandler wraps handler with deduplication backed by store
func NewIdempotentHandler(handler shared.EventHandler, store shared.IdempotencyStore, logger *zap.Logger, opts ...IdempotentHandlerOption) *IdempotentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &IdempotentHandler{
		handler: handler,
		store:   store,
		config:  shared.DefaultIdempotencyConfig(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// EventTypes delegates to the wrapped handler
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Name reports the wrapped handler's type, for logs and spans
func (h *IdempotentHandler) Name() string {
	return fmt.Sprintf("idempotent(%T)", h.handler)
}

// Handle claims the event ID, then runs the wrapped handler.
// A store outage does not block handling; duplicates then fall back to the
// handler's own idempotency.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, event)
	}

	eventID := event.EventID().String()
	fields := []zap.Field{
		zap.String("event_id", eventID),
		zap.String("event_type", event.EventType()),
	}

	claimed, err := h.store.MarkProcessed(ctx, eventID, h.config.TTL)
	switch {
	case err != nil:
		h.logger.Warn("Idempotency store unavailable, handling event anyway", append(fields, zap.Error(err))...)
	case !claimed:
		h.duplicate.Add(1)
		h.logger.Debug("Duplicate event skipped", fields...)
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		h.failed.Add(1)
		if claimed {
			if relErr := h.store.Release(ctx, eventID); relErr != nil {
				h.logger.Warn("Failed to release event claim", append(fields, zap.Error(relErr))...)
			}
		}
		return err
	}

	h.processed.Add(1)
	return nil
}

// Stats returns the handler's counters
func (h *IdempotentHandler) Stats() IdempotencyStats {
	return IdempotencyStats{
		EventsProcessed: h.processed.Load(),
		EventsDuplicate: h.duplicate.Load(),
		EventsFailed:    h.failed.Load(),
	}
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
