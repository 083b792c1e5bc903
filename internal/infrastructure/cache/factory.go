package cache

import (
	"context"
	"fmt"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// StoreOption configures NewIdempotencyStore
type StoreOption func(*storeOptions)

type storeOptions struct {
	logger        *zap.Logger
	allowFallback bool
}

// WithLogger sets the logger used to report the chosen store
func WithLogger(logger *zap.Logger) StoreOption {
	return func(o *storeOptions) {
		o.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the in-memory store.
// Fallback is allowed by default.
func WithInMemoryFallback(allow bool) StoreOption {
	return func(o *storeOptions) {
		o.allowFallback = allow
	}
}

// NewIdempotencyStore returns a Redis store when Redis is enabled and reachable,
// otherwise the in-memory store.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, opts ...StoreOption) (shared.IdempotencyStore, error) {
	o := storeOptions{logger: zap.NewNop(), allowFallback: true}
	for _, opt := range opts {
		opt(&o)
	}

	if !cfg.Enabled {
		o.logger.Info("Redis disabled, using in-memory event idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	store, err := NewRedisIdempotencyStore(ctx, RedisConfig{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err == nil {
		o.logger.Info("Using Redis event idempotency store", zap.String("addr", cfg.Addr()))
		return store, nil
	}
	if !o.allowFallback {
		return nil, fmt.Errorf("redis required for event idempotency: %w", err)
	}

	o.logger.Warn("Redis unavailable, falling back to in-memory event idempotency store; "+
		"redelivered events are then deduplicated by the activity log table only",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}
