package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which events a handler has already consumed.
type IdempotencyStore interface {
	// MarkProcessed claims eventID for ttl. It returns false when the ID was already claimed.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether eventID is currently claimed.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	// Release drops a claim so a failed event can be handled again on redelivery.
	Release(ctx context.Context, eventID string) error

	Close() error
}

// IdempotencyConfig controls how long consumed event IDs are remembered
type IdempotencyConfig struct {
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig remembers event IDs for a day
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
