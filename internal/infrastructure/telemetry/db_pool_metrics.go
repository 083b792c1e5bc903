package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// RegisterPoolMetrics exposes database/sql pool statistics as observable
// gauges. Values are read from db.Stats() at each collection.
func RegisterPoolMetrics(meter metric.Meter, db *sql.DB) (metric.Registration, error) {
	conns, err := meter.Int64ObservableGauge("aqua_db_pool_connections",
		metric.WithDescription("Database connections by state"),
		metric.WithUnit("{connections}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create pool gauge: %w", err)
	}
	maxOpen, err := meter.Int64ObservableGauge("aqua_db_pool_connections_max",
		metric.WithDescription("Configured maximum open connections"),
		metric.WithUnit("{connections}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create pool max gauge: %w", err)
	}
	waits, err := meter.Int64ObservableCounter("aqua_db_pool_wait_total",
		metric.WithDescription("Connections waited for because the pool was exhausted"),
		metric.WithUnit("{waits}"))
	if err != nil {
		return nil, fmt.Errorf("failed to create pool wait counter: %w", err)
	}

	return meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := db.Stats()
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrPoolState.String("in_use")))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrPoolState.String("idle")))
		o.ObserveInt64(maxOpen, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, conns, maxOpen, waits)
}
