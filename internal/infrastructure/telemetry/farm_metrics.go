package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// FarmMetrics records fish movement counters and periodic stock gauges.
// It satisfies the application layer's Metrics recorder.
type FarmMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	fishReceived    *Counter
	fishTransferred *Counter
	fishLost        *Counter
	fishSold        *Counter
	kgSold          *FloatCounter
	txDuration      *Histogram
	txRetries       *Counter

	activeLots    *Gauge
	stockedFish   *Gauge
	stockProvider StockProvider

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// StockProvider supplies per-tenant stock figures for the periodic gauges.
type StockProvider interface {
	// TenantIDs returns every tenant that owns at least one tank
	TenantIDs(ctx context.Context) ([]uuid.UUID, error)
	// ActiveStock returns the number of active lots and the fish they hold
	ActiveStock(ctx context.Context, tenantID uuid.UUID) (lots int64, fish int64, err error)
}

// FarmMetricsConfig holds configuration for farm metrics.
type FarmMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	StockProvider StockProvider
}

// NewFarmMetrics creates the farm instruments on the given meter.
func NewFarmMetrics(cfg FarmMetricsConfig) (*FarmMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fm := &FarmMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stockProvider: cfg.StockProvider,
		stopChan:      make(chan struct{}),
	}

	var err error
	if fm.fishReceived, err = NewCounter(cfg.Meter, "aqua_fish_received_total",
		"Fish received into tanks through intake", "{fish}"); err != nil {
		return nil, err
	}
	if fm.fishTransferred, err = NewCounter(cfg.Meter, "aqua_fish_transferred_total",
		"Fish moved between tanks", "{fish}"); err != nil {
		return nil, err
	}
	if fm.fishLost, err = NewCounter(cfg.Meter, "aqua_fish_lost_total",
		"Fish recorded as lost during transfers", "{fish}"); err != nil {
		return nil, err
	}
	if fm.fishSold, err = NewCounter(cfg.Meter, "aqua_fish_sold_total",
		"Fish sold out of lots", "{fish}"); err != nil {
		return nil, err
	}
	if fm.kgSold, err = NewFloatCounter(cfg.Meter, "aqua_fish_sold_kg_total",
		"Biomass sold in kilograms", "kg"); err != nil {
		return nil, err
	}
	if fm.txDuration, err = NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "aqua_farm_tx_duration_seconds",
		Description: "Duration of farm storage transactions including retries",
		Unit:        "s",
		Boundaries:  TxDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if fm.txRetries, err = NewCounter(cfg.Meter, "aqua_farm_tx_retries_total",
		"Farm transactions retried after a transient storage error", "{retries}"); err != nil {
		return nil, err
	}
	if fm.activeLots, err = NewGauge(cfg.Meter, "aqua_active_lots",
		"Lots currently in Ativo status", "{lots}"); err != nil {
		return nil, err
	}
	if fm.stockedFish, err = NewGauge(cfg.Meter, "aqua_stocked_fish",
		"Fish held by active lots", "{fish}"); err != nil {
		return nil, err
	}

	return fm, nil
}

// FishReceived counts fish entering the farm through an intake.
func (fm *FarmMetrics) FishReceived(ctx context.Context, tenantID uuid.UUID, fish int64) {
	fm.fishReceived.Add(ctx, fish, AttrTenantID.String(tenantID.String()))
}

// FishTransferred counts moved and lost fish of one transfer.
func (fm *FarmMetrics) FishTransferred(ctx context.Context, tenantID uuid.UUID, fish, loss int64) {
	tenant := AttrTenantID.String(tenantID.String())
	fm.fishTransferred.Add(ctx, fish, tenant)
	if loss > 0 {
		fm.fishLost.Add(ctx, loss, tenant)
	}
}

// FishSold counts fish and kilograms leaving through a sale.
func (fm *FarmMetrics) FishSold(ctx context.Context, tenantID uuid.UUID, fish int64, kg decimal.Decimal) {
	tenant := AttrTenantID.String(tenantID.String())
	fm.fishSold.Add(ctx, fish, tenant)
	if kg.IsPositive() {
		fm.kgSold.Add(ctx, kg.InexactFloat64(), tenant)
	}
}

// RecordTransaction records one farm transaction; outcome is "commit" or an error kind.
func (fm *FarmMetrics) RecordTransaction(ctx context.Context, outcome string, attempts int, d time.Duration) {
	fm.txDuration.RecordDuration(ctx, d, AttrOutcome.String(outcome))
	if attempts > 1 {
		fm.txRetries.Add(ctx, int64(attempts-1), AttrOutcome.String(outcome))
	}
}

// StartPeriodicCollection samples stock gauges every interval until Stop
// or ctx cancellation. Only the first call starts a collector.
func (fm *FarmMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	fm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}
		go fm.runPeriodicCollection(ctx, interval)
	})
}

func (fm *FarmMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	fm.CollectStock(ctx)

	for {
		select {
		case <-fm.stopChan:
			fm.logger.Info("Stopping periodic farm metrics collection")
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			fm.CollectStock(ctx)
		}
	}
}

// CollectStock records the stock gauges once for every tenant.
func (fm *FarmMetrics) CollectStock(ctx context.Context) {
	if fm.stockProvider == nil {
		fm.logger.Debug("No stock provider configured, skipping stock metrics collection")
		return
	}

	tenantIDs, err := fm.stockProvider.TenantIDs(ctx)
	if err != nil {
		fm.logger.Error("Failed to list tenants for stock metrics", zap.Error(err))
		return
	}

	for _, tenantID := range tenantIDs {
		lots, fish, err := fm.stockProvider.ActiveStock(ctx, tenantID)
		if err != nil {
			fm.logger.Warn("Failed to read stock for tenant",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err),
			)
			continue
		}
		tenant := AttrTenantID.String(tenantID.String())
		fm.activeLots.Record(ctx, lots, tenant)
		fm.stockedFish.Record(ctx, fish, tenant)
	}
}

// Stop stops the periodic collection.
func (fm *FarmMetrics) Stop() {
	fm.stopOnce.Do(func() {
		close(fm.stopChan)
	})
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewFarmMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
