package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/aquafarm/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

func TestNewMeterProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		CollectorEndpoint: "localhost:14317",
		ServiceName:       "aquafarm-test",
	}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, mp.IsEnabled())
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))
}

func TestNewMeterProvider_Enabled(t *testing.T) {
	if testing.Short() {
		t.Skip("needs an OTLP collector")
	}
	ctx := context.Background()

	mp, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           true,
		CollectorEndpoint: "localhost:14317",
		ExportInterval:    time.Second,
		ServiceName:       "aquafarm-test",
		Insecure:          true,
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.True(t, mp.IsEnabled())
	_ = mp.Shutdown(ctx)
}

func TestMetricHelpers(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	meter := provider.Meter("test")
	ctx := context.Background()

	counter, err := telemetry.NewCounter(meter, "test_fish_total", "fish", "{fish}")
	require.NoError(t, err)
	counter.Add(ctx, 5, telemetry.AttrOperation.String("intake"))
	counter.Inc(ctx, telemetry.AttrOperation.String("intake"))

	kg, err := telemetry.NewFloatCounter(meter, "test_kg_total", "kg", "kg")
	require.NoError(t, err)
	kg.Add(ctx, 1.25)
	kg.Add(ctx, 0.75)

	hist, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:       "test_tx_seconds",
		Unit:       "s",
		Boundaries: telemetry.TxDurationBuckets,
	})
	require.NoError(t, err)
	hist.RecordDuration(ctx, 30*time.Millisecond)

	gauge, err := telemetry.NewGauge(meter, "test_lots", "lots", "{lots}")
	require.NoError(t, err)
	gauge.Record(ctx, 4)
	gauge.Record(ctx, 7)

	metrics := collect(t, reader)

	assert.Equal(t, int64(6), intSum(t, metrics["test_fish_total"]))

	kgSum, ok := metrics["test_kg_total"].Data.(metricdata.Sum[float64])
	require.True(t, ok)
	assert.InDelta(t, 2.0, kgSum.DataPoints[0].Value, 1e-9)

	h, ok := metrics["test_tx_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Equal(t, telemetry.TxDurationBuckets, h.DataPoints[0].Bounds)
	assert.Equal(t, uint64(1), h.DataPoints[0].Count)

	g, ok := metrics["test_lots"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Equal(t, int64(7), g.DataPoints[0].Value)
}
