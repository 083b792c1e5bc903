package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aquafarm/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer installs an in-memory recorder as the global provider.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestStartSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := telemetry.StartSpan(context.Background(), "farm.intake")
	assert.NotEmpty(t, telemetry.GetTraceID(ctx))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "farm.intake", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())
	assert.Equal(t, telemetry.TracerName, spans[0].InstrumentationScope().Name)
}

func TestStartServiceSpan_WithOptions(t *testing.T) {
	sr := setupTestTracer(t)
	lotID := uuid.New()

	_, span := telemetry.StartServiceSpan(context.Background(), "lot", "transfer",
		telemetry.WithAttribute(telemetry.SpanAttrLotID, lotID),
		telemetry.WithAttribute(telemetry.SpanAttrQuantity, int64(400)),
		telemetry.WithSpanKind(trace.SpanKindServer),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "lot.transfer", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())

	attrs := attrMap(spans[0].Attributes())
	assert.Equal(t, lotID.String(), attrs[telemetry.SpanAttrLotID].AsString())
	assert.Equal(t, int64(400), attrs[telemetry.SpanAttrQuantity].AsInt64())
}

func TestSetAttributes_SkipsMalformedPairs(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "farm.sale")
	telemetry.SetAttributes(span,
		telemetry.SpanAttrTankID, "tank-1",
		42, "non-string key",
		telemetry.SpanAttrLoss, 3,
		"dangling",
	)
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Len(t, attrs, 2)
	assert.Equal(t, "tank-1", attrs[telemetry.SpanAttrTankID].AsString())
	assert.Equal(t, int64(3), attrs[telemetry.SpanAttrLoss].AsInt64())
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "farm.transfer")
	telemetry.RecordError(span, errors.New("tank occupied"))
	telemetry.RecordError(span, nil)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "tank occupied", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}

func TestAddEvent(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "farm.transfer")
	telemetry.AddEvent(span, "tank_locked", telemetry.SpanAttrTankID, "tank-2")
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "tank_locked", events[0].Name)
	assert.Equal(t, "tank-2", attrMap(events[0].Attributes)[telemetry.SpanAttrTankID].AsString())
}

func TestNilSpanHelpersDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.SetAttributes(nil, "k", "v")
		telemetry.RecordError(nil, errors.New("x"))
		telemetry.AddEvent(nil, "e")
	})
	assert.Empty(t, telemetry.GetTraceID(context.Background()))
}
