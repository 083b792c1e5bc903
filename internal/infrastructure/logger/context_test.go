package logger

import (
	"context"
	"testing"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func fieldMap(entry observer.LoggedEntry) map[string]string {
	out := map[string]string{}
	for _, f := range entry.Context {
		out[f.Key] = f.String
	}
	return out
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestWithRequestIDAndRequestContext(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-1")
	rc := shared.NewRequestContext(uuid.New(), uuid.New(), "Maria")
	ctx = WithRequestContext(ctx, rc)

	FromContext(ctx).Info("intake recorded")

	require.Len(t, recorded.All(), 1)
	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, rc.TenantID.String(), fields["tenant_id"])
	assert.Equal(t, rc.UserID.String(), fields["user_id"])
	assert.Equal(t, "req-1", GetRequestID(ctx))
}

func TestL_AddsTraceFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(WithContext(context.Background(), zap.New(core)), spanCtx)

	L(ctx).Info("traced")

	fields := fieldMap(recorded.All()[0])
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
}

func TestTraceFields_NoSpan(t *testing.T) {
	assert.Empty(t, TraceFields(context.Background()))
}
