package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{ServiceName: "aquafarm-test"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(context.Background()))
	assert.NoError(t, lp.Shutdown(context.Background()))
}

func TestNewZapOTELCore_DisabledIsNop(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{}, zap.NewNop())
	require.NoError(t, err)

	for _, provider := range []*LoggerProvider{nil, lp} {
		core := NewZapOTELCore("aquafarm-test", provider, zapcore.InfoLevel)
		assert.False(t, core.Enabled(zapcore.ErrorLevel))
	}
}

func TestBridge_DisabledReturnsBase(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, Bridge(base, "aquafarm-test", nil))
}

func TestLevelFilterCore(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: obsCore, minLevel: zapcore.WarnLevel}
	logger := zap.New(core)

	logger.Info("feeding recorded")
	logger.Warn("slow transfer")
	logger.Error("sale rejected")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "slow transfer", logs.All()[0].Message)
	assert.False(t, core.Enabled(zapcore.DebugLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore_WithKeepsLevel(t *testing.T) {
	obsCore, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: obsCore, minLevel: zapcore.WarnLevel}

	child := core.With([]zapcore.Field{zap.String("tenant_id", "t1")})
	logger := zap.New(child)
	logger.Info("dropped")
	logger.Warn("kept")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "t1", logs.All()[0].ContextMap()["tenant_id"])
}
