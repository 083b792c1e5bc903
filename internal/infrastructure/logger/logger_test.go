package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfigs(t *testing.T) {
	assert.Equal(t, "console", DefaultConfig().Format)
	assert.Equal(t, "json", ProductionConfig().Format)
	assert.Equal(t, DefaultConfig().TimeFormat, ProductionConfig().TimeFormat)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"bogus", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aqua.log")
	cfg := ProductionConfig()
	cfg.Output = path
	cfg.Service = "aquafarm-backend"

	l, err := New(cfg)
	require.NoError(t, err)
	l.Info("lot closed")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"lot closed"`)
	assert.Contains(t, string(data), `"service":"aquafarm-backend"`)
}

func TestNew_UnwritableOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), "missing", "dir", "aqua.log")

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"production", "development"} {
		l, err := NewForEnvironment(env)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}
