package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewProfiler_Disabled(t *testing.T) {
	p, err := NewProfiler(ProfilerConfig{ServerAddress: "http://localhost:4040"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresServerAndName(t *testing.T) {
	logger := zaptest.NewLogger(t)

	_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "aquafarm"}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server address")

	_, err = NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, logger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "application name")
}

func TestNewProfiler_UnknownProfileType(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{
		Enabled:         true,
		ServerAddress:   "http://localhost:4040",
		ApplicationName: "aquafarm",
		ProfileTypes:    []string{"cpu", "heap"},
	}, zaptest.NewLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"heap"`)
}

func TestParseProfileTypes(t *testing.T) {
	types, err := parseProfileTypes([]string{" CPU ", "alloc_space", "cpu", "mutex_count"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileAllocSpace,
		pyroscope.ProfileMutexCount,
	}, types)

	assert.True(t, wantsProfile(types, pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration))
	assert.False(t, wantsProfile(types, pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration))

	types, err = parseProfileTypes(nil)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestSanitizeLabels(t *testing.T) {
	pairs := sanitizeLabels(map[string]string{
		"Route":      "/api/v1/lots/:id",
		"tenant-id":  "acme",
		"lot_id":     "0b7c",
		"request_id": "abc",
		"method":     "",
		"operation":  strings.Repeat("x", MaxLabelValueLength+10),
		"!!":         "dropped",
	})

	assert.Equal(t, []string{
		"operation", strings.Repeat("x", MaxLabelValueLength),
		"route", "/api/v1/lots/:id",
		"tenant_id", "acme",
	}, pairs)
	assert.Nil(t, sanitizeLabels(nil))
}

func TestWithProfilingLabels(t *testing.T) {
	labels := HTTPRequestLabels("lots", "/api/v1/lots/:id", "GET", "acme")

	var got map[string]string
	WithProfilingLabels(context.Background(), labels, func(ctx context.Context) {
		got = map[string]string{}
		pprof.ForLabels(ctx, func(key, value string) bool {
			got[key] = value
			return true
		})
	})

	assert.Equal(t, map[string]string{
		ProfilingLabelController: "lots",
		ProfilingLabelRoute:      "/api/v1/lots/:id",
		ProfilingLabelMethod:     "GET",
		ProfilingLabelTenantID:   "acme",
	}, got)
}

func TestWithProfilingLabels_NoLabelsStillRuns(t *testing.T) {
	called := false
	WithProfilingLabels(context.Background(), HTTPRequestLabels("", "", "", ""), func(ctx context.Context) {
		called = true
		_, ok := pprof.Label(ctx, ProfilingLabelRoute)
		assert.False(t, ok)
	})
	assert.True(t, called)
}
