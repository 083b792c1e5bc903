package telemetry

import (
	"context"
	"maps"
	"sort"
	"strings"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys.
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelTenantID   = "tenant_id"
	ProfilingLabelOperation  = "operation"
)

// MaxLabelValueLength caps label values so a stray identifier cannot blow up
// profile cardinality.
const MaxLabelValueLength = 128

// HighCardinalityLabels are label keys dropped by WithProfilingLabels.
// Lot, tank and batch IDs are unbounded per tenant.
var HighCardinalityLabels = map[string]bool{
	"user_id":    true,
	"request_id": true,
	"trace_id":   true,
	"span_id":    true,
	"lot_id":     true,
	"tank_id":    true,
	"batch_id":   true,
}

// WithProfilingLabels runs fn with Pyroscope labels attached to its goroutine.
// The labels map is copied, so callers may reuse it.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := sanitizeLabels(maps.Clone(labels))
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// sanitizeLabels returns sorted key/value pairs without empty or
// high-cardinality entries, truncating long values.
func sanitizeLabels(labels map[string]string) []string {
	if len(labels) == 0 {
		return nil
	}

	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(labels)*2)
	for _, key := range keys {
		value := labels[key]
		if value == "" {
			continue
		}
		sanitizedKey := sanitizeLabelKey(key)
		if sanitizedKey == "" || HighCardinalityLabels[sanitizedKey] {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		pairs = append(pairs, sanitizedKey, value)
	}
	return pairs
}

// sanitizeLabelKey lowercases the key and keeps only [a-z0-9_].
func sanitizeLabelKey(key string) string {
	key = strings.ToLower(key)
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)

	result := make([]byte, 0, len(key))
	for i := 0; i < len(key); i++ {
		c := key[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			result = append(result, c)
		}
	}
	return string(result)
}

// HTTPRequestLabels builds the label set attached to each API request.
func HTTPRequestLabels(controller, route, method, tenantID string) map[string]string {
	labels := make(map[string]string, 4)
	if controller != "" {
		labels[ProfilingLabelController] = controller
	}
	if route != "" {
		labels[ProfilingLabelRoute] = route
	}
	if method != "" {
		labels[ProfilingLabelMethod] = method
	}
	if tenantID != "" {
		labels[ProfilingLabelTenantID] = tenantID
	}
	return labels
}
