package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing wraps otelgin; server spans are named "METHOD route".
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanEnricher tags the active span with the request ID and, once JWTAuth has
// run, the caller's tenant and user. Place it after JWTAuth.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			attrs := []attribute.KeyValue{attribute.String("request_id", c.GetString(RequestIDKey))}
			if rc, ok := GetRequestContext(c); ok {
				attrs = append(attrs,
					attribute.String("tenant_id", rc.TenantID.String()),
					attribute.String("user_id", rc.UserID.String()),
				)
			}
			span.SetAttributes(attrs...)
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError && span.IsRecording() {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
