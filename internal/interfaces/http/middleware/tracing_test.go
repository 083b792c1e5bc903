package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(t.Context())
	})
	return sr
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (string, bool) {
	for _, kv := range span.Attributes() {
		if kv.Key == attribute.Key(key) {
			return kv.Value.AsString(), true
		}
	}
	return "", false
}

func TestTracing_Disabled(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing(TracingConfig{Enabled: false}))
	router.GET("/tanks", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tanks", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_SpanNamedByRouteWithCallerAttributes(t *testing.T) {
	sr := setupTestTracer(t)
	tenantID, userID := uuid.New(), uuid.New()

	router := gin.New()
	router.Use(RequestID(), Tracing(TracingConfig{Enabled: true, ServiceName: "aquafarm-test"}))
	router.Use(func(c *gin.Context) {
		setRequestContext(c, shared.NewRequestContext(tenantID, userID, "joao"))
		c.Next()
	}, SpanEnricher())
	router.GET("/lots/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/lots/"+uuid.NewString(), nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /lots/:id", spans[0].Name())

	got, ok := spanAttr(spans[0], "tenant_id")
	require.True(t, ok)
	assert.Equal(t, tenantID.String(), got)
	got, _ = spanAttr(spans[0], "user_id")
	assert.Equal(t, userID.String(), got)
	got, _ = spanAttr(spans[0], "request_id")
	assert.Equal(t, "req-42", got)
}

func TestSpanEnricher_MarksServerErrors(t *testing.T) {
	tests := []struct {
		status int
		want   codes.Code
	}{
		{http.StatusOK, codes.Unset},
		{http.StatusConflict, codes.Unset},
		{http.StatusServiceUnavailable, codes.Error},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			sr := setupTestTracer(t)

			router := gin.New()
			router.Use(Tracing(TracingConfig{Enabled: true, ServiceName: "aquafarm-test"}), SpanEnricher())
			router.POST("/transfers", func(c *gin.Context) { c.Status(tt.status) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/transfers", nil))

			spans := sr.Ended()
			require.Len(t, spans, 1)
			if tt.want == codes.Error {
				assert.Equal(t, codes.Error, spans[0].Status().Code)
			} else {
				assert.NotEqual(t, codes.Error, spans[0].Status().Code)
			}
		})
	}
}
