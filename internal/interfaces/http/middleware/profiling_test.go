package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/aquafarm/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func profilingLabelsOf(c *gin.Context) map[string]string {
	labels := map[string]string{}
	pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
		labels[key] = value
		return true
	})
	return labels
}

func TestProfiling_LabelsRequest(t *testing.T) {
	var got map[string]string
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(TenantIDKey, "6f1c7a5e-0000-4000-8000-000000000001")
		c.Next()
	})
	router.Use(Profiling(DefaultProfilingConfig()))
	router.POST("/api/v1/lots/:id/close", func(c *gin.Context) {
		got = profilingLabelsOf(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/lots/0b7c/close", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		telemetry.ProfilingLabelController: "lots",
		telemetry.ProfilingLabelRoute:      "/api/v1/lots/:id/close",
		telemetry.ProfilingLabelMethod:     http.MethodPost,
		telemetry.ProfilingLabelTenantID:   "6f1c7a5e-0000-4000-8000-000000000001",
	}, got)
}

func TestProfiling_SkipsHealthAndSwagger(t *testing.T) {
	var got []map[string]string
	record := func(c *gin.Context) {
		got = append(got, profilingLabelsOf(c))
		c.Status(http.StatusOK)
	}

	router := gin.New()
	router.Use(Profiling(DefaultProfilingConfig()))
	router.GET("/health", record)
	router.GET("/swagger/*any", record)

	for _, path := range []string{"/health", "/swagger/index.html"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Len(t, got, 2)
	for _, labels := range got {
		assert.Empty(t, labels)
	}
}

func TestProfiling_Disabled(t *testing.T) {
	var got map[string]string
	router := gin.New()
	router.Use(Profiling(ProfilingConfig{}))
	router.GET("/api/v1/tanks", func(c *gin.Context) {
		got = profilingLabelsOf(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tanks", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, got)
}

func TestControllerFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/lots/:id/close": "lots",
		"/api/v1/tanks":          "tanks",
		"/api/v2/intakes/:id":    "intakes",
		"/health":                "health",
		"/api/v1/:tenant":        "",
		"":                       "",
	}
	for route, want := range tests {
		assert.Equal(t, want, controllerFromRoute(route), route)
	}
}
