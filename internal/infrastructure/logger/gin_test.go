package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGinMiddleware_LogsWithRequestAndTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/tanks", func(c *gin.Context) {
		c.Set("tenant_id", "tenant-9")
		FromContext(c.Request.Context()).Info("handler")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/tanks", nil))
	require.Equal(t, http.StatusOK, w.Code)

	logs := recorded.All()
	require.Len(t, logs, 2)
	assert.Equal(t, "req-123", fieldMap(logs[0])["request_id"], "handler logs through the request logger")
	assert.Equal(t, "HTTP Request", logs[1].Message)
	assert.Equal(t, "tenant-9", fieldMap(logs[1])["tenant_id"])
}

func TestGinMiddleware_LevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusConflict, zapcore.WarnLevel},
		{http.StatusServiceUnavailable, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		core, recorded := observer.New(zapcore.DebugLevel)
		router := gin.New()
		router.Use(GinMiddleware(zap.New(core)))
		router.GET("/x", func(c *gin.Context) { c.Status(tt.status) })

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
		require.Len(t, recorded.All(), 1)
		assert.Equal(t, tt.level, recorded.All()[0].Level)
	}
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "ERR_INTERNAL")
	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "Panic recovered", recorded.All()[0].Message)
}

func TestGetGinLogger_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, GetGinLogger(c))
}
