package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aquafarm/backend/internal/infrastructure/logger"
	"github.com/aquafarm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness and readiness check
type HealthHandler struct {
	db      Pinger
	timeout time.Duration
}

// NewHealthHandler creates a HealthHandler that pings db
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 2 * time.Second}
}

type healthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Check answers 200 when the database answers a ping, 503 otherwise
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logger.L(ctx).Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(healthStatus{Status: "degraded", Database: "unreachable"}))
		return
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(healthStatus{Status: "ok", Database: "ok"}))
}
