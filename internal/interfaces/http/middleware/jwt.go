package middleware

import (
	"errors"
	"strings"

	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/auth"
	"github.com/aquafarm/backend/internal/infrastructure/logger"
	"github.com/aquafarm/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuth
const (
	RequestContextKey = "request_context"
	TenantIDKey       = "tenant_id"
	UserIDKey         = "user_id"

	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenVerifier validates a bearer token and returns its claims
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// JWTConfig holds configuration for the JWT middleware
type JWTConfig struct {
	Verifier TokenVerifier
	// SkipPaths are full paths served without authentication
	SkipPaths []string
	Logger    *zap.Logger
}

// JWTAuth resolves the caller's RequestContext from the bearer token.
// Requests without a valid token are answered with 401.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		header := c.GetHeader(AuthHeaderKey)
		token, found := strings.CutPrefix(header, BearerPrefix)
		if !found || strings.TrimSpace(token) == "" {
			AbortWithError(c, dto.ErrCodeUnauthorized)
			return
		}

		claims, err := cfg.Verifier.Verify(strings.TrimSpace(token))
		if err == nil {
			var rc shared.RequestContext
			if rc, err = claims.RequestContext(); err == nil {
				setRequestContext(c, rc)
				c.Next()
				return
			}
		}

		log.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString(RequestIDKey)),
		)
		if errors.Is(err, auth.ErrExpiredToken) {
			AbortWithError(c, dto.ErrCodeTokenExpired)
			return
		}
		AbortWithError(c, dto.ErrCodeTokenInvalid)
	}
}

func setRequestContext(c *gin.Context, rc shared.RequestContext) {
	c.Set(RequestContextKey, rc)
	c.Set(TenantIDKey, rc.TenantID.String())
	c.Set(UserIDKey, rc.UserID.String())
	c.Request = c.Request.WithContext(logger.WithRequestContext(c.Request.Context(), rc))
}

// GetRequestContext returns the caller identity set by JWTAuth
func GetRequestContext(c *gin.Context) (shared.RequestContext, bool) {
	v, ok := c.Get(RequestContextKey)
	if !ok {
		return shared.RequestContext{}, false
	}
	rc, ok := v.(shared.RequestContext)
	return rc, ok
}
