// Package router assembles the gin engine and mounts the versioned API.
package router

import (
	"fmt"

	_ "github.com/aquafarm/backend/docs"
	"github.com/aquafarm/backend/internal/infrastructure/config"
	"github.com/aquafarm/backend/internal/infrastructure/logger"
	"github.com/aquafarm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Use adds middleware to the versioned API group only
func (r *Router) Use(mw ...gin.HandlerFunc) *Router {
	r.middleware = append(r.middleware, mw...)
	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup mounts every registrar under /api/<version> and returns the group
func (r *Router) Setup() *gin.RouterGroup {
	api := r.engine.Group("/api/" + r.apiVersion)
	api.Use(r.middleware...)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return api
}

// EngineConfig holds what NewEngine needs to build the global middleware chain
type EngineConfig struct {
	HTTP           config.HTTPConfig
	Logger         *zap.Logger
	Meter          metric.Meter
	ServiceName    string
	TracingEnabled bool
	Release        bool
}

// NewEngine creates a gin engine with the global middleware chain:
// request ID, tracing, access log, recovery, metrics, security headers, CORS and body limit.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	if cfg.Release {
		gin.SetMode(gin.ReleaseMode)
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	// an empty list trusts no proxy, so ClientIP is the socket address
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(middleware.TracingConfig{ServiceName: cfg.ServiceName, Enabled: cfg.TracingEnabled}),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.HTTPMetrics(cfg.Meter),
		middleware.Secure(),
		middleware.CORSWithConfig(cors),
	)
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	return engine, nil
}

// MountSwagger serves the generated API documentation under /swagger
func MountSwagger(engine *gin.Engine) {
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
