package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	farmapp "github.com/aquafarm/backend/internal/application/farm"
	"github.com/aquafarm/backend/internal/domain/shared"
	"github.com/aquafarm/backend/internal/infrastructure/auth"
	"github.com/aquafarm/backend/internal/infrastructure/cache"
	"github.com/aquafarm/backend/internal/infrastructure/config"
	"github.com/aquafarm/backend/internal/infrastructure/event"
	"github.com/aquafarm/backend/internal/infrastructure/logger"
	"github.com/aquafarm/backend/internal/infrastructure/persistence"
	"github.com/aquafarm/backend/internal/infrastructure/telemetry"
	"github.com/aquafarm/backend/internal/interfaces/http/handler"
	"github.com/aquafarm/backend/internal/interfaces/http/middleware"
	"github.com/aquafarm/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry providers; each is a no-op when disabled
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log provider", zap.Error(err))
	}
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:              cfg.Profiling.Enabled,
		ServerAddress:        cfg.Profiling.ServerAddress,
		ApplicationName:      cfg.Profiling.ApplicationName,
		BasicAuthUser:        cfg.Profiling.BasicAuthUser,
		BasicAuthPassword:    cfg.Profiling.BasicAuthPassword,
		ProfileTypes:         cfg.Profiling.ProfileTypes,
		MutexProfileFraction: cfg.Profiling.MutexProfileFraction,
		BlockProfileRate:     cfg.Profiling.BlockProfileRate,
	}, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	if cfg.Profiling.SpanProfiles && profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}
	log := telemetry.Bridge(baseLog, cfg.Telemetry.ServiceName, logProvider)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting aquafarm backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed gorm logger and query tracing
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log)
	if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	meter := meterProvider.Meter("aquafarm")
	if sqlDB, err := db.DB.DB(); err == nil {
		if _, err := telemetry.RegisterPoolMetrics(meter, sqlDB); err != nil {
			log.Warn("Failed to register connection pool metrics", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Repositories and transaction scope
	repos := persistence.NewFarmRepositories(db.DB)
	scope := persistence.NewGormFarmTransactionScope(db.DB, persistence.RetryPolicy{
		MaxAttempts:     cfg.Farm.TxMaxAttempts,
		InitialInterval: cfg.Farm.TxInitialInterval,
		MaxElapsed:      cfg.Farm.TxMaxElapsed,
	})
	activityRepo := persistence.NewGormActivityLogRepository(db.DB)

	farmMetrics, err := telemetry.NewFarmMetrics(telemetry.FarmMetricsConfig{
		Meter:         meter,
		Logger:        log,
		StockProvider: telemetry.NewGormStockProvider(db.DB),
	})
	if err != nil {
		log.Fatal("Failed to create farm metrics", zap.Error(err))
	}
	scope.SetObserver(farmMetrics)

	// Event bus: activity log entries are written once per event ID
	eventBus := event.NewInMemoryEventBus(log)
	idemStore, err := cache.NewIdempotencyStore(ctx, cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to create event idempotency store", zap.Error(err))
	}
	if closer, ok := idemStore.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}
	eventBus.Subscribe(event.NewIdempotentHandler(
		farmapp.NewActivityLogHandler(activityRepo, log),
		idemStore,
		log,
		event.WithIdempotencyConfig(shared.IdempotencyConfig{TTL: cfg.Farm.ActivityDedupTTL, Enabled: true}),
	))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Application services
	tankService := farmapp.NewTankService(repos, scope)
	lotService := farmapp.NewLotService(repos, scope)
	observationService := farmapp.NewObservationService(repos, scope)
	intakeService := farmapp.NewIntakeService(repos, scope)
	transferService := farmapp.NewTransferService(repos, scope)
	saleService := farmapp.NewSaleService(repos, scope)
	type publishing interface {
		SetEventPublisher(shared.EventPublisher)
		SetMetrics(farmapp.Metrics)
	}
	for _, svc := range []publishing{lotService, observationService, intakeService, transferService, saleService} {
		svc.SetEventPublisher(eventBus)
		svc.SetMetrics(farmMetrics)
	}
	activityService := farmapp.NewActivityService(activityRepo)

	if cfg.Telemetry.Enabled && cfg.Telemetry.MetricsEnabled {
		farmMetrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
	}

	// HTTP
	engine, err := router.NewEngine(router.EngineConfig{
		HTTP:           cfg.HTTP,
		Logger:         log,
		Meter:          meter,
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		Release:        cfg.App.IsProduction(),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}
	engine.GET("/health", handler.NewHealthHandler(db).Check)
	router.MountSwagger(engine)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Use(
			middleware.JWTAuth(middleware.JWTConfig{
				Verifier: auth.NewJWTVerifier(cfg.JWT),
				Logger:   log,
			}),
			middleware.SpanEnricher(),
			middleware.Profiling(middleware.ProfilingConfig{
				Enabled:          profiler.IsEnabled(),
				SkipPaths:        middleware.DefaultProfilingConfig().SkipPaths,
				SkipPathPrefixes: middleware.DefaultProfilingConfig().SkipPathPrefixes,
			}),
		).
		Register(handler.NewTankHandler(tankService)).
		Register(handler.NewLotHandler(lotService, observationService)).
		Register(handler.NewMovementHandler(intakeService, transferService, saleService)).
		Register(handler.NewActivityHandler(activityService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	// Stop accepting requests first so no new events are published, then drain the bus
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus did not drain", zap.Error(err))
	}
	farmMetrics.Stop()
	if err := profiler.Stop(); err != nil {
		log.Warn("Profiler stop failed", zap.Error(err))
	}

	flushCtx, flushCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer flushCancel()
	for name, shutdown := range map[string]func(context.Context) error{
		"tracer": tracerProvider.Shutdown,
		"meter":  meterProvider.Shutdown,
		"logs":   logProvider.Shutdown,
	} {
		if err := shutdown(flushCtx); err != nil {
			log.Warn("Telemetry shutdown failed", zap.String("provider", name), zap.Error(err))
		}
	}

	log.Info("Server exited")
}
