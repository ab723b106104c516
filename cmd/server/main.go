package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusclear/backend/internal/application/documents"
	"github.com/campusclear/backend/internal/application/dues"
	identityapp "github.com/campusclear/backend/internal/application/identity"
	"github.com/campusclear/backend/internal/application/report"
	"github.com/campusclear/backend/internal/infrastructure/auth"
	"github.com/campusclear/backend/internal/infrastructure/cache"
	"github.com/campusclear/backend/internal/infrastructure/config"
	"github.com/campusclear/backend/internal/infrastructure/logger"
	"github.com/campusclear/backend/internal/infrastructure/persistence"
	"github.com/campusclear/backend/internal/infrastructure/storage"
	"github.com/campusclear/backend/internal/infrastructure/telemetry"
	"github.com/campusclear/backend/internal/interfaces/http/handler"
	"github.com/campusclear/backend/internal/interfaces/http/middleware"
	"github.com/campusclear/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/campusclear/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			Campus Clearance API
//	@version		1.0
//	@description	Dues clearance backend for campus departments. Tracks dues raised against students and faculty, their payment and clearance lifecycle, and per-department reporting.

//	@contact.name	API Support
//	@contact.url	https://github.com/campusclear/backend

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: time.RFC3339,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting clearance backend",
		zap.String("name", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Database connection with zap-backed gorm logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	database, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	ctx := context.Background()

	// OpenTelemetry tracing and metrics
	var (
		tracerProvider  *telemetry.TracerProvider
		meterProvider   *telemetry.MeterProvider
		businessMetrics *telemetry.BusinessMetrics
	)
	if cfg.Telemetry.Enabled {
		// Bridge application logs to the collector alongside stdout
		loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize logs exporter, continuing with stdout only", zap.Error(err))
		} else {
			otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
				ServiceName:    cfg.Telemetry.ServiceName,
				LoggerProvider: loggerProvider,
				Level:          zapcore.InfoLevel,
			})
			log = log.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
				return zapcore.NewTee(core, otelCore)
			}))
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
					log.Error("Failed to shut down logger provider", zap.Error(err))
				}
			}()
		}

		tracerProvider, err = telemetry.NewTracerProvider(ctx, telemetry.Config{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize tracer provider, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
					log.Error("Failed to shut down tracer provider", zap.Error(err))
				}
			}()
		}

		meterProvider, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
			Enabled:           true,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize meter provider, continuing without metrics", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := meterProvider.Shutdown(shutdownCtx); err != nil {
					log.Error("Failed to shut down meter provider", zap.Error(err))
				}
			}()
		}

		if cfg.Telemetry.DBTraceEnabled {
			dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
				Enabled:         true,
				LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
				SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			}, log)
			if err := dbTracing.RegisterOtelGorm(database.DB); err != nil {
				log.Warn("Failed to register database tracing", zap.Error(err))
			}
		}

		dbMetricsCfg := telemetry.DefaultDBMetricsConfig()
		dbMetricsCfg.SlowQueryThreshold = cfg.Telemetry.DBSlowQueryThresh
		dbMetrics, err := telemetry.RegisterDBMetrics(database.DB, meterProvider, dbMetricsCfg, log)
		if err != nil {
			log.Warn("Failed to register database metrics", zap.Error(err))
		} else if dbMetrics != nil {
			dbMetrics.StartPoolStatsCollection(ctx)
			defer dbMetrics.Stop()
		}
	}

	// Continuous profiling (Pyroscope)
	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:           cfg.Telemetry.ProfilingEnabled,
		ServerAddress:     cfg.Telemetry.ProfilingServer,
		ApplicationName:   cfg.App.Name,
		ProfileCPU:        true,
		ProfileAllocSpace: true,
		ProfileInuseSpace: true,
		ProfileGoroutines: true,
	}, log)
	if err != nil {
		log.Warn("Failed to start profiler, continuing without profiling", zap.Error(err))
	} else {
		defer func() {
			if err := profiler.Stop(); err != nil {
				log.Error("Failed to stop profiler", zap.Error(err))
			}
		}()
		// Link CPU profiles to trace spans once both sides are up
		if profiler.IsEnabled() && tracerProvider != nil {
			if err := tracerProvider.EnableSpanProfiles(); err != nil {
				log.Warn("Failed to enable span profiles", zap.Error(err))
			}
		}
	}

	// Redis backs the token blacklist and the person directory cache. When it
	// is unreachable both fall back to in-process implementations, which is
	// fine for a single instance but loses revocations across restarts.
	var (
		blacklist   auth.TokenBlacklist
		personCache cache.PersonCache
	)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(ctx, 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unavailable, using in-process token blacklist and person cache", zap.Error(err))
		blacklist = auth.NewInMemoryTokenBlacklist()
		personCache = cache.NewInMemoryPersonCache()
	} else {
		log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
		blacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
		personCache = cache.NewRedisPersonCacheWithClient(redisClient, "clearance:person:")
	}
	cancelPing()

	// Repositories
	dueRepo := persistence.NewGormDueRepository(database.DB)
	operatorRepo := persistence.NewGormOperatorRepository(database.DB)
	reportRepo := persistence.NewGormReportRepository(database.DB)
	departmentCatalog := persistence.NewGormDepartmentCatalog(database.DB)
	personDirectory := cache.NewCachedPersonDirectory(
		persistence.NewGormPersonDirectory(database.DB),
		personCache,
		10*time.Minute,
	)

	// Business metrics with periodic pending-backlog collection
	if meterProvider != nil && meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:           meterProvider.Meter("clearance.business"),
			Logger:          log,
			BacklogProvider: telemetry.NewGormBacklogMetricsProvider(database.DB),
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
			businessMetrics = nil
		} else {
			businessMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// Object storage for clearance documents
	var documentStorage documents.ObjectStorageService
	s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage,
		storage.WithLogger(log),
		storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
	)
	if err != nil {
		if cfg.App.Env == "production" {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		log.Warn("Object storage unavailable, document uploads will not work", zap.Error(err))
		documentStorage = storage.NewStubObjectStorage()
	} else {
		documentStorage = s3Storage
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)

	dueOpts := []dues.Option{dues.WithLogger(log)}
	if businessMetrics != nil {
		dueOpts = append(dueOpts, dues.WithMetrics(businessMetrics))
	}
	dueService := dues.NewService(dueRepo, personDirectory, departmentCatalog, dueOpts...)
	reportService := report.NewService(reportRepo, log)
	documentService := documents.NewService(dueRepo, documentStorage)
	documentService.SetConfig(documents.ServiceConfig{
		UploadURLExpiry:   cfg.Storage.PresignExpiration,
		DownloadURLExpiry: time.Hour,
	})
	authService := identityapp.NewAuthService(operatorRepo, jwtService, blacklist, log)
	operatorService := identityapp.NewOperatorService(operatorRepo, jwtService, blacklist, log)

	// HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	operatorHandler := handler.NewOperatorHandler(operatorService)
	dueHandler := handler.NewDueHandler(dueService)
	documentHandler := handler.NewDocumentHandler(documentService)
	reportHandler := handler.NewReportHandler(reportService)
	systemHandler := handler.NewSystemHandler()

	// Gin engine and middleware
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if meterProvider != nil && meterProvider.IsEnabled() {
		engine.Use(middleware.HTTPMetricsWithMeter(meterProvider.Meter("clearance.http"), true))
	}
	if profiler != nil && profiler.IsEnabled() {
		engine.Use(middleware.Profiling())
	}
	if cfg.App.Env == "production" {
		engine.Use(middleware.RateLimit(middleware.NewRateLimiter(100, time.Minute)))
	}

	// Health check outside the versioned API so probes skip authentication
	engine.GET("/health", healthHandler(database, log))

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = blacklist
	jwtConfig.Logger = log
	jwtGuard := middleware.JWTAuthMiddlewareWithConfig(jwtConfig)

	if cfg.Swagger.Enabled {
		swaggerGuard := middleware.SwaggerProtection(middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		}, jwtGuard)
		engine.GET("/swagger/*any", swaggerGuard, ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(jwtGuard)

	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentOperator)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	dueRoutes := router.NewDomainGroup("dues", "/dues")
	dueRoutes.POST("", dueHandler.Create)
	dueRoutes.GET("", dueHandler.List)
	dueRoutes.GET("/:id", dueHandler.Get)
	dueRoutes.PUT("/:id/payment", dueHandler.MarkPayment)
	dueRoutes.PUT("/:id/clear", dueHandler.Clear)
	dueRoutes.PUT("/:id/grant-permission", dueHandler.GrantPermission)
	// Kept for clients that predate the PUT endpoints
	dueRoutes.POST("/:id/clear", dueHandler.Clear)
	dueRoutes.POST("/:id/permission", dueHandler.GrantPermission)
	dueRoutes.POST("/:id/documents/upload", documentHandler.InitiateUpload)
	dueRoutes.POST("/:id/documents/confirm", documentHandler.ConfirmUpload)
	dueRoutes.GET("/:id/documents/url", documentHandler.GetDocumentURL)

	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/department-dues", reportHandler.DepartmentDues)

	operatorRoutes := router.NewDomainGroup("operators", "/operators")
	operatorRoutes.Use(middleware.RequireSuperAdmin())
	operatorRoutes.POST("", operatorHandler.Create)
	operatorRoutes.GET("", operatorHandler.List)
	operatorRoutes.PUT("/:id/roles", operatorHandler.UpdateRoles)
	operatorRoutes.PUT("/:id/password", operatorHandler.ResetPassword)
	operatorRoutes.PUT("/:id/enabled", operatorHandler.SetEnabled)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(authRoutes).
		Register(dueRoutes).
		Register(reportRoutes).
		Register(operatorRoutes).
		Register(systemRoutes)
	r.Setup()

	// HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shut down", zap.Error(err))
	}
	log.Info("Server exited")
}

// healthHandler reports liveness including database reachability
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Error("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database unreachable",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
