package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/appzetogit/indiankart-sub000/internal/application/document"
	orderapp "github.com/appzetogit/indiankart-sub000/internal/application/fulfillment"
	returnapp "github.com/appzetogit/indiankart-sub000/internal/application/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/domain/fulfillment"
	"github.com/appzetogit/indiankart-sub000/internal/domain/invoice"
	"github.com/appzetogit/indiankart-sub000/internal/domain/postsale"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/cache"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/config"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/event"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/export"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/logger"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/metrics"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/persistence"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/persistence/models"
	printinfra "github.com/appzetogit/indiankart-sub000/internal/infrastructure/printing"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/scheduler"
	"github.com/appzetogit/indiankart-sub000/internal/infrastructure/telemetry"
	"github.com/appzetogit/indiankart-sub000/internal/interfaces/http/handler"
	"github.com/appzetogit/indiankart-sub000/internal/interfaces/http/middleware"
	"github.com/appzetogit/indiankart-sub000/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Fulfillment API
//	@version		1.0
//	@description	Order fulfillment, serial capture, post-sale requests and GST label/invoice printing.

//	@contact.name	API Support
//	@contact.url	https://github.com/appzetogit/indiankart-sub000

//	@license.name	Apache 2.0
//	@license.url	http://www.apache.org/licenses/LICENSE-2.0.html

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}
	// OpenTelemetry log bridge; a no-op core while telemetry is disabled
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetryCfg, nil)
	if err != nil {
		panic("Failed to initialize log provider: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		Service:     cfg.App.Name,
		Environment: cfg.App.Env,
	}, logProvider.Core(zapcore.InfoLevel))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()
	logProvider.WithLogger(log)

	log.Info("Starting fulfillment service",
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.Driver == persistence.DriverSQLite {
		// sqlite is used for local runs and demos; postgres runs cmd/migrate
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite database", zap.Error(err))
		}
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		tracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        telemetry.DBSystemForDriver(cfg.Database.Driver),
		}, log)
		if err := tracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Initialize repositories
	var orderRepo fulfillment.OrderRepository = persistence.NewGormOrderRepository(db.DB)
	var returnRepo postsale.ReturnRequestRepository = persistence.NewGormReturnRequestRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)

	if cfg.Cache.Enabled {
		store, err := cache.NewStoreFactory(cfg.Cache, cfg.Redis,
			cache.WithLogger(log),
			cache.WithInMemoryFallback(!cfg.IsProduction()),
		).CreateStore()
		if err != nil {
			log.Fatal("Failed to create entity cache", zap.Error(err))
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Warn("Error closing entity cache", zap.Error(err))
			}
		}()
		orderRepo = cache.NewCachedOrderRepository(orderRepo,
			cache.NewEntityCache[models.OrderModel](store, "order", cfg.Cache.TTL, log))
		returnRepo = cache.NewCachedReturnRepository(returnRepo,
			cache.NewEntityCache[models.ReturnRequestModel](store, "return", cfg.Cache.TTL, log))
		log.Info("Entity cache enabled",
			zap.String("backend", cfg.Cache.Backend),
			zap.Duration("ttl", cfg.Cache.TTL),
		)
	}

	// Metrics registry; collectors are always live, the endpoint is optional
	metricsRegistry := metrics.NewRegistry(metrics.DefaultNamespace)

	// Initialize event bus with the audit and metrics subscribers
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)

	eventBus := event.NewInMemoryEventBus(log)
	metricsHandler := event.NewMetricsHandler(metricsRegistry.Lifecycle)
	eventBus.Subscribe(metricsHandler, metricsHandler.EventTypes()...)
	if cfg.Event.AuditEnabled {
		auditHandler := event.NewAuditHandler(eventSerializer, log)
		eventBus.Subscribe(auditHandler, auditHandler.EventTypes()...)
	}
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Document rendering: templates, optional PDF engine, optional storage
	templates, err := printinfra.NewTemplateStore(&printinfra.TemplateStoreConfig{
		ExternalDir: cfg.Printing.TemplateDir,
	})
	if err != nil {
		log.Fatal("Failed to load document templates", zap.Error(err))
	}

	var pdfRenderer printinfra.PDFRenderer
	if strings.EqualFold(cfg.Printing.PDFEngine, "chromedp") {
		chrome := printinfra.NewChromedpRenderer(&printinfra.ChromedpConfig{
			DefaultTimeout: cfg.Printing.Timeout,
			RemoteURL:      cfg.Printing.ChromeRemoteURL,
			NoSandbox:      cfg.Printing.NoSandbox,
			Logger:         log,
		})
		defer func() {
			if err := chrome.Close(); err != nil {
				log.Warn("Error closing PDF renderer", zap.Error(err))
			}
		}()
		pdfRenderer = chrome
		log.Info("PDF rendering enabled", zap.String("engine", "chromedp"))
	}

	var (
		pdfStorage printinfra.PDFStorage
		fsStorage  *printinfra.FileSystemStorage
	)
	switch strings.ToLower(cfg.Printing.Storage) {
	case "filesystem":
		fsStorage, err = printinfra.NewFileSystemStorage(&printinfra.FileSystemStorageConfig{
			BasePath: cfg.Printing.BasePath,
			BaseURL:  cfg.Printing.BaseURL,
			Logger:   log,
		})
		if err != nil {
			log.Fatal("Failed to initialize document storage", zap.Error(err))
		}
		pdfStorage = fsStorage
	case "s3":
		s3Storage, err := printinfra.NewS3Storage(&printinfra.S3StorageConfig{
			Endpoint:          cfg.Storage.Endpoint,
			Region:            cfg.Storage.Region,
			Bucket:            cfg.Storage.Bucket,
			AccessKey:         cfg.Storage.AccessKey,
			SecretKey:         cfg.Storage.SecretKey,
			UseSSL:            cfg.Storage.UseSSL,
			UsePathStyle:      cfg.Storage.UsePathStyle,
			KeyPrefix:         cfg.Storage.KeyPrefix,
			PresignExpiration: cfg.Storage.PresignExpiration,
			Logger:            log,
		})
		if err != nil {
			log.Fatal("Failed to initialize S3 document storage", zap.Error(err))
		}
		bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := s3Storage.EnsureBucket(bucketCtx); err != nil {
			log.Warn("Document bucket check failed", zap.Error(err))
		}
		cancel()
		pdfStorage = s3Storage
	}

	renderer, err := printinfra.NewDocumentRenderer(&printinfra.DocumentRendererConfig{
		Templates: templates,
		PDF:       pdfRenderer,
		Storage:   pdfStorage,
		Timeout:   cfg.Printing.Timeout,
		Logger:    log,
	})
	if err != nil {
		log.Fatal("Failed to initialize document renderer", zap.Error(err))
	}

	calculator, err := invoice.NewCalculator(
		decimal.NewFromFloat(cfg.Invoice.TaxRate),
		decimal.NewFromFloat(cfg.Invoice.HandlingFee),
		cfg.Invoice.HSNCode,
	)
	if err != nil {
		log.Fatal("Invalid invoice configuration", zap.Error(err))
	}

	// Initialize application services
	orderService := orderapp.NewOrderService(orderRepo, log)
	orderService.SetEventPublisher(eventBus)
	orderService.SetRejectionObserver(metricsRegistry.Lifecycle)

	returnService := returnapp.NewReturnService(returnRepo, orderService, log)
	returnService.SetEventPublisher(eventBus)
	returnService.SetRejectionObserver(metricsRegistry.Lifecycle)

	settingsService := document.NewSettingsService(settingsRepo, log)

	documentService := document.NewDocumentService(orderService, returnService, settingsService, renderer, export.NewXLSXExporter(), log)
	documentService.SetCalculator(calculator)
	documentService.SetEventPublisher(eventBus)

	// Stored documents are pruned daily when a retention is configured
	var retention *scheduler.RetentionScheduler
	if fsStorage != nil && cfg.Printing.RetentionDays > 0 {
		retentionCfg := scheduler.DefaultRetentionSchedulerConfig()
		retentionCfg.RetentionDays = cfg.Printing.RetentionDays
		retention, err = scheduler.NewRetentionScheduler(fsStorage, log, retentionCfg)
		if err != nil {
			log.Fatal("Invalid retention configuration", zap.Error(err))
		}
		if err := retention.Start(ctx); err != nil {
			log.Fatal("Failed to start retention scheduler", zap.Error(err))
		}
		// sweep once now; the next daily run may be up to a day away
		if err := retention.TriggerImmediateCleanup(ctx); err != nil {
			log.Warn("Initial document cleanup not started", zap.Error(err))
		}
	}

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService, documentService)
	returnHandler := handler.NewReturnHandler(returnService, documentService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. Tracing - Start the request span (if enabled)
	// 2. RequestID - Generate/propagate request ID
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests
	// 5. Metrics - Count requests and latency
	// 6. Security - Add security headers
	// 7. CORS - Handle cross-origin requests
	// 8. BodyLimit - Limit request body size
	// 9. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.RequestID())
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingAttributeInjector())
	}
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.HTTPMetrics(metricsRegistry.HTTP))
	engine.Use(middleware.Secure(middleware.SecurityConfig{
		HSTSEnabled:           cfg.IsProduction(),
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
	}))

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition", "X-Document-URL", "X-Row-Count"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.HTTP.RateLimitRPS,
			Burst:             cfg.HTTP.RateLimitBurst,
		})
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Float64("rps", cfg.HTTP.RateLimitRPS),
			zap.Int("burst", cfg.HTTP.RateLimitBurst),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	if cfg.Metrics.Enabled {
		engine.GET(cfg.Metrics.Path, gin.WrapH(metricsRegistry.Handler()))
		log.Info("Metrics endpoint enabled", zap.String("path", cfg.Metrics.Path))
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"), router.WithLogger(log))
	r.Register(handler.OrderRoutes(orderHandler))
	r.Register(handler.ReturnRoutes(returnHandler))
	r.Register(handler.SettingsRoutes(settingsHandler))
	r.Register(handler.SystemRoutes(systemHandler))
	if fsStorage != nil {
		r.Register(handler.DocumentRoutes(handler.NewDocumentFileHandler(fsStorage)))
	}
	routes := r.Setup()
	log.Info("API routes registered", zap.String("base_path", r.BasePath()), zap.Int("count", len(routes)))

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if retention != nil {
		if err := retention.Stop(shutdownCtx); err != nil {
			log.Warn("Retention scheduler stop failed", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Warn("Event bus stop failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Tracer provider shutdown failed", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Warn("Log provider shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
