package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	integrationapp "github.com/productsync/backend/internal/application/integration"
	"github.com/productsync/backend/internal/domain/integration"
	"github.com/productsync/backend/internal/infrastructure/config"
	"github.com/productsync/backend/internal/infrastructure/ecommerce"
	"github.com/productsync/backend/internal/infrastructure/logger"
	"github.com/productsync/backend/internal/infrastructure/telemetry"
	"github.com/productsync/backend/internal/interfaces/http/handler"
	"github.com/productsync/backend/internal/interfaces/http/middleware"
	"github.com/productsync/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting BaseLinker Product Sync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", cfg.App.Version),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    cfg.App.Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}

	// Initialize metrics
	var metrics *telemetry.Metrics
	if cfg.Metrics.Enabled {
		metrics = telemetry.NewMetrics(cfg.Metrics.Namespace)
	}

	// Initialize the BaseLinker adapter. A missing token is not fatal: the
	// API answers 401 until one is configured.
	tokenConfigured := cfg.BaseLinker.IsConfigured()
	var platform integration.EcommercePlatform
	adapter, err := ecommerce.NewBaseLinkerAdapter(&ecommerce.BaseLinkerConfig{
		Token:              cfg.BaseLinker.Token,
		APIBaseURL:         cfg.BaseLinker.APIURL,
		RateLimitPerMinute: cfg.BaseLinker.RateLimitPerMinute,
	},
		ecommerce.WithLogger(log.Named("baselinker")),
		ecommerce.WithCallRecorder(metrics),
	)
	if err != nil {
		log.Warn("BaseLinker token not configured, API routes answer 401", zap.Error(err))
		platform = ecommerce.NewUnconfiguredPlatform(err)
		tokenConfigured = false
	} else {
		platform = adapter
		log.Info("BaseLinker adapter initialized",
			zap.String("api_url", cfg.BaseLinker.APIURL),
			zap.Int("rate_limit_per_minute", cfg.BaseLinker.RateLimitPerMinute),
		)
	}

	// Initialize services
	catalogService := integrationapp.NewCatalogService(platform, integration.NewNormalizer(), log,
		integrationapp.CatalogServiceConfig{DetailConcurrency: cfg.BaseLinker.DetailConcurrency})
	exportService := integrationapp.NewExportService(catalogService, metrics, log)

	// Initialize handlers
	handlers := router.Handlers{
		Catalog: handler.NewCatalogHandler(catalogService),
		Export:  handler.NewExportHandler(exportService),
		System:  handler.NewSystemHandler(cfg.App.Version, tokenConfigured),
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	tracingConfig := middleware.DefaultTracingConfig()
	tracingConfig.ServiceName = cfg.Telemetry.ServiceName
	tracingConfig.Enabled = cfg.Telemetry.Enabled
	if metricsPath != "" {
		tracingConfig.UntracedPaths = []string{"/health", metricsPath}
	}

	engine := router.NewEngine(router.EngineConfig{
		CORS:            corsConfig,
		Tracing:         tracingConfig,
		TrustedProxies:  cfg.HTTP.TrustedProxies,
		TokenConfigured: tokenConfigured,
		MetricsPath:     metricsPath,
	}, handlers, log, metrics)

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

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Error("Failed to shut down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
