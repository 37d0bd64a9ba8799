package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/productsync/backend/internal/infrastructure/logger"
	"github.com/productsync/backend/internal/infrastructure/telemetry"
	"github.com/productsync/backend/internal/interfaces/http/handler"
	"github.com/productsync/backend/internal/interfaces/http/middleware"
)

// Handlers are the endpoint handlers mounted by NewEngine
type Handlers struct {
	Catalog *handler.CatalogHandler
	Export  *handler.ExportHandler
	System  *handler.SystemHandler
}

// EngineConfig configures the HTTP engine
type EngineConfig struct {
	CORS           middleware.CORSConfig
	Tracing        middleware.TracingConfig
	TrustedProxies []string
	// TokenConfigured is false when the BaseLinker token is missing or the
	// placeholder; every API route then answers 401
	TokenConfigured bool
	// MetricsPath serves Prometheus metrics; empty or a nil Metrics disables it
	MetricsPath string
}

// NewEngine builds the gin engine with the global middleware chain, the
// unguarded system routes and the token-guarded API
func NewEngine(cfg EngineConfig, h Handlers, log *zap.Logger, metrics *telemetry.Metrics) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()

	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Tracing - Start the server span, then tag it with ids and status
	// 3. Recovery - Catch panics
	// 4. Logger - Log requests with trace context
	// 5. CORS - Answer preflights ahead of the token guard
	// 6. Metrics - Count requests by route template
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing(cfg.Tracing))
	engine.Use(middleware.SpanEnricher())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS(cfg.CORS))
	engine.Use(middleware.HTTPMetrics(metrics))

	// Unguarded system routes
	engine.GET("/health", h.System.Health)
	if metrics != nil && cfg.MetricsPath != "" {
		engine.GET(cfg.MetricsPath, gin.WrapH(metrics.Handler()))
	}

	APIRoutes(engine, h).
		Guard(middleware.RequireBaseLinkerToken(cfg.TokenConfigured)).
		Mount()

	// Unmatched paths under the API prefix stay behind the token guard
	engine.NoRoute(middleware.UnmatchedAPIRoute(DefaultAPIPrefix, cfg.TokenConfigured))

	return engine
}

// APIRoutes lays out the API on engine in the order /api/status lists it
func APIRoutes(engine *gin.Engine, h Handlers) *Router {
	connection := NewRouteGroup("catalog", "").
		GET("/test", "Test the BaseLinker connection", h.Catalog.TestConnection).
		GET("/inventories", "List inventories", h.Catalog.ListInventories).
		GET("/products/:inventoryId", "Products of an inventory", h.Catalog.ListProducts)

	exports := NewRouteGroup("export", "/export").
		GET("/xml/:inventoryId", "XML export", h.Export.ExportXML).
		GET("/csv/:inventoryId", "CSV export", h.Export.ExportCSV)

	inventory := NewRouteGroup("inventory", "").
		GET("/stock/:inventoryId", "Stock levels", h.Catalog.GetStock).
		GET("/prices/:inventoryId", "Product prices", h.Catalog.GetPrices)

	orders := NewRouteGroup("orders", "/orders").
		GET("", "List orders", h.Catalog.ListOrders)

	system := NewRouteGroup("system", "").
		GET("/status", "Service status", h.System.GetStatus)

	return NewRouter(engine, WithAPIPrefix(DefaultAPIPrefix)).
		Register(connection, exports, inventory, orders, system)
}
