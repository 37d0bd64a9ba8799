// Package middleware provides HTTP middleware for the product sync service.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// MaxInventoryIDLength caps the inventory id recorded on spans
const MaxInventoryIDLength = 64

// InventoryIDParam is the route parameter naming the inventory
const InventoryIDParam = "inventoryId"

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// Requests to these paths get no server span (health checks, scrapes)
	UntracedPaths []string
}

// DefaultTracingConfig traces everything except health checks and scrapes
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName:   "baselinker-product-sync",
		Enabled:       true,
		UntracedPaths: []string{"/health", "/metrics"},
	}
}

// Tracing starts a server span per request through otelgin. Spans are named
// after the matched route, e.g. "GET /api/products/:inventoryId".
func Tracing(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	untraced := make(map[string]struct{}, len(cfg.UntracedPaths))
	for _, p := range cfg.UntracedPaths {
		untraced[strings.TrimRight(p, "/")] = struct{}{}
	}
	return otelgin.Middleware(cfg.ServiceName, otelgin.WithFilter(func(r *http.Request) bool {
		_, skip := untraced[strings.TrimRight(r.URL.Path, "/")]
		return !skip
	}))
}

// SpanEnricher decorates the server span. Before the handler it records the
// request id and the inventory being served; afterwards it records the
// response status and marks 5xx responses as errors. Client errors such as
// the 401 token guard stay unset, following the HTTP server span conventions.
// It must run after Tracing and RequestID.
func SpanEnricher() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}

		if id := c.GetString(RequestIDKey); id != "" {
			span.SetAttributes(attribute.String("request_id", id))
		}
		if id := boundedInventoryID(c); id != "" {
			span.SetAttributes(attribute.String("inventory_id", id))
		}

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}

func boundedInventoryID(c *gin.Context) string {
	id := c.Param(InventoryIDParam)
	if len(id) > MaxInventoryIDLength {
		return id[:MaxInventoryIDLength]
	}
	return id
}
