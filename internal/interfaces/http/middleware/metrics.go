package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/productsync/backend/internal/infrastructure/telemetry"
)

// UnmatchedRoute labels requests that matched no route, keeping label
// cardinality bounded
const UnmatchedRoute = "unmatched"

// HTTPMetrics returns a middleware recording request count, latency and
// in-flight requests. A nil Metrics records nothing.
func HTTPMetrics(m *telemetry.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		m.RequestStarted()
		defer m.RequestFinished()

		c.Next()

		m.ObserveHTTPRequest(c.Request.Method, getRoutePattern(c), c.Writer.Status(), time.Since(start))
	}
}

// getRoutePattern returns the matched route template, not the raw path
func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return UnmatchedRoute
}
