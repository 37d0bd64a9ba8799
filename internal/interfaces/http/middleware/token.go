package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Body of the 401 answered when no usable BaseLinker token is configured
const (
	TokenNotConfiguredError   = "BaseLinker token not configured"
	TokenNotConfiguredMessage = "Please set BASELINKER_TOKEN in environment variables"
)

// TokenNotConfiguredResponse is the body answered when no token is configured
type TokenNotConfiguredResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RequireBaseLinkerToken rejects every request with 401 before any handler
// runs when the BaseLinker token is missing or still the placeholder.
// The token is static configuration, so the decision is made once.
func RequireBaseLinkerToken(configured bool) gin.HandlerFunc {
	if configured {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		AbortTokenNotConfigured(c)
	}
}

// AbortTokenNotConfigured answers the 401 configuration error
func AbortTokenNotConfigured(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, TokenNotConfiguredResponse{
		Error:   TokenNotConfiguredError,
		Message: TokenNotConfiguredMessage,
	})
}

// UnmatchedAPIRoute handles paths no route matched. Without a token, paths
// under prefix answer the same 401 as the matched API routes; everything
// else is a plain 404.
func UnmatchedAPIRoute(prefix string, configured bool) gin.HandlerFunc {
	prefix = strings.TrimRight(prefix, "/")
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		underAPI := path == prefix || strings.HasPrefix(path, prefix+"/")
		if !configured && underAPI {
			AbortTokenNotConfigured(c)
			return
		}
		c.AbortWithStatus(http.StatusNotFound)
	}
}
