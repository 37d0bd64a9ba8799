package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/productsync/backend/internal/domain/integration"
	"github.com/productsync/backend/internal/infrastructure/logger"
	"github.com/productsync/backend/internal/interfaces/http/dto"
	"github.com/productsync/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct {
	// Clock used for response timestamps; nil means time.Now
	Clock func() time.Time
}

func (h *BaseHandler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

// timestamp renders the current time for a response body
func (h *BaseHandler) timestamp() string {
	return dto.Timestamp(h.now())
}

// HandleError writes the error body for a failed request. An unconfigured
// platform answers 401; everything else is a 500 carrying the error text.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	log := logger.FromContext(c.Request.Context())
	if errors.Is(err, integration.ErrPlatformNotConfigured) {
		log.Warn("BaseLinker platform not configured", zap.Error(err))
		middleware.AbortTokenNotConfigured(c)
		return
	}

	log.Error("Request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err.Error(), h.now()))
}
