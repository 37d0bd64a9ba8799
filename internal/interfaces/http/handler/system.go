package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/productsync/backend/internal/interfaces/http/dto"
)

// ServiceName is reported by the status endpoint
const ServiceName = "BaseLinker Product Sync"

// Endpoints lists the public API for the status endpoint
var Endpoints = []string{
	"GET /api/test - Test the BaseLinker connection",
	"GET /api/inventories - List inventories",
	"GET /api/products/:inventoryId - Products of an inventory",
	"GET /api/export/xml/:inventoryId - XML export",
	"GET /api/export/csv/:inventoryId - CSV export",
	"GET /api/stock/:inventoryId - Stock levels",
	"GET /api/prices/:inventoryId - Product prices",
	"GET /api/orders - List orders",
	"GET /api/status - Service status",
}

// SystemHandler handles status and health endpoints
type SystemHandler struct {
	BaseHandler
	version    string
	configured bool
}

// NewSystemHandler creates a new SystemHandler. configured reports whether a
// usable BaseLinker token is set.
func NewSystemHandler(version string, configured bool) *SystemHandler {
	return &SystemHandler{
		version:    version,
		configured: configured,
	}
}

// GetStatus godoc
// @Summary      Service status
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.StatusResponse
// @Router       /status [get]
func (h *SystemHandler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{
		Status:    dto.StatusOnline,
		Service:   ServiceName,
		Version:   h.version,
		Timestamp: h.timestamp(),
		Endpoints: Endpoints,
	})
}

// Health godoc
// @Summary      Liveness check
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	state := dto.BaseLinkerNotConfigured
	if h.configured {
		state = dto.BaseLinkerConfigured
	}
	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:     dto.StatusHealthy,
		Time:       h.timestamp(),
		BaseLinker: state,
	})
}
