package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	integrationapp "github.com/productsync/backend/internal/application/integration"
	"github.com/productsync/backend/internal/infrastructure/feed"
)

// FeedExporter renders inventory feeds
type FeedExporter interface {
	ExportXML(ctx context.Context, inventoryID string, format feed.Format) (*integrationapp.Export, error)
	ExportCSV(ctx context.Context, inventoryID string) (*integrationapp.Export, error)
}

// ExportHandler serves XML and CSV product feeds
type ExportHandler struct {
	BaseHandler
	exporter FeedExporter
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exporter FeedExporter) *ExportHandler {
	return &ExportHandler{exporter: exporter}
}

// ExportXML godoc
// @Summary      Export products as XML
// @Tags         export
// @Produce      xml
// @Param        inventoryId path  string true  "Inventory ID"
// @Param        format      query string false "standard, simple, detailed or commaval" default(standard)
// @Param        download    query bool   false "Send as attachment"
// @Success      200 {string} string
// @Failure      500 {object} dto.ErrorResponse
// @Router       /export/xml/{inventoryId} [get]
func (h *ExportHandler) ExportXML(c *gin.Context) {
	ctx, inventoryID := h.inventoryScope(c)

	export, err := h.exporter.ExportXML(ctx, inventoryID, feed.ParseFormat(c.Query("format")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeExport(c, export)
}

// ExportCSV godoc
// @Summary      Export products as CSV
// @Tags         export
// @Produce      text/csv
// @Param        inventoryId path  string true  "Inventory ID"
// @Param        download    query bool   false "Send as attachment"
// @Success      200 {string} string
// @Failure      500 {object} dto.ErrorResponse
// @Router       /export/csv/{inventoryId} [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	ctx, inventoryID := h.inventoryScope(c)

	export, err := h.exporter.ExportCSV(ctx, inventoryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	writeExport(c, export)
}

func writeExport(c *gin.Context, export *integrationapp.Export) {
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename))
	}
	c.Data(http.StatusOK, export.ContentType, []byte(export.Body))
}
