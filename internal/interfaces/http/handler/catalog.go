package handler

import (
	"context"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/productsync/backend/internal/domain/integration"
	"github.com/productsync/backend/internal/infrastructure/logger"
	"github.com/productsync/backend/internal/interfaces/http/dto"
	"github.com/productsync/backend/internal/interfaces/http/middleware"
)

// DefaultProductLimit caps the product listing when no limit is given
const DefaultProductLimit = 100

// CatalogReader is the read side of the catalog used by CatalogHandler
type CatalogReader interface {
	TestConnection(ctx context.Context) bool
	ListInventories(ctx context.Context) ([]integration.Inventory, error)
	ListProducts(ctx context.Context, inventoryID, filterID string) ([]integration.RawProduct, error)
	GetAllProductsData(ctx context.Context, inventoryID string) ([]integration.CanonicalProduct, error)
	GetStock(ctx context.Context, inventoryID string, productIDs []string) (integration.Value, error)
	GetPrices(ctx context.Context, inventoryID string, productIDs []string) (integration.Value, error)
	ListOrders(ctx context.Context, filter integration.OrderFilter) ([]integration.Order, error)
}

// CatalogHandler handles connection, inventory, product, stock, price and
// order endpoints
type CatalogHandler struct {
	BaseHandler
	catalog CatalogReader
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// TestConnection godoc
// @Summary      Test the BaseLinker connection
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.ConnectionResponse
// @Failure      401 {object} middleware.TokenNotConfiguredResponse
// @Router       /test [get]
func (h *CatalogHandler) TestConnection(c *gin.Context) {
	connected := h.catalog.TestConnection(c.Request.Context())
	c.JSON(http.StatusOK, dto.NewConnectionResponse(connected, h.now()))
}

// ListInventories godoc
// @Summary      List inventories
// @Tags         catalog
// @Produce      json
// @Success      200 {object} dto.InventoriesResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /inventories [get]
func (h *CatalogHandler) ListInventories(c *gin.Context) {
	inventories, err := h.catalog.ListInventories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.InventoriesResponse{
		Status:    dto.StatusSuccess,
		Data:      inventories,
		Count:     len(inventories),
		Timestamp: h.timestamp(),
	})
}

// ListProducts godoc
// @Summary      List products of an inventory
// @Description  detailed=true returns normalized products with stock and prices
// @Tags         catalog
// @Produce      json
// @Param        inventoryId path  string true  "Inventory ID"
// @Param        detailed    query bool   false "Aggregate details, stock and prices"
// @Param        limit       query int    false "Maximum products, <=0 for all" default(100)
// @Param        filter_id   query string false "Saved product filter"
// @Success      200 {object} dto.ProductsResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /products/{inventoryId} [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	ctx, inventoryID := h.inventoryScope(c)
	detailed := c.Query("detailed") == "true"
	limit, limited := productLimit(c.Query("limit"))

	var (
		data  any
		count int
	)
	if detailed {
		products, err := h.catalog.GetAllProductsData(ctx, inventoryID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		products = truncate(products, limit, limited)
		data, count = products, len(products)
	} else {
		products, err := h.catalog.ListProducts(ctx, inventoryID, c.Query("filter_id"))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		products = truncate(products, limit, limited)
		data, count = products, len(products)
	}

	c.JSON(http.StatusOK, dto.ProductsResponse{
		Status:      dto.StatusSuccess,
		Data:        data,
		Count:       count,
		InventoryID: inventoryID,
		Detailed:    detailed,
		Timestamp:   h.timestamp(),
	})
}

// GetStock godoc
// @Summary      Stock levels of an inventory
// @Tags         catalog
// @Produce      json
// @Param        inventoryId path  string true  "Inventory ID"
// @Param        products    query string false "Comma-separated product ids"
// @Success      200 {object} dto.MapResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /stock/{inventoryId} [get]
func (h *CatalogHandler) GetStock(c *gin.Context) {
	ctx, inventoryID := h.inventoryScope(c)

	stock, err := h.catalog.GetStock(ctx, inventoryID, splitIDs(c.Query("products")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.writeMap(c, inventoryID, stock)
}

// GetPrices godoc
// @Summary      Prices of an inventory
// @Tags         catalog
// @Produce      json
// @Param        inventoryId path  string true  "Inventory ID"
// @Param        products    query string false "Comma-separated product ids"
// @Success      200 {object} dto.MapResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /prices/{inventoryId} [get]
func (h *CatalogHandler) GetPrices(c *gin.Context) {
	ctx, inventoryID := h.inventoryScope(c)

	prices, err := h.catalog.GetPrices(ctx, inventoryID, splitIDs(c.Query("products")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.writeMap(c, inventoryID, prices)
}

// ListOrders godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Param        date_from query int    false "Confirmed from (unix seconds)"
// @Param        date_to   query int    false "Confirmed to (unix seconds)"
// @Param        status    query string false "Order status id"
// @Success      200 {object} dto.OrdersResponse
// @Failure      500 {object} dto.ErrorResponse
// @Router       /orders [get]
func (h *CatalogHandler) ListOrders(c *gin.Context) {
	var (
		filter  integration.OrderFilter
		filters dto.OrderFilters
	)
	if from, ok := queryUnix(c, "date_from"); ok {
		filter.DateConfirmedFrom = from
		filters.DateFrom = &from
	}
	if to, ok := queryUnix(c, "date_to"); ok {
		filter.DateConfirmedTo = to
		filters.DateTo = &to
	}
	if status, ok := c.GetQuery("status"); ok {
		filter.StatusID = status
		filters.Status = &status
	}

	orders, err := h.catalog.ListOrders(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OrdersResponse{
		Status:    dto.StatusSuccess,
		Data:      orders,
		Count:     len(orders),
		Filters:   filters,
		Timestamp: h.timestamp(),
	})
}

func (h *CatalogHandler) writeMap(c *gin.Context, inventoryID string, data integration.Value) {
	c.JSON(http.StatusOK, dto.MapResponse{
		Status:      dto.StatusSuccess,
		Data:        data,
		InventoryID: inventoryID,
		Timestamp:   h.timestamp(),
	})
}

// inventoryScope reads the inventory path parameter and attaches it to the
// request logger
func (h *BaseHandler) inventoryScope(c *gin.Context) (context.Context, string) {
	inventoryID := c.Param(middleware.InventoryIDParam)
	ctx := logger.WithInventoryID(c.Request.Context(), inventoryID)
	c.Request = c.Request.WithContext(ctx)
	return ctx, inventoryID
}

// productLimit parses the limit query. Absent means DefaultProductLimit;
// unparsable or non-positive means no truncation.
func productLimit(raw string) (int, bool) {
	if raw == "" {
		return DefaultProductLimit, true
	}
	n, ok := parseLeadingInt(raw)
	if !ok || n <= 0 {
		return 0, false
	}
	if n > math.MaxInt {
		return math.MaxInt, true
	}
	return int(n), true
}

func truncate[T any](items []T, limit int, limited bool) []T {
	if limited && len(items) > limit {
		return items[:limit]
	}
	return items
}

// queryUnix parses a unix timestamp query parameter. Empty or unparsable
// values are reported absent.
func queryUnix(c *gin.Context, key string) (int64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	return parseLeadingInt(raw)
}
