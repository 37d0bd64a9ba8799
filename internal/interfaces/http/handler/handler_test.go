package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	integrationapp "github.com/productsync/backend/internal/application/integration"
	"github.com/productsync/backend/internal/domain/integration"
	"github.com/productsync/backend/internal/infrastructure/feed"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// MockCatalogReader is a mock implementation of CatalogReader
type MockCatalogReader struct {
	mock.Mock
}

func (m *MockCatalogReader) TestConnection(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockCatalogReader) ListInventories(ctx context.Context) ([]integration.Inventory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.Inventory), args.Error(1)
}

func (m *MockCatalogReader) ListProducts(ctx context.Context, inventoryID, filterID string) ([]integration.RawProduct, error) {
	args := m.Called(ctx, inventoryID, filterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.RawProduct), args.Error(1)
}

func (m *MockCatalogReader) GetAllProductsData(ctx context.Context, inventoryID string) ([]integration.CanonicalProduct, error) {
	args := m.Called(ctx, inventoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.CanonicalProduct), args.Error(1)
}

func (m *MockCatalogReader) GetStock(ctx context.Context, inventoryID string, productIDs []string) (integration.Value, error) {
	args := m.Called(ctx, inventoryID, productIDs)
	return args.Get(0).(integration.Value), args.Error(1)
}

func (m *MockCatalogReader) GetPrices(ctx context.Context, inventoryID string, productIDs []string) (integration.Value, error) {
	args := m.Called(ctx, inventoryID, productIDs)
	return args.Get(0).(integration.Value), args.Error(1)
}

func (m *MockCatalogReader) ListOrders(ctx context.Context, filter integration.OrderFilter) ([]integration.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]integration.Order), args.Error(1)
}

// MockFeedExporter is a mock implementation of FeedExporter
type MockFeedExporter struct {
	mock.Mock
}

func (m *MockFeedExporter) ExportXML(ctx context.Context, inventoryID string, format feed.Format) (*integrationapp.Export, error) {
	args := m.Called(ctx, inventoryID, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.Export), args.Error(1)
}

func (m *MockFeedExporter) ExportCSV(ctx context.Context, inventoryID string) (*integrationapp.Export, error) {
	args := m.Called(ctx, inventoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.Export), args.Error(1)
}

// newCatalogEngine mounts a CatalogHandler on the public route templates
func newCatalogEngine(catalog CatalogReader) *gin.Engine {
	h := NewCatalogHandler(catalog)
	h.Clock = fixedClock

	engine := gin.New()
	engine.GET("/api/test", h.TestConnection)
	engine.GET("/api/inventories", h.ListInventories)
	engine.GET("/api/products/:inventoryId", h.ListProducts)
	engine.GET("/api/stock/:inventoryId", h.GetStock)
	engine.GET("/api/prices/:inventoryId", h.GetPrices)
	engine.GET("/api/orders", h.ListOrders)
	return engine
}

func newExportEngine(exporter FeedExporter) *gin.Engine {
	h := NewExportHandler(exporter)
	h.Clock = fixedClock

	engine := gin.New()
	engine.GET("/api/export/xml/:inventoryId", h.ExportXML)
	engine.GET("/api/export/csv/:inventoryId", h.ExportCSV)
	return engine
}

func serve(t *testing.T, engine *gin.Engine, target string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, target, nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func parseValue(t *testing.T, raw string) integration.Value {
	t.Helper()
	v, err := integration.ParseValue([]byte(raw))
	require.NoError(t, err)
	return v
}

func rawProducts(n int) []integration.RawProduct {
	out := make([]integration.RawProduct, n)
	for i := range out {
		out[i] = integration.NewRawProduct(strconv.Itoa(i+1), integration.EmptyMap())
	}
	return out
}

func upstream503() error {
	return &integration.UpstreamError{
		Method:     "getInventories",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        integration.ErrPlatformRequestFailed,
	}
}
