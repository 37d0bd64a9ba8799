package integration

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/productsync/backend/internal/domain/integration"
	"github.com/productsync/backend/internal/infrastructure/logger"
	"github.com/productsync/backend/internal/infrastructure/telemetry"
)

// DetailBatchSize is the largest id batch accepted by the product data method
const DetailBatchSize = 100

// CatalogService reads catalogs from the platform and assembles canonical products
type CatalogService struct {
	platform   integration.EcommercePlatform
	normalizer *integration.Normalizer
	logger     *zap.Logger

	// Configuration
	detailConcurrency int // Detail batches fetched in parallel (default 1)
}

// CatalogServiceConfig contains configuration for CatalogService
type CatalogServiceConfig struct {
	DetailConcurrency int
}

// DefaultCatalogServiceConfig returns default configuration
func DefaultCatalogServiceConfig() CatalogServiceConfig {
	return CatalogServiceConfig{
		DetailConcurrency: 1,
	}
}

// NewCatalogService creates a new CatalogService. A nil normalizer uses the wall clock.
func NewCatalogService(
	platform integration.EcommercePlatform,
	normalizer *integration.Normalizer,
	logger *zap.Logger,
	config CatalogServiceConfig,
) *CatalogService {
	if config.DetailConcurrency <= 0 {
		config.DetailConcurrency = 1
	}
	if normalizer == nil {
		normalizer = integration.NewNormalizer()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CatalogService{
		platform:          platform,
		normalizer:        normalizer,
		logger:            logger,
		detailConcurrency: config.DetailConcurrency,
	}
}

// TestConnection reports whether the platform answers an inventory listing.
// The failure is logged, not returned.
func (s *CatalogService) TestConnection(ctx context.Context) bool {
	if _, err := s.platform.ListInventories(ctx); err != nil {
		logger.For(ctx, s.logger).Warn("BaseLinker connection test failed", zap.Error(err))
		return false
	}
	return true
}

// ListInventories returns the catalogs visible to the credential
func (s *CatalogService) ListInventories(ctx context.Context) ([]integration.Inventory, error) {
	return s.platform.ListInventories(ctx)
}

// ListProducts returns the lightweight product list, optionally narrowed by a saved filter
func (s *CatalogService) ListProducts(ctx context.Context, inventoryID, filterID string) ([]integration.RawProduct, error) {
	return s.platform.ListProducts(ctx, inventoryID, filterID)
}

// GetStock returns the stock map. Empty productIDs requests the whole inventory.
func (s *CatalogService) GetStock(ctx context.Context, inventoryID string, productIDs []string) (integration.Value, error) {
	return s.platform.GetProductsStock(ctx, inventoryID, productIDs)
}

// GetPrices returns the price map, scoped like GetStock
func (s *CatalogService) GetPrices(ctx context.Context, inventoryID string, productIDs []string) (integration.Value, error) {
	return s.platform.GetProductsPrices(ctx, inventoryID, productIDs)
}

// ListOrders returns orders matching the filter
func (s *CatalogService) ListOrders(ctx context.Context, filter integration.OrderFilter) ([]integration.Order, error) {
	return s.platform.ListOrders(ctx, filter)
}

// GetAllProductsData assembles the full catalog of an inventory:
//  1. the lightweight list (an empty list short-circuits)
//  2. product details in batches of DetailBatchSize, concatenated in batch order
//  3. the unscoped stock and price maps, fetched concurrently
//  4. quantity and price overlaid from those maps, then normalization
//
// Any platform error aborts the aggregation; no partial result is returned.
func (s *CatalogService) GetAllProductsData(ctx context.Context, inventoryID string) ([]integration.CanonicalProduct, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "GetAllProductsData")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrInventoryID, inventoryID)

	log := logger.For(ctx, s.logger)

	list, err := s.platform.ListProducts(ctx, inventoryID, "")
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if len(list) == 0 {
		return []integration.CanonicalProduct{}, nil
	}

	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.ProductID)
	}
	batches := splitBatches(ids, DetailBatchSize)
	telemetry.SetAttribute(span, telemetry.SpanAttrBatchCount, len(batches))

	detailed, err := s.fetchDetails(ctx, inventoryID, batches)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var stock, prices integration.Value
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stock, err = s.platform.GetProductsStock(gctx, inventoryID, nil)
		return err
	})
	g.Go(func() error {
		var err error
		prices, err = s.platform.GetProductsPrices(gctx, inventoryID, nil)
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.AddEvent(ctx, "stock_and_prices_fetched",
		"stock_entries", stock.Len(),
		"price_entries", prices.Len(),
	)

	enriched := make([]integration.RawProduct, 0, len(detailed))
	for _, p := range detailed {
		enriched = append(enriched, overlay(p, stock, prices))
	}

	products := s.normalizer.Normalize(enriched)
	telemetry.SetAttribute(span, telemetry.SpanAttrProductCount, len(products))
	log.Debug("Assembled inventory products",
		zap.Int("listed", len(ids)),
		zap.Int("batches", len(batches)),
		zap.Int("products", len(products)))

	return products, nil
}

// fetchDetails runs one detail call per batch with at most detailConcurrency
// in flight. Results land in per-batch slots so the concatenation keeps batch
// order. Batches not yet started are skipped once one fails.
func (s *CatalogService) fetchDetails(ctx context.Context, inventoryID string, batches [][]string) ([]integration.RawProduct, error) {
	results := make([][]integration.RawProduct, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.detailConcurrency)
	for i, batch := range batches {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := s.platform.GetProductsData(gctx, inventoryID, batch)
			if err != nil {
				return err
			}
			results[i] = data
			telemetry.AddEvent(ctx, "detail_batch_fetched",
				telemetry.SpanAttrBatchIndex, i,
				telemetry.SpanAttrBatchSize, len(batch),
				telemetry.SpanAttrProductCount, len(data),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]integration.RawProduct, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// splitBatches partitions ids into consecutive chunks of at most size
func splitBatches(ids []string, size int) [][]string {
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		batches = append(batches, ids[start:end])
	}
	return batches
}

// overlay replaces quantity with the stock entry of the product (or 0) and
// price_brutto with its price entry, falling back to the embedded price, then 0.
func overlay(p integration.RawProduct, stock, prices integration.Value) integration.RawProduct {
	quantity := unwrap(stock.Get(p.ProductID), integration.FieldStock)
	if !quantity.Truthy() {
		quantity = integration.NumberValue(0)
	}

	price := unwrap(prices.Get(p.ProductID), integration.FieldPrices)
	if !price.Truthy() {
		price = p.Field(integration.FieldPrice)
	}
	if !price.Truthy() {
		price = integration.NumberValue(0)
	}

	return p.WithField(integration.FieldQuantity, quantity).WithField(integration.FieldPrice, price)
}

// unwrap returns the keyed map nested under key when the platform wraps a
// product entry as {"stock": {...}} or {"prices": {...}}; other shapes pass through.
func unwrap(v integration.Value, key string) integration.Value {
	if inner := v.Get(key); inner.IsMapShape() {
		return inner
	}
	return v
}
