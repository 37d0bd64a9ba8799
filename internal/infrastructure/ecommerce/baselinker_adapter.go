package ecommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/productsync/backend/internal/domain/integration"
	"github.com/productsync/backend/internal/infrastructure/telemetry"
)

// maxResponseSize is the maximum allowed response size from BaseLinker API (32MB)
const maxResponseSize = 32 * 1024 * 1024

// Call outcomes reported to the CallRecorder
const (
	OutcomeSuccess         = "success"
	OutcomeAPIError        = "api_error"
	OutcomeHTTPError       = "http_error"
	OutcomeTransportError  = "transport_error"
	OutcomeInvalidResponse = "invalid_response"
)

// CallRecorder receives one observation per connector call
type CallRecorder interface {
	ObserveUpstreamCall(method, outcome string, elapsed time.Duration)
}

// BaseLinkerAdapter implements EcommercePlatform for the BaseLinker connector API
type BaseLinkerAdapter struct {
	config     *BaseLinkerConfig
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	recorder   CallRecorder
}

// BaseLinkerOption configures a BaseLinkerAdapter
type BaseLinkerOption func(*BaseLinkerAdapter)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(client *http.Client) BaseLinkerOption {
	return func(a *BaseLinkerAdapter) {
		if client != nil {
			a.httpClient = client
		}
	}
}

// WithLogger sets the adapter logger
func WithLogger(logger *zap.Logger) BaseLinkerOption {
	return func(a *BaseLinkerAdapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithCallRecorder sets the metrics sink for connector calls
func WithCallRecorder(recorder CallRecorder) BaseLinkerOption {
	return func(a *BaseLinkerAdapter) {
		a.recorder = recorder
	}
}

// WithRateLimiter replaces the limiter derived from the configuration.
// A nil limiter disables limiting.
func WithRateLimiter(limiter *rate.Limiter) BaseLinkerOption {
	return func(a *BaseLinkerAdapter) {
		a.limiter = limiter
	}
}

// NewBaseLinkerAdapter creates a new BaseLinker adapter with the given configuration.
// The HTTP client has no timeout; callers bound calls through the context.
func NewBaseLinkerAdapter(config *BaseLinkerConfig, opts ...BaseLinkerOption) (*BaseLinkerAdapter, error) {
	if config == nil {
		return nil, integration.ErrPlatformNotConfigured
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", integration.ErrPlatformNotConfigured, err)
	}

	a := &BaseLinkerAdapter{
		config:     config,
		httpClient: &http.Client{},
		limiter:    newPerMinuteLimiter(config.RateLimitPerMinute),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func newPerMinuteLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// compile-time check
var _ integration.EcommercePlatform = (*BaseLinkerAdapter)(nil)

// ---------------------------------------------------------------------------
// Catalog Operations
// ---------------------------------------------------------------------------

// ListInventories returns all inventories visible to the token
func (a *BaseLinkerAdapter) ListInventories(ctx context.Context) ([]integration.Inventory, error) {
	var resp BaseLinkerInventoriesResponse
	if err := a.Call(ctx, MethodGetInventories, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Inventories == nil {
		return []integration.Inventory{}, nil
	}
	return resp.Inventories, nil
}

// ListProducts returns the lightweight product list of an inventory
func (a *BaseLinkerAdapter) ListProducts(ctx context.Context, inventoryID, filterID string) ([]integration.RawProduct, error) {
	params := inventoryProductsListParams{InventoryID: inventoryID, FilterID: filterID}

	var resp BaseLinkerProductsResponse
	if err := a.Call(ctx, MethodGetInventoryProductsList, params, &resp); err != nil {
		return nil, err
	}
	return integration.RawProductsFromMap(resp.Products), nil
}

// GetProductsData returns detailed records for the given ids. An empty id
// list returns immediately without calling the platform.
func (a *BaseLinkerAdapter) GetProductsData(ctx context.Context, inventoryID string, productIDs []string) ([]integration.RawProduct, error) {
	if len(productIDs) == 0 {
		return []integration.RawProduct{}, nil
	}
	params := inventoryProductsDataParams{InventoryID: inventoryID, Products: productIDs}

	var resp BaseLinkerProductsResponse
	if err := a.Call(ctx, MethodGetInventoryProductsData, params, &resp); err != nil {
		return nil, err
	}
	return integration.RawProductsFromMap(resp.Products), nil
}

// GetProductsStock returns the id-keyed stock map
func (a *BaseLinkerAdapter) GetProductsStock(ctx context.Context, inventoryID string, productIDs []string) (integration.Value, error) {
	return a.productsMap(ctx, MethodGetInventoryProductsStock, inventoryID, productIDs)
}

// GetProductsPrices returns the id-keyed price map
func (a *BaseLinkerAdapter) GetProductsPrices(ctx context.Context, inventoryID string, productIDs []string) (integration.Value, error) {
	return a.productsMap(ctx, MethodGetInventoryProductsPrices, inventoryID, productIDs)
}

func (a *BaseLinkerAdapter) productsMap(ctx context.Context, method, inventoryID string, productIDs []string) (integration.Value, error) {
	params := inventoryProductsScopedParams{InventoryID: inventoryID, Products: productIDs}

	var resp BaseLinkerProductsResponse
	if err := a.Call(ctx, method, params, &resp); err != nil {
		return integration.Value{}, err
	}
	if !resp.Products.IsMapShape() {
		return integration.EmptyMap(), nil
	}
	return resp.Products, nil
}

// ---------------------------------------------------------------------------
// Order Operations
// ---------------------------------------------------------------------------

// ListOrders returns orders matching the filter. Zero filter fields are not sent.
func (a *BaseLinkerAdapter) ListOrders(ctx context.Context, filter integration.OrderFilter) ([]integration.Order, error) {
	params := ordersParams{
		DateConfirmedFrom: filter.DateConfirmedFrom,
		DateConfirmedTo:   filter.DateConfirmedTo,
		StatusID:          filter.StatusID,
	}

	var resp BaseLinkerOrdersResponse
	if err := a.Call(ctx, MethodGetOrders, params, &resp); err != nil {
		return nil, err
	}
	if resp.Orders == nil {
		return []integration.Order{}, nil
	}
	return resp.Orders, nil
}

// ---------------------------------------------------------------------------
// Transport
// ---------------------------------------------------------------------------

// Call invokes one connector method and decodes the envelope into out.
// Failures are always *integration.UpstreamError. Calls are never retried.
func (a *BaseLinkerAdapter) Call(ctx context.Context, method string, params any, out any) (err error) {
	ctx, span := telemetry.StartSpan(ctx, "baselinker."+method,
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrMethod, method),
	)
	defer span.End()

	start := time.Now()
	outcome := OutcomeSuccess
	defer func() {
		elapsed := time.Since(start)
		if a.recorder != nil {
			a.recorder.ObserveUpstreamCall(method, outcome, elapsed)
		}
		if err != nil {
			telemetry.RecordError(span, err)
			fields := []zap.Field{
				zap.String("method", method),
				zap.String("outcome", outcome),
				zap.Duration("latency", elapsed),
				zap.Error(err),
			}
			if upstreamErr, ok := integration.AsUpstreamError(err); ok && upstreamErr.Code != "" {
				fields = append(fields, zap.String("code", upstreamErr.Code))
				telemetry.SetAttribute(span, telemetry.SpanAttrErrorCode, upstreamErr.Code)
			}
			a.logger.Warn("BaseLinker API request failed", fields...)
			return
		}
		a.logger.Debug("BaseLinker API request",
			zap.String("method", method),
			zap.Duration("latency", elapsed),
		)
	}()

	body, status, err := a.doRequest(ctx, method, params)
	if err != nil {
		outcome = OutcomeTransportError
		return &integration.UpstreamError{Method: method, Message: err.Error(), Err: integration.ErrPlatformUnavailable}
	}
	telemetry.SetAttribute(span, "http.status_code", status)

	if status < 200 || status > 299 {
		outcome = OutcomeHTTPError
		return &integration.UpstreamError{Method: method, HTTPStatus: status, Err: integration.ErrPlatformRequestFailed}
	}

	var envelope BaseLinkerResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		outcome = OutcomeInvalidResponse
		return &integration.UpstreamError{
			Method:  method,
			Message: fmt.Sprintf("baselinker: failed to parse %s response: %v", method, err),
			Err:     integration.ErrPlatformInvalidResponse,
		}
	}
	if envelope.IsError() {
		outcome = OutcomeAPIError
		return &integration.UpstreamError{
			Method:  method,
			Code:    envelope.ErrorCode.String(),
			Message: envelope.ErrorMessage,
			Err:     integration.ErrPlatformRequestFailed,
		}
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			outcome = OutcomeInvalidResponse
			return &integration.UpstreamError{
				Method:  method,
				Message: fmt.Sprintf("baselinker: failed to parse %s response: %v", method, err),
				Err:     integration.ErrPlatformInvalidResponse,
			}
		}
	}
	return nil
}

// doRequest performs one form-encoded POST and returns the capped body
func (a *BaseLinkerAdapter) doRequest(ctx context.Context, method string, params any) ([]byte, int, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, 0, fmt.Errorf("baselinker: rate limiter: %w", err)
		}
	}

	blob := []byte("{}")
	if params != nil {
		var err error
		blob, err = json.Marshal(params)
		if err != nil {
			return nil, 0, fmt.Errorf("baselinker: failed to encode parameters: %w", err)
		}
	}

	values := url.Values{}
	values.Set("method", method)
	values.Set("parameters", string(blob))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.APIBaseURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("baselinker: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-BLToken", a.config.Token)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("baselinker: failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}
