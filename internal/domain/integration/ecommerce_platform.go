package integration

import (
	"context"
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// EcommercePlatform Errors
// ---------------------------------------------------------------------------

var (
	// Platform errors
	ErrPlatformNotConfigured   = errors.New("integration: platform not configured")
	ErrPlatformUnavailable     = errors.New("integration: platform temporarily unavailable")
	ErrPlatformRequestFailed   = errors.New("integration: platform request failed")
	ErrPlatformInvalidResponse = errors.New("integration: invalid platform response")
)

// UpstreamError is returned for every failed platform call. Code and Message
// are copied verbatim from the platform when it reports them; transport
// failures carry the transport error text in Message.
type UpstreamError struct {
	// Method is the remote procedure that failed
	Method string
	// Code is the platform error code (empty for transport failures)
	Code string
	// Message is the platform error message or transport failure text
	Message string
	// HTTPStatus is set when the platform answered with a non-2xx status
	HTTPStatus int
	// Err is one of the ErrPlatform* sentinels
	Err error
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	switch {
	case e.HTTPStatus != 0:
		return fmt.Sprintf("HTTP error! status: %d", e.HTTPStatus)
	case errors.Is(e.Err, ErrPlatformRequestFailed):
		return fmt.Sprintf("BaseLinker API error: %s (%s)", e.Message, e.Code)
	default:
		return e.Message
	}
}

// Unwrap exposes the sentinel category
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// AsUpstreamError extracts an *UpstreamError from an error chain
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}

// ---------------------------------------------------------------------------
// OrderFilter
// ---------------------------------------------------------------------------

// OrderFilter narrows the order listing. Zero values are not sent upstream.
type OrderFilter struct {
	// DateConfirmedFrom is a unix timestamp (seconds)
	DateConfirmedFrom int64
	// DateConfirmedTo is a unix timestamp (seconds)
	DateConfirmedTo int64
	// StatusID is the platform order status id
	StatusID string
}

// ---------------------------------------------------------------------------
// EcommercePlatform Port Interface
// ---------------------------------------------------------------------------

// EcommercePlatform is the port to the upstream catalog platform. Each method
// is one remote call; implementations never retry.
type EcommercePlatform interface {
	// ListInventories returns all catalogs visible to the credential
	ListInventories(ctx context.Context) ([]Inventory, error)

	// ListProducts returns the lightweight product list of an inventory.
	// filterID is optional.
	ListProducts(ctx context.Context, inventoryID, filterID string) ([]RawProduct, error)

	// GetProductsData returns detailed records for the given product ids, in
	// the order the platform lists them.
	GetProductsData(ctx context.Context, inventoryID string, productIDs []string) ([]RawProduct, error)

	// GetProductsStock returns a map of product id to stock. An empty
	// productIDs slice requests every product in the inventory.
	GetProductsStock(ctx context.Context, inventoryID string, productIDs []string) (Value, error)

	// GetProductsPrices returns a map of product id to price, scoped the same
	// way as GetProductsStock.
	GetProductsPrices(ctx context.Context, inventoryID string, productIDs []string) (Value, error)

	// ListOrders returns orders matching the filter
	ListOrders(ctx context.Context, filter OrderFilter) ([]Order, error)
}
