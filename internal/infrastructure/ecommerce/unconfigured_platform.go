package ecommerce

import (
	"context"
	"errors"
	"fmt"

	"github.com/productsync/backend/internal/domain/integration"
)

// UnconfiguredPlatform stands in for the BaseLinker adapter when no usable
// token is configured. Every call fails with an error wrapping
// integration.ErrPlatformNotConfigured and never reaches the network.
type UnconfiguredPlatform struct {
	err error
}

// NewUnconfiguredPlatform creates an UnconfiguredPlatform. cause is reported
// alongside ErrPlatformNotConfigured; nil reports the sentinel alone.
func NewUnconfiguredPlatform(cause error) *UnconfiguredPlatform {
	switch {
	case cause == nil:
		cause = integration.ErrPlatformNotConfigured
	case !errors.Is(cause, integration.ErrPlatformNotConfigured):
		cause = fmt.Errorf("%w: %v", integration.ErrPlatformNotConfigured, cause)
	}
	return &UnconfiguredPlatform{err: cause}
}

// compile-time check
var _ integration.EcommercePlatform = (*UnconfiguredPlatform)(nil)

func (p *UnconfiguredPlatform) ListInventories(context.Context) ([]integration.Inventory, error) {
	return nil, p.err
}

func (p *UnconfiguredPlatform) ListProducts(context.Context, string, string) ([]integration.RawProduct, error) {
	return nil, p.err
}

func (p *UnconfiguredPlatform) GetProductsData(context.Context, string, []string) ([]integration.RawProduct, error) {
	return nil, p.err
}

func (p *UnconfiguredPlatform) GetProductsStock(context.Context, string, []string) (integration.Value, error) {
	return integration.Value{}, p.err
}

func (p *UnconfiguredPlatform) GetProductsPrices(context.Context, string, []string) (integration.Value, error) {
	return integration.Value{}, p.err
}

func (p *UnconfiguredPlatform) ListOrders(context.Context, integration.OrderFilter) ([]integration.Order, error) {
	return nil, p.err
}
