package ecommerce

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/productsync/backend/internal/domain/integration"
)

func TestUnconfiguredPlatform(t *testing.T) {
	ctx := context.Background()
	_, cause := NewBaseLinkerAdapter(NewBaseLinkerConfig(BaseLinkerPlaceholderToken))
	p := NewUnconfiguredPlatform(cause)

	_, err := p.ListInventories(ctx)
	assert.ErrorIs(t, err, integration.ErrPlatformNotConfigured)
	assert.Contains(t, err.Error(), "placeholder")

	_, err = p.ListProducts(ctx, "1", "")
	assert.ErrorIs(t, err, integration.ErrPlatformNotConfigured)
	_, err = p.GetProductsData(ctx, "1", []string{"1"})
	assert.ErrorIs(t, err, integration.ErrPlatformNotConfigured)
	_, err = p.GetProductsStock(ctx, "1", nil)
	assert.ErrorIs(t, err, integration.ErrPlatformNotConfigured)
	_, err = p.GetProductsPrices(ctx, "1", nil)
	assert.ErrorIs(t, err, integration.ErrPlatformNotConfigured)
	_, err = p.ListOrders(ctx, integration.OrderFilter{})
	assert.ErrorIs(t, err, integration.ErrPlatformNotConfigured)
}

func TestNewUnconfiguredPlatform_NilCause(t *testing.T) {
	_, err := NewUnconfiguredPlatform(nil).ListInventories(context.Background())
	assert.True(t, errors.Is(err, integration.ErrPlatformNotConfigured))
	assert.Equal(t, integration.ErrPlatformNotConfigured.Error(), err.Error())
}
