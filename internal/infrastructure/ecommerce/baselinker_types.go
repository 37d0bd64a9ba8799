package ecommerce

import (
	"github.com/productsync/backend/internal/domain/integration"
)

// BaseLinker connector method names
const (
	MethodGetInventories             = "getInventories"
	MethodGetInventoryProductsList   = "getInventoryProductsList"
	MethodGetInventoryProductsData   = "getInventoryProductsData"
	MethodGetInventoryProductsStock  = "getInventoryProductsStock"
	MethodGetInventoryProductsPrices = "getInventoryProductsPrices"
	MethodGetOrders                  = "getOrders"
)

// Envelope status discriminants
const (
	BaseLinkerStatusSuccess = "SUCCESS"
	BaseLinkerStatusError   = "ERROR"
)

// ---------------------------------------------------------------------------
// Common BaseLinker Response Types
// ---------------------------------------------------------------------------

// BaseLinkerResponse is the envelope every connector method answers with
type BaseLinkerResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	ErrorCode    integration.ID `json:"error_code,omitempty"`
}

// IsError returns true if the envelope carries the failure discriminant
func (r *BaseLinkerResponse) IsError() bool {
	return r.Status == BaseLinkerStatusError
}

// ---------------------------------------------------------------------------
// Method Parameters
// ---------------------------------------------------------------------------

type inventoryProductsListParams struct {
	InventoryID string `json:"inventory_id"`
	FilterID    string `json:"filter_id,omitempty"`
}

type inventoryProductsDataParams struct {
	InventoryID string   `json:"inventory_id"`
	Products    []string `json:"products"`
}

// inventoryProductsScopedParams requests stock or prices; an empty product
// list is omitted, which scopes the call to the whole inventory.
type inventoryProductsScopedParams struct {
	InventoryID string   `json:"inventory_id"`
	Products    []string `json:"products,omitempty"`
}

type ordersParams struct {
	DateConfirmedFrom int64  `json:"date_confirmed_from,omitempty"`
	DateConfirmedTo   int64  `json:"date_confirmed_to,omitempty"`
	StatusID          string `json:"status_id,omitempty"`
}

// ---------------------------------------------------------------------------
// Method Results
// ---------------------------------------------------------------------------

// BaseLinkerInventoriesResponse is the result of getInventories
type BaseLinkerInventoriesResponse struct {
	BaseLinkerResponse
	Inventories []integration.Inventory `json:"inventories"`
}

// BaseLinkerProductsResponse is the result of the product list, data, stock
// and price methods. Products is keyed by product id.
type BaseLinkerProductsResponse struct {
	BaseLinkerResponse
	Products integration.Value `json:"products"`
}

// BaseLinkerOrdersResponse is the result of getOrders
type BaseLinkerOrdersResponse struct {
	BaseLinkerResponse
	Orders []integration.Order `json:"orders"`
}
