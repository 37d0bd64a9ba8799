package dto

import (
	"time"

	"github.com/productsync/backend/internal/domain/integration"
)

// Response status values
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusOnline  = "online"
	StatusHealthy = "healthy"
)

// BaseLinker credential states reported by the health endpoint
const (
	BaseLinkerConfigured    = "configured"
	BaseLinkerNotConfigured = "not_configured"
)

// Timestamp renders t the way every response timestamp is rendered
func Timestamp(t time.Time) string {
	return integration.FormatTimestamp(t)
}

// ErrorResponse is the body of every failed request past the token guard.
// Message carries the error text verbatim.
type ErrorResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string, at time.Time) ErrorResponse {
	return ErrorResponse{
		Status:    StatusError,
		Message:   message,
		Timestamp: Timestamp(at),
	}
}

// ConnectionResponse answers the connection test
type ConnectionResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Connection test messages
const (
	ConnectionSuccessful = "BaseLinker API connection successful"
	ConnectionFailed     = "BaseLinker API connection failed"
)

// NewConnectionResponse maps the connection test outcome
func NewConnectionResponse(connected bool, at time.Time) ConnectionResponse {
	if connected {
		return ConnectionResponse{Status: StatusSuccess, Message: ConnectionSuccessful, Timestamp: Timestamp(at)}
	}
	return ConnectionResponse{Status: StatusError, Message: ConnectionFailed, Timestamp: Timestamp(at)}
}

// InventoriesResponse lists the inventories visible to the token
type InventoriesResponse struct {
	Status    string                  `json:"status"`
	Data      []integration.Inventory `json:"data"`
	Count     int                     `json:"count"`
	Timestamp string                  `json:"timestamp"`
}

// ProductsResponse lists products of one inventory. Data holds raw records
// for the lightweight list and canonical products when detailed.
type ProductsResponse struct {
	Status      string `json:"status"`
	Data        any    `json:"data"`
	Count       int    `json:"count"`
	InventoryID string `json:"inventory_id"`
	Detailed    bool   `json:"detailed"`
	Timestamp   string `json:"timestamp"`
}

// MapResponse carries the id-keyed stock or price map of an inventory
type MapResponse struct {
	Status      string            `json:"status"`
	Data        integration.Value `json:"data"`
	InventoryID string            `json:"inventory_id"`
	Timestamp   string            `json:"timestamp"`
}

// OrderFilters echoes the order query. Absent or unparsable values are null.
type OrderFilters struct {
	DateFrom *int64  `json:"date_from"`
	DateTo   *int64  `json:"date_to"`
	Status   *string `json:"status"`
}

// OrdersResponse lists orders matching the filters
type OrdersResponse struct {
	Status    string              `json:"status"`
	Data      []integration.Order `json:"data"`
	Count     int                 `json:"count"`
	Filters   OrderFilters        `json:"filters"`
	Timestamp string              `json:"timestamp"`
}

// StatusResponse describes the service and its endpoints
type StatusResponse struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Timestamp string   `json:"timestamp"`
	Endpoints []string `json:"endpoints"`
}

// HealthResponse is the liveness body. It never reports failure.
type HealthResponse struct {
	Status     string `json:"status"`
	Time       string `json:"time"`
	BaseLinker string `json:"baselinker"`
}
