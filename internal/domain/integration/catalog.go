package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Upstream field names of a product record
const (
	FieldProductID    = "product_id"
	FieldTextFields   = "text_fields"
	FieldName         = "name"
	FieldDescription  = "description"
	FieldSKU          = "sku"
	FieldEAN          = "ean"
	FieldCategory     = "category"
	FieldManufacturer = "manufacturer"
	FieldPrice        = "price_brutto"
	FieldPrices       = "prices"
	FieldQuantity     = "quantity"
	FieldStock        = "stock"
	FieldImages       = "images"
)

// ---------------------------------------------------------------------------
// ID
// ---------------------------------------------------------------------------

// ID is an upstream identifier. The platform emits ids as JSON numbers in
// some methods and as strings in others; both decode to the same text.
type ID string

// String returns the id text
func (id ID) String() string {
	return string(id)
}

// UnmarshalJSON accepts a JSON string or number
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("integration: invalid id %s", data)
	}
	*id = ID(n.String())
	return nil
}

// ---------------------------------------------------------------------------
// Inventory
// ---------------------------------------------------------------------------

// Inventory describes an upstream catalog. The record is kept exactly as
// the platform sent it, including fields not modelled here.
type Inventory struct {
	raw Value
}

// NewInventory wraps an upstream inventory record
func NewInventory(raw Value) Inventory {
	return Inventory{raw: raw}
}

// InventoryID returns the upstream inventory id as text
func (i Inventory) InventoryID() string {
	id, _ := i.raw.Get("inventory_id").Text()
	return id
}

// Name returns the inventory name
func (i Inventory) Name() string {
	name, _ := i.raw.Get("name").Str()
	return name
}

// Raw returns the upstream record
func (i Inventory) Raw() Value {
	return i.raw
}

// MarshalJSON emits the upstream record as received
func (i Inventory) MarshalJSON() ([]byte, error) {
	return i.raw.MarshalJSON()
}

// UnmarshalJSON keeps the whole upstream record
func (i *Inventory) UnmarshalJSON(data []byte) error {
	return i.raw.UnmarshalJSON(data)
}

// ---------------------------------------------------------------------------
// RawProduct
// ---------------------------------------------------------------------------

// RawProduct is a product record exactly as the platform shaped it. The
// platform keys product maps by id, so the id is carried next to the fields.
type RawProduct struct {
	ProductID string
	Fields    Value
}

// NewRawProduct wraps an upstream record
func NewRawProduct(productID string, fields Value) RawProduct {
	return RawProduct{ProductID: productID, Fields: fields}
}

// Field returns the named upstream field
func (p RawProduct) Field(name string) Value {
	return p.Fields.Get(name)
}

// WithField returns a copy of the record with name overlaid
func (p RawProduct) WithField(name string, val Value) RawProduct {
	return RawProduct{ProductID: p.ProductID, Fields: p.Fields.With(name, val)}
}

// MarshalJSON emits the upstream fields followed by product_id
func (p RawProduct) MarshalJSON() ([]byte, error) {
	return p.Fields.With(FieldProductID, StringValue(p.ProductID)).MarshalJSON()
}

// RawProductsFromMap converts an id-keyed product map into records, in key
// order. Anything other than a map yields an empty slice.
func RawProductsFromMap(products Value) []RawProduct {
	keys := products.Keys()
	out := make([]RawProduct, 0, len(keys))
	for _, id := range keys {
		out = append(out, NewRawProduct(id, products.Get(id)))
	}
	return out
}

// ---------------------------------------------------------------------------
// CanonicalProduct
// ---------------------------------------------------------------------------

// TimestampLayout renders timestamps the way the feeds expect them
// (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestamp renders t in UTC using TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// CanonicalProduct is the flat product shape every feed is rendered from.
// Values are never maps; Price and Quantity are always finite.
type CanonicalProduct struct {
	ID           string
	Name         string
	SKU          string
	Description  string
	Price        float64
	Quantity     float64
	Category     string
	Manufacturer string
	EAN          string
	Images       []string
	LastUpdated  time.Time
}

type canonicalProductJSON struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	SKU          string   `json:"sku"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	Quantity     float64  `json:"quantity"`
	Category     string   `json:"category"`
	Manufacturer string   `json:"manufacturer"`
	EAN          string   `json:"ean"`
	Images       []string `json:"images"`
	LastUpdated  string   `json:"lastUpdated"`
}

// MarshalJSON renders the product with feed-style field names
func (p CanonicalProduct) MarshalJSON() ([]byte, error) {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return json.Marshal(canonicalProductJSON{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		Description:  p.Description,
		Price:        p.Price,
		Quantity:     p.Quantity,
		Category:     p.Category,
		Manufacturer: p.Manufacturer,
		EAN:          p.EAN,
		Images:       images,
		LastUpdated:  FormatTimestamp(p.LastUpdated),
	})
}

// ---------------------------------------------------------------------------
// Order
// ---------------------------------------------------------------------------

// Order is an upstream order passed through untouched, line items included.
type Order struct {
	raw Value
}

// NewOrder wraps an upstream order record
func NewOrder(raw Value) Order {
	return Order{raw: raw}
}

// OrderID returns the upstream order id
func (o Order) OrderID() string {
	id, _ := o.raw.Get("order_id").Text()
	return id
}

// StatusID returns the upstream order status id
func (o Order) StatusID() string {
	id, _ := o.raw.Get("order_status_id").Text()
	return id
}

// LineItems returns the embedded products of the order
func (o Order) LineItems() []Value {
	return o.raw.Get("products").Items()
}

// Raw returns the upstream record
func (o Order) Raw() Value {
	return o.raw
}

// MarshalJSON emits the upstream record as received
func (o Order) MarshalJSON() ([]byte, error) {
	return o.raw.MarshalJSON()
}

// UnmarshalJSON keeps the whole upstream record
func (o *Order) UnmarshalJSON(data []byte) error {
	return o.raw.UnmarshalJSON(data)
}
