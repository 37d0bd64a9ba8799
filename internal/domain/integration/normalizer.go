package integration

import "time"

// Normalizer turns upstream product records into CanonicalProduct values.
// It performs no I/O; the clock is only used to stamp LastUpdated.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a Normalizer using the wall clock
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// NewNormalizerWithClock creates a Normalizer with a fixed time source
func NewNormalizerWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize maps each record to one CanonicalProduct, preserving order.
// All products of one call share the same LastUpdated stamp.
func (n *Normalizer) Normalize(products []RawProduct) []CanonicalProduct {
	stamp := n.now().UTC()
	out := make([]CanonicalProduct, 0, len(products))
	for _, p := range products {
		out = append(out, normalizeProduct(p, stamp))
	}
	return out
}

func normalizeProduct(p RawProduct, stamp time.Time) CanonicalProduct {
	textFields := p.Field(FieldTextFields)
	return CanonicalProduct{
		ID:           p.ProductID,
		Name:         resolveText(textFields.Get(FieldName), p.Field(FieldName)),
		SKU:          flatText(p.Field(FieldSKU)),
		Description:  resolveText(textFields.Get(FieldDescription), p.Field(FieldDescription)),
		Price:        resolveAmount(p.Field(FieldPrice), p.Field(FieldPrices)),
		Quantity:     resolveAmount(p.Field(FieldQuantity), p.Field(FieldStock)),
		Category:     flatText(p.Field(FieldCategory)),
		Manufacturer: flatText(p.Field(FieldManufacturer)),
		EAN:          flatText(p.Field(FieldEAN)),
		Images:       resolveImages(p.Field(FieldImages)),
		LastUpdated:  stamp,
	}
}

// resolveText prefers the localized text_fields entry over the flat field.
func resolveText(localized, flat Value) string {
	if s := flatText(localized); s != "" {
		return s
	}
	return flatText(flat)
}

// flatText returns the text of a set scalar, or "".
func flatText(v Value) string {
	if !v.Truthy() {
		return ""
	}
	s, _ := v.Text()
	return s
}

// resolveAmount applies the price/quantity precedence:
//  1. primary is a keyed map: value under its first key
//  2. primary is a set scalar: its numeric value
//  3. fallback is a keyed map: value under its first key
//  4. 0
func resolveAmount(primary, fallback Value) float64 {
	if primary.Truthy() {
		if primary.IsMapShape() {
			return firstKeyAmount(primary)
		}
		return scalarAmount(primary)
	}
	if fallback.IsMapShape() {
		return firstKeyAmount(fallback)
	}
	return 0
}

// firstKeyAmount reads the value stored under the first enumerated key.
func firstKeyAmount(m Value) float64 {
	key, ok := m.FirstKey()
	if !ok {
		return 0
	}
	return scalarAmount(m.Get(key))
}

func scalarAmount(v Value) float64 {
	f, ok := v.Float()
	if !ok {
		return 0
	}
	return f
}

// resolveImages flattens a list or a slot->url map into URLs. Map values
// that are not strings are dropped.
func resolveImages(v Value) []string {
	images := make([]string, 0)
	switch {
	case v.IsList():
		for _, item := range v.Items() {
			if s, ok := item.Text(); ok {
				images = append(images, s)
			}
		}
	case v.IsMapShape():
		for _, item := range v.Items() {
			if s, ok := item.Str(); ok {
				images = append(images, s)
			}
		}
	}
	return images
}
