package feed

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/productsync/backend/internal/domain/integration"
)

// CommavalTimestampLayout is the layout of the Supplier-Catalog timestamp attribute
const CommavalTimestampLayout = "2006-01-02 15:04:05"

// Fixed COMMAVAL supplier block
const (
	CommavalSupplierCode = "BASELINKER"
	CommavalSupplierName = "BaseLinker Product Sync"
)

// CommavalMarkup is applied to Price to obtain SalesPrice
var CommavalMarkup = decimal.RequireFromString("1.2")

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five XML special characters
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// CDATA wraps s in a CDATA section. A "]]>" inside s is split across two
// sections so the markup stays well formed.
func CDATA(s string) string {
	return "<![CDATA[" + strings.ReplaceAll(s, "]]>", "]]]]><![CDATA[>") + "]]>"
}

func renderStandard(products []integration.CanonicalProduct, o options) string {
	var b strings.Builder

	if o.includeHeader {
		b.WriteString(`<?xml version="1.0" encoding="` + o.encoding + `"?>` + "\n")
	}
	b.WriteString("<" + o.rootElement + ">\n")
	b.WriteString("  <metadata>\n")
	b.WriteString("    <generated>" + integration.FormatTimestamp(o.generatedAt) + "</generated>\n")
	b.WriteString("    <count>" + strconv.Itoa(len(products)) + "</count>\n")
	b.WriteString("    <source>" + MetadataSource + "</source>\n")
	b.WriteString("  </metadata>\n")

	for _, p := range products {
		b.WriteString("  <product>\n")
		b.WriteString("    <id>" + EscapeXML(p.ID) + "</id>\n")
		b.WriteString("    <name>" + EscapeXML(p.Name) + "</name>\n")
		b.WriteString("    <sku>" + EscapeXML(p.SKU) + "</sku>\n")
		if p.Description != "" {
			b.WriteString("    <description>" + CDATA(p.Description) + "</description>\n")
		}
		b.WriteString("    <price>" + formatNumber(p.Price) + "</price>\n")
		b.WriteString("    <quantity>" + formatNumber(p.Quantity) + "</quantity>\n")
		if p.Category != "" {
			b.WriteString("    <category>" + EscapeXML(p.Category) + "</category>\n")
		}
		if p.Manufacturer != "" {
			b.WriteString("    <manufacturer>" + EscapeXML(p.Manufacturer) + "</manufacturer>\n")
		}
		if p.EAN != "" {
			b.WriteString("    <ean>" + EscapeXML(p.EAN) + "</ean>\n")
		}
		if len(p.Images) > 0 {
			b.WriteString("    <images>\n")
			for i, image := range p.Images {
				b.WriteString(`      <image id="` + strconv.Itoa(i+1) + `">` + EscapeXML(image) + "</image>\n")
			}
			b.WriteString("    </images>\n")
		}
		b.WriteString("    <lastUpdated>" + integration.FormatTimestamp(p.LastUpdated) + "</lastUpdated>\n")
		b.WriteString("  </product>\n")
	}

	b.WriteString("</" + o.rootElement + ">\n")
	return b.String()
}

func renderSimple(products []integration.CanonicalProduct) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<catalog>\n")
	for _, p := range products {
		b.WriteString("  <item>\n")
		b.WriteString("    <code>" + EscapeXML(p.SKU) + "</code>\n")
		b.WriteString("    <name>" + EscapeXML(p.Name) + "</name>\n")
		b.WriteString("    <price>" + formatNumber(p.Price) + "</price>\n")
		b.WriteString("    <stock>" + formatNumber(p.Quantity) + "</stock>\n")
		b.WriteString("  </item>\n")
	}
	b.WriteString("</catalog>\n")
	return b.String()
}

func renderDetailed(products []integration.CanonicalProduct, o options) string {
	var b strings.Builder

	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<products>\n")
	b.WriteString("  <export_date>" + integration.FormatTimestamp(o.generatedAt) + "</export_date>\n")
	b.WriteString("  <product_count>" + strconv.Itoa(len(products)) + "</product_count>\n")
	for _, p := range products {
		b.WriteString("  <product>\n")
		b.WriteString("    <product_id>" + EscapeXML(p.ID) + "</product_id>\n")
		b.WriteString("    <sku>" + EscapeXML(p.SKU) + "</sku>\n")
		b.WriteString("    <title>" + EscapeXML(p.Name) + "</title>\n")
		b.WriteString("    <price_gross>" + formatNumber(p.Price) + "</price_gross>\n")
		b.WriteString("    <availability>" + formatNumber(p.Quantity) + "</availability>\n")
		if p.Description != "" {
			b.WriteString("    <description>" + CDATA(p.Description) + "</description>\n")
		}
		if p.Manufacturer != "" {
			b.WriteString("    <brand>" + EscapeXML(p.Manufacturer) + "</brand>\n")
		}
		if p.EAN != "" {
			b.WriteString("    <barcode>" + EscapeXML(p.EAN) + "</barcode>\n")
		}
		b.WriteString("    <last_modified>" + integration.FormatTimestamp(p.LastUpdated) + "</last_modified>\n")
		b.WriteString("  </product>\n")
	}
	b.WriteString("</products>\n")
	return b.String()
}

func renderCommaval(products []integration.CanonicalProduct, o options) string {
	var b strings.Builder

	timestamp := o.generatedAt.UTC().Format(CommavalTimestampLayout)
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<Supplier-Catalog timestamp="` + timestamp + `">` + "\n")
	b.WriteString("  <Load>F</Load>\n")
	b.WriteString("  <Supplier>\n")
	b.WriteString("    <Code>" + CommavalSupplierCode + "</Code>\n")
	b.WriteString("    <Name>" + CommavalSupplierName + "</Name>\n")
	b.WriteString("  </Supplier>\n")
	b.WriteString("  <Products>\n")
	for _, p := range products {
		price := decimal.NewFromFloat(p.Price)

		b.WriteString("    <Product>\n")
		b.WriteString("      <Codes>\n")
		if p.EAN != "" {
			b.WriteString(`        <Code type="1">` + EscapeXML(p.EAN) + "</Code>\n")
		}
		if p.SKU != "" {
			b.WriteString(`        <Code type="3">` + EscapeXML(p.SKU) + "</Code>\n")
		}
		b.WriteString("      </Codes>\n")
		b.WriteString("      <Stock>\n")
		// 2 = available
		b.WriteString("        <Type>2</Type>\n")
		b.WriteString("        <Quantity>" + formatNumber(p.Quantity) + "</Quantity>\n")
		b.WriteString("      </Stock>\n")
		b.WriteString("      <Prices>\n")
		b.WriteString("        <Price>" + price.StringFixed(2) + "</Price>\n")
		b.WriteString("        <SalesPrice>" + price.Mul(CommavalMarkup).StringFixed(2) + "</SalesPrice>\n")
		b.WriteString("      </Prices>\n")
		b.WriteString("    </Product>\n")
	}
	b.WriteString("  </Products>\n")
	b.WriteString("</Supplier-Catalog>\n")
	return b.String()
}
