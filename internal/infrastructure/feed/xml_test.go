package feed

import (
	"encoding/xml"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productsync/backend/internal/domain/integration"
)

var (
	generatedAt = time.Date(2024, 3, 15, 10, 30, 45, 123000000, time.UTC)
	updatedAt   = time.Date(2024, 3, 15, 10, 30, 44, 0, time.UTC)
)

func fullProduct() integration.CanonicalProduct {
	return integration.CanonicalProduct{
		ID:           "101",
		Name:         "Kubek & <Spodek>",
		SKU:          "KUB-1",
		Description:  "<b>Porcelana</b> & szkło",
		Price:        10.5,
		Quantity:     7,
		Category:     "Kuchnia",
		Manufacturer: "O'Neil",
		EAN:          "5901234123457",
		Images:       []string{"https://img/1.jpg", "https://img/2.jpg?a=1&b=2"},
		LastUpdated:  updatedAt,
	}
}

func minimalProduct() integration.CanonicalProduct {
	return integration.CanonicalProduct{
		ID:          "102",
		Name:        "Talerz",
		LastUpdated: updatedAt,
	}
}

func TestEscapeXML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"a & b", "a &amp; b"},
		{"<tag>", "&lt;tag&gt;"},
		{`"quoted"`, "&quot;quoted&quot;"},
		{"it's", "it&apos;s"},
		{"&amp;", "&amp;amp;"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeXML(tt.in))
		})
	}
}

func TestCDATA(t *testing.T) {
	assert.Equal(t, "<![CDATA[<b>x</b> & y]]>", CDATA("<b>x</b> & y"))
	assert.Equal(t, "<![CDATA[a ]]]]><![CDATA[> b]]>", CDATA("a ]]> b"))
	assert.Equal(t, "<![CDATA[]]>", CDATA(""))
}

func TestRenderXML_DescriptionWithCDATATerminator(t *testing.T) {
	p := minimalProduct()
	p.Description = "a ]]> <b>"

	for _, format := range []Format{FormatStandard, FormatDetailed} {
		t.Run(format.String(), func(t *testing.T) {
			out := RenderXML([]integration.CanonicalProduct{p}, format, WithGeneratedAt(generatedAt))

			var doc struct {
				Products []struct {
					Description string `xml:"description"`
				} `xml:"product"`
			}
			require.NoError(t, xml.Unmarshal([]byte(out), &doc))
			require.Len(t, doc.Products, 1)
			assert.Equal(t, "a ]]> <b>", doc.Products[0].Description)
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"", FormatStandard},
		{"standard", FormatStandard},
		{"simple", FormatSimple},
		{"detailed", FormatDetailed},
		{"commaval", FormatCommaval},
		{"COMMAVAL", FormatCommaval},
		{"yaml", FormatStandard},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFormat(tt.in))
		})
	}
}

func TestRenderXML_Standard(t *testing.T) {
	got := RenderXML([]integration.CanonicalProduct{fullProduct(), minimalProduct()}, FormatStandard,
		WithGeneratedAt(generatedAt))

	want := `<?xml version="1.0" encoding="UTF-8"?>
<products>
  <metadata>
    <generated>2024-03-15T10:30:45.123Z</generated>
    <count>2</count>
    <source>BaseLinker API</source>
  </metadata>
  <product>
    <id>101</id>
    <name>Kubek &amp; &lt;Spodek&gt;</name>
    <sku>KUB-1</sku>
    <description><![CDATA[<b>Porcelana</b> & szkło]]></description>
    <price>10.5</price>
    <quantity>7</quantity>
    <category>Kuchnia</category>
    <manufacturer>O&apos;Neil</manufacturer>
    <ean>5901234123457</ean>
    <images>
      <image id="1">https://img/1.jpg</image>
      <image id="2">https://img/2.jpg?a=1&amp;b=2</image>
    </images>
    <lastUpdated>2024-03-15T10:30:44.000Z</lastUpdated>
  </product>
  <product>
    <id>102</id>
    <name>Talerz</name>
    <sku></sku>
    <price>0</price>
    <quantity>0</quantity>
    <lastUpdated>2024-03-15T10:30:44.000Z</lastUpdated>
  </product>
</products>
`
	assert.Equal(t, want, got)
}

func TestRenderXML_StandardOptions(t *testing.T) {
	got := RenderXML(nil, FormatStandard,
		WithGeneratedAt(generatedAt),
		WithRootElement("catalog"),
		WithEncoding("ISO-8859-2"),
	)
	assert.True(t, strings.HasPrefix(got, `<?xml version="1.0" encoding="ISO-8859-2"?>`+"\n<catalog>\n"))
	assert.True(t, strings.HasSuffix(got, "</catalog>\n"))

	got = RenderXML(nil, FormatStandard, WithGeneratedAt(generatedAt), WithoutHeader())
	assert.True(t, strings.HasPrefix(got, "<products>\n"))
	assert.NotContains(t, got, "<?xml")
}

func TestRenderXML_EmptyList(t *testing.T) {
	got := RenderXML([]integration.CanonicalProduct{}, FormatStandard, WithGeneratedAt(generatedAt))

	assert.Contains(t, got, "<count>0</count>")
	assert.NotContains(t, got, "<product>")
}

func TestRenderXML_UnknownFormatFallsBackToStandard(t *testing.T) {
	products := []integration.CanonicalProduct{fullProduct()}

	assert.Equal(t,
		RenderXML(products, FormatStandard, WithGeneratedAt(generatedAt)),
		RenderXML(products, Format("unknown"), WithGeneratedAt(generatedAt)),
	)
}

func TestRenderXML_Simple(t *testing.T) {
	got := RenderXML([]integration.CanonicalProduct{fullProduct(), minimalProduct()}, FormatSimple,
		WithGeneratedAt(generatedAt))

	want := `<?xml version="1.0" encoding="UTF-8"?>
<catalog>
  <item>
    <code>KUB-1</code>
    <name>Kubek &amp; &lt;Spodek&gt;</name>
    <price>10.5</price>
    <stock>7</stock>
  </item>
  <item>
    <code></code>
    <name>Talerz</name>
    <price>0</price>
    <stock>0</stock>
  </item>
</catalog>
`
	assert.Equal(t, want, got)
}

func TestRenderXML_SimpleIgnoresGenericOptions(t *testing.T) {
	got := RenderXML(nil, FormatSimple, WithRootElement("feed"), WithoutHeader())

	assert.Equal(t, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<catalog>\n</catalog>\n", got)
}

func TestRenderXML_Detailed(t *testing.T) {
	got := RenderXML([]integration.CanonicalProduct{fullProduct(), minimalProduct()}, FormatDetailed,
		WithGeneratedAt(generatedAt))

	want := `<?xml version="1.0" encoding="UTF-8"?>
<products>
  <export_date>2024-03-15T10:30:45.123Z</export_date>
  <product_count>2</product_count>
  <product>
    <product_id>101</product_id>
    <sku>KUB-1</sku>
    <title>Kubek &amp; &lt;Spodek&gt;</title>
    <price_gross>10.5</price_gross>
    <availability>7</availability>
    <description><![CDATA[<b>Porcelana</b> & szkło]]></description>
    <brand>O&apos;Neil</brand>
    <barcode>5901234123457</barcode>
    <last_modified>2024-03-15T10:30:44.000Z</last_modified>
  </product>
  <product>
    <product_id>102</product_id>
    <sku></sku>
    <title>Talerz</title>
    <price_gross>0</price_gross>
    <availability>0</availability>
    <last_modified>2024-03-15T10:30:44.000Z</last_modified>
  </product>
</products>
`
	assert.Equal(t, want, got)
}

func TestRenderXML_Commaval(t *testing.T) {
	eanOnly := minimalProduct()
	eanOnly.EAN = "123"
	eanOnly.Price = 3

	got := RenderXML([]integration.CanonicalProduct{fullProduct(), minimalProduct(), eanOnly}, FormatCommaval,
		WithGeneratedAt(generatedAt))

	want := `<?xml version="1.0" encoding="utf-8"?>
<Supplier-Catalog timestamp="2024-03-15 10:30:45">
  <Load>F</Load>
  <Supplier>
    <Code>BASELINKER</Code>
    <Name>BaseLinker Product Sync</Name>
  </Supplier>
  <Products>
    <Product>
      <Codes>
        <Code type="1">5901234123457</Code>
        <Code type="3">KUB-1</Code>
      </Codes>
      <Stock>
        <Type>2</Type>
        <Quantity>7</Quantity>
      </Stock>
      <Prices>
        <Price>10.50</Price>
        <SalesPrice>12.60</SalesPrice>
      </Prices>
    </Product>
    <Product>
      <Codes>
      </Codes>
      <Stock>
        <Type>2</Type>
        <Quantity>0</Quantity>
      </Stock>
      <Prices>
        <Price>0.00</Price>
        <SalesPrice>0.00</SalesPrice>
      </Prices>
    </Product>
    <Product>
      <Codes>
        <Code type="1">123</Code>
      </Codes>
      <Stock>
        <Type>2</Type>
        <Quantity>0</Quantity>
      </Stock>
      <Prices>
        <Price>3.00</Price>
        <SalesPrice>3.60</SalesPrice>
      </Prices>
    </Product>
  </Products>
</Supplier-Catalog>
`
	assert.Equal(t, want, got)
}

func TestRenderXML_CommavalSalesPrice(t *testing.T) {
	tests := []struct {
		price     float64
		wantPrice string
		wantSales string
	}{
		{0, "0.00", "0.00"},
		{1, "1.00", "1.20"},
		{9.99, "9.99", "11.99"},
		{19.99, "19.99", "23.99"},
		{100, "100.00", "120.00"},
		{0.1, "0.10", "0.12"},
		{1234.5, "1234.50", "1481.40"},
	}

	for _, tt := range tests {
		t.Run(tt.wantPrice, func(t *testing.T) {
			p := minimalProduct()
			p.Price = tt.price

			got := RenderXML([]integration.CanonicalProduct{p}, FormatCommaval, WithGeneratedAt(generatedAt))
			assert.Contains(t, got, "<Price>"+tt.wantPrice+"</Price>")
			assert.Contains(t, got, "<SalesPrice>"+tt.wantSales+"</SalesPrice>")
		})
	}
}

func TestRenderXML_CommavalTimestampIsUTC(t *testing.T) {
	warsaw := time.FixedZone("CET", 3600)
	got := RenderXML(nil, FormatCommaval, WithGeneratedAt(time.Date(2024, 1, 2, 1, 0, 0, 0, warsaw)))

	assert.Contains(t, got, `<Supplier-Catalog timestamp="2024-01-02 00:00:00">`)
}

func TestRenderXML_DoesNotMutateInput(t *testing.T) {
	products := []integration.CanonicalProduct{fullProduct()}
	before := fullProduct()

	for _, f := range []Format{FormatStandard, FormatSimple, FormatDetailed, FormatCommaval} {
		RenderXML(products, f, WithGeneratedAt(generatedAt))
	}
	RenderCSV(products)

	assert.Equal(t, before, products[0])
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{math.Copysign(0, -1), "0"},
		{10, "10"},
		{10.5, "10.5"},
		{12.345, "12.345"},
		{-3.25, "-3.25"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatNumber(tt.in))
		})
	}
}
