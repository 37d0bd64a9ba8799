package feed

import (
	"strings"

	"github.com/productsync/backend/internal/domain/integration"
)

// CSVHeader is the first line of every CSV export
const CSVHeader = "id,sku,name,price,quantity,category,manufacturer,ean,lastUpdated"

// RenderCSV renders products as CSV. Name, category and manufacturer are
// always quoted; the other columns are written raw. The output always ends
// with a newline.
func RenderCSV(products []integration.CanonicalProduct) string {
	var b strings.Builder

	b.WriteString(CSVHeader + "\n")
	for i, p := range products {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.Join([]string{
			p.ID,
			p.SKU,
			quoteCSV(p.Name),
			formatNumber(p.Price),
			formatNumber(p.Quantity),
			quoteCSV(p.Category),
			quoteCSV(p.Manufacturer),
			p.EAN,
			integration.FormatTimestamp(p.LastUpdated),
		}, ","))
	}
	if len(products) > 0 {
		b.WriteString("\n")
	}
	return b.String()
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
