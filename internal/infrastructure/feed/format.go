package feed

import (
	"strconv"
	"strings"
	"time"

	"github.com/productsync/backend/internal/domain/integration"
)

// Format selects an XML dialect
type Format string

const (
	FormatStandard Format = "standard"
	FormatSimple   Format = "simple"
	FormatDetailed Format = "detailed"
	FormatCommaval Format = "commaval"
)

// ParseFormat maps a query value onto a Format. Unknown values fall back to
// FormatStandard.
func ParseFormat(s string) Format {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatSimple, FormatDetailed, FormatCommaval:
		return f
	default:
		return FormatStandard
	}
}

// String returns the format name
func (f Format) String() string {
	return string(f)
}

// Default values of the generic XML document
const (
	DefaultRootElement = "products"
	DefaultEncoding    = "UTF-8"
	MetadataSource     = "BaseLinker API"
)

type options struct {
	rootElement   string
	encoding      string
	includeHeader bool
	generatedAt   time.Time
}

// Option configures rendering
type Option func(*options)

// WithRootElement sets the root element of the generic XML document
func WithRootElement(name string) Option {
	return func(o *options) {
		if name != "" {
			o.rootElement = name
		}
	}
}

// WithEncoding sets the encoding announced in the generic XML declaration
func WithEncoding(encoding string) Option {
	return func(o *options) {
		if encoding != "" {
			o.encoding = encoding
		}
	}
}

// WithoutHeader suppresses the XML declaration of the generic document
func WithoutHeader() Option {
	return func(o *options) {
		o.includeHeader = false
	}
}

// WithGeneratedAt sets the generation time stamped into feed metadata.
// Without it the current time is used.
func WithGeneratedAt(t time.Time) Option {
	return func(o *options) {
		o.generatedAt = t
	}
}

func newOptions(opts []Option) options {
	o := options{
		rootElement:   DefaultRootElement,
		encoding:      DefaultEncoding,
		includeHeader: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.generatedAt.IsZero() {
		o.generatedAt = time.Now()
	}
	return o
}

// RenderXML renders products in the given dialect. Only the generic dialect
// honours the root element, encoding and header options.
func RenderXML(products []integration.CanonicalProduct, format Format, opts ...Option) string {
	o := newOptions(opts)
	switch format {
	case FormatSimple:
		return renderSimple(products)
	case FormatDetailed:
		return renderDetailed(products, o)
	case FormatCommaval:
		return renderCommaval(products, o)
	default:
		return renderStandard(products, o)
	}
}

// formatNumber renders f in its shortest plain decimal form
func formatNumber(f float64) string {
	if f == 0 {
		// also folds negative zero
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
