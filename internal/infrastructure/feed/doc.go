// Package feed renders canonical products into the downstream feed formats.
//
// This package contains:
// - the generic products XML document with configurable root and header
// - the simple, detailed and COMMAVAL supplier XML dialects
// - the flat CSV export
//
// Renderers are pure: they never mutate their input, never perform I/O and
// never fail. The generation time is taken from the options so output is
// reproducible.
//
// Example usage:
//
//	body := feed.RenderXML(products, feed.ParseFormat(c.Query("format")),
//	    feed.WithGeneratedAt(time.Now()),
//	)
//	csv := feed.RenderCSV(products)
package feed
