package integration

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/productsync/backend/internal/domain/integration"
	"github.com/productsync/backend/internal/infrastructure/feed"
	"github.com/productsync/backend/internal/infrastructure/logger"
	"github.com/productsync/backend/internal/infrastructure/telemetry"
)

// Content types of rendered feeds
const (
	ContentTypeXML = "application/xml; charset=utf-8"
	ContentTypeCSV = "text/csv; charset=utf-8"
)

// exportFormatCSV labels CSV exports in metrics
const exportFormatCSV = "csv"

// ProductSource yields the canonical products of an inventory
type ProductSource interface {
	GetAllProductsData(ctx context.Context, inventoryID string) ([]integration.CanonicalProduct, error)
}

// ExportRecorder receives the number of products rendered per feed format
type ExportRecorder interface {
	ObserveExport(format string, products int)
}

// Export is a rendered feed ready to be written to a client
type Export struct {
	Body        string
	ContentType string
	// Filename is the attachment name offered when the client asks for a download
	Filename string
	Count    int
}

// ExportService renders inventory products into downloadable feeds
type ExportService struct {
	source   ProductSource
	recorder ExportRecorder
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService creates a new ExportService. recorder may be nil.
func NewExportService(source ProductSource, recorder ExportRecorder, logger *zap.Logger) *ExportService {
	return NewExportServiceWithClock(source, recorder, logger, time.Now)
}

// NewExportServiceWithClock creates an ExportService with a fixed time source
func NewExportServiceWithClock(source ProductSource, recorder ExportRecorder, logger *zap.Logger, now func() time.Time) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		source:   source,
		recorder: recorder,
		logger:   logger,
		now:      now,
	}
}

// ExportXML renders the inventory in the given XML dialect
func (s *ExportService) ExportXML(ctx context.Context, inventoryID string, format feed.Format) (*Export, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "xml")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrFormat, format.String())

	products, err := s.source.GetAllProductsData(ctx, inventoryID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	now := s.now()
	body := feed.RenderXML(products, format, feed.WithGeneratedAt(now))
	s.observe(ctx, format.String(), len(products))

	return &Export{
		Body:        body,
		ContentType: ContentTypeXML,
		Filename:    ExportFilename(inventoryID, "xml", now),
		Count:       len(products),
	}, nil
}

// ExportCSV renders the inventory as CSV
func (s *ExportService) ExportCSV(ctx context.Context, inventoryID string) (*Export, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "csv")
	defer span.End()
	telemetry.SetAttribute(span, telemetry.SpanAttrFormat, exportFormatCSV)

	products, err := s.source.GetAllProductsData(ctx, inventoryID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.observe(ctx, exportFormatCSV, len(products))

	return &Export{
		Body:        feed.RenderCSV(products),
		ContentType: ContentTypeCSV,
		Filename:    ExportFilename(inventoryID, "csv", s.now()),
		Count:       len(products),
	}, nil
}

func (s *ExportService) observe(ctx context.Context, format string, count int) {
	if s.recorder != nil {
		s.recorder.ObserveExport(format, count)
	}
	logger.For(ctx, s.logger).Info("Feed exported",
		zap.String("format", format),
		zap.Int("products", count))
}

// ExportFilename names a download products_<inventory>_<YYYY-MM-DD>.<ext>,
// dated in UTC
func ExportFilename(inventoryID, ext string, at time.Time) string {
	return fmt.Sprintf("products_%s_%s.%s", inventoryID, at.UTC().Format("2006-01-02"), ext)
}
