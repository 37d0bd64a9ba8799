package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/productsync/backend/internal/infrastructure/telemetry"
)

// recordSpans installs a recording global provider for the test
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestStartSpan_ConnectorCall(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "baselinker.getInventories",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrMethod, "getInventories"),
	)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "baselinker.getInventories", spans[0].Name())
	assert.Equal(t, trace.SpanKindClient, spans[0].SpanKind())
	assert.Equal(t, telemetry.TracerName, spans[0].InstrumentationScope().Name)
	assert.Equal(t, "getInventories", attrMap(spans[0].Attributes())[telemetry.SpanAttrMethod].AsString())
}

func TestStartSpan_DefaultsToInternal(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "catalog.overlay")
	span.End()

	require.Len(t, sr.Ended(), 1)
	assert.Equal(t, trace.SpanKindInternal, sr.Ended()[0].SpanKind())
}

func TestStartServiceSpan_NestsConnectorSpans(t *testing.T) {
	sr := recordSpans(t)

	ctx, parent := telemetry.StartServiceSpan(context.Background(), "catalog", "GetAllProductsData")
	_, child := telemetry.StartSpan(ctx, "baselinker.getInventoryProductsList")
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "baselinker.getInventoryProductsList", spans[0].Name())
	assert.Equal(t, "catalog.GetAllProductsData", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
}

func TestSetAttribute_CatalogKeys(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "export", "xml")
	telemetry.SetAttribute(span, telemetry.SpanAttrInventoryID, "307")
	telemetry.SetAttribute(span, telemetry.SpanAttrProductCount, 250)
	telemetry.SetAttribute(span, telemetry.SpanAttrFormat, "commaval")
	telemetry.SetAttribute(span, "latency", 1500*time.Millisecond)
	telemetry.SetAttribute(span, "scoped", true)
	telemetry.SetAttribute(span, "ids", []string{"1", "2"})
	telemetry.SetAttribute(nil, "ignored", 1)
	span.End()

	attrs := attrMap(sr.Ended()[0].Attributes())
	assert.Equal(t, "307", attrs[telemetry.SpanAttrInventoryID].AsString())
	assert.Equal(t, int64(250), attrs[telemetry.SpanAttrProductCount].AsInt64())
	assert.Equal(t, "commaval", attrs[telemetry.SpanAttrFormat].AsString())
	assert.Equal(t, "1.5s", attrs["latency"].AsString())
	assert.True(t, attrs["scoped"].AsBool())
	assert.Equal(t, []string{"1", "2"}, attrs["ids"].AsStringSlice())
}

func TestRecordError_MarksSpanFailed(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartSpan(context.Background(), "baselinker.getOrders")
	telemetry.RecordError(span, errors.New("BaseLinker API error: Invalid user token (ERROR_BAD_TOKEN)"))
	telemetry.RecordError(span, nil)
	telemetry.RecordError(nil, errors.New("ignored"))
	span.End()

	ended := sr.Ended()[0]
	assert.Equal(t, codes.Error, ended.Status().Code)
	assert.Equal(t, "BaseLinker API error: Invalid user token (ERROR_BAD_TOKEN)", ended.Status().Description)
	require.Len(t, ended.Events(), 1)
	assert.Equal(t, "exception", ended.Events()[0].Name)
}

func TestAddEvent_DetailBatch(t *testing.T) {
	sr := recordSpans(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "catalog", "GetAllProductsData")
	telemetry.AddEvent(ctx, "detail_batch_fetched",
		telemetry.SpanAttrBatchIndex, 2,
		telemetry.SpanAttrBatchSize, 50,
		42, "dropped",
		"dangling",
	)
	span.End()

	events := sr.Ended()[0].Events()
	require.Len(t, events, 1)
	assert.Equal(t, "detail_batch_fetched", events[0].Name)
	attrs := attrMap(events[0].Attributes)
	assert.Len(t, attrs, 2)
	assert.Equal(t, int64(2), attrs[telemetry.SpanAttrBatchIndex].AsInt64())
	assert.Equal(t, int64(50), attrs[telemetry.SpanAttrBatchSize].AsInt64())
}

func TestAddEvent_WithoutSpanIsNoop(t *testing.T) {
	recordSpans(t)

	assert.NotPanics(t, func() {
		telemetry.AddEvent(context.Background(), "stock_and_prices_fetched", "stock_entries", 3)
	})
}
