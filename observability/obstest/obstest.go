// Package obstest records spans and metrics in memory so tests can assert on
// the client's instrumentation without a collector.
//
//	traces := obstest.NewTraceRecorder(t)
//	meters := obstest.NewMeterRecorder(t)
//	client, _ := holded.New(key, holded.WithTracerProvider(traces), holded.WithMeterProvider(meters))
//	...
//	spans := traces.SpansNamed("holded.request")
//	attempts := meters.SumInt64(t, "holded.client.attempts")
package obstest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// TraceRecorder is a TracerProvider that exports spans synchronously to memory.
type TraceRecorder struct {
	*sdktrace.TracerProvider
	Exporter *tracetest.InMemoryExporter
}

// NewTraceRecorder creates a recorder that is shut down when t finishes.
func NewTraceRecorder(t testing.TB) *TraceRecorder {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return &TraceRecorder{TracerProvider: provider, Exporter: exporter}
}

// Spans returns every ended span.
func (r *TraceRecorder) Spans() tracetest.SpanStubs {
	return r.Exporter.GetSpans()
}

// SpansNamed returns the ended spans called name.
func (r *TraceRecorder) SpansNamed(name string) tracetest.SpanStubs {
	var out tracetest.SpanStubs
	for _, s := range r.Exporter.GetSpans() {
		if s.Name == name {
			out = append(out, s)
		}
	}
	return out
}

// Attribute looks up key on span.
func Attribute(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

// MeterRecorder is a MeterProvider read on demand.
type MeterRecorder struct {
	*sdkmetric.MeterProvider
	Reader *sdkmetric.ManualReader
}

// NewMeterRecorder creates a recorder that is shut down when t finishes.
func NewMeterRecorder(t testing.TB) *MeterRecorder {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return &MeterRecorder{MeterProvider: provider, Reader: reader}
}

// Collect reads everything recorded so far.
func (r *MeterRecorder) Collect(t testing.TB) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, r.Reader.Collect(context.Background(), &rm), "failed to collect metrics")
	return rm
}

// Find returns the metric called name, or nil.
func Find(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// SumInt64 returns the total of an int64 counter across all attribute sets.
func (r *MeterRecorder) SumInt64(t testing.TB, name string) int64 {
	t.Helper()
	m := Find(r.Collect(t), name)
	require.NotNil(t, m, "metric %s not found", name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is %T, not Sum[int64]", name, m.Data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

// HistogramCount returns how many values a float64 histogram recorded.
func (r *MeterRecorder) HistogramCount(t testing.TB, name string) uint64 {
	t.Helper()
	m := Find(r.Collect(t), name)
	require.NotNil(t, m, "metric %s not found", name)
	h, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "metric %s is %T, not Histogram[float64]", name, m.Data)
	var total uint64
	for _, dp := range h.DataPoints {
		total += dp.Count
	}
	return total
}
