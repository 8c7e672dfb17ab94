package transport

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	oteltrace "go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const (
	instrumentationName = "github.com/gaborage/go-holded/transport"

	spanName         = "holded.request"
	metricAttempts   = "holded.client.attempts"
	metricRetries    = "holded.client.retries"
	metricDuration   = "holded.client.duration"
	attrAttempts     = "holded.attempts"
	attrRequestID    = "holded.request_id"
	attrShape        = "holded.response.kind"
	attrShapeMissing = "holded.response.shape_mismatch"
)

// telemetry bundles the tracer, instruments and propagator of an executor.
// Without configured providers everything is a no-op.
type telemetry struct {
	tracer     oteltrace.Tracer
	propagator propagation.TextMapPropagator
	attempts   metric.Int64Counter
	retries    metric.Int64Counter
	duration   metric.Float64Histogram
}

func newTelemetry(tp oteltrace.TracerProvider, mp metric.MeterProvider, prop propagation.TextMapPropagator) (*telemetry, error) {
	if tp == nil {
		tp = tracenoop.NewTracerProvider()
	}
	if mp == nil {
		mp = metricnoop.NewMeterProvider()
	}
	if prop == nil {
		prop = propagation.TraceContext{}
	}

	meter := mp.Meter(instrumentationName, metric.WithInstrumentationVersion(Version))
	attempts, err := meter.Int64Counter(metricAttempts,
		metric.WithDescription("HTTP attempts made against the Holded API"),
		metric.WithUnit("{attempt}"))
	if err != nil {
		return nil, err
	}
	retries, err := meter.Int64Counter(metricRetries,
		metric.WithDescription("Retries scheduled after a transient failure"),
		metric.WithUnit("{retry}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram(metricDuration,
		metric.WithDescription("Duration of logical calls, retries and waits included"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &telemetry{
		tracer:     tp.Tracer(instrumentationName, oteltrace.WithInstrumentationVersion(Version)),
		propagator: prop,
		attempts:   attempts,
		retries:    retries,
		duration:   duration,
	}, nil
}

func (t *telemetry) start(ctx context.Context, p *prepared, requestID string) (context.Context, oteltrace.Span) {
	return t.tracer.Start(ctx, spanName,
		oteltrace.WithSpanKind(oteltrace.SpanKindClient),
		oteltrace.WithAttributes(
			semconv.HTTPRequestMethodKey.String(p.method),
			semconv.URLFull(p.url),
			semconv.ServerAddress(p.host),
			attribute.String(attrRequestID, requestID),
		))
}

func (t *telemetry) inject(ctx context.Context, h http.Header) {
	t.propagator.Inject(ctx, propagation.HeaderCarrier(h))
}

func (t *telemetry) recordAttempt(ctx context.Context, p *prepared, status int, kind ErrorType) {
	attrs := []attribute.KeyValue{semconv.HTTPRequestMethodKey.String(p.method)}
	if status != 0 {
		attrs = append(attrs, semconv.HTTPResponseStatusCode(status))
	}
	if kind != "" {
		attrs = append(attrs, semconv.ErrorTypeKey.String(string(kind)))
	}
	t.attempts.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func (t *telemetry) recordRetry(ctx context.Context, p *prepared, state RetryState, d Decision) {
	t.retries.Add(ctx, 1, metric.WithAttributes(
		semconv.HTTPRequestMethodKey.String(p.method),
		semconv.ErrorTypeKey.String(string(state.LastType)),
	))
	oteltrace.SpanFromContext(ctx).AddEvent("retry", oteltrace.WithAttributes(
		attribute.Int("attempt", state.Attempt),
		semconv.ErrorTypeKey.String(string(state.LastType)),
		attribute.Int64("delay_ms", d.Delay.Milliseconds()),
	))
}

func (t *telemetry) finish(ctx context.Context, span oteltrace.Span, p *prepared, attempts int, elapsed time.Duration, resp *Response, err error) {
	defer span.End()

	attrs := []attribute.KeyValue{semconv.HTTPRequestMethodKey.String(p.method)}
	span.SetAttributes(attribute.Int(attrAttempts, attempts))

	switch {
	case err == nil && resp != nil:
		attrs = append(attrs, semconv.HTTPResponseStatusCode(resp.StatusCode))
		span.SetAttributes(
			semconv.HTTPResponseStatusCode(resp.StatusCode),
			attribute.String(attrShape, resp.Kind.String()),
			attribute.Bool(attrShapeMissing, resp.ShapeMismatch),
		)
		span.SetStatus(codes.Ok, "")
	case err != nil:
		kind := "canceled"
		if e, ok := AsError(err); ok {
			kind = string(e.Type)
			if e.StatusCode != 0 {
				span.SetAttributes(semconv.HTTPResponseStatusCode(e.StatusCode))
				attrs = append(attrs, semconv.HTTPResponseStatusCode(e.StatusCode))
			}
		}
		attrs = append(attrs, semconv.ErrorTypeKey.String(kind))
		span.SetAttributes(semconv.ErrorTypeKey.String(kind))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	t.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
}
