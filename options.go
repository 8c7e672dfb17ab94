package holded

import (
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/go-holded/logger"
	"github.com/gaborage/go-holded/observability"
	"github.com/gaborage/go-holded/transport"
)

// Option configures a Client.
type Option func(*settings)

type settings struct {
	builder    *transport.Builder
	httpClient transport.Doer
	log        logger.Logger
	provider   observability.Provider
	// ownsProvider is set when the client created the provider and must shut it down.
	ownsProvider bool
}

// WithBaseURL points the client at another API root, e.g. a test server.
func WithBaseURL(url string) Option {
	return func(s *settings) { s.builder.WithBaseURL(url) }
}

// WithTimeout bounds each attempt. Zero disables the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) { s.builder.WithTimeout(d) }
}

// WithRetryPolicy replaces the retry policy.
func WithRetryPolicy(p transport.RetryPolicy) Option {
	return func(s *settings) { s.builder.WithRetryPolicy(p) }
}

// WithRetries sets the attempt budget and the first backoff delay.
func WithRetries(maxAttempts int, baseDelay time.Duration) Option {
	return func(s *settings) { s.builder.WithRetries(maxAttempts, baseDelay) }
}

// WithoutRetries makes every call a single attempt.
func WithoutRetries() Option {
	return func(s *settings) { s.builder.WithRetryPolicy(transport.NoRetry()) }
}

// WithRateLimit throttles attempts client side.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *settings) { s.builder.WithRateLimit(perSecond, burst) }
}

// WithConcurrency bounds ExecuteAll.
func WithConcurrency(n int) Option {
	return func(s *settings) { s.builder.WithConcurrency(n) }
}

// WithHTTPClient sends attempts through client. The caller keeps ownership:
// Close does not release its connections.
func WithHTTPClient(client transport.Doer) Option {
	return func(s *settings) { s.httpClient = client }
}

// WithLogger sets the logger. Nothing is logged by default.
func WithLogger(log logger.Logger) Option {
	return func(s *settings) { s.log = log }
}

// WithPayloadLogging logs request and response bodies at debug level.
func WithPayloadLogging(maxBytes int) Option {
	return func(s *settings) { s.builder.WithPayloadLogging(true, maxBytes) }
}

// WithAPIKeyHeader changes the header carrying the API key.
func WithAPIKeyHeader(name string) Option {
	return func(s *settings) { s.builder.WithAPIKeyHeader(name) }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.builder.WithUserAgent(ua) }
}

// WithHeader adds a header sent with every request.
func WithHeader(key, value string) Option {
	return func(s *settings) { s.builder.WithDefaultHeader(key, value) }
}

// WithTracerProvider traces every call.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *settings) { s.builder.WithTracerProvider(tp) }
}

// WithMeterProvider records attempt, retry and duration metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *settings) { s.builder.WithMeterProvider(mp) }
}

// WithPropagator sets the trace context propagator. W3C trace context is
// used by default.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(s *settings) { s.builder.WithPropagator(p) }
}

// WithObservability wires tracing, metrics and propagation from p. The
// caller keeps ownership of p.
func WithObservability(p observability.Provider) Option {
	return func(s *settings) {
		s.provider = p
		s.ownsProvider = false
		useProvider(s.builder, p)
	}
}

// WithRequestInterceptor runs fn on every attempt before it is sent.
func WithRequestInterceptor(fn transport.RequestInterceptor) Option {
	return func(s *settings) { s.builder.WithRequestInterceptor(fn) }
}

// WithResponseInterceptor runs fn on every response before it is decoded.
func WithResponseInterceptor(fn transport.ResponseInterceptor) Option {
	return func(s *settings) { s.builder.WithResponseInterceptor(fn) }
}

// WithRetryObserver calls fn before every retry wait.
func WithRetryObserver(fn func(transport.RetryState, transport.Decision)) Option {
	return func(s *settings) { s.builder.WithRetryObserver(fn) }
}

func useProvider(b *transport.Builder, p observability.Provider) {
	b.WithTracerProvider(p.TracerProvider()).
		WithMeterProvider(p.MeterProvider()).
		WithPropagator(p.Propagator())
}
