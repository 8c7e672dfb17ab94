package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/gaborage/go-holded/logger"
)

const (
	// DefaultBaseURL is the root of the Holded REST API.
	DefaultBaseURL = "https://api.holded.com/api/"
	// DefaultTimeout bounds each individual attempt.
	DefaultTimeout = 30 * time.Second
	// DefaultConcurrency bounds ExecuteAll.
	DefaultConcurrency = 8
)

// Builder configures an Executor.
type Builder struct {
	creds                Credentials
	baseURL              string
	keyHeader            string
	userAgent            string
	defaultHeaders       http.Header
	timeout              time.Duration
	policy               RetryPolicy
	ratePerSecond        float64
	rateBurst            int
	concurrency          int
	httpClient           Doer
	log                  logger.Logger
	logPayloads          bool
	maxPayloadLog        int
	tracerProvider       oteltrace.TracerProvider
	meterProvider        metric.MeterProvider
	propagator           propagation.TextMapPropagator
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	onRetry              func(RetryState, Decision)
}

// NewBuilder creates a builder with defaults for the given credentials.
func NewBuilder(creds Credentials) *Builder {
	return &Builder{
		creds:          creds,
		baseURL:        DefaultBaseURL,
		defaultHeaders: http.Header{},
		timeout:        DefaultTimeout,
		policy:         DefaultRetryPolicy(),
		concurrency:    DefaultConcurrency,
		maxPayloadLog:  defaultMaxPayloadLog,
	}
}

// WithBaseURL sets the URL request paths are resolved against.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.baseURL = baseURL
	return b
}

// WithTimeout sets the per-attempt timeout. Zero disables it.
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.timeout = timeout
	return b
}

// WithRetryPolicy replaces the retry policy.
func (b *Builder) WithRetryPolicy(p RetryPolicy) *Builder {
	b.policy = p
	return b
}

// WithRetries sets the attempt budget and base delay of the current policy.
func (b *Builder) WithRetries(maxAttempts int, baseDelay time.Duration) *Builder {
	b.policy.MaxAttempts = maxAttempts
	b.policy.BaseDelay = baseDelay
	return b
}

// WithRateLimit throttles attempts to perSecond with the given burst. Zero disables it.
func (b *Builder) WithRateLimit(perSecond float64, burst int) *Builder {
	b.ratePerSecond = perSecond
	b.rateBurst = burst
	return b
}

// WithConcurrency bounds how many calls ExecuteAll runs at once.
func (b *Builder) WithConcurrency(n int) *Builder {
	b.concurrency = n
	return b
}

// WithHTTPClient sets the HTTP client used to send attempts.
func (b *Builder) WithHTTPClient(client Doer) *Builder {
	b.httpClient = client
	return b
}

// WithLogger sets the logger. The default discards everything.
func (b *Builder) WithLogger(log logger.Logger) *Builder {
	b.log = log
	return b
}

// WithPayloadLogging logs request and response bodies at debug level,
// truncated to maxBytes (0 keeps the default).
func (b *Builder) WithPayloadLogging(enabled bool, maxBytes int) *Builder {
	b.logPayloads = enabled
	if maxBytes > 0 {
		b.maxPayloadLog = maxBytes
	}
	return b
}

// WithAPIKeyHeader changes the header the API key is sent in.
func (b *Builder) WithAPIKeyHeader(name string) *Builder {
	b.keyHeader = name
	return b
}

// WithUserAgent overrides the User-Agent header.
func (b *Builder) WithUserAgent(ua string) *Builder {
	b.userAgent = ua
	return b
}

// WithDefaultHeader adds a header sent with every request.
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.defaultHeaders.Set(key, value)
	return b
}

// WithTracerProvider enables tracing of logical calls.
func (b *Builder) WithTracerProvider(tp oteltrace.TracerProvider) *Builder {
	b.tracerProvider = tp
	return b
}

// WithMeterProvider enables attempt, retry and duration metrics.
func (b *Builder) WithMeterProvider(mp metric.MeterProvider) *Builder {
	b.meterProvider = mp
	return b
}

// WithPropagator sets the propagator that injects trace context headers.
func (b *Builder) WithPropagator(p propagation.TextMapPropagator) *Builder {
	b.propagator = p
	return b
}

// WithRequestInterceptor adds a request interceptor.
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.requestInterceptors = append(b.requestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor.
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.responseInterceptors = append(b.responseInterceptors, interceptor)
	return b
}

// WithRetryObserver registers fn, called before every retry wait.
func (b *Builder) WithRetryObserver(fn func(RetryState, Decision)) *Builder {
	b.onRetry = fn
	return b
}

// Build validates the configuration and creates the executor.
func (b *Builder) Build() (*Executor, error) {
	if !b.creds.Valid() {
		return nil, ErrMissingAPIKey
	}
	base, err := parseBaseURL(b.baseURL)
	if err != nil {
		return nil, err
	}
	if b.timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative: %s", b.timeout)
	}

	tel, err := newTelemetry(b.tracerProvider, b.meterProvider, b.propagator)
	if err != nil {
		return nil, fmt.Errorf("failed to create instruments: %w", err)
	}

	doer := b.httpClient
	if doer == nil {
		doer = &http.Client{}
	}
	log := b.log
	if log == nil {
		log = logger.Nop()
	}
	concurrency := b.concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	var limiter *rate.Limiter
	if b.ratePerSecond > 0 {
		burst := max(b.rateBurst, 1)
		limiter = rate.NewLimiter(rate.Limit(b.ratePerSecond), burst)
	}

	return &Executor{
		baseURL:              base,
		headers:              NewHeaderBuilder(b.creds, b.keyHeader, b.userAgent, b.defaultHeaders),
		timeout:              b.timeout,
		policy:               b.policy.normalized(),
		limiter:              limiter,
		doer:                 doer,
		log:                  log,
		telemetry:            tel,
		requestInterceptors:  append([]RequestInterceptor(nil), b.requestInterceptors...),
		responseInterceptors: append([]ResponseInterceptor(nil), b.responseInterceptors...),
		concurrency:          concurrency,
		logPayloads:          b.logPayloads,
		maxPayloadLog:        b.maxPayloadLog,
		onRetry:              b.onRetry,
		sleep:                sleepContext,
		now:                  time.Now,
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
