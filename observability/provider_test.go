package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestNewProviderDisabledIsNoop(t *testing.T) {
	p, err := NewProvider(&Config{})
	require.NoError(t, err)

	assert.IsType(t, tracenoop.TracerProvider{}, p.TracerProvider())
	assert.IsType(t, noop.MeterProvider{}, p.MeterProvider())
	assert.NoError(t, p.ForceFlush(context.Background()))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderNilConfig(t *testing.T) {
	_, err := NewProvider(nil)
	assert.ErrorIs(t, err, ErrNilConfig)
}

func TestNewProviderStdout(t *testing.T) {
	p, err := NewProvider(&Config{
		Enabled: true,
		Service: ServiceConfig{Name: "holded-test", Version: "1.0.0"},
		Trace:   TraceConfig{Enabled: true, Endpoint: EndpointStdout},
		Metrics: MetricsConfig{Enabled: true, Endpoint: EndpointStdout, Interval: time.Hour},
	})
	require.NoError(t, err)

	assert.IsType(t, &sdktrace.TracerProvider{}, p.TracerProvider())
	assert.IsType(t, &sdkmetric.MeterProvider{}, p.MeterProvider())
	assert.ElementsMatch(t, []string{"traceparent", "tracestate", "baggage"}, p.Propagator().Fields())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, p.Shutdown(ctx))
}

func TestNewProviderOTLPTraceExporters(t *testing.T) {
	for _, tc := range []struct {
		name     string
		protocol string
		endpoint string
	}{
		{name: "grpc_host_port", protocol: ProtocolGRPC, endpoint: "localhost:4317"},
		{name: "http_host_port", protocol: ProtocolHTTP, endpoint: "localhost:4318"},
		{name: "http_url", protocol: ProtocolHTTP, endpoint: "http://localhost:4318/v1/traces"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewProvider(&Config{
				Enabled: true,
				Service: ServiceConfig{Name: "holded-test"},
				Trace: TraceConfig{
					Enabled:  true,
					Endpoint: tc.endpoint,
					Protocol: tc.protocol,
					Insecure: true,
					Headers:  map[string]string{"x-team": "billing"},
				},
			})
			require.NoError(t, err)
			assert.IsType(t, noop.MeterProvider{}, p.MeterProvider())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, p.Shutdown(ctx))
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{name: "disabled", cfg: Config{}, want: nil},
		{name: "missing_service", cfg: Config{Enabled: true}, want: ErrMissingServiceName},
		{
			name: "bad_protocol",
			cfg:  Config{Enabled: true, Service: ServiceConfig{Name: "x"}, Trace: TraceConfig{Enabled: true, Endpoint: "localhost:4317", Protocol: "udp"}},
			want: ErrInvalidProtocol,
		},
		{
			name: "missing_endpoint",
			cfg:  Config{Enabled: true, Service: ServiceConfig{Name: "x"}, Metrics: MetricsConfig{Enabled: true, Protocol: ProtocolGRPC}},
			want: ErrMissingEndpoint,
		},
		{
			name: "sample_rate",
			cfg:  Config{Enabled: true, Service: ServiceConfig{Name: "x"}, Trace: TraceConfig{Enabled: true, Endpoint: EndpointStdout, Sample: SampleConfig{Rate: Float64Ptr(1.5)}}},
			want: ErrInvalidSampleRate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrNilConfig)
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{Trace: TraceConfig{Sample: SampleConfig{Rate: Float64Ptr(0)}}}
	cfg.ApplyDefaults()

	assert.Equal(t, defaultServiceName, cfg.Service.Name)
	assert.Equal(t, EndpointStdout, cfg.Trace.Endpoint)
	assert.Equal(t, ProtocolHTTP, cfg.Metrics.Protocol)
	assert.Equal(t, 0.0, *cfg.Trace.Sample.Rate, "explicit zero rate is kept")
	assert.Equal(t, defaultMetricsInterval, cfg.Metrics.Interval)
	assert.Equal(t, defaultBatchTimeout, cfg.Trace.Batch.Timeout)
}

func TestNoopPropagatorInjectsNothingWithoutSpan(t *testing.T) {
	carrier := propagation.MapCarrier{}
	NewNoopProvider().Propagator().Inject(context.Background(), carrier)
	assert.Empty(t, carrier)
}
