package observability

import (
	"fmt"
	"strings"
	"time"
)

const (
	// EndpointStdout pretty prints telemetry to stdout instead of exporting it.
	EndpointStdout = "stdout"
	ProtocolHTTP   = "http"
	ProtocolGRPC   = "grpc"

	defaultServiceName     = "holded-client"
	defaultSampleRate      = 1.0
	defaultBatchTimeout    = 5 * time.Second
	defaultMetricsInterval = 60 * time.Second
)

// Config configures the telemetry pipeline handed to the client.
type Config struct {
	Enabled     bool          `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Service     ServiceConfig `koanf:"service" json:"service" yaml:"service" mapstructure:"service"`
	Environment string        `koanf:"environment" json:"environment" yaml:"environment" mapstructure:"environment"`
	Trace       TraceConfig   `koanf:"trace" json:"trace" yaml:"trace" mapstructure:"trace"`
	Metrics     MetricsConfig `koanf:"metrics" json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}

// ServiceConfig identifies the process in exported resources.
type ServiceConfig struct {
	Name    string `koanf:"name" json:"name" yaml:"name" mapstructure:"name"`
	Version string `koanf:"version" json:"version" yaml:"version" mapstructure:"version"`
}

// TraceConfig configures span export.
type TraceConfig struct {
	Enabled  bool              `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Endpoint string            `koanf:"endpoint" json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	Protocol string            `koanf:"protocol" json:"protocol" yaml:"protocol" mapstructure:"protocol"`
	Insecure bool              `koanf:"insecure" json:"insecure" yaml:"insecure" mapstructure:"insecure"`
	Headers  map[string]string `koanf:"headers" json:"headers" yaml:"headers" mapstructure:"headers"`
	Sample   SampleConfig      `koanf:"sample" json:"sample" yaml:"sample" mapstructure:"sample"`
	Batch    BatchConfig       `koanf:"batch" json:"batch" yaml:"batch" mapstructure:"batch"`
}

// SampleConfig holds the trace sampling ratio. A nil Rate means 1.0.
type SampleConfig struct {
	Rate *float64 `koanf:"rate" json:"rate" yaml:"rate" mapstructure:"rate"`
}

// BatchConfig tunes the batch span processor.
type BatchConfig struct {
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	Enabled  bool              `koanf:"enabled" json:"enabled" yaml:"enabled" mapstructure:"enabled"`
	Endpoint string            `koanf:"endpoint" json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	Protocol string            `koanf:"protocol" json:"protocol" yaml:"protocol" mapstructure:"protocol"`
	Insecure bool              `koanf:"insecure" json:"insecure" yaml:"insecure" mapstructure:"insecure"`
	Headers  map[string]string `koanf:"headers" json:"headers" yaml:"headers" mapstructure:"headers"`
	Interval time.Duration     `koanf:"interval" json:"interval" yaml:"interval" mapstructure:"interval"`
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// ApplyDefaults fills unset fields in place.
func (c *Config) ApplyDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = defaultServiceName
	}
	if c.Trace.Endpoint == "" {
		c.Trace.Endpoint = EndpointStdout
	}
	if c.Trace.Protocol == "" {
		c.Trace.Protocol = ProtocolHTTP
	}
	if c.Trace.Sample.Rate == nil {
		c.Trace.Sample.Rate = Float64Ptr(defaultSampleRate)
	}
	if c.Trace.Batch.Timeout <= 0 {
		c.Trace.Batch.Timeout = defaultBatchTimeout
	}
	if c.Metrics.Endpoint == "" {
		c.Metrics.Endpoint = EndpointStdout
	}
	if c.Metrics.Protocol == "" {
		c.Metrics.Protocol = ProtocolHTTP
	}
	if c.Metrics.Interval <= 0 {
		c.Metrics.Interval = defaultMetricsInterval
	}
}

// Validate checks an enabled configuration. A disabled one is always valid.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if !c.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Service.Name) == "" {
		return ErrMissingServiceName
	}
	if c.Trace.Enabled {
		if err := validateExport("trace", c.Trace.Endpoint, c.Trace.Protocol); err != nil {
			return err
		}
		if r := c.Trace.Sample.Rate; r != nil && (*r < 0 || *r > 1) {
			return ErrInvalidSampleRate
		}
	}
	if c.Metrics.Enabled {
		if err := validateExport("metrics", c.Metrics.Endpoint, c.Metrics.Protocol); err != nil {
			return err
		}
	}
	return nil
}

func validateExport(signal, endpoint, protocol string) error {
	if endpoint == EndpointStdout {
		return nil
	}
	if strings.TrimSpace(endpoint) == "" {
		return fmt.Errorf("%s endpoint: %w", signal, ErrMissingEndpoint)
	}
	if protocol != ProtocolHTTP && protocol != ProtocolGRPC {
		return fmt.Errorf("%s protocol '%s': %w", signal, protocol, ErrInvalidProtocol)
	}
	return nil
}
