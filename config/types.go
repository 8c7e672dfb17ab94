package config

import (
	"time"

	"github.com/knadh/koanf/v2"

	"github.com/gaborage/go-holded/observability"
)

// Config is the full client configuration. The embedded koanf instance keeps
// every loaded key reachable, including ones the struct does not model.
type Config struct {
	API           APIConfig            `koanf:"api" json:"api" yaml:"api" mapstructure:"api"`
	Client        ClientConfig         `koanf:"client" json:"client" yaml:"client" mapstructure:"client"`
	Retry         RetryConfig          `koanf:"retry" json:"retry" yaml:"retry" mapstructure:"retry"`
	Rate          RateConfig           `koanf:"rate" json:"rate" yaml:"rate" mapstructure:"rate"`
	Concurrency   ConcurrencyConfig    `koanf:"concurrency" json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
	Log           LogConfig            `koanf:"log" json:"log" yaml:"log" mapstructure:"log"`
	Observability observability.Config `koanf:"observability" json:"observability" yaml:"observability" mapstructure:"observability"`

	k *koanf.Koanf `json:"-" yaml:"-" mapstructure:"-"`
}

// APIConfig identifies the Holded account and endpoint.
type APIConfig struct {
	Key       string `koanf:"key" json:"key" yaml:"key" mapstructure:"key" validate:"required"`
	URL       string `koanf:"url" json:"url" yaml:"url" mapstructure:"url" validate:"required,url,startswith=http"`
	Header    string `koanf:"header" json:"header" yaml:"header" mapstructure:"header" validate:"required"`
	UserAgent string `koanf:"useragent" json:"useragent" yaml:"useragent" mapstructure:"useragent"`
}

// ClientConfig bounds individual attempts.
type ClientConfig struct {
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`
}

// RetryConfig maps onto transport.RetryPolicy.
type RetryConfig struct {
	Attempts   int              `koanf:"attempts" json:"attempts" yaml:"attempts" mapstructure:"attempts" validate:"min=1,max=10"`
	Delay      RetryDelayConfig `koanf:"delay" json:"delay" yaml:"delay" mapstructure:"delay"`
	Multiplier float64          `koanf:"multiplier" json:"multiplier" yaml:"multiplier" mapstructure:"multiplier" validate:"gte=1"`
	Jitter     float64          `koanf:"jitter" json:"jitter" yaml:"jitter" mapstructure:"jitter" validate:"gte=0,lte=1"`
	After      RetryAfterConfig `koanf:"after" json:"after" yaml:"after" mapstructure:"after"`
}

// RetryDelayConfig bounds the backoff delay.
type RetryDelayConfig struct {
	Base time.Duration `koanf:"base" json:"base" yaml:"base" mapstructure:"base" validate:"gt=0"`
	Max  time.Duration `koanf:"max" json:"max" yaml:"max" mapstructure:"max" validate:"gt=0,gtefield=Base"`
}

// RetryAfterConfig caps server supplied Retry-After hints.
type RetryAfterConfig struct {
	Max time.Duration `koanf:"max" json:"max" yaml:"max" mapstructure:"max" validate:"gt=0"`
}

// RateConfig configures the client-side limiter. A zero limit disables it.
type RateConfig struct {
	Limit float64 `koanf:"limit" json:"limit" yaml:"limit" mapstructure:"limit" validate:"gte=0"`
	Burst int     `koanf:"burst" json:"burst" yaml:"burst" mapstructure:"burst" validate:"gte=0"`
}

// ConcurrencyConfig bounds batch fan-out.
type ConcurrencyConfig struct {
	Limit int `koanf:"limit" json:"limit" yaml:"limit" mapstructure:"limit" validate:"min=1"`
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level    string `koanf:"level" json:"level" yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error disabled"`
	Pretty   bool   `koanf:"pretty" json:"pretty" yaml:"pretty" mapstructure:"pretty"`
	Payloads bool   `koanf:"payloads" json:"payloads" yaml:"payloads" mapstructure:"payloads"`
}
