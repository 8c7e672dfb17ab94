// Package config loads client configuration from defaults, an optional YAML
// file, an optional .env file and HOLDED_* environment variables, in that
// order of increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "HOLDED_"

// EnvAPIKey is the variable holding the API key.
const EnvAPIKey = EnvPrefix + "API_KEY"

// Options selects the sources Load reads besides the defaults.
type Options struct {
	// File is a YAML file. A missing file is an error only when set explicitly.
	File string
	// YAML is inline YAML applied after File.
	YAML []byte
	// DotEnv is a .env file. A missing file is ignored.
	DotEnv string
	// Environ replaces os.Environ, mainly for tests.
	Environ func() []string
	// SkipValidation returns the merged config without validating it.
	SkipValidation bool
}

// Load reads configuration from the default locations: ./holded.yaml and
// ./.env when present, then the environment.
func Load() (*Config, error) {
	opts := Options{DotEnv: ".env"}
	if _, err := os.Stat("holded.yaml"); err == nil {
		opts.File = "holded.yaml"
	}
	return LoadWith(opts)
}

// LoadWith reads configuration from the sources in opts.
func LoadWith(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if opts.File != "" {
		if err := k.Load(file.Provider(opts.File), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", opts.File, err)
		}
	}

	if len(opts.YAML) > 0 {
		if err := k.Load(rawbytes.Provider(opts.YAML), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse inline yaml: %w", err)
		}
	}

	if opts.DotEnv != "" {
		if err := loadDotEnv(k, opts.DotEnv); err != nil {
			return nil, err
		}
	}

	envOpt := env.Opt{Prefix: EnvPrefix, TransformFunc: envKey}
	if opts.Environ != nil {
		envOpt.EnvironFunc = opts.Environ
	}
	if err := k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.k = k

	if opts.SkipValidation {
		return &cfg, nil
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey converts HOLDED_RETRY_DELAY_BASE into retry.delay.base.
func envKey(key, value string) (string, any) {
	key = strings.TrimPrefix(key, EnvPrefix)
	if key == "" {
		return "", nil
	}
	return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
}

// loadDotEnv layers a .env file below the real environment without touching
// the process environment.
func loadDotEnv(k *koanf.Koanf, path string) error {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	flat := make(map[string]any, len(values))
	for name, value := range values {
		if !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		if key, v := envKey(name, value); key != "" {
			flat[key] = v
		}
	}
	return k.Load(confmap.Provider(flat, "."), nil)
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"api.url":    "https://api.holded.com/api/",
		"api.header": "key",

		"client.timeout": "30s",

		"retry.attempts":   3,
		"retry.delay.base": "500ms",
		"retry.delay.max":  "30s",
		"retry.multiplier": 2.0,
		"retry.jitter":     0.2,
		"retry.after.max":  "60s",

		"rate.limit": 0,
		"rate.burst": 1,

		"concurrency.limit": 8,

		"log.level":    "info",
		"log.pretty":   false,
		"log.payloads": false,

		"observability.enabled":          false,
		"observability.service.name":     "holded-client",
		"observability.trace.enabled":    true,
		"observability.trace.endpoint":   "stdout",
		"observability.trace.protocol":   "http",
		"observability.metrics.enabled":  true,
		"observability.metrics.endpoint": "stdout",
		"observability.metrics.protocol": "http",
		"observability.metrics.interval": "60s",
	}
	return k.Load(confmap.Provider(defaults, "."), nil)
}

// String returns a raw value by dotted key, or def when unset.
func (c *Config) String(key, def string) string {
	if c.k == nil || !c.k.Exists(key) {
		return def
	}
	return c.k.String(key)
}

// Exists reports whether key was set by any source.
func (c *Config) Exists(key string) bool {
	return c.k != nil && c.k.Exists(key)
}

// Redacted returns the merged configuration as a nested map with the API
// key masked, suitable for printing.
func (c *Config) Redacted() map[string]any {
	if c.k == nil {
		return map[string]any{}
	}
	clone := c.k.Copy()
	if key := clone.String("api.key"); key != "" {
		_ = clone.Set("api.key", mask(key))
	}
	return clone.Raw()
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
