package logger

import (
	"net/http"
	"net/url"
	"strings"
)

const defaultMaskValue = "***"

// FilterConfig controls which fields are masked before they reach the log sink.
type FilterConfig struct {
	// SensitiveFields are matched case-insensitively as substrings of the field name.
	SensitiveFields []string
	// ExactFields are matched case-insensitively against the whole field name.
	// Short names such as the Holded "key" header live here so that unrelated
	// fields like "cache_key" are left alone.
	ExactFields []string
	MaskValue   string
}

// DefaultFilterConfig masks credentials, including the Holded API key header.
func DefaultFilterConfig() *FilterConfig {
	return &FilterConfig{
		SensitiveFields: []string{
			"password",
			"secret",
			"token",
			"api_key",
			"apikey",
			"authorization",
			"credential",
		},
		ExactFields: []string{"key", "x-api-key"},
		MaskValue:   defaultMaskValue,
	}
}

// SensitiveDataFilter masks sensitive values in log fields.
type SensitiveDataFilter struct {
	config *FilterConfig
}

// NewSensitiveDataFilter creates a filter. A nil config uses DefaultFilterConfig.
func NewSensitiveDataFilter(config *FilterConfig) *SensitiveDataFilter {
	if config == nil {
		config = DefaultFilterConfig()
	}
	if config.MaskValue == "" {
		config.MaskValue = defaultMaskValue
	}
	return &SensitiveDataFilter{config: config}
}

// FilterString masks value when key is sensitive. URLs keep their shape with
// only the password replaced.
func (f *SensitiveDataFilter) FilterString(key, value string) string {
	if value == "" {
		return value
	}
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return f.maskURL(value)
	}
	return value
}

// FilterValue masks a structured value. Maps and header sets are filtered per
// entry; any other value under a sensitive key is replaced wholesale.
func (f *SensitiveDataFilter) FilterValue(key string, value any) any {
	if f.isSensitiveField(key) {
		return f.config.MaskValue
	}
	switch v := value.(type) {
	case string:
		return f.FilterString(key, v)
	case map[string]any:
		return f.FilterFields(v)
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = f.FilterString(k, s)
		}
		return out
	case http.Header:
		return f.FilterHeader(v)
	default:
		return value
	}
}

// FilterFields filters every entry of fields into a new map.
func (f *SensitiveDataFilter) FilterFields(fields map[string]any) map[string]any {
	filtered := make(map[string]any, len(fields))
	for key, value := range fields {
		filtered[key] = f.FilterValue(key, value)
	}
	return filtered
}

// FilterHeader returns a copy of h with sensitive header values masked.
func (f *SensitiveDataFilter) FilterHeader(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for name, values := range h {
		if f.isSensitiveField(name) {
			out[name] = []string{f.config.MaskValue}
			continue
		}
		out[name] = append([]string(nil), values...)
	}
	return out
}

func (f *SensitiveDataFilter) isSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, exact := range f.config.ExactFields {
		if lower == strings.ToLower(exact) {
			return true
		}
	}
	for _, field := range f.config.SensitiveFields {
		if strings.Contains(lower, strings.ToLower(field)) {
			return true
		}
	}
	return false
}

func (f *SensitiveDataFilter) maskURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User == nil {
		return raw
	}
	if _, ok := parsed.User.Password(); !ok {
		return raw
	}
	parsed.User = url.UserPassword(parsed.User.Username(), f.config.MaskValue)
	return parsed.String()
}
