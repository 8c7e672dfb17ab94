package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfig matches every validation failure returned by Load.
var ErrInvalidConfig = errors.New("invalid config")

// ConfigError describes one invalid or missing field with a hint on how to
// fix it. Messages are lowercase.
//
//nolint:revive // ConfigError reads better than Error at call sites
type ConfigError struct {
	Category string // "missing" or "invalid"
	Field    string // dotted config path, e.g. "retry.delay.max"
	Message  string
	Action   string
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, 4)
	if e.Category != "" {
		parts = append(parts, fmt.Sprintf("config_%s:", e.Category))
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Action != "" {
		parts = append(parts, e.Action)
	}
	return strings.Join(parts, " ")
}

// Unwrap lets errors.Is(err, ErrInvalidConfig) match.
func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// NewMissingFieldError reports a required field that no source provided.
func NewMissingFieldError(field string) *ConfigError {
	return &ConfigError{
		Category: "missing",
		Field:    field,
		Message:  "required",
		Action:   fmt.Sprintf("set %s env var or add %s to holded.yaml", EnvName(field), field),
	}
}

// NewInvalidFieldError reports a field whose value failed a constraint.
func NewInvalidFieldError(field, message string) *ConfigError {
	return &ConfigError{
		Category: "invalid",
		Field:    field,
		Message:  message,
	}
}

// EnvName returns the environment variable that sets a dotted key.
func EnvName(field string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(field, ".", "_"))
}
