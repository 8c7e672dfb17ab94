package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks cfg and returns the first problem as a *ConfigError.
func Validate(cfg *Config) error {
	if cfg == nil {
		return NewInvalidFieldError("", "config is nil")
	}

	if err := validate.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Observability.Validate(); err != nil {
		return &ConfigError{Category: "invalid", Field: "observability", Message: err.Error()}
	}
	return nil
}

func fieldError(fe validator.FieldError) *ConfigError {
	// Namespace is "Config.retry.delay.max"; drop the root type.
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}

	switch fe.Tag() {
	case "required":
		return NewMissingFieldError(field)
	case "oneof":
		return NewInvalidFieldError(field, fmt.Sprintf("must be one of [%s]", fe.Param()))
	case "gtefield":
		return NewInvalidFieldError(field, fmt.Sprintf("must not be less than %s", strings.ToLower(fe.Param())))
	case "url", "startswith":
		return NewInvalidFieldError(field, "must be an http(s) url")
	case "gt":
		return NewInvalidFieldError(field, fmt.Sprintf("must be greater than %s", fe.Param()))
	case "gte", "min":
		return NewInvalidFieldError(field, fmt.Sprintf("must be at least %s", fe.Param()))
	case "lte", "max":
		return NewInvalidFieldError(field, fmt.Sprintf("must be at most %s", fe.Param()))
	default:
		return NewInvalidFieldError(field, fmt.Sprintf("failed %s check", fe.Tag()))
	}
}
