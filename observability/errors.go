package observability

import "errors"

var (
	// ErrNilConfig is returned when Validate is called on a nil Config pointer.
	ErrNilConfig = errors.New("observability: config is nil")
	// ErrMissingServiceName is returned when observability is enabled without a service name.
	ErrMissingServiceName = errors.New("observability: service name is required when observability is enabled")
	// ErrInvalidSampleRate is returned when the trace sample rate is outside [0.0, 1.0].
	ErrInvalidSampleRate = errors.New("observability: trace sample rate must be between 0.0 and 1.0")
	// ErrInvalidProtocol is returned when an OTLP protocol is neither "http" nor "grpc".
	ErrInvalidProtocol = errors.New("observability: protocol must be either 'http' or 'grpc'")
	// ErrMissingEndpoint is returned when an enabled signal has no endpoint.
	ErrMissingEndpoint = errors.New("observability: endpoint is required")
)
