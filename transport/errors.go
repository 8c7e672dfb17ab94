package transport

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorType is the closed set of failure kinds a call can end with.
type ErrorType string

const (
	// AuthenticationError means the API key was rejected (401, 403).
	AuthenticationError ErrorType = "authentication"
	// NotFoundError means the addressed resource does not exist (404).
	NotFoundError ErrorType = "not_found"
	// ValidationError covers the remaining 4xx responses, 408 included.
	ValidationError ErrorType = "validation"
	// RateLimitError means the server throttled the call (429).
	RateLimitError ErrorType = "rate_limit"
	// ServerError covers 5xx responses.
	ServerError ErrorType = "server"
	// TimeoutError means an attempt exceeded its deadline.
	TimeoutError ErrorType = "timeout"
	// ConnectionError means no response was received.
	ConnectionError ErrorType = "connection"
	// APIError is the catch-all for anything else, including undecodable
	// success responses and unexpected statuses.
	APIError ErrorType = "api"
)

// ErrorTypes lists every ErrorType in a stable order.
var ErrorTypes = []ErrorType{
	AuthenticationError,
	NotFoundError,
	ValidationError,
	RateLimitError,
	ServerError,
	TimeoutError,
	ConnectionError,
	APIError,
}

// Sentinels matched by errors.Is against any *Error of the same type.
var (
	ErrAuthentication = errors.New("holded: authentication failed")
	ErrNotFound       = errors.New("holded: resource not found")
	ErrValidation     = errors.New("holded: request rejected")
	ErrRateLimited    = errors.New("holded: rate limited")
	ErrServer         = errors.New("holded: server error")
	ErrTimeout        = errors.New("holded: request timed out")
	ErrConnection     = errors.New("holded: connection failed")
	ErrAPI            = errors.New("holded: api error")
)

// Client-side errors returned before any attempt is made.
var (
	ErrInvalidRequest = errors.New("holded: invalid request")
	ErrMissingAPIKey  = errors.New("holded: api key is required")
	ErrShapeMismatch  = errors.New("holded: response shape mismatch")
)

// Transient reports whether a failure of this type may succeed on retry.
func (t ErrorType) Transient() bool {
	switch t {
	case RateLimitError, ServerError, TimeoutError, ConnectionError:
		return true
	default:
		return false
	}
}

func (t ErrorType) sentinel() error {
	switch t {
	case AuthenticationError:
		return ErrAuthentication
	case NotFoundError:
		return ErrNotFound
	case ValidationError:
		return ErrValidation
	case RateLimitError:
		return ErrRateLimited
	case ServerError:
		return ErrServer
	case TimeoutError:
		return ErrTimeout
	case ConnectionError:
		return ErrConnection
	default:
		return ErrAPI
	}
}

// Error is the single error value returned for a failed call. Exactly one
// ErrorType is assigned per failure.
type Error struct {
	Type       ErrorType
	StatusCode int
	// Message is the server supplied message, or a description of the
	// client-side failure.
	Message string
	// Body holds the raw response body, if any was read.
	Body []byte
	// RetryAfter is the server's retry hint, zero when absent.
	RetryAfter time.Duration
	Method     string
	URL        string
	RequestID  string
	Attempts   int
	// Err is the underlying network or decode error.
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("holded ")
	b.WriteString(string(e.Type))
	b.WriteString(" error")
	if e.Method != "" {
		fmt.Fprintf(&b, ": %s %s", e.Method, e.URL)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (status %d)", e.StatusCode)
	}
	switch {
	case e.Message != "":
		b.WriteString(": ")
		b.WriteString(e.Message)
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if e.Attempts > 1 {
		fmt.Fprintf(&b, " after %d attempts", e.Attempts)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Type, so errors.Is(err, ErrNotFound) works
// regardless of how deep the *Error is wrapped.
func (e *Error) Is(target error) bool {
	return target == e.Type.sentinel()
}

// Transient reports whether the failure was retryable.
func (e *Error) Transient() bool {
	return e.Type.Transient()
}

// AsError extracts the *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsErrorType checks if an error is of a specific type.
func IsErrorType(err error, errorType ErrorType) bool {
	e, ok := AsError(err)
	return ok && e.Type == errorType
}

// IsHTTPStatusError checks if an error carries a specific HTTP status code.
func IsHTTPStatusError(err error, statusCode int) bool {
	e, ok := AsError(err)
	return ok && e.StatusCode == statusCode
}

// IsSuccessStatus checks if an HTTP status code indicates success (2xx).
func IsSuccessStatus(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}
