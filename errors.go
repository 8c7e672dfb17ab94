package holded

import (
	"errors"

	"github.com/gaborage/go-holded/transport"
)

// Error is the error returned for every failed Holded call.
type Error = transport.Error

// ErrorType tells the failure kinds apart.
type ErrorType = transport.ErrorType

const (
	AuthenticationError = transport.AuthenticationError
	NotFoundError       = transport.NotFoundError
	ValidationError     = transport.ValidationError
	RateLimitError      = transport.RateLimitError
	ServerError         = transport.ServerError
	TimeoutError        = transport.TimeoutError
	ConnectionError     = transport.ConnectionError
	APIError            = transport.APIError
)

// Sentinels matched by errors.Is against an *Error of the same type.
var (
	ErrAuthentication = transport.ErrAuthentication
	ErrNotFound       = transport.ErrNotFound
	ErrValidation     = transport.ErrValidation
	ErrRateLimited    = transport.ErrRateLimited
	ErrServer         = transport.ErrServer
	ErrTimeout        = transport.ErrTimeout
	ErrConnection     = transport.ErrConnection
	ErrAPI            = transport.ErrAPI

	ErrMissingAPIKey  = transport.ErrMissingAPIKey
	ErrInvalidRequest = transport.ErrInvalidRequest
)

// ErrClientClosed is returned for calls made after Close or Shutdown.
var ErrClientClosed = errors.New("holded: client is closed")

// AsError unwraps err into an *Error.
func AsError(err error) (*Error, bool) {
	return transport.AsError(err)
}
