package transport

import (
	"net/http"
	"strings"
)

const (
	// DefaultAPIKeyHeader is the header Holded reads the API key from.
	DefaultAPIKeyHeader = "key"
	// DefaultUserAgent identifies this client.
	DefaultUserAgent = "go-holded/" + Version

	contentTypeJSON = "application/json"
	mediaTypeAny    = "application/json, */*;q=0.8"
)

// Version of the client, reported in the User-Agent.
const Version = "1.0.0"

// Credentials hold the API key. They are fixed for the life of a client.
type Credentials struct {
	APIKey string
}

// Valid reports whether an API key is present.
func (c Credentials) Valid() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// Redacted returns the key with everything but the last four characters hidden.
func (c Credentials) Redacted() string {
	k := strings.TrimSpace(c.APIKey)
	if len(k) <= 4 {
		return strings.Repeat("*", len(k))
	}
	return strings.Repeat("*", len(k)-4) + k[len(k)-4:]
}

// String never prints the key.
func (c Credentials) String() string {
	return "Credentials{APIKey:" + c.Redacted() + "}"
}

// HeaderBuilder produces the headers sent on every attempt. It is immutable
// once built and safe for concurrent use.
type HeaderBuilder struct {
	creds     Credentials
	keyHeader string
	userAgent string
	defaults  http.Header
}

// NewHeaderBuilder returns a builder for creds. Empty keyHeader and userAgent
// fall back to the defaults; defaults may be nil.
func NewHeaderBuilder(creds Credentials, keyHeader, userAgent string, defaults http.Header) HeaderBuilder {
	if keyHeader == "" {
		keyHeader = DefaultAPIKeyHeader
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return HeaderBuilder{
		creds:     creds,
		keyHeader: keyHeader,
		userAgent: userAgent,
		defaults:  defaults.Clone(),
	}
}

// Build returns a fresh header set. Content-Type is only present when the
// request carries a body. Credentials are applied last so defaults cannot
// replace them.
func (b HeaderBuilder) Build(hasBody bool) http.Header {
	h := make(http.Header, len(b.defaults)+4)
	for k, v := range b.defaults {
		h[k] = append([]string(nil), v...)
	}
	if h.Get("Accept") == "" {
		h.Set("Accept", mediaTypeAny)
	}
	h.Set("User-Agent", b.userAgent)
	if hasBody {
		h.Set("Content-Type", contentTypeJSON)
	} else {
		h.Del("Content-Type")
	}
	h.Set(b.keyHeader, b.creds.APIKey)
	return h
}

// KeyHeader returns the header name the API key is sent in.
func (b HeaderBuilder) KeyHeader() string {
	return b.keyHeader
}
