// Package requestid carries the correlation identifier sent with every Holded
// request. One identifier is shared by all attempts of a logical call.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header is the header the identifier travels in.
const Header = "X-Request-ID"

type contextKey struct{}

// With returns a context carrying id. An empty id leaves ctx unchanged.
func With(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identifier stored in ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// Ensure returns ctx with an identifier attached, generating a new UUID when
// ctx does not carry one yet, along with the identifier itself.
func Ensure(ctx context.Context) (context.Context, string) {
	if id, ok := FromContext(ctx); ok {
		return ctx, id
	}
	id := New()
	return With(ctx, id), id
}

// New generates a fresh identifier.
func New() string {
	return uuid.NewString()
}

// Inject sets the identifier from ctx on h unless h already carries one.
func Inject(ctx context.Context, h http.Header) {
	if h.Get(Header) != "" {
		return
	}
	if id, ok := FromContext(ctx); ok {
		h.Set(Header, id)
	}
}
