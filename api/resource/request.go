package resource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gaborage/go-holded/transport"
)

// Join builds a request path, escaping every segment after the first.
//
//	Join("invoicing/v1/documents", "invoice", id, "pdf")
func Join(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// List fetches path and decodes its items into []T. params may be nil, a
// transport.Query, a map or a struct with json tags.
func List[T any](ctx context.Context, r transport.Requester, path string, params any) ([]T, error) {
	q, err := transport.QueryFrom(params)
	if err != nil {
		return nil, err
	}
	resp, err := r.Execute(ctx, transport.Get(path, q).Expect(transport.ShapeArray))
	if err != nil {
		return nil, err
	}
	var out []T
	if err := resp.DecodeItems(&out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Get fetches path and decodes the object into T.
func Get[T any](ctx context.Context, r transport.Requester, path string, params any) (*T, error) {
	q, err := transport.QueryFrom(params)
	if err != nil {
		return nil, err
	}
	resp, err := r.Execute(ctx, transport.Get(path, q).Expect(transport.ShapeObject))
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := decodeOne(resp, out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeOne accepts a single element array as an object, which is how
// Holded answers some get-by-id calls.
func decodeOne(resp *transport.Response, v any) error {
	if resp.Kind == transport.BodyList || resp.Kind == transport.BodyPage {
		if len(resp.Items) != 1 {
			return fmt.Errorf("%w: expected one item, got %d", transport.ErrShapeMismatch, len(resp.Items))
		}
		if err := transport.Unmarshal(resp.Items[0], v); err != nil {
			return fmt.Errorf("decode object: %w", err)
		}
		return nil
	}
	return resp.DecodeObject(v)
}

// Write sends a mutation and decodes the acknowledgement.
func Write(ctx context.Context, r transport.Requester, method, path string, body any) (*Ack, error) {
	req := transport.NewRequest(method, path).Expect(transport.ShapeObject)
	req.Body = body
	resp, err := r.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return decodeAck(resp)
}

// Create POSTs body to path.
func Create(ctx context.Context, r transport.Requester, path string, body any) (*Ack, error) {
	return Write(ctx, r, http.MethodPost, path, body)
}

// Update PUTs body to path.
func Update(ctx context.Context, r transport.Requester, path string, body any) (*Ack, error) {
	return Write(ctx, r, http.MethodPut, path, body)
}

// Remove DELETEs path.
func Remove(ctx context.Context, r transport.Requester, path string) (*Ack, error) {
	return Write(ctx, r, http.MethodDelete, path, nil)
}
