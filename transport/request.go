package transport

import (
	"fmt"
	"net/http"
	"strings"
)

// Shape is the caller's expectation of the response body.
type Shape int

const (
	// ShapeAuto accepts whatever the server sends.
	ShapeAuto Shape = iota
	ShapeObject
	ShapeArray
	ShapeRaw
)

func (s Shape) String() string {
	switch s {
	case ShapeObject:
		return "object"
	case ShapeArray:
		return "array"
	case ShapeRaw:
		return "raw"
	default:
		return "auto"
	}
}

// Request describes one logical call. It is not modified by the executor.
type Request struct {
	Method string
	// Path is relative to the base URL, e.g. "invoicing/v1/contacts".
	Path  string
	Query Query
	// Body is JSON encoded when non-nil. []byte and json.RawMessage are sent verbatim.
	Body   any
	Shape  Shape
	Header http.Header
}

// NewRequest builds a request for method and path.
func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path}
}

// Get builds a GET request.
func Get(path string, query Query) *Request {
	return &Request{Method: http.MethodGet, Path: path, Query: query}
}

// Post builds a POST request with a JSON body.
func Post(path string, body any) *Request {
	return &Request{Method: http.MethodPost, Path: path, Body: body}
}

// Put builds a PUT request with a JSON body.
func Put(path string, body any) *Request {
	return &Request{Method: http.MethodPut, Path: path, Body: body}
}

// Delete builds a DELETE request.
func Delete(path string) *Request {
	return &Request{Method: http.MethodDelete, Path: path}
}

// Expect returns a copy of r with the shape hint set.
func (r *Request) Expect(s Shape) *Request {
	c := *r
	c.Shape = s
	return &c
}

// WithQuery returns a copy of r with q merged over its query.
func (r *Request) WithQuery(q Query) *Request {
	c := *r
	merged := make(Query, len(r.Query)+len(q))
	for k, v := range r.Query {
		merged[k] = v
	}
	for k, v := range q {
		merged[k] = v
	}
	c.Query = merged
	return &c
}

var allowedMethods = map[string]struct{}{
	http.MethodGet:    {},
	http.MethodPost:   {},
	http.MethodPut:    {},
	http.MethodDelete: {},
}

func (r *Request) validate() error {
	if r == nil {
		return fmt.Errorf("%w: request cannot be nil", ErrInvalidRequest)
	}
	if _, ok := allowedMethods[strings.ToUpper(r.Method)]; !ok {
		return fmt.Errorf("%w: unsupported method %q", ErrInvalidRequest, r.Method)
	}
	if strings.TrimSpace(strings.Trim(r.Path, "/")) == "" {
		return fmt.Errorf("%w: path cannot be empty", ErrInvalidRequest)
	}
	if strings.Contains(r.Path, "://") {
		return fmt.Errorf("%w: path must be relative, got %q", ErrInvalidRequest, r.Path)
	}
	return nil
}
