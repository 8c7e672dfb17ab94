package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// BodyKind is the decoded form of a response body.
type BodyKind int

const (
	BodyEmpty BodyKind = iota
	BodyList
	BodyPage
	BodyObject
	BodyRaw
)

func (k BodyKind) String() string {
	switch k {
	case BodyList:
		return "list"
	case BodyPage:
		return "page"
	case BodyObject:
		return "object"
	case BodyRaw:
		return "raw"
	default:
		return "empty"
	}
}

// Pagination carries the envelope counters of a BodyPage response.
// Counters absent from the envelope are zero.
type Pagination struct {
	Page  int
	Limit int
	Total int
}

// Response is the decoded result of a successful call.
type Response struct {
	StatusCode int
	Header     http.Header
	Kind       BodyKind
	// Items holds the elements of a BodyList or BodyPage body.
	Items []json.RawMessage
	// Page is set for BodyPage bodies.
	Page *Pagination
	// Object is the raw JSON of a BodyObject body.
	Object json.RawMessage
	// Raw is the body of a BodyRaw response.
	Raw []byte
	// MediaType is the declared media type, or the sniffed one for BodyRaw.
	MediaType string
	// Extension is the sniffed file extension of a BodyRaw body, if known.
	Extension string
	// ShapeMismatch is set when the body did not match the requested Shape.
	ShapeMismatch bool
	Attempts      int
	Duration      time.Duration
	RequestID     string

	body     []byte
	itemsRaw []byte
}

// Body returns the undecoded response body.
func (r *Response) Body() []byte {
	return r.body
}

// Len returns the number of items, 1 for an object and 0 otherwise.
func (r *Response) Len() int {
	switch r.Kind {
	case BodyList, BodyPage:
		return len(r.Items)
	case BodyObject:
		return 1
	default:
		return 0
	}
}

// DecodeObject unmarshals a BodyObject body into v. An empty body leaves v untouched.
func (r *Response) DecodeObject(v any) error {
	switch r.Kind {
	case BodyObject:
		if err := codec.Unmarshal(r.Object, v); err != nil {
			return fmt.Errorf("decode object: %w", err)
		}
		return nil
	case BodyEmpty:
		return nil
	default:
		return fmt.Errorf("%w: expected object, got %s", ErrShapeMismatch, r.Kind)
	}
}

// DecodeItems unmarshals the items of a BodyList or BodyPage body into v,
// which must point to a slice. An empty body leaves v untouched.
func (r *Response) DecodeItems(v any) error {
	switch r.Kind {
	case BodyList, BodyPage:
		if err := codec.Unmarshal(r.itemsRaw, v); err != nil {
			return fmt.Errorf("decode items: %w", err)
		}
		return nil
	case BodyEmpty:
		return nil
	default:
		return fmt.Errorf("%w: expected list, got %s", ErrShapeMismatch, r.Kind)
	}
}

// Decode unmarshals the body into v whatever its kind: lists decode from
// their items, objects from the object and raw bodies are copied when v is a
// *[]byte.
func (r *Response) Decode(v any) error {
	switch r.Kind {
	case BodyList, BodyPage:
		return r.DecodeItems(v)
	case BodyObject, BodyEmpty:
		return r.DecodeObject(v)
	default:
		b, ok := v.(*[]byte)
		if !ok {
			return fmt.Errorf("%w: raw body needs *[]byte, got %T", ErrShapeMismatch, v)
		}
		*b = append((*b)[:0], r.Raw...)
		return nil
	}
}
