package resource

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/gaborage/go-holded/transport"
)

// File is a downloaded binary such as a document PDF or a product image.
type File struct {
	Data      []byte
	MediaType string
	// Extension is the sniffed file extension without a dot, when known.
	Extension string
}

// Download fetches path as a file. Holded serves some binaries directly and
// others as {"status":1,"data":"<base64>"}; both are accepted.
func Download(ctx context.Context, r transport.Requester, path string) (*File, error) {
	resp, err := r.Execute(ctx, transport.Get(path, nil))
	if err != nil {
		return nil, err
	}
	return FileFrom(resp)
}

// FileFrom extracts a file from a response.
func FileFrom(resp *transport.Response) (*File, error) {
	switch resp.Kind {
	case transport.BodyRaw:
		return &File{Data: resp.Raw, MediaType: resp.MediaType, Extension: resp.Extension}, nil
	case transport.BodyObject:
		encoded := gjson.GetBytes(resp.Object, "data")
		if encoded.Type != gjson.String {
			return nil, fmt.Errorf("%w: object has no data field", transport.ErrShapeMismatch)
		}
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded.Str))
		if err != nil {
			return nil, fmt.Errorf("decode base64 file: %w", err)
		}
		raw, err := transport.Decode(data, "", transport.ShapeRaw)
		if err != nil {
			return nil, err
		}
		return &File{Data: data, MediaType: raw.MediaType, Extension: raw.Extension}, nil
	case transport.BodyEmpty:
		return &File{}, nil
	default:
		return nil, fmt.Errorf("%w: expected file, got %s", transport.ErrShapeMismatch, resp.Kind)
	}
}
