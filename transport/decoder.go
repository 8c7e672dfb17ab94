package transport

import (
	"bytes"
	"encoding/json"
	"mime"
	"strconv"
	"strings"

	"github.com/h2non/filetype"
	"github.com/tidwall/gjson"
)

// ItemKeys are the envelope fields that may hold a page of items.
var ItemKeys = []string{"items", "data", "results"}

var paginationKeys = []string{"page", "limit", "total"}

const octetStream = "application/octet-stream"

// Decode turns a successful response body into a Response according to its
// content type and the caller's shape hint. A mismatch between the body and a
// non-auto hint is flagged on the Response rather than treated as an error.
// Only a body that claims to be JSON but is not fails with an APIError.
//
// A JSON object is treated as a page envelope when one of ItemKeys holds an
// array and at least one numeric page, limit or total field sits beside it.
// An object that merely has an items array (such as a document with line
// items) stays an object, and so does any object decoded with ShapeObject.
func Decode(body []byte, contentType string, shape Shape) (*Response, error) {
	mediaType := parseMediaType(contentType)
	resp := &Response{MediaType: mediaType, body: body}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		resp.Kind = BodyEmpty
		return resp, nil
	}

	switch {
	case isJSONMediaType(mediaType):
		if !gjson.ValidBytes(trimmed) {
			return nil, &Error{
				Type:    APIError,
				Message: "response declared " + mediaType + " but is not valid JSON",
				Body:    body,
			}
		}
		decodeJSON(resp, trimmed, shape)
	case isTextMediaType(mediaType) && gjson.ValidBytes(trimmed) && shape != ShapeRaw:
		// Some endpoints label JSON as text/html or omit the type.
		decodeJSON(resp, trimmed, shape)
	default:
		decodeRaw(resp, body, shape)
	}
	return resp, nil
}

func decodeJSON(resp *Response, body []byte, shape Shape) {
	root := gjson.ParseBytes(body)
	switch {
	case root.IsArray():
		resp.Kind = BodyList
		resp.Items = collectItems(root)
		resp.itemsRaw = body
		resp.ShapeMismatch = shape != ShapeAuto && shape != ShapeArray
	case root.IsObject():
		// An explicit object hint wins: documents carry items and totals too.
		if items, page, ok := envelope(root); ok && shape != ShapeObject {
			resp.Kind = BodyPage
			resp.Items = collectItems(items)
			resp.itemsRaw = []byte(items.Raw)
			resp.Page = page
			resp.ShapeMismatch = shape != ShapeAuto && shape != ShapeArray
			return
		}
		resp.Kind = BodyObject
		resp.Object = json.RawMessage(body)
		resp.ShapeMismatch = shape != ShapeAuto && shape != ShapeObject
	case root.Type == gjson.Null:
		resp.Kind = BodyEmpty
	default:
		// Bare scalar.
		resp.Kind = BodyObject
		resp.Object = json.RawMessage(body)
		resp.ShapeMismatch = shape != ShapeAuto
	}
}

func collectItems(arr gjson.Result) []json.RawMessage {
	items := make([]json.RawMessage, 0, len(arr.Array()))
	arr.ForEach(func(_, v gjson.Result) bool {
		items = append(items, json.RawMessage(v.Raw))
		return true
	})
	return items
}

func envelope(root gjson.Result) (gjson.Result, *Pagination, bool) {
	counters := root.Map()
	page := &Pagination{}
	found := false
	for _, key := range paginationKeys {
		v, ok := counters[key]
		if !ok {
			continue
		}
		n, numeric := numericValue(v)
		if !numeric {
			continue
		}
		found = true
		switch key {
		case "page":
			page.Page = n
		case "limit":
			page.Limit = n
		case "total":
			page.Total = n
		}
	}
	if !found {
		return gjson.Result{}, nil, false
	}
	for _, key := range ItemKeys {
		if v, ok := counters[key]; ok && v.IsArray() {
			return v, page, true
		}
	}
	return gjson.Result{}, nil, false
}

func numericValue(v gjson.Result) (int, bool) {
	switch v.Type {
	case gjson.Number:
		return int(v.Int()), true
	case gjson.String:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func decodeRaw(resp *Response, body []byte, shape Shape) {
	resp.Kind = BodyRaw
	resp.Raw = body
	resp.ShapeMismatch = shape != ShapeAuto && shape != ShapeRaw
	if kind, err := filetype.Match(body); err == nil && kind != filetype.Unknown {
		resp.MediaType = kind.MIME.Value
		resp.Extension = kind.Extension
		return
	}
	if resp.MediaType == "" {
		resp.MediaType = octetStream
	}
}

func parseMediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	}
	return mt
}

func isJSONMediaType(mt string) bool {
	return mt == "application/json" || mt == "text/json" || strings.HasSuffix(mt, "+json")
}

func isTextMediaType(mt string) bool {
	return mt == "" || strings.HasPrefix(mt, "text/")
}
