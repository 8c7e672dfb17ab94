package transport

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Query holds request query parameters. Nil values (and nil pointers) are
// dropped, pointers are dereferenced and slices expand to repeated keys.
// time.Time values are sent as Unix seconds, which is what Holded expects for
// its date filters.
type Query map[string]any

// Values encodes q.
func (q Query) Values() url.Values {
	out := url.Values{}
	for key, value := range q {
		rv, ok := indirect(reflect.ValueOf(value))
		if !ok {
			continue
		}
		if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Type().Elem().Kind() != reflect.Uint8 {
			for i := 0; i < rv.Len(); i++ {
				elem, ok := indirect(rv.Index(i))
				if !ok {
					continue
				}
				out.Add(key, formatScalar(elem))
			}
			continue
		}
		out.Add(key, formatScalar(rv))
	}
	return out
}

// Encode returns the URL encoded query with keys sorted.
func (q Query) Encode() string {
	return q.Values().Encode()
}

// Keys returns the parameter names that survive encoding, sorted.
func (q Query) Keys() []string {
	values := q.Values()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func indirect(v reflect.Value) (reflect.Value, bool) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return reflect.Value{}, false
	}
	if (v.Kind() == reflect.Slice || v.Kind() == reflect.Map) && v.IsNil() {
		return reflect.Value{}, false
	}
	return v, true
}

var timeType = reflect.TypeOf(time.Time{})

func formatScalar(v reflect.Value) string {
	if v.Type() == timeType {
		return strconv.FormatInt(v.Interface().(time.Time).Unix(), 10)
	}
	switch v.Kind() {
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if d, ok := v.Interface().(time.Duration); ok {
			return strconv.FormatInt(int64(d/time.Second), 10)
		}
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(v.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64)
	case reflect.Slice:
		// []byte
		return string(v.Bytes())
	}
	if s, ok := v.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v.Interface())
}

// QueryFrom converts typed parameters into a Query. v may be nil, a Query,
// a map with string keys, or a struct whose fields carry `json` tags; embedded
// structs are flattened and `omitempty` fields with zero values are skipped.
func QueryFrom(v any) (Query, error) {
	switch p := v.(type) {
	case nil:
		return Query{}, nil
	case Query:
		return p.clone(), nil
	case map[string]any:
		return Query(p).clone(), nil
	case map[string]string:
		q := make(Query, len(p))
		for k, s := range p {
			q[k] = s
		}
		return q, nil
	}

	out := map[string]any{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Squash:  true,
		Result:  &out,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query decoder: %v", ErrInvalidRequest, err)
	}
	if err := decoder.Decode(v); err != nil {
		return nil, fmt.Errorf("%w: query parameters: %v", ErrInvalidRequest, err)
	}
	return Query(out), nil
}

func (q Query) clone() Query {
	c := make(Query, len(q))
	for k, v := range q {
		c[k] = v
	}
	return c
}
