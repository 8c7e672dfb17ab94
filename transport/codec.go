package transport

import jsoniter "github.com/json-iterator/go"

// codec encodes request bodies and decodes payloads into caller types.
var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal encodes v with the client's JSON codec.
func Marshal(v any) ([]byte, error) {
	return codec.Marshal(v)
}

// Unmarshal decodes data into v with the client's JSON codec.
func Unmarshal(data []byte, v any) error {
	return codec.Unmarshal(data, v)
}
