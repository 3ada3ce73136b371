// internal/jsonutil/json.go
package jsonutil

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

// JSON is a drop-in replacement for encoding/json.
var JSON = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodePretty writes v as indented JSON to w.
func EncodePretty(w io.Writer, v any) error {
	enc := JSON.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// NewEncoder returns a compact encoder; each Encode call writes one line.
func NewEncoder(w io.Writer) *jsoniter.Encoder {
	return JSON.NewEncoder(w)
}

// Marshal encodes v without indentation.
func Marshal(v any) ([]byte, error) {
	return JSON.Marshal(v)
}
