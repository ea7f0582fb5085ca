package xjson

import (
	stdjson "encoding/json"
	"io"

	gjson "github.com/goccy/go-json"
)

// Marshal/Unmarshal wrappers to allow a single import site to switch between
// standard encoding/json and goccy/go-json without touching callers. Store
// serialization of execution logs is the hot path during a run.

func Marshal(v any) ([]byte, error) {
	return gjson.Marshal(v)
}

func Unmarshal(data []byte, v any) error {
	return gjson.Unmarshal(data, v)
}

func NewDecoder(r io.Reader) *gjson.Decoder {
	return gjson.NewDecoder(r)
}

func NewEncoder(w io.Writer) *gjson.Encoder {
	return gjson.NewEncoder(w)
}

// RawMessage is kept compatible with encoding/json's RawMessage type.
type RawMessage = stdjson.RawMessage

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return gjson.MarshalIndent(v, prefix, indent)
}
