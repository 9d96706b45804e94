package cache

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec formats understood by NewCodec.
const (
	FormatJSON    = "json"
	FormatMsgpack = "msgpack"
)

// Codec turns cached values into bytes and back. Decode(Encode(v)) must equal v
// field for field, including the order of slices.
type Codec[T any] interface {
	Encode(value T) ([]byte, error)
	Decode(data []byte) (T, error)
}

// NewCodec returns the codec registered for format.
func NewCodec[T any](format string) (Codec[T], error) {
	switch format {
	case "", FormatJSON:
		return JSONCodec[T]{}, nil
	case FormatMsgpack:
		return MsgpackCodec[T]{}, nil
	default:
		return nil, errors.Newf("cache: unknown codec %q", format)
	}
}

// JSONCodec stores values as JSON documents.
type JSONCodec[T any] struct{}

func (JSONCodec[T]) Encode(value T) ([]byte, error) {
	return json.Marshal(value)
}

func (JSONCodec[T]) Decode(data []byte) (T, error) {
	var value T
	err := json.Unmarshal(data, &value)
	return value, err
}

// MsgpackCodec stores values as msgpack. Struct fields are keyed by their json
// tag so both codecs agree on field names.
type MsgpackCodec[T any] struct{}

func (MsgpackCodec[T]) Encode(value T) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (MsgpackCodec[T]) Decode(data []byte) (T, error) {
	var value T
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	err := dec.Decode(&value)
	return value, err
}
