package recall

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
)

// Codec turns long-term values into bytes and back.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, dst any) error
}

// JSONCodec is the default Codec. Decoding into *any yields the generic JSON
// shapes: map[string]any, []any, string, float64, bool or nil.
type JSONCodec struct{}

func (JSONCodec) Encode(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Decode(data []byte, dst any) error { return json.Unmarshal(data, dst) }

// EncodedBackend adapts a BlobBackend to Backend by running every value
// through a Codec. Values must be codec-compatible: with JSONCodec a
// channel or NaN fails to store, and recalls come back in the generic JSON
// shapes (an int as float64, a struct as map[string]any). Use
// [Manager.RecallInto] to decode into a concrete type.
type EncodedBackend struct {
	blob  BlobBackend
	codec Codec
}

var _ Backend = (*EncodedBackend)(nil)

// Encoded wraps blob. A nil codec selects JSONCodec.
func Encoded(blob BlobBackend, codec Codec) *EncodedBackend {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &EncodedBackend{blob: blob, codec: codec}
}

// Blob returns the wrapped byte store.
func (e *EncodedBackend) Blob() BlobBackend { return e.blob }

func (e *EncodedBackend) Get(ctx context.Context, key string) (any, bool, error) {
	var v any
	found, err := e.GetInto(ctx, key, &v)
	if err != nil || !found {
		return nil, false, err
	}
	return v, true, nil
}

// GetInto decodes the stored bytes for key straight into dst.
func (e *EncodedBackend) GetInto(ctx context.Context, key string, dst any) (bool, error) {
	data, found, err := e.blob.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := e.codec.Decode(data, dst); err != nil {
		return false, &ErrBackend{Op: "decode", Key: key, Err: err}
	}
	return true, nil
}

func (e *EncodedBackend) Set(ctx context.Context, key string, value any) error {
	data, err := e.codec.Encode(value)
	if err != nil {
		return &ErrBackend{Op: "encode", Key: key, Err: err}
	}
	return e.blob.Set(ctx, key, data)
}

func (e *EncodedBackend) Delete(ctx context.Context, key string) error {
	return e.blob.Delete(ctx, key)
}

func (e *EncodedBackend) Keys(ctx context.Context) ([]string, error) {
	return e.blob.Keys(ctx)
}

// assign stores v in the value dst points to. v is set directly when its
// type fits and otherwise converted through JSON.
func assign(key string, v any, dst any) error {
	elem := reflect.ValueOf(dst).Elem()
	if v == nil {
		elem.SetZero()
		return nil
	}
	if vv := reflect.ValueOf(v); vv.Type().AssignableTo(elem.Type()) {
		elem.Set(vv)
		return nil
	}
	var codec JSONCodec
	data, err := codec.Encode(v)
	if err != nil {
		return &ErrBackend{Op: "encode", Key: key, Err: err}
	}
	if err := codec.Decode(data, dst); err != nil {
		return &ErrBackend{Op: "decode", Key: key, Err: err}
	}
	return nil
}

// checkPointer rejects anything but a non-nil pointer.
func checkPointer(dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("recall: RecallInto needs a non-nil pointer")
	}
	return nil
}
