package recall

import (
	"context"
	"errors"
	"sort"
)

// LongTerm is the durable tier over a caller-supplied Backend. The backend
// outlives the tier and is never closed by it.
type LongTerm struct {
	backend Backend
}

var _ Store = (*LongTerm)(nil)

// NewLongTerm wraps backend.
func NewLongTerm(backend Backend) *LongTerm {
	return &LongTerm{backend: backend}
}

// Backend returns the underlying persistence handle.
func (l *LongTerm) Backend() Backend { return l.backend }

func (l *LongTerm) Set(ctx context.Context, key string, value any) error {
	if err := l.backend.Set(ctx, key, value); err != nil {
		return wrapBackend("set", key, err)
	}
	return nil
}

func (l *LongTerm) Get(ctx context.Context, key string) (any, bool, error) {
	v, found, err := l.backend.Get(ctx, key)
	if err != nil {
		return nil, false, wrapBackend("get", key, err)
	}
	return v, found, nil
}

// GetInto stores the value for key in dst, a non-nil pointer. Backends that
// decode on their own (EncodedBackend) decode straight into dst.
func (l *LongTerm) GetInto(ctx context.Context, key string, dst any) (bool, error) {
	if err := checkPointer(dst); err != nil {
		return false, err
	}
	if d, ok := l.backend.(interface {
		GetInto(context.Context, string, any) (bool, error)
	}); ok {
		found, err := d.GetInto(ctx, key, dst)
		if err != nil {
			return false, wrapBackend("get", key, err)
		}
		return found, nil
	}

	v, found, err := l.Get(ctx, key)
	if err != nil || !found {
		return false, err
	}
	if err := assign(key, v, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (l *LongTerm) Delete(ctx context.Context, key string) error {
	if err := l.backend.Delete(ctx, key); err != nil {
		return wrapBackend("delete", key, err)
	}
	return nil
}

// Clear deletes every key the backend reports. It stops at the first
// failure, leaving the remaining keys in place.
func (l *LongTerm) Clear(ctx context.Context) error {
	keys, err := l.Keys(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := l.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (l *LongTerm) Keys(ctx context.Context) ([]string, error) {
	keys, err := l.backend.Keys(ctx)
	if err != nil {
		return nil, wrapBackend("keys", "", err)
	}
	sort.Strings(keys)
	return keys, nil
}

// wrapBackend tags err with op and key unless a codec already did.
func wrapBackend(op, key string, err error) error {
	var be *ErrBackend
	if errors.As(err, &be) {
		return err
	}
	return &ErrBackend{Op: op, Key: key, Err: err}
}
