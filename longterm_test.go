package recall

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blobMap is an in-memory BlobBackend.
type blobMap struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newBlobMap() *blobMap { return &blobMap{data: make(map[string][]byte)} }

func (b *blobMap) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.data[key]
	return slices.Clone(v), ok, nil
}

func (b *blobMap) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = slices.Clone(value)
	return nil
}

func (b *blobMap) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

func (b *blobMap) Keys(_ context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var keys []string
	for k := range b.data {
		keys = append(keys, k)
	}
	return keys, nil
}

// failingBlob fails every call with err.
type failingBlob struct{ err error }

func (f failingBlob) Get(context.Context, string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingBlob) Set(context.Context, string, []byte) error          { return f.err }
func (f failingBlob) Delete(context.Context, string) error               { return f.err }
func (f failingBlob) Keys(context.Context) ([]string, error)             { return nil, f.err }

func TestLongTermHoldsValuesAsIs(t *testing.T) {
	ctx := context.Background()
	b := NewMapBackend()
	l := NewLongTerm(b)

	require.NoError(t, l.Set(ctx, "n", 42))
	raw, found, err := b.Get(ctx, "n")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 42, raw)

	v, found, err := l.Get(ctx, "n")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, v)
	assert.Same(t, b, l.Backend())
}

func TestLongTermKeysAndClear(t *testing.T) {
	ctx := context.Background()
	l := NewLongTerm(NewMapBackend())
	for _, k := range []string{"b", "c", "a"} {
		require.NoError(t, l.Set(ctx, k, k))
	}

	keys, err := l.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	require.NoError(t, l.Clear(ctx))
	keys, err = l.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestLongTermKeysFailure(t *testing.T) {
	boom := errors.New("down")
	l := NewLongTerm(failingBackend{err: boom})
	err := l.Clear(context.Background())
	assert.ErrorIs(t, err, boom)
	var be *ErrBackend
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "keys", be.Op)
}

func TestEncodedRoundTrip(t *testing.T) {
	ctx := context.Background()
	blob := newBlobMap()
	l := NewLongTerm(Encoded(blob, nil))

	require.NoError(t, l.Set(ctx, "n", 42))
	raw, found, err := blob.Get(ctx, "n")
	require.NoError(t, err)
	require.True(t, found)
	assert.JSONEq(t, "42", string(raw))

	v, found, err := l.Get(ctx, "n")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, float64(42), v, "JSON recalls numbers as float64")

	var n int
	found, err = l.GetInto(ctx, "n", &n)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 42, n)

	_, found, err = l.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Same(t, blob, Encoded(blob, JSONCodec{}).Blob())
}

func TestEncodedCodecFailures(t *testing.T) {
	ctx := context.Background()
	blob := newBlobMap()
	l := NewLongTerm(Encoded(blob, nil))

	var be *ErrBackend
	err := l.Set(ctx, "ch", make(chan int))
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "encode", be.Op)
	assert.Equal(t, "ch", be.Key)

	require.NoError(t, blob.Set(ctx, "bad", []byte("{not json")))
	_, found, err := l.Get(ctx, "bad")
	assert.False(t, found)
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "decode", be.Op)
}

func TestEncodedBlobFailure(t *testing.T) {
	boom := errors.New("disk gone")
	l := NewLongTerm(Encoded(failingBlob{err: boom}, nil))

	err := l.Set(context.Background(), "k", "v")
	assert.ErrorIs(t, err, boom)
	var be *ErrBackend
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "set", be.Op)

	var dst string
	_, err = l.GetInto(context.Background(), "k", &dst)
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "get", be.Op)
}

func TestErrBackendError(t *testing.T) {
	tests := []struct {
		err  *ErrBackend
		want string
	}{
		{&ErrBackend{Op: "get", Key: "user", Err: errors.New("timeout")}, `recall: get "user": timeout`},
		{&ErrBackend{Op: "keys", Err: errors.New("closed")}, "recall: keys: closed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}
