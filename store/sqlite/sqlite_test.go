package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nevindra/recall"
)

func testStore(t *testing.T, opts ...StoreOption) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "test.db"), opts...)
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestInitIdempotent(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "init.db"))
	defer s.Close()
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Init(ctx), "second Init")
}

func TestSetGetOverwrite(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "k", []byte(`"one"`)))
	require.NoError(t, s.Set(ctx, "k", []byte(`"two"`)))
	got, found, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `"two"`, string(got))
}

func TestDeleteAndKeys(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	for _, k := range []string{"c", "a", "b"} {
		require.NoError(t, s.Set(ctx, k, []byte("1")))
	}
	require.NoError(t, s.Delete(ctx, "b"))
	require.NoError(t, s.Delete(ctx, "never"), "deleting a missing key is a no-op")

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, keys)
}

func TestNamespacesAreIsolated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	ctx := context.Background()

	alice := New(path, WithNamespace("alice"))
	defer alice.Close()
	require.NoError(t, alice.Init(ctx))
	bob := New(path, WithNamespace("bob"))
	defer bob.Close()

	require.NoError(t, alice.Set(ctx, "theme", []byte(`"dark"`)))
	_, found, err := bob.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, found, "bob sees alice's key")
	keys, err := bob.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "durable.db")
	ctx := context.Background()

	s := New(path)
	require.NoError(t, s.Init(ctx))
	m := recall.NewManager(recall.Encoded(s, nil))
	require.NoError(t, m.Remember(ctx, "user_preferences", map[string]any{"theme": "dark"}, false))
	s.Close()

	reopened := New(path)
	defer reopened.Close()
	m2 := recall.NewManager(recall.Encoded(reopened, nil))
	v, found, err := m2.Recall(ctx, "user_preferences", false)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, map[string]any{"theme": "dark"}, v)
}

func TestClosedStoreErrors(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, s.Init(context.Background()))
	s.Close()

	m := recall.NewManager(recall.Encoded(s, nil))
	err := m.Remember(context.Background(), "k", "v", false)
	var be *recall.ErrBackend
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "set", be.Op)
}

func TestConcurrentWriters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if err := s.Set(ctx, fmt.Sprintf("k%02d", i), []byte("1")); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err, "concurrent Set")
	}
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 20)
}
