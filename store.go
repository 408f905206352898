package recall

import "context"

// Backend is the persistence contract for the long-term tier: item
// assignment, lookup, deletion and key iteration over opaque values.
//
// Get reports found == false for a missing key and never treats that as an
// error. Delete of a missing key is a no-op.
type Backend interface {
	Get(ctx context.Context, key string) (any, bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	// Keys returns every key currently held. Order is unspecified.
	Keys(ctx context.Context) ([]string, error)
}

// BlobBackend persists values as encoded bytes, the shape of SQL and other
// external stores. Wrap one with [Encoded] to use it as a Backend.
type BlobBackend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// Store is a single memory tier mapping string keys to opaque values.
// Each key maps to at most one value; the last write wins.
type Store interface {
	Set(ctx context.Context, key string, value any) error
	// Get returns the value for key, or found == false when the key is
	// absent. Absence is never an error.
	Get(ctx context.Context, key string) (value any, found bool, err error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	// Keys returns a sorted snapshot of the keys in the tier.
	Keys(ctx context.Context) ([]string, error)
}
