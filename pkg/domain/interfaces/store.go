package interfaces

import "context"

// KVStore is the durable key-value storage the jar lives in. Each call is
// atomic for a single key; nothing spans keys.
type KVStore interface {
	// Get returns the value for key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set overwrites the value for key. A write rejected for lack of space
	// is reported as model.ErrStorageFull.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Removing an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every key in the store
	Clear(ctx context.Context) error

	Close() error
}
