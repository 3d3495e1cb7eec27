package ports

import "context"

// DurableStore is the persistent tier of the module cache.
//
// Implementations are named and versioned: opening a store whose recorded
// version differs from the expected one destroys and recreates it. A missing
// key is reported with an error matching domain.ErrCacheMiss; every other
// failure matches domain.ErrStoreFailed.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type DurableStore interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Clear removes every entry of the store.
	Clear(ctx context.Context) error
	// Close releases the underlying connection.
	Close() error
}
