package ports

import "context"

// ModuleLoader produces a module when it is missing from the cache.
type ModuleLoader func(ctx context.Context) ([]byte, error)

// ModuleCache is the two-tier key to module store.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ModuleCache interface {
	// GetModule returns the module stored under key, or an error matching
	// domain.ErrCacheMiss when neither tier holds it.
	GetModule(ctx context.Context, key string) ([]byte, error)
	// StoreModule writes module to both tiers.
	StoreModule(ctx context.Context, key string, module []byte) error
	// DeleteModule removes key from both tiers.
	DeleteModule(ctx context.Context, key string) error
	// ClearCache empties both tiers.
	ClearCache(ctx context.Context) error
	// LoadOrStoreModule returns the cached module or, on a miss, stores and
	// returns the result of loader.
	LoadOrStoreModule(ctx context.Context, key string, loader ModuleLoader) ([]byte, error)
}
