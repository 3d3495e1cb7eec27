// Package kv selects the durable tier of the module cache.
package kv

import (
	"context"

	"go.trai.ch/wasmc/internal/adapters/kv/leveldb"
	"go.trai.ch/wasmc/internal/adapters/kv/redis"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/zerr"
)

// Open returns the durable store configured in cfg.
// A backend that cannot be opened degrades to a Disabled store carrying the
// cause, so the session runs without caching. Only an unknown backend is an
// error.
func Open(cfg domain.CacheConfig, logger ports.Logger) (ports.DurableStore, error) {
	if !cfg.Enabled {
		return Disabled{}, nil
	}
	switch cfg.Backend {
	case domain.BackendLevelDB:
		return leveldb.NewStore(cfg.Dir, domain.DurableStoreName, domain.DurableStoreVersion, logger), nil
	case domain.BackendRedis:
		store, err := redis.NewStore(cfg.RedisURL, domain.DurableStoreName, domain.DurableStoreVersion, logger)
		if err != nil {
			logger.Warn("durable store unavailable, caching disabled", "backend", cfg.Backend, "error", err)
			return Disabled{Cause: err}, nil
		}
		return store, nil
	case domain.BackendNone:
		return Disabled{}, nil
	default:
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unknown cache backend"), "backend", cfg.Backend)
	}
}

// Disabled is the durable tier used when persistence is turned off or the
// configured backend could not be opened.
// Every operation fails, so the capability probe reports no support.
type Disabled struct {
	// Cause is the open failure, if any.
	Cause error
}

var errDisabled = zerr.New("durable store disabled")

func (d Disabled) err() error {
	if d.Cause != nil {
		if domain.IsStoreError(d.Cause) {
			return d.Cause
		}
		return domain.StoreError(domain.ErrStoreOpenFailed, d.Cause)
	}
	return domain.StoreError(domain.ErrStoreOpenFailed, errDisabled)
}

// Get implements ports.DurableStore.
func (d Disabled) Get(context.Context, string) ([]byte, error) {
	return nil, d.err()
}

// Put implements ports.DurableStore.
func (d Disabled) Put(context.Context, string, []byte) error {
	return d.err()
}

// Delete implements ports.DurableStore.
func (d Disabled) Delete(context.Context, string) error {
	return d.err()
}

// Clear implements ports.DurableStore.
func (d Disabled) Clear(context.Context) error {
	return d.err()
}

// Close implements ports.DurableStore.
func (Disabled) Close() error { return nil }
