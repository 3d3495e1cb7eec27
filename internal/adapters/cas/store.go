// Package cas implements the two-tier module cache.
package cas

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

const instrumentationName = "go.trai.ch/wasmc/internal/adapters/cas"

// Store implements ports.ModuleCache over a memory tier and a durable tier.
//
// Reads check memory first and populate it from the durable tier on a hit.
// Writes go to memory first, then to the durable tier; a failed durable
// write is reported but the memory write stands.
type Store struct {
	memory  *memoryTier
	durable ports.DurableStore
	logger  ports.Logger
	meter   metric.Meter
	metrics *metrics

	coalesce bool
	group    singleflight.Group
}

// Option configures a Store.
type Option func(*Store)

// WithCoalescing makes concurrent LoadOrStoreModule calls for the same
// missing key share one loader invocation.
func WithCoalescing(enabled bool) Option {
	return func(s *Store) {
		s.coalesce = enabled
	}
}

// WithMeter records cache metrics on meter instead of the global provider.
func WithMeter(meter metric.Meter) Option {
	return func(s *Store) {
		s.meter = meter
	}
}

// NewStore creates a Store on top of durable.
func NewStore(durable ports.DurableStore, logger ports.Logger, opts ...Option) (*Store, error) {
	s := &Store{
		memory:  newMemoryTier(),
		durable: durable,
		logger:  logger,
		meter:   otel.Meter(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}

	m, err := newMetrics(s.meter)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create cache metrics")
	}
	s.metrics = m
	return s, nil
}

// GetModule returns the module stored under key.
// The returned slice is shared and must not be modified.
func (s *Store) GetModule(ctx context.Context, key string) ([]byte, error) {
	if v, ok := s.memory.get(key); ok {
		s.metrics.hit(ctx, tierMemory)
		return v, nil
	}

	v, err := s.durable.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			s.metrics.miss(ctx)
		}
		return nil, err
	}

	s.memory.set(key, v)
	s.metrics.hit(ctx, tierDurable)
	return v, nil
}

// StoreModule writes module to memory, then to the durable tier.
func (s *Store) StoreModule(ctx context.Context, key string, module []byte) error {
	s.memory.set(key, module)
	return s.durable.Put(ctx, key, module)
}

// DeleteModule removes key from both tiers.
func (s *Store) DeleteModule(ctx context.Context, key string) error {
	s.memory.delete(key)
	return s.durable.Delete(ctx, key)
}

// ClearCache empties both tiers.
func (s *Store) ClearCache(ctx context.Context) error {
	s.memory.clear()
	return s.durable.Clear(ctx)
}

// LoadOrStoreModule returns the module under key, invoking loader only when
// the key is absent from both tiers. Loader errors are returned unchanged;
// lookup failures other than a miss are returned without calling loader.
func (s *Store) LoadOrStoreModule(ctx context.Context, key string, loader ports.ModuleLoader) ([]byte, error) {
	v, err := s.GetModule(ctx, key)
	if err == nil {
		return v, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		return nil, err
	}

	if !s.coalesce {
		return s.load(ctx, key, loader)
	}

	res, err, shared := s.group.Do(key, func() (any, error) {
		return s.load(ctx, key, loader)
	})
	if shared {
		s.logger.Debug("coalesced module load", "key", key)
	}
	if err != nil {
		return nil, err
	}
	return res.([]byte), nil
}

func (s *Store) load(ctx context.Context, key string, loader ports.ModuleLoader) ([]byte, error) {
	s.metrics.load(ctx)
	module, err := loader(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.StoreModule(ctx, key, module); err != nil {
		// The memory tier already holds the module for this session.
		s.logger.Warn("failed to persist loaded module", "key", key, "error", err)
	}
	return module, nil
}

var _ ports.ModuleCache = (*Store)(nil)
