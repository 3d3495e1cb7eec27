// Package redis implements the durable module cache tier on a Redis server.
package redis

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/zerr"
)

const scanBatch = 256

// Store implements ports.DurableStore on a Redis keyspace.
//
// Every key is namespaced as "<name>:m:<key>"; the schema version lives at
// "<name>:version". The version is checked once, on first use.
type Store struct {
	client  *redis.Client
	name    string
	version int
	logger  ports.Logger

	mu    sync.Mutex
	ready bool
}

// NewStore connects to the server at redisURL.
func NewStore(redisURL, name string, version int, logger ports.Logger) (*Store, error) {
	if redisURL == "" {
		return nil, domain.StoreError(domain.ErrStoreOpenFailed, zerr.New("redis url is required"))
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, domain.StoreError(domain.ErrStoreOpenFailed, zerr.Wrap(err, "failed to parse redis url"))
	}
	return NewStoreWithClient(redis.NewClient(opts), name, version, logger), nil
}

// NewStoreWithClient wraps an existing client.
func NewStoreWithClient(client *redis.Client, name string, version int, logger ports.Logger) *Store {
	return &Store{
		client:  client,
		name:    name,
		version: version,
		logger:  logger,
	}
}

func (s *Store) moduleKey(key string) string {
	return s.name + ":m:" + key
}

func (s *Store) versionKey() string {
	return s.name + ":version"
}

// ensure verifies the stored schema version, wiping the namespace on mismatch.
func (s *Store) ensure(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	want := strconv.Itoa(s.version)
	got, err := s.client.Get(ctx, s.versionKey()).Result()
	switch {
	case err == nil && got == want:
		s.ready = true
		return nil
	case err != nil && !errors.Is(err, redis.Nil):
		return domain.StoreError(domain.ErrStoreOpenFailed, zerr.With(err, "store", s.name))
	}

	if err == nil {
		s.logger.Info("durable store version changed, recreating", "store", s.name, "from", got, "to", want)
		if err := s.deleteModules(ctx); err != nil {
			return domain.StoreError(domain.ErrStoreOpenFailed, err)
		}
	}
	if err := s.client.Set(ctx, s.versionKey(), want, 0).Err(); err != nil {
		return domain.StoreError(domain.ErrStoreOpenFailed, zerr.With(err, "store", s.name))
	}
	s.ready = true
	return nil
}

func (s *Store) deleteModules(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.name+":m:*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return s.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := s.ensure(ctx); err != nil {
		return nil, err
	}
	value, err := s.client.Get(ctx, s.moduleKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheMiss, "durable lookup"), "key", key)
	}
	if err != nil {
		return nil, domain.StoreError(domain.ErrStoreReadFailed, zerr.With(err, "key", key))
	}
	return value, nil
}

// Put stores value under key without expiry.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.ensure(ctx); err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.moduleKey(key), value, 0).Err(); err != nil {
		return domain.StoreError(domain.ErrStoreWriteFailed, zerr.With(err, "key", key))
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.ensure(ctx); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.moduleKey(key)).Err(); err != nil {
		return domain.StoreError(domain.ErrStoreDeleteFailed, zerr.With(err, "key", key))
	}
	return nil
}

// Clear removes every module of the namespace.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.ensure(ctx); err != nil {
		return err
	}
	if err := s.deleteModules(ctx); err != nil {
		return domain.StoreError(domain.ErrStoreClearFailed, err)
	}
	return nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

var _ ports.DurableStore = (*Store)(nil)
