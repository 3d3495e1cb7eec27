// Package leveldb implements the durable module cache tier on an embedded LevelDB database.
package leveldb

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/zerr"
)

// Stored entries live under modulePrefix; the schema version under versionKey.
var (
	modulePrefix = []byte("m/")
	versionKey   = []byte("meta/version")
)

// Store implements ports.DurableStore on a LevelDB directory.
//
// The database is opened on first use and kept open until Close, since
// LevelDB holds an exclusive lock on its directory. A failed open is retried
// by the next operation.
type Store struct {
	dir     string
	version int
	logger  ports.Logger

	mu sync.Mutex
	db *leveldb.DB
}

// NewStore creates a store for the named collection under root.
func NewStore(root, name string, version int, logger ports.Logger) *Store {
	return &Store{
		dir:     filepath.Join(root, name),
		version: version,
		logger:  logger,
	}
}

// Dir returns the database directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) handle() (*leveldb.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db, nil
	}

	db, err := s.open()
	if err != nil {
		return nil, domain.StoreError(domain.ErrStoreOpenFailed, zerr.With(err, "dir", s.dir))
	}
	s.db = db
	return db, nil
}

// open opens the database, destroying it first when its version is stale.
func (s *Store) open() (*leveldb.DB, error) {
	if err := os.MkdirAll(filepath.Dir(s.dir), 0o750); err != nil {
		return nil, zerr.Wrap(err, "failed to create cache directory")
	}

	db, err := leveldb.OpenFile(s.dir, nil)
	if lerrors.IsCorrupted(err) {
		s.logger.Warn("durable store corrupted, recovering", "dir", s.dir)
		db, err = leveldb.RecoverFile(s.dir, nil)
	}
	if err != nil {
		return nil, err
	}

	want := []byte(strconv.Itoa(s.version))
	got, err := db.Get(versionKey, nil)
	switch {
	case err == nil && bytes.Equal(got, want):
		return db, nil
	case err != nil && !errors.Is(err, leveldb.ErrNotFound):
		_ = db.Close()
		return nil, err
	}

	if got != nil {
		s.logger.Info("durable store version changed, recreating",
			"dir", s.dir, "from", string(got), "to", string(want))
		if err := db.Close(); err != nil {
			return nil, err
		}
		if err := os.RemoveAll(s.dir); err != nil {
			return nil, zerr.Wrap(err, "failed to remove stale store")
		}
		if db, err = leveldb.OpenFile(s.dir, nil); err != nil {
			return nil, err
		}
	}

	if err := db.Put(versionKey, want, nil); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func moduleKey(key string) []byte {
	return append(append([]byte(nil), modulePrefix...), key...)
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	value, err := db.Get(moduleKey(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, zerr.With(zerr.Wrap(domain.ErrCacheMiss, "durable lookup"), "key", key)
	}
	if err != nil {
		return nil, domain.StoreError(domain.ErrStoreReadFailed, zerr.With(err, "key", key))
	}
	return value, nil
}

// Put stores value under key.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	if err := db.Put(moduleKey(key), value, nil); err != nil {
		return domain.StoreError(domain.ErrStoreWriteFailed, zerr.With(err, "key", key))
	}
	return nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	db, err := s.handle()
	if err != nil {
		return err
	}
	if err := db.Delete(moduleKey(key), nil); err != nil {
		return domain.StoreError(domain.ErrStoreDeleteFailed, zerr.With(err, "key", key))
	}
	return nil
}

// Clear removes every stored module in one batch.
func (s *Store) Clear(_ context.Context) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	iter := db.NewIterator(util.BytesPrefix(modulePrefix), nil)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	iter.Release()
	if err := iter.Error(); err != nil {
		return domain.StoreError(domain.ErrStoreClearFailed, err)
	}

	if err := db.Write(batch, nil); err != nil {
		return domain.StoreError(domain.ErrStoreClearFailed, err)
	}
	return nil
}

// Close releases the database. The store reopens on next use.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

var _ ports.DurableStore = (*Store)(nil)
