package cas_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.trai.ch/wasmc/internal/adapters/cas"
	"go.trai.ch/wasmc/internal/adapters/kv/leveldb"
	"go.trai.ch/wasmc/internal/adapters/logger"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports/mocks"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var (
	errDiskFull = zerr.New("disk full")
	errNetwork  = zerr.New("network unreachable")
)

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, domain.LogLevelInfo)
}

func miss(key string) error {
	return zerr.With(zerr.Wrap(domain.ErrCacheMiss, "durable lookup"), "key", key)
}

func newStore(t *testing.T, durable *mocks.MockDurableStore, opts ...cas.Option) *cas.Store {
	t.Helper()
	s, err := cas.NewStore(durable, quietLogger(), opts...)
	require.NoError(t, err)
	return s
}

func TestStore_GetModule_MemoryHitSkipsDurable(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)
	ctx := context.Background()

	durable.EXPECT().Put(gomock.Any(), "k", []byte("v")).Return(nil)
	require.NoError(t, s.StoreModule(ctx, "k", []byte("v")))

	got, err := s.GetModule(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestStore_GetModule_DurableHitPopulatesMemory(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)
	ctx := context.Background()

	durable.EXPECT().Get(gomock.Any(), "k").Return([]byte("v"), nil).Times(1)

	got, err := s.GetModule(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
	assert.Equal(t, 1, s.MemoryLen())

	// Second read is served from memory; the durable mock allows one call only.
	got, err = s.GetModule(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestStore_GetModule_MissVersusStoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)
	ctx := context.Background()

	durable.EXPECT().Get(gomock.Any(), "absent").Return(nil, miss("absent"))
	durable.EXPECT().Get(gomock.Any(), "broken").
		Return(nil, domain.StoreError(domain.ErrStoreOpenFailed, errDiskFull))

	_, err := s.GetModule(ctx, "absent")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.False(t, domain.IsStoreError(err))

	_, err = s.GetModule(ctx, "broken")
	assert.True(t, domain.IsStoreError(err))
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
	assert.Equal(t, 0, s.MemoryLen())
}

func TestStore_StoreModule_DurableFailureKeepsMemory(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)
	ctx := context.Background()

	durable.EXPECT().Put(gomock.Any(), "k", gomock.Any()).
		Return(domain.StoreError(domain.ErrStoreWriteFailed, errDiskFull))

	err := s.StoreModule(ctx, "k", []byte{1, 2, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreWriteFailed)

	got, err := s.GetModule(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestStore_StoreModule_KeepsOwnCopy(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)
	ctx := context.Background()

	durable.EXPECT().Put(gomock.Any(), "k", gomock.Any()).Return(nil)

	blob := []byte{1, 2, 3}
	require.NoError(t, s.StoreModule(ctx, "k", blob))
	blob[0] = 9

	got, err := s.GetModule(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestStore_DeleteAndClear(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)
	ctx := context.Background()

	durable.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)
	durable.EXPECT().Delete(gomock.Any(), "a").Return(nil)
	durable.EXPECT().Clear(gomock.Any()).Return(nil)
	durable.EXPECT().Get(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) ([]byte, error) { return nil, miss(key) }).
		Times(2)

	require.NoError(t, s.StoreModule(ctx, "a", []byte("a")))
	require.NoError(t, s.StoreModule(ctx, "b", []byte("b")))

	require.NoError(t, s.DeleteModule(ctx, "a"))
	_, err := s.GetModule(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	require.NoError(t, s.ClearCache(ctx))
	_, err = s.GetModule(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestStore_ClearCache_DurableFailureStillEmptiesMemory(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)
	ctx := context.Background()

	durable.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	durable.EXPECT().Clear(gomock.Any()).Return(domain.StoreError(domain.ErrStoreClearFailed, errDiskFull))

	require.NoError(t, s.StoreModule(ctx, "a", []byte("a")))
	assert.ErrorIs(t, s.ClearCache(ctx), domain.ErrStoreClearFailed)
	assert.Equal(t, 0, s.MemoryLen())
}

func TestStore_LoadOrStoreModule_MissCallsLoaderOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)
	ctx := context.Background()

	durable.EXPECT().Get(gomock.Any(), "k").Return(nil, miss("k")).Times(1)
	durable.EXPECT().Put(gomock.Any(), "k", []byte("loaded")).Return(nil).Times(1)

	var calls int
	loader := func(context.Context) ([]byte, error) {
		calls++
		return []byte("loaded"), nil
	}

	got, err := s.LoadOrStoreModule(ctx, "k", loader)
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded"), got)

	got, err = s.LoadOrStoreModule(ctx, "k", loader)
	require.NoError(t, err)
	assert.Equal(t, []byte("loaded"), got)
	assert.Equal(t, 1, calls)
}

func TestStore_LoadOrStoreModule_HitNeverCallsLoader(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)

	durable.EXPECT().Get(gomock.Any(), "k").Return([]byte("cached"), nil)

	got, err := s.LoadOrStoreModule(context.Background(), "k", func(context.Context) ([]byte, error) {
		t.Fatal("loader must not run on a hit")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), got)
}

func TestStore_LoadOrStoreModule_LoaderErrorUnchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)

	durable.EXPECT().Get(gomock.Any(), "k").Return(nil, miss("k"))

	_, err := s.LoadOrStoreModule(context.Background(), "k", func(context.Context) ([]byte, error) {
		return nil, errNetwork
	})
	assert.Same(t, errNetwork, err)
	assert.Equal(t, 0, s.MemoryLen())
}

func TestStore_LoadOrStoreModule_StoreErrorSkipsLoader(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)

	durable.EXPECT().Get(gomock.Any(), "k").
		Return(nil, domain.StoreError(domain.ErrStoreOpenFailed, errDiskFull))

	_, err := s.LoadOrStoreModule(context.Background(), "k", func(context.Context) ([]byte, error) {
		t.Fatal("loader must not run on a store error")
		return nil, nil
	})
	assert.True(t, domain.IsStoreError(err))
}

func TestStore_LoadOrStoreModule_PersistFailureStillReturnsModule(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	s := newStore(t, durable)
	ctx := context.Background()

	durable.EXPECT().Get(gomock.Any(), "k").Return(nil, miss("k"))
	durable.EXPECT().Put(gomock.Any(), "k", gomock.Any()).
		Return(domain.StoreError(domain.ErrStoreWriteFailed, errDiskFull))

	got, err := s.LoadOrStoreModule(ctx, "k", func(context.Context) ([]byte, error) {
		return []byte("m"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("m"), got)
	assert.Equal(t, 1, s.MemoryLen())
}

func TestStore_LoadOrStoreModule_Coalescing(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		durable := mocks.NewMockDurableStore(ctrl)
		s := newStore(t, durable, cas.WithCoalescing(true))

		durable.EXPECT().Get(gomock.Any(), "k").Return(nil, miss("k")).AnyTimes()
		durable.EXPECT().Put(gomock.Any(), "k", gomock.Any()).Return(nil).Times(1)

		var calls atomic.Int32
		release := make(chan struct{})
		loader := func(context.Context) ([]byte, error) {
			calls.Add(1)
			<-release
			return []byte("m"), nil
		}

		var wg sync.WaitGroup
		results := make([][]byte, 4)
		for i := range results {
			wg.Go(func() {
				v, err := s.LoadOrStoreModule(context.Background(), "k", loader)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				results[i] = v
			})
		}

		synctest.Wait()
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, r := range results {
			assert.Equal(t, []byte("m"), r)
		}
	})
}

func TestStore_LoadOrStoreModule_WithoutCoalescingRacesLoad(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		durable := mocks.NewMockDurableStore(ctrl)
		s := newStore(t, durable)

		durable.EXPECT().Get(gomock.Any(), "k").Return(nil, miss("k")).Times(2)
		durable.EXPECT().Put(gomock.Any(), "k", gomock.Any()).Return(nil).Times(2)

		var calls atomic.Int32
		release := make(chan struct{})
		loader := func(context.Context) ([]byte, error) {
			calls.Add(1)
			<-release
			return []byte("m"), nil
		}

		var wg sync.WaitGroup
		for range 2 {
			wg.Go(func() {
				_, _ = s.LoadOrStoreModule(context.Background(), "k", loader)
			})
		}
		synctest.Wait()
		close(release)
		wg.Wait()

		// Both misses ran the loader; last write wins.
		assert.Equal(t, int32(2), calls.Load())
	})
}

func TestStore_WithLevelDB(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	durable := leveldb.NewStore(root, domain.DurableStoreName, domain.DurableStoreVersion, quietLogger())
	s, err := cas.NewStore(durable, quietLogger())
	require.NoError(t, err)
	require.NoError(t, s.StoreModule(ctx, "clang-module-v1", []byte("image")))
	require.NoError(t, durable.Close())

	// A fresh session sees the persisted module through the durable tier.
	reopened := leveldb.NewStore(root, domain.DurableStoreName, domain.DurableStoreVersion, quietLogger())
	t.Cleanup(func() { _ = reopened.Close() })
	s2, err := cas.NewStore(reopened, quietLogger())
	require.NoError(t, err)

	got, err := s2.LoadOrStoreModule(ctx, "clang-module-v1", func(context.Context) ([]byte, error) {
		return nil, errors.New("unexpected fetch")
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("image"), got)
}

func TestStore_Metrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	durable := mocks.NewMockDurableStore(ctrl)
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	s := newStore(t, durable, cas.WithMeter(mp.Meter("test")))
	ctx := context.Background()

	durable.EXPECT().Get(gomock.Any(), "k").Return([]byte("v"), nil)
	durable.EXPECT().Get(gomock.Any(), "absent").Return(nil, miss("absent"))

	_, _ = s.GetModule(ctx, "k")      // durable hit
	_, _ = s.GetModule(ctx, "k")      // memory hit
	_, _ = s.GetModule(ctx, "absent") // miss

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	assert.Equal(t, int64(2), sumOf(t, rm, "wasmc.cache.hits"))
	assert.Equal(t, int64(1), sumOf(t, rm, "wasmc.cache.misses"))
}

func sumOf(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "expected Sum[int64], got %T", m.Data)
			var total int64
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
