package app_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/wasmc/internal/adapters/logger"
	"go.trai.ch/wasmc/internal/app"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// fakeRunner completes every run after delay and tracks concurrency.
type fakeRunner struct {
	history *domain.RunHistory
	delay   time.Duration

	active  atomic.Int32
	peak    atomic.Int32
	mu      sync.Mutex
	sources []string
}

func newFakeRunner(delay time.Duration) *fakeRunner {
	return &fakeRunner{history: domain.NewRunHistory(), delay: delay}
}

func (r *fakeRunner) Run(_ context.Context, source, stdin string) domain.RunRecord {
	n := r.history.Begin()
	cur := r.active.Add(1)
	for {
		peak := r.peak.Load()
		if cur <= peak || r.peak.CompareAndSwap(peak, cur) {
			break
		}
	}
	time.Sleep(r.delay)
	r.active.Add(-1)

	r.mu.Lock()
	r.sources = append(r.sources, source)
	r.mu.Unlock()

	r.history.Update(n, func(rec *domain.RunRecord) {
		rec.State = domain.RunStateCompleted
		rec.Output = stdin
	})
	rec, _ := r.history.Get(n)
	return rec
}

func (r *fakeRunner) History() *domain.RunHistory {
	return r.history
}

type resetCounter struct {
	resets int
}

func (r *resetCounter) Reset() {
	r.resets++
}

func quietLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, domain.LogLevelInfo)
}

func TestApp_Run(t *testing.T) {
	runner := newFakeRunner(0)
	a := app.New(runner, &resetCounter{}, nil, true, domain.DefaultConfig(), quietLogger())

	rec := a.Run(context.Background(), "src", "Taro")
	assert.Equal(t, 1, rec.RunNumber)
	assert.Equal(t, "Taro", rec.Output)
	assert.Len(t, a.History(), 1)
}

func TestApp_RunMany_Sequential(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		runner := newFakeRunner(time.Millisecond)
		a := app.New(runner, &resetCounter{}, nil, true, domain.DefaultConfig(), quietLogger())

		records, err := a.RunMany(context.Background(), "src", "", app.RunOptions{Repeat: 3})
		require.NoError(t, err)
		require.Len(t, records, 3)
		for i, rec := range records {
			assert.Equal(t, i+1, rec.RunNumber)
		}
		assert.EqualValues(t, 1, runner.peak.Load())
	})
}

func TestApp_RunMany_Parallel(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		runner := newFakeRunner(time.Millisecond)
		a := app.New(runner, &resetCounter{}, nil, true, domain.DefaultConfig(), quietLogger())

		records, err := a.RunMany(context.Background(), "src", "", app.RunOptions{Repeat: 4, Parallel: true})
		require.NoError(t, err)
		require.Len(t, records, 4)
		for i, rec := range records {
			assert.Equal(t, i+1, rec.RunNumber)
		}
		assert.Len(t, runner.sources, 4)
	})
}

func TestApp_RunMany_AtLeastOnce(t *testing.T) {
	a := app.New(newFakeRunner(0), &resetCounter{}, nil, true, domain.DefaultConfig(), quietLogger())

	records, err := a.RunMany(context.Background(), "src", "", app.RunOptions{Repeat: 0})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestApp_ClearCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockModuleCache(ctrl)
	resets := &resetCounter{}
	a := app.New(newFakeRunner(0), resets, cache, true, domain.DefaultConfig(), quietLogger())

	cache.EXPECT().ClearCache(gomock.Any()).Return(nil)

	require.NoError(t, a.ClearCache(context.Background()))
	assert.Equal(t, 1, resets.resets)
}

func TestApp_ClearCache_Failure(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockModuleCache(ctrl)
	resets := &resetCounter{}
	a := app.New(newFakeRunner(0), resets, cache, true, domain.DefaultConfig(), quietLogger())

	storeErr := domain.StoreError(domain.ErrStoreClearFailed, errors.New("read-only"))
	cache.EXPECT().ClearCache(gomock.Any()).Return(storeErr)

	err := a.ClearCache(context.Background())
	require.ErrorIs(t, err, domain.ErrStoreClearFailed)
	assert.Equal(t, 1, resets.resets, "compiler handle must not outlive a partially cleared cache")
}

func TestApp_CacheUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	// No expectations: the cache must not be touched.
	cache := mocks.NewMockModuleCache(ctrl)
	resets := &resetCounter{}
	a := app.New(newFakeRunner(0), resets, cache, false, domain.DefaultConfig(), quietLogger())

	require.ErrorIs(t, a.ClearCache(context.Background()), domain.ErrCacheUnavailable)
	require.ErrorIs(t, a.DeleteModule(context.Background(), "compiled-0-v1"), domain.ErrCacheUnavailable)
	assert.Zero(t, resets.resets)
	assert.False(t, a.CacheStatus().Supported)
}

func TestApp_DeleteModule(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := mocks.NewMockModuleCache(ctrl)
	resets := &resetCounter{}
	a := app.New(newFakeRunner(0), resets, cache, true, domain.DefaultConfig(), quietLogger())

	cache.EXPECT().DeleteModule(gomock.Any(), "compiled-0-v1").Return(nil)
	cache.EXPECT().DeleteModule(gomock.Any(), domain.CompilerCacheKey).Return(nil)

	require.NoError(t, a.DeleteModule(context.Background(), "compiled-0-v1"))
	assert.Zero(t, resets.resets)

	require.NoError(t, a.DeleteModule(context.Background(), domain.CompilerCacheKey))
	assert.Equal(t, 1, resets.resets)
}

func TestApp_CacheStatus(t *testing.T) {
	cfg := domain.DefaultConfig()
	cfg.Cache.Backend = domain.BackendRedis
	a := app.New(newFakeRunner(0), &resetCounter{}, nil, true, cfg, quietLogger())

	status := a.CacheStatus()
	assert.True(t, status.Supported)
	assert.Equal(t, domain.BackendRedis, status.Backend)
	assert.Equal(t, domain.DefaultCacheDir, status.Dir)
}

func TestComponents_CloseRunsAllInReverse(t *testing.T) {
	var order []string
	closer := func(name string, err error) app.Closer {
		return func(context.Context) error {
			order = append(order, name)
			return err
		}
	}
	errStore := errors.New("store busy")

	c := app.NewComponents(nil, quietLogger(),
		closer("store", errStore),
		closer("runtime", nil),
		closer("recorder", nil),
	)

	err := c.Close(context.Background())
	require.ErrorIs(t, err, errStore)
	assert.Equal(t, []string{"recorder", "runtime", "store"}, order)

	// A second Close is a no-op.
	require.NoError(t, c.Close(context.Background()))
	assert.Len(t, order, 3)
}

func TestSampleProgram_PrintsDefaultPrompt(t *testing.T) {
	assert.Contains(t, app.SampleProgram, domain.DefaultPromptMarker)
}
