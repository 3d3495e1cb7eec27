// Package app implements the application layer for wasmc.
package app

import (
	"cmp"
	"context"
	"runtime"
	"slices"

	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Runner compiles and executes one program per call.
type Runner interface {
	Run(ctx context.Context, source, stdin string) domain.RunRecord
	History() *domain.RunHistory
}

// CompilerResetter forgets the remembered compiler handle.
type CompilerResetter interface {
	Reset()
}

// RunOptions controls RunMany.
type RunOptions struct {
	// Repeat is the number of runs; values below one mean a single run.
	Repeat int
	// Parallel runs up to runtime.NumCPU runs concurrently instead of one
	// after the other.
	Parallel bool
}

// CacheStatus describes the module cache of the session.
type CacheStatus struct {
	Supported bool
	Backend   domain.CacheBackend
	Dir       string
}

// App represents the main application logic.
type App struct {
	runner   Runner
	compiler CompilerResetter
	cache    ports.ModuleCache
	support  domain.CacheSupport
	config   *domain.Config
	logger   ports.Logger
}

// New creates a new App instance.
func New(
	runner Runner,
	compiler CompilerResetter,
	cache ports.ModuleCache,
	support domain.CacheSupport,
	cfg *domain.Config,
	logger ports.Logger,
) *App {
	return &App{
		runner:   runner,
		compiler: compiler,
		cache:    cache,
		support:  support,
		config:   cfg,
		logger:   logger,
	}
}

// Run compiles and executes source once.
func (a *App) Run(ctx context.Context, source, stdin string) domain.RunRecord {
	return a.runner.Run(ctx, source, stdin)
}

// RunMany runs source opts.Repeat times and returns the records ordered by
// run number.
func (a *App) RunMany(ctx context.Context, source, stdin string, opts RunOptions) ([]domain.RunRecord, error) {
	n := max(opts.Repeat, 1)
	records := make([]domain.RunRecord, n)

	g, ctx := errgroup.WithContext(ctx)
	if opts.Parallel {
		g.SetLimit(runtime.NumCPU())
	} else {
		g.SetLimit(1)
	}
	for i := range n {
		g.Go(func() error {
			records[i] = a.runner.Run(ctx, source, stdin)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortFunc(records, func(x, y domain.RunRecord) int {
		return cmp.Compare(x.RunNumber, y.RunNumber)
	})
	return records, nil
}

// History returns every run of the session in run order.
func (a *App) History() []domain.RunRecord {
	return a.runner.History().Records()
}

// CacheStatus reports whether caching is active and how it is configured.
func (a *App) CacheStatus() CacheStatus {
	return CacheStatus{
		Supported: a.support.Enabled(),
		Backend:   a.config.Cache.Backend,
		Dir:       a.config.Cache.Dir,
	}
}

// ClearCache empties both cache tiers and forgets the compiler handle so the
// next run acquires it again.
func (a *App) ClearCache(ctx context.Context) error {
	if !a.support.Enabled() {
		return domain.ErrCacheUnavailable
	}
	// The memory tier is emptied even when the durable clear fails, so the
	// handle is dropped either way.
	err := a.cache.ClearCache(ctx)
	a.compiler.Reset()
	if err != nil {
		return err
	}
	a.logger.Info("module cache cleared")
	return nil
}

// DeleteModule removes key from both cache tiers.
func (a *App) DeleteModule(ctx context.Context, key string) error {
	if !a.support.Enabled() {
		return domain.ErrCacheUnavailable
	}
	if err := a.cache.DeleteModule(ctx, key); err != nil {
		return err
	}
	if key == domain.CompilerCacheKey {
		a.compiler.Reset()
	}
	return nil
}
