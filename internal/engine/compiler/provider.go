// Package compiler resolves the compiler module for a run.
package compiler

import (
	"context"
	"errors"
	"sync"

	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
)

// Provider acquires the compiler image once per process, going through the
// module cache when caching is supported.
type Provider struct {
	cache    ports.ModuleCache
	registry ports.Registry
	support  domain.CacheSupport
	logger   ports.Logger

	mu       sync.RWMutex
	compiler *domain.Compiler
}

// NewProvider creates a Provider.
func NewProvider(
	cache ports.ModuleCache,
	registry ports.Registry,
	support domain.CacheSupport,
	logger ports.Logger,
) *Provider {
	return &Provider{
		cache:    cache,
		registry: registry,
		support:  support,
		logger:   logger,
	}
}

// Get returns the remembered compiler or acquires it.
//
// Concurrent callers that find no remembered handle each acquire one; the
// last to finish is remembered. Registry errors are returned unchanged.
func (p *Provider) Get(ctx context.Context) (*domain.Compiler, error) {
	if c := p.remembered(); c != nil {
		return c, nil
	}

	image, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}

	c := &domain.Compiler{Identifier: domain.CompilerRegistryPath, Image: image}
	p.remember(c)
	return c, nil
}

func (p *Provider) acquire(ctx context.Context) ([]byte, error) {
	if !p.support.Enabled() {
		return p.fetch(ctx)
	}

	image, err := p.cache.LoadOrStoreModule(ctx, domain.CompilerCacheKey, p.fetch)
	if err == nil {
		return image, nil
	}
	if !domain.IsStoreError(err) {
		return nil, err
	}

	p.logger.Warn("compiler cache lookup failed, fetching directly", "error", err)
	return p.fetch(ctx)
}

func (p *Provider) fetch(ctx context.Context) ([]byte, error) {
	p.logger.Info("fetching compiler", "identifier", domain.CompilerRegistryPath)
	return p.registry.FetchCompiler(ctx, domain.CompilerRegistryPath)
}

// Warm loads the compiler from the cache without touching the registry.
// A miss is silent.
func (p *Provider) Warm(ctx context.Context) {
	if !p.support.Enabled() || p.remembered() != nil {
		return
	}

	image, err := p.cache.GetModule(ctx, domain.CompilerCacheKey)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			p.logger.Warn("failed to warm compiler from cache", "error", err)
		}
		return
	}

	p.remember(&domain.Compiler{Identifier: domain.CompilerRegistryPath, Image: image})
	p.logger.Debug("compiler loaded from cache", "size", len(image))
}

// Reset forgets the remembered compiler.
func (p *Provider) Reset() {
	p.remember(nil)
}

func (p *Provider) remembered() *domain.Compiler {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.compiler
}

func (p *Provider) remember(c *domain.Compiler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.compiler = c
}

var _ ports.CompilerProvider = (*Provider)(nil)
