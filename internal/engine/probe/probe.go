// Package probe decides whether the durable cache tier can be used.
package probe

import (
	"bytes"
	"context"

	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/zerr"
)

// Key is the reserved durable key used for the round-trip check.
const Key = "__wasmc_probe__"

// Prober runs the one-shot capability check.
type Prober struct {
	validator ports.ModuleValidator
	durable   ports.DurableStore
	enabled   bool
	logger    ports.Logger
}

// New creates a Prober. When enabled is false no durable backend is
// configured and the probe always fails.
func New(validator ports.ModuleValidator, durable ports.DurableStore, enabled bool, logger ports.Logger) *Prober {
	return &Prober{
		validator: validator,
		durable:   durable,
		enabled:   enabled,
		logger:    logger,
	}
}

// SupportsDurableCache reports whether the runtime accepts the minimal module
// and the durable tier round-trips it unchanged. Failures are logged, never
// returned.
func (p *Prober) SupportsDurableCache(ctx context.Context) bool {
	if !p.enabled {
		p.logger.Debug("module cache disabled by configuration")
		return false
	}

	if err := p.check(ctx); err != nil {
		p.logger.Warn("module cache unavailable, caching bypassed", "error", err)
		return false
	}
	return true
}

func (p *Prober) check(ctx context.Context) error {
	module := domain.MinimalModule

	if err := p.validator.Validate(ctx, module); err != nil {
		return zerr.Wrap(err, "runtime rejected probe module")
	}
	if err := p.durable.Put(ctx, Key, module); err != nil {
		return err
	}

	got, err := p.durable.Get(ctx, Key)
	if err != nil {
		return err
	}

	if err := p.durable.Delete(ctx, Key); err != nil {
		return err
	}

	if !bytes.Equal(got, module) {
		return zerr.With(zerr.New("probe module changed in durable store"), "size", len(got))
	}
	return nil
}
