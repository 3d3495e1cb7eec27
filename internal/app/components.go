package app

import (
	"context"
	"errors"

	"go.trai.ch/wasmc/internal/core/ports"
)

// Closer releases a resource at shutdown.
type Closer func(ctx context.Context) error

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger

	closers []Closer
}

// NewComponents creates a new Components struct. Closers run in reverse
// order on Close.
func NewComponents(app *App, logger ports.Logger, closers ...Closer) *Components {
	return &Components{
		App:     app,
		Logger:  logger,
		closers: closers,
	}
}

// Close releases every resource and reports all failures.
func (c *Components) Close(ctx context.Context) error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
