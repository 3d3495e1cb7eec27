// Package main is the entry point for the wasmc runner.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmc/cmd/wasmc/commands"
	"go.trai.ch/wasmc/internal/app"
	"go.trai.ch/wasmc/internal/core/domain"
	_ "go.trai.ch/wasmc/internal/wiring"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	components, _, err := graft.ExecuteFor[*app.Components](ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		return 1
	}
	defer func() {
		if err := components.Close(context.WithoutCancel(ctx)); err != nil {
			components.Logger.Error(err)
		}
	}()

	cli := commands.New(components.App)

	if err := cli.Execute(ctx); err != nil {
		if errors.Is(err, domain.ErrRunFailed) {
			return 1
		}
		components.Logger.Error(err)
		return 1
	}
	return 0
}
