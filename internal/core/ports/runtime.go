package ports

import (
	"context"

	"go.trai.ch/wasmc/internal/core/domain"
)

// Runtime executes compiled artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=runtime.go -destination=mocks/mock_runtime.go -package=mocks
type Runtime interface {
	// Run executes binary with stdin and captures its output.
	// A non-zero exit yields OK false and a nil error.
	Run(ctx context.Context, binary []byte, stdin string) (domain.ProcessResult, error)
}

// ModuleValidator checks that a binary is a loadable module.
type ModuleValidator interface {
	Validate(ctx context.Context, binary []byte) error
}
