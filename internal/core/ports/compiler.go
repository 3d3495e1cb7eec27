package ports

import (
	"context"

	"go.trai.ch/wasmc/internal/core/domain"
)

// CompilerEngine runs a compiler module against a project.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type CompilerEngine interface {
	// Compile runs compiler with the project mounted at domain.ProjectMountPoint.
	// A compiler that reports failure yields a result with OK false and a nil error;
	// the error is reserved for failures to run the compiler at all.
	Compile(
		ctx context.Context,
		compiler *domain.Compiler,
		project Project,
		req domain.CompileRequest,
	) (domain.ProcessResult, error)
}

// CompilerProvider resolves the compiler handle for a run.
type CompilerProvider interface {
	Get(ctx context.Context) (*domain.Compiler, error)
}
