// Package wasm runs WebAssembly modules on the wazero runtime.
package wasm

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	artifactProgramName = "user_code"
	compilerProgramName = "clang"
)

// Runtime executes WASI modules. It serves as the artifact runtime, the
// module validator and the compiler engine of a session.
//
// Compiled compiler images are memoized by content so repeated runs skip
// the native compilation step.
type Runtime struct {
	runtime wazero.Runtime
	cache   wazero.CompilationCache
	logger  ports.Logger

	mu       sync.Mutex
	compiled map[uint64]wazero.CompiledModule
}

// NewRuntime creates a Runtime. When cacheDir is not empty, native code is
// also cached on disk below it.
func NewRuntime(ctx context.Context, cacheDir string, logger ports.Logger) (*Runtime, error) {
	cache := wazero.NewCompilationCache()
	if cacheDir != "" {
		dirCache, err := wazero.NewCompilationCacheWithDir(filepath.Join(cacheDir, "wazero"))
		if err != nil {
			logger.Warn("falling back to in-memory compilation cache", "error", err)
		} else {
			cache = dirCache
		}
	}

	r := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().
		WithCompilationCache(cache).
		WithCloseOnContextDone(true))

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, r); err != nil {
		_ = r.Close(ctx)
		_ = cache.Close(ctx)
		return nil, zerr.Wrap(err, "failed to instantiate WASI")
	}

	return &Runtime{
		runtime:  r,
		cache:    cache,
		logger:   logger,
		compiled: make(map[uint64]wazero.CompiledModule),
	}, nil
}

// Validate reports whether binary compiles as a WebAssembly module.
func (r *Runtime) Validate(ctx context.Context, binary []byte) error {
	compiled, err := r.runtime.CompileModule(ctx, binary)
	if err != nil {
		return zerr.Wrap(err, "invalid module")
	}
	return compiled.Close(ctx)
}

// Run executes binary with stdin and captures stdout and stderr.
func (r *Runtime) Run(ctx context.Context, binary []byte, stdin string) (domain.ProcessResult, error) {
	compiled, err := r.runtime.CompileModule(ctx, binary)
	if err != nil {
		return domain.ProcessResult{}, zerr.Wrap(err, "failed to compile artifact")
	}
	defer func() { _ = compiled.Close(ctx) }()

	cfg := wazero.NewModuleConfig().
		WithArgs(artifactProgramName).
		WithStdin(bytes.NewReader([]byte(stdin)))

	return r.instantiate(ctx, compiled, cfg)
}

// Compile runs the compiler image with the project directory mounted at
// domain.ProjectMountPoint.
func (r *Runtime) Compile(
	ctx context.Context,
	compiler *domain.Compiler,
	project ports.Project,
	req domain.CompileRequest,
) (domain.ProcessResult, error) {
	compiled, err := r.compilerModule(ctx, compiler)
	if err != nil {
		return domain.ProcessResult{}, err
	}

	args := append([]string{compilerProgramName}, req.Args...)
	cfg := wazero.NewModuleConfig().
		WithArgs(args...).
		WithFSConfig(wazero.NewFSConfig().WithDirMount(project.Dir(), domain.ProjectMountPoint))

	return r.instantiate(ctx, compiled, cfg)
}

func (r *Runtime) compilerModule(ctx context.Context, compiler *domain.Compiler) (wazero.CompiledModule, error) {
	sum := xxhash.Sum64(compiler.Image)

	r.mu.Lock()
	defer r.mu.Unlock()

	if compiled, ok := r.compiled[sum]; ok {
		return compiled, nil
	}

	compiled, err := r.runtime.CompileModule(ctx, compiler.Image)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to compile compiler module"), "identifier", compiler.Identifier)
	}
	r.compiled[sum] = compiled
	r.logger.Debug("compiled compiler module", "identifier", compiler.Identifier, "size", len(compiler.Image))
	return compiled, nil
}

func (r *Runtime) instantiate(
	ctx context.Context,
	compiled wazero.CompiledModule,
	cfg wazero.ModuleConfig,
) (domain.ProcessResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProcessResult{}, zerr.Wrap(err, "module execution interrupted")
	}

	var stdout, stderr bytes.Buffer
	cfg = cfg.
		// An empty name allows concurrent instances of the same module.
		WithName("").
		WithStdout(&stdout).
		WithStderr(&stderr).
		WithSysWalltime()

	mod, err := r.runtime.InstantiateModule(ctx, compiled, cfg)
	if mod != nil {
		_ = mod.Close(ctx)
	}

	res := domain.ProcessResult{OK: true}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.ProcessResult{}, zerr.Wrap(ctxErr, "module execution interrupted")
		}

		var exitErr *sys.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = int(exitErr.ExitCode())
		} else {
			// Traps surface as diagnostics of the failed module.
			res.ExitCode = -1
			if stderr.Len() > 0 && !bytes.HasSuffix(stderr.Bytes(), []byte("\n")) {
				stderr.WriteByte('\n')
			}
			stderr.WriteString(err.Error())
		}
		res.OK = res.ExitCode == 0
	}

	res.Stdout = stdout.String()
	res.Stderr = stderr.String()
	return res, nil
}

// Close releases memoized modules and the underlying runtime.
func (r *Runtime) Close(ctx context.Context) error {
	r.mu.Lock()
	for sum, compiled := range r.compiled {
		_ = compiled.Close(ctx)
		delete(r.compiled, sum)
	}
	r.mu.Unlock()

	return errors.Join(r.runtime.Close(ctx), r.cache.Close(ctx))
}

var (
	_ ports.Runtime         = (*Runtime)(nil)
	_ ports.ModuleValidator = (*Runtime)(nil)
	_ ports.CompilerEngine  = (*Runtime)(nil)
)
