// Package shell runs compiler images as native executables.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/zerr"
)

// Engine implements ports.CompilerEngine by materializing the compiler image
// as an executable file and running it with os/exec.
type Engine struct {
	binDir string
	env    map[string]string
	logger ports.Logger

	mu sync.Mutex
}

// NewEngine creates an Engine that keeps materialized compilers under binDir.
// env holds variables applied on top of the process environment.
func NewEngine(binDir string, env map[string]string, logger ports.Logger) *Engine {
	return &Engine{
		binDir: binDir,
		env:    env,
		logger: logger,
	}
}

// Compile runs the compiler inside the project directory.
// Arguments that reference domain.ProjectMountPoint are rewritten to the
// project's host path.
func (e *Engine) Compile(
	ctx context.Context,
	compiler *domain.Compiler,
	project ports.Project,
	req domain.CompileRequest,
) (domain.ProcessResult, error) {
	executable, err := e.materialize(compiler)
	if err != nil {
		return domain.ProcessResult{}, err
	}

	args := make([]string, len(req.Args))
	for i, arg := range req.Args {
		args[i] = rewriteMount(arg, project.Dir())
	}

	cmd := exec.CommandContext(ctx, executable, args...) //nolint:gosec // compiler image acquired from the registry
	cmd.Dir = project.Dir()
	cmd.Env = resolveEnvironment(os.Environ(), e.env)

	var stdout, stderr bytes.Buffer
	stdoutLog := &logWriter{logger: e.logger}
	stderrLog := &logWriter{logger: e.logger}
	cmd.Stdout = io.MultiWriter(&stdout, stdoutLog)
	cmd.Stderr = io.MultiWriter(&stderr, stderrLog)

	runErr := cmd.Run()
	stdoutLog.Flush()
	stderrLog.Flush()
	res := domain.ProcessResult{
		OK:     runErr == nil,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if runErr == nil {
		return res, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.ProcessResult{}, zerr.Wrap(ctxErr, "compiler interrupted")
	}

	var exitErr *exec.ExitError
	if !errors.As(runErr, &exitErr) {
		return domain.ProcessResult{}, zerr.With(zerr.Wrap(runErr, "failed to start compiler"), "path", executable)
	}
	res.ExitCode = exitErr.ExitCode()
	return res, nil
}

// materialize writes the compiler image to a content-addressed executable.
func (e *Engine) materialize(compiler *domain.Compiler) (string, error) {
	path := filepath.Join(e.binDir, fmt.Sprintf("%016x", xxhash.Sum64(compiler.Image)))

	e.mu.Lock()
	defer e.mu.Unlock()

	if info, err := os.Stat(path); err == nil && info.Size() == int64(len(compiler.Image)) {
		return path, nil
	}

	if err := os.MkdirAll(e.binDir, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, "failed to create compiler directory"), "path", e.binDir)
	}

	tmp, err := os.CreateTemp(e.binDir, ".compiler-*")
	if err != nil {
		return "", zerr.Wrap(err, "failed to create compiler file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(compiler.Image); err != nil {
		_ = tmp.Close()
		return "", zerr.Wrap(err, "failed to write compiler file")
	}
	if err := tmp.Close(); err != nil {
		return "", zerr.Wrap(err, "failed to write compiler file")
	}
	if err := os.Chmod(tmp.Name(), domain.ExecPerm); err != nil {
		return "", zerr.Wrap(err, "failed to mark compiler executable")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", zerr.Wrap(err, "failed to install compiler file")
	}

	e.logger.Debug("materialized compiler", "identifier", compiler.Identifier, "path", path)
	return path, nil
}

func rewriteMount(arg, dir string) string {
	if arg == domain.ProjectMountPoint {
		return dir
	}
	if rest, ok := strings.CutPrefix(arg, domain.ProjectMountPoint+"/"); ok {
		return filepath.Join(dir, rest)
	}
	return arg
}

// logWriter forwards complete lines of compiler output to the debug log.
type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logger.Debug(string(w.buf[:i]))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush logs a trailing line that was not terminated by a newline.
func (w *logWriter) Flush() {
	if len(w.buf) == 0 {
		return
	}
	w.logger.Debug(string(w.buf))
	w.buf = nil
}

// resolveEnvironment applies overrides on top of the system environment.
// A PATH override is prepended to the system PATH.
func resolveEnvironment(sysEnv []string, overrides map[string]string) []string {
	envMap := make(map[string]string, len(sysEnv)+len(overrides))
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	for k, v := range overrides {
		if k == "PATH" {
			if sysPath := envMap["PATH"]; sysPath != "" {
				v = v + string(os.PathListSeparator) + sysPath
			}
		}
		envMap[k] = v
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

var _ ports.CompilerEngine = (*Engine)(nil)
