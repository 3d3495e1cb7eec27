// Package pipeline orchestrates compiler acquisition, compilation and
// execution of one run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/zerr"
)

// Span names of the run phases.
const (
	SpanRun     = "run"
	SpanAcquire = "acquire-compiler"
	SpanCompile = "compile"
	SpanExecute = "execute"
)

// Pipeline runs source text through compile and execute, recording every
// run in a RunHistory.
type Pipeline struct {
	provider  ports.CompilerProvider
	engine    ports.CompilerEngine
	runtime   ports.Runtime
	cache     ports.ModuleCache
	workspace ports.Workspace
	support   domain.CacheSupport
	tracer    ports.Tracer
	logger    ports.Logger

	history     *domain.RunHistory
	marker      string
	artifactKey func(source string) string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPromptMarker sets the prompt after which the input is echoed in the
// transcript. An empty marker disables the echo.
func WithPromptMarker(marker string) Option {
	return func(p *Pipeline) {
		p.marker = marker
	}
}

// WithArtifactKey replaces the derivation of artifact cache keys.
func WithArtifactKey(fn func(source string) string) Option {
	return func(p *Pipeline) {
		p.artifactKey = fn
	}
}

// WithHistory records runs in h instead of a fresh history.
func WithHistory(h *domain.RunHistory) Option {
	return func(p *Pipeline) {
		p.history = h
	}
}

// New creates a Pipeline.
func New(
	provider ports.CompilerProvider,
	engine ports.CompilerEngine,
	runtime ports.Runtime,
	cache ports.ModuleCache,
	workspace ports.Workspace,
	support domain.CacheSupport,
	tracer ports.Tracer,
	logger ports.Logger,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		provider:    provider,
		engine:      engine,
		runtime:     runtime,
		cache:       cache,
		workspace:   workspace,
		support:     support,
		tracer:      tracer,
		logger:      logger,
		history:     domain.NewRunHistory(),
		marker:      domain.DefaultPromptMarker,
		artifactKey: domain.ArtifactKey,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// History returns the session's run history.
func (p *Pipeline) History() *domain.RunHistory {
	return p.history
}

// Run compiles and executes source with stdin and returns the final record.
// Failures end the run in domain.RunStateFailed; they are reported through
// the record, never returned.
func (p *Pipeline) Run(ctx context.Context, source, stdin string) domain.RunRecord {
	n := p.history.Begin()
	r := &run{pipeline: p, number: n, start: time.Now()}

	ctx, span := p.tracer.Start(ctx, SpanRun)
	span.SetAttribute(domain.AttrRunNumber, n)
	defer span.End()

	err := r.execute(ctx, source, stdin)
	if err != nil {
		span.RecordError(err)
		r.fail(err)
	}

	rec, _ := p.history.Get(n)
	return rec
}

// run tracks the phases of one invocation.
type run struct {
	pipeline *Pipeline
	number   int
	start    time.Time
}

func (r *run) execute(ctx context.Context, source, stdin string) error {
	p := r.pipeline

	r.enter(domain.RunStateAcquiringCompiler)
	compiler, err := r.acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrAcquisitionFailed, err)
	}
	r.stamp(func(rec *domain.RunRecord, d *time.Duration) { rec.AcquireTime = d })

	r.enter(domain.RunStateCompiling)
	artifact, cached, err := r.compile(ctx, compiler, source)
	if err != nil {
		return err
	}
	r.stamp(func(rec *domain.RunRecord, d *time.Duration) {
		rec.CompileTime = d
		rec.Cached = cached
	})

	r.enter(domain.RunStateExecuting)
	input := domain.NormalizeInput(stdin)
	stdout, err := r.runArtifact(ctx, artifact, input)
	if err != nil {
		return err
	}
	r.stamp(func(rec *domain.RunRecord, d *time.Duration) { rec.ExecuteTime = d })

	output := domain.ReconstructTranscript(stdout, p.marker, input)
	r.stamp(func(rec *domain.RunRecord, d *time.Duration) {
		rec.TotalTime = d
		rec.Output = output
		rec.State = domain.RunStateCompleted
	})

	p.logger.Debug("run completed", "run", r.number, "cached", cached, "elapsed", time.Since(r.start))
	return nil
}

func (r *run) acquire(ctx context.Context) (*domain.Compiler, error) {
	ctx, span := r.pipeline.tracer.Start(ctx, SpanAcquire)
	defer span.End()

	c, err := r.pipeline.provider.Get(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return c, nil
}

// compile returns the artifact for source, from the cache when possible.
func (r *run) compile(ctx context.Context, compiler *domain.Compiler, source string) ([]byte, bool, error) {
	p := r.pipeline
	key := p.artifactKey(source)

	ctx, span := p.tracer.Start(ctx, SpanCompile)
	defer span.End()
	span.SetAttribute(domain.AttrCacheKey, key)

	if p.support.Enabled() {
		artifact, err := p.cache.GetModule(ctx, key)
		if err == nil {
			span.SetAttribute(domain.AttrCacheHit, true)
			return artifact, true, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			p.logger.Warn("artifact cache lookup failed, compiling", "key", key, "error", err)
		}
	}
	span.SetAttribute(domain.AttrCacheHit, false)

	artifact, err := r.invokeCompiler(ctx, compiler, source)
	if err != nil {
		span.RecordError(err)
		return nil, false, err
	}

	if p.support.Enabled() {
		if err := p.cache.StoreModule(ctx, key, artifact); err != nil {
			p.logger.Warn("failed to cache compiled artifact", "key", key, "error", err)
		}
	}
	return artifact, false, nil
}

func (r *run) invokeCompiler(ctx context.Context, compiler *domain.Compiler, source string) ([]byte, error) {
	p := r.pipeline

	project, err := p.workspace.Create()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCompileFailed, err)
	}
	defer func() {
		if err := project.Close(); err != nil {
			p.logger.Warn("failed to remove project", "path", project.Dir(), "error", err)
		}
	}()

	if err := project.WriteFile(domain.SourceFileName, []byte(source)); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCompileFailed, err)
	}

	res, err := p.engine.Compile(ctx, compiler, project, domain.NewCompileRequest())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCompileFailed, err)
	}
	if !res.OK {
		return nil, &domain.DiagnosticError{Kind: domain.ErrCompileFailed, Diagnostics: res.Stderr}
	}

	artifact, err := project.ReadFile(domain.ArtifactFileName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCompileFailed,
			zerr.Wrap(err, "compiler produced no artifact"))
	}
	return artifact, nil
}

func (r *run) runArtifact(ctx context.Context, artifact []byte, input string) (string, error) {
	ctx, span := r.pipeline.tracer.Start(ctx, SpanExecute)
	defer span.End()

	res, err := r.pipeline.runtime.Run(ctx, artifact, input)
	if err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("%w: %w", domain.ErrExecutionFailed, err)
	}
	span.SetAttribute(domain.AttrExitCode, res.ExitCode)
	if !res.OK {
		err := &domain.DiagnosticError{Kind: domain.ErrExecutionFailed, Diagnostics: res.Stderr}
		span.RecordError(err)
		return "", err
	}
	return res.Stdout, nil
}

func (r *run) enter(state domain.RunState) {
	r.pipeline.history.Update(r.number, func(rec *domain.RunRecord) {
		rec.State = state
	})
}

// stamp records the time elapsed since the run started through set.
func (r *run) stamp(set func(rec *domain.RunRecord, d *time.Duration)) {
	d := time.Since(r.start)
	r.pipeline.history.Update(r.number, func(rec *domain.RunRecord) {
		set(rec, &d)
	})
}

func (r *run) fail(err error) {
	r.pipeline.logger.Error(zerr.With(zerr.Wrap(err, "run failed"), "run", r.number))
	r.stamp(func(rec *domain.RunRecord, d *time.Duration) {
		rec.TotalTime = d
		rec.Err = err
		rec.Output = "error: " + err.Error()
		rec.State = domain.RunStateFailed
	})
}
