package domain

import (
	"errors"

	"go.trai.ch/zerr"
)

var (
	// ErrCacheUnavailable is returned when the durable tier failed the capability probe
	// and caching is bypassed for the session.
	ErrCacheUnavailable = zerr.New("module cache unavailable")

	// ErrCacheMiss is returned when a key is absent from both cache tiers.
	ErrCacheMiss = zerr.New("module not found in cache")

	// ErrStoreFailed marks every failure of the durable cache tier.
	ErrStoreFailed = zerr.New("durable store failure")

	// ErrStoreOpenFailed is returned when the durable store cannot be opened or upgraded.
	ErrStoreOpenFailed = zerr.New("failed to open durable store")

	// ErrStoreReadFailed is returned when reading from the durable store fails.
	ErrStoreReadFailed = zerr.New("failed to read from durable store")

	// ErrStoreWriteFailed is returned when writing to the durable store fails.
	ErrStoreWriteFailed = zerr.New("failed to write to durable store")

	// ErrStoreDeleteFailed is returned when deleting from the durable store fails.
	ErrStoreDeleteFailed = zerr.New("failed to delete from durable store")

	// ErrStoreClearFailed is returned when the durable store cannot be emptied.
	ErrStoreClearFailed = zerr.New("failed to clear durable store")

	// ErrAcquisitionFailed is returned when the compiler module could not be obtained.
	ErrAcquisitionFailed = zerr.New("compiler acquisition failed")

	// ErrCompileFailed is returned when the compiler reports a failure.
	ErrCompileFailed = zerr.New("compile failed")

	// ErrExecutionFailed is returned when the compiled artifact fails at runtime.
	ErrExecutionFailed = zerr.New("runtime error")

	// ErrRegistryNotConfigured is returned when no registry location is configured.
	ErrRegistryNotConfigured = zerr.New("compiler registry not configured")

	// ErrCompilerNotFound is returned when the registry has no image under the identifier.
	ErrCompilerNotFound = zerr.New("compiler module not found in registry")

	// ErrConfigInvalid is returned when the configuration contains an unsupported value.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrRunFailed is returned by the CLI when at least one run ended in failure.
	ErrRunFailed = zerr.New("run failed")

	// ErrNoSource is returned when no program source was given.
	ErrNoSource = zerr.New("no source given")

	// ErrInvalidProjectPath is returned when a project file name escapes the project directory.
	ErrInvalidProjectPath = zerr.New("invalid project path")
)

// StoreError tags err as a durable tier failure of the given kind.
// The result matches both ErrStoreFailed and kind under errors.Is.
func StoreError(kind, err error) error {
	return &storeError{kind: kind, err: err}
}

type storeError struct {
	kind error
	err  error
}

func (e *storeError) Error() string {
	if e.err == nil {
		return e.kind.Error()
	}
	return e.kind.Error() + ": " + e.err.Error()
}

func (e *storeError) Unwrap() []error {
	if e.err == nil {
		return []error{ErrStoreFailed, e.kind}
	}
	return []error{ErrStoreFailed, e.kind, e.err}
}

// IsStoreError reports whether err originates from the durable cache tier.
func IsStoreError(err error) bool {
	return errors.Is(err, ErrStoreFailed)
}

// DiagnosticError carries the verbatim diagnostic stream of a failed compile or run.
type DiagnosticError struct {
	Kind        error
	Diagnostics string
}

func (e *DiagnosticError) Error() string {
	if e.Diagnostics == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Diagnostics
}

func (e *DiagnosticError) Unwrap() error {
	return e.Kind
}
