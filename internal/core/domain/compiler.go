package domain

// Compiler is an acquired compiler module.
type Compiler struct {
	// Identifier is the registry path the image was fetched from.
	Identifier string
	// Image is the compiler module binary. It must not be modified.
	Image []byte
}

// CompileRequest describes one compiler invocation inside a project.
type CompileRequest struct {
	// Args are passed to the compiler after its program name.
	// Paths are expressed relative to ProjectMountPoint.
	Args []string
}

// NewCompileRequest builds the request that compiles SourceFileName into ArtifactFileName.
func NewCompileRequest() CompileRequest {
	return CompileRequest{
		Args: []string{
			ProjectMountPoint + "/" + SourceFileName,
			"-o",
			ProjectMountPoint + "/" + ArtifactFileName,
		},
	}
}

// ProcessResult is the outcome of running a compiler or an artifact.
type ProcessResult struct {
	OK       bool
	Stdout   string
	Stderr   string
	ExitCode int
}

// CacheSupport is the capability probe verdict for the session.
type CacheSupport bool

// Enabled reports whether cache-dependent paths may be used.
func (c CacheSupport) Enabled() bool {
	return bool(c)
}
