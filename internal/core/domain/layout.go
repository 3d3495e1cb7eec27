package domain

const (
	// CompilerRegistryPath identifies the compiler module in the registry.
	CompilerRegistryPath = "clang/clang"

	// CompilerCacheKey is the cache key of the compiler module image.
	CompilerCacheKey = "clang-module-v1"

	// ArtifactSchemaVersion is baked into every compiled artifact key.
	ArtifactSchemaVersion = "1"

	// DurableStoreName is the name of the durable cache collection.
	DurableStoreName = "wasm-cache"

	// DurableStoreVersion is the schema version of the durable cache collection.
	// Opening a store written with another version destroys its contents.
	DurableStoreVersion = 1

	// ProjectMountPoint is where the project directory appears to the compiler.
	ProjectMountPoint = "/project"

	// SourceFileName is the name of the source file inside the project.
	SourceFileName = "user_code.c"

	// ArtifactFileName is the name of the compiled artifact inside the project.
	ArtifactFileName = "user_code.wasm"

	// DefaultConfigFile is the config file looked up in the working directory.
	DefaultConfigFile = "wasmc.yaml"

	// DefaultCacheDir holds the durable store and materialized compiler binaries.
	DefaultCacheDir = ".wasmc/cache"

	// DefaultPromptMarker is the prompt printed by the sample program.
	DefaultPromptMarker = "What is your name?"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r-----).
	FilePerm = 0o640

	// ExecPerm is the permission of materialized compiler executables (rwx------).
	ExecPerm = 0o700
)

// MinimalModule is the smallest valid WebAssembly binary: magic number and version 1.
var MinimalModule = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
