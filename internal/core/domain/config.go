package domain

// CacheBackend selects the durable cache tier.
type CacheBackend string

const (
	// BackendLevelDB stores modules in an embedded LevelDB database.
	BackendLevelDB CacheBackend = "leveldb"
	// BackendRedis stores modules in a Redis server.
	BackendRedis CacheBackend = "redis"
	// BackendNone disables the durable tier.
	BackendNone CacheBackend = "none"
)

// CompilerEngineKind selects how the compiler module is run.
type CompilerEngineKind string

const (
	// EngineWasm runs the compiler image as a WASI module.
	EngineWasm CompilerEngineKind = "wasm"
	// EngineShell runs the compiler image as a native executable.
	EngineShell CompilerEngineKind = "shell"
)

// Config is the resolved runtime configuration.
type Config struct {
	Cache     CacheConfig
	Compiler  CompilerConfig
	Runtime   RuntimeConfig
	Telemetry TelemetryConfig
	Log       LogConfig
}

// CacheConfig configures the module cache.
type CacheConfig struct {
	Enabled  bool
	Backend  CacheBackend
	Dir      string
	RedisURL string
	// Coalesce collapses concurrent loads of the same missing key into one.
	Coalesce bool
}

// CompilerConfig configures compiler acquisition and execution.
type CompilerConfig struct {
	Engine      CompilerEngineKind
	RegistryURL string
	Env         map[string]string
}

// RuntimeConfig configures artifact execution.
type RuntimeConfig struct {
	PromptMarker string
}

// TelemetryConfig configures tracing.
type TelemetryConfig struct {
	Exporter TelemetryExporter
}

// LogConfig configures logging.
type LogConfig struct {
	Level LogLevel
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled: true,
			Backend: BackendLevelDB,
			Dir:     DefaultCacheDir,
		},
		Compiler: CompilerConfig{
			Engine: EngineWasm,
		},
		Runtime: RuntimeConfig{
			PromptMarker: DefaultPromptMarker,
		},
		Telemetry: TelemetryConfig{
			Exporter: TelemetryNone,
		},
		Log: LogConfig{
			Level: LogLevelInfo,
		},
	}
}
