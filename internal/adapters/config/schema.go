package config

// Wasmcfile represents the structure of the wasmc.yaml configuration file.
// Pointer fields distinguish "unset" from the zero value.
type Wasmcfile struct {
	Cache     CacheDTO     `yaml:"cache"`
	Compiler  CompilerDTO  `yaml:"compiler"`
	Runtime   RuntimeDTO   `yaml:"runtime"`
	Telemetry TelemetryDTO `yaml:"telemetry"`
	Log       LogDTO       `yaml:"log"`
}

// CacheDTO represents the cache section.
type CacheDTO struct {
	Enabled  *bool  `yaml:"enabled"`
	Backend  string `yaml:"backend"`
	Dir      string `yaml:"dir"`
	RedisURL string `yaml:"redis_url"`
	Coalesce *bool  `yaml:"coalesce"`
}

// CompilerDTO represents the compiler section.
type CompilerDTO struct {
	Engine      string            `yaml:"engine"`
	RegistryURL string            `yaml:"registry_url"`
	Env         map[string]string `yaml:"env"`
}

// RuntimeDTO represents the runtime section.
type RuntimeDTO struct {
	PromptMarker *string `yaml:"prompt_marker"`
}

// TelemetryDTO represents the telemetry section.
type TelemetryDTO struct {
	Exporter string `yaml:"exporter"`
}

// LogDTO represents the log section.
type LogDTO struct {
	Level string `yaml:"level"`
}
