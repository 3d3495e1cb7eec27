// Package config provides the configuration loader for wasmc.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override the file configuration.
const (
	EnvConfigPath     = "WASMC_CONFIG"
	EnvCacheEnabled   = "WASMC_CACHE_ENABLED"
	EnvCacheDir       = "WASMC_CACHE_DIR"
	EnvCacheBackend   = "WASMC_CACHE_BACKEND"
	EnvRedisURL       = "WASMC_REDIS_URL"
	EnvRegistryURL    = "WASMC_REGISTRY_URL"
	EnvCompilerEngine = "WASMC_COMPILER_ENGINE"
	EnvLogLevel       = "WASMC_LOG_LEVEL"
	EnvTelemetry      = "WASMC_TELEMETRY"
)

// Loader implements ports.ConfigLoader using a YAML file, a .env file and the
// process environment, in increasing order of precedence.
type Loader struct {
	Filename  string
	logger    ports.Logger
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a loader reading domain.DefaultConfigFile.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{
		Filename:  domain.DefaultConfigFile,
		logger:    logger,
		lookupEnv: os.LookupEnv,
	}
}

// WithLookupEnv replaces the environment source. Used for testing.
func (l *Loader) WithLookupEnv(fn func(string) (string, bool)) *Loader {
	l.lookupEnv = fn
	return l
}

// Load resolves the configuration for the given working directory.
// A missing config file yields the defaults.
func (l *Loader) Load(cwd string) (*domain.Config, error) {
	dotenv, err := readDotenv(filepath.Join(cwd, ".env"))
	if err != nil {
		return nil, err
	}
	env := func(key string) (string, bool) {
		if v, ok := l.lookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	path := filepath.Join(cwd, l.Filename)
	if p, ok := env(EnvConfigPath); ok && p != "" {
		path = p
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
	}

	cfg := domain.DefaultConfig()
	file, err := readFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		l.logger.Debug("no config file, using defaults", "path", path)
	case err != nil:
		return nil, err
	default:
		if err := apply(cfg, file); err != nil {
			return nil, zerr.With(err, "path", path)
		}
	}

	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}

	if cfg.Cache.Dir != "" && !filepath.IsAbs(cfg.Cache.Dir) {
		cfg.Cache.Dir = filepath.Join(cwd, cfg.Cache.Dir)
	}
	return cfg, nil
}

func readDotenv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read .env file"), "path", path)
	}
	return vars, nil
}

func readFile(path string) (*Wasmcfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file Wasmcfile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}
	return &file, nil
}

func apply(cfg *domain.Config, file *Wasmcfile) error {
	if file.Cache.Enabled != nil {
		cfg.Cache.Enabled = *file.Cache.Enabled
	}
	if file.Cache.Coalesce != nil {
		cfg.Cache.Coalesce = *file.Cache.Coalesce
	}
	if file.Cache.Dir != "" {
		cfg.Cache.Dir = file.Cache.Dir
	}
	cfg.Cache.RedisURL = file.Cache.RedisURL
	if err := setBackend(cfg, file.Cache.Backend); err != nil {
		return err
	}

	if err := setEngine(cfg, file.Compiler.Engine); err != nil {
		return err
	}
	cfg.Compiler.RegistryURL = file.Compiler.RegistryURL
	cfg.Compiler.Env = file.Compiler.Env

	if file.Runtime.PromptMarker != nil {
		cfg.Runtime.PromptMarker = *file.Runtime.PromptMarker
	}

	if err := setExporter(cfg, file.Telemetry.Exporter); err != nil {
		return err
	}
	return setLevel(cfg, file.Log.Level)
}

func applyEnv(cfg *domain.Config, env func(string) (string, bool)) error {
	if v, ok := env(EnvCacheEnabled); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "cache enabled flag"), EnvCacheEnabled, v)
		}
		cfg.Cache.Enabled = enabled
	}
	if v, ok := env(EnvCacheDir); ok && v != "" {
		cfg.Cache.Dir = v
	}
	if v, ok := env(EnvRedisURL); ok && v != "" {
		cfg.Cache.RedisURL = v
	}
	if v, ok := env(EnvRegistryURL); ok && v != "" {
		cfg.Compiler.RegistryURL = v
	}
	if v, ok := env(EnvCacheBackend); ok {
		if err := setBackend(cfg, v); err != nil {
			return err
		}
	}
	if v, ok := env(EnvCompilerEngine); ok {
		if err := setEngine(cfg, v); err != nil {
			return err
		}
	}
	if v, ok := env(EnvTelemetry); ok {
		if err := setExporter(cfg, v); err != nil {
			return err
		}
	}
	if v, ok := env(EnvLogLevel); ok {
		if err := setLevel(cfg, v); err != nil {
			return err
		}
	}
	return nil
}

func setBackend(cfg *domain.Config, v string) error {
	switch domain.CacheBackend(v) {
	case "":
	case domain.BackendLevelDB, domain.BackendRedis, domain.BackendNone:
		cfg.Cache.Backend = domain.CacheBackend(v)
	default:
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unknown cache backend"), "backend", v)
	}
	return nil
}

func setEngine(cfg *domain.Config, v string) error {
	switch domain.CompilerEngineKind(v) {
	case "":
	case domain.EngineWasm, domain.EngineShell:
		cfg.Compiler.Engine = domain.CompilerEngineKind(v)
	default:
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unknown compiler engine"), "engine", v)
	}
	return nil
}

func setExporter(cfg *domain.Config, v string) error {
	switch domain.TelemetryExporter(v) {
	case "":
	case domain.TelemetryNone, domain.TelemetryStdout, domain.TelemetryOTLP, domain.TelemetryProgrock:
		cfg.Telemetry.Exporter = domain.TelemetryExporter(v)
	default:
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unknown telemetry exporter"), "exporter", v)
	}
	return nil
}

func setLevel(cfg *domain.Config, v string) error {
	if v == "" {
		return nil
	}
	level, ok := domain.ParseLogLevel(v)
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrConfigInvalid, "unknown log level"), "level", v)
	}
	cfg.Log.Level = level
	return nil
}
