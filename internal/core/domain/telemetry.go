package domain

import "strings"

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLogLevel maps a config value to a LogLevel.
func ParseLogLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, true
	case "", "info":
		return LogLevelInfo, true
	case "warn", "warning":
		return LogLevelWarn, true
	case "error":
		return LogLevelError, true
	default:
		return LogLevelInfo, false
	}
}

// TelemetryExporter selects how run phases are traced.
type TelemetryExporter string

const (
	// TelemetryNone discards spans.
	TelemetryNone TelemetryExporter = "none"
	// TelemetryStdout writes spans and metrics as JSON to stderr.
	TelemetryStdout TelemetryExporter = "stdout"
	// TelemetryOTLP exports spans and metrics to an OTLP gRPC collector.
	TelemetryOTLP TelemetryExporter = "otlp"
	// TelemetryProgrock renders spans as progrock vertices.
	TelemetryProgrock TelemetryExporter = "progrock"
)

// Span attribute keys shared by the tracer implementations.
const (
	AttrCacheHit  = "cache.hit"
	AttrCacheKey  = "cache.key"
	AttrRunNumber = "run.number"
	AttrExitCode  = "process.exit_code"
)
