// Package build carries values stamped into the binary at link time.
package build

// Version is reported by `wasmc version` and attached to telemetry resources.
// Release builds set it with -ldflags "-X go.trai.ch/wasmc/internal/build.Version=...".
var Version = "dev"
