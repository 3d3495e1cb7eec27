// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/wasmc/internal/adapters/cas"
	_ "go.trai.ch/wasmc/internal/adapters/config"
	_ "go.trai.ch/wasmc/internal/adapters/fs"
	_ "go.trai.ch/wasmc/internal/adapters/kv"
	_ "go.trai.ch/wasmc/internal/adapters/logger"
	_ "go.trai.ch/wasmc/internal/adapters/registry"
	_ "go.trai.ch/wasmc/internal/adapters/shell"
	_ "go.trai.ch/wasmc/internal/adapters/telemetry"
	_ "go.trai.ch/wasmc/internal/adapters/wasm"
	// Register app and engine nodes.
	_ "go.trai.ch/wasmc/internal/app"
	_ "go.trai.ch/wasmc/internal/engine/compiler"
	_ "go.trai.ch/wasmc/internal/engine/pipeline"
	_ "go.trai.ch/wasmc/internal/engine/probe"
)
