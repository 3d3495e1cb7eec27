package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmc/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmc/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmc/internal/adapters/kv"                 //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmc/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmc/internal/adapters/telemetry"          //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmc/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmc/internal/adapters/wasm"               //nolint:depguard // Wired in app layer
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/wasmc/internal/engine/compiler"
	"go.trai.ch/wasmc/internal/engine/pipeline"
	"go.trai.ch/wasmc/internal/engine/probe"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// leveler is implemented by loggers whose threshold can change after construction.
type leveler interface {
	SetLevel(level domain.LogLevel)
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			pipeline.NodeID,
			compiler.NodeID,
			cas.NodeID,
			probe.NodeID,
			config.ConfigNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			runner, err := graft.Dep[*pipeline.Pipeline](ctx)
			if err != nil {
				return nil, err
			}
			provider, err := graft.Dep[*compiler.Provider](ctx)
			if err != nil {
				return nil, err
			}
			cache, err := graft.Dep[ports.ModuleCache](ctx)
			if err != nil {
				return nil, err
			}
			support, err := graft.Dep[domain.CacheSupport](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(runner, provider, cache, support, cfg, log), nil
		},
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.ConfigNodeID,
			kv.NodeID,
			wasm.NodeID,
			telemetry.ProvidersNodeID,
			telemetry.ProgrockNodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	cfg, err := graft.Dep[*domain.Config](ctx)
	if err != nil {
		return nil, err
	}
	durable, err := graft.Dep[ports.DurableStore](ctx)
	if err != nil {
		return nil, err
	}
	runtime, err := graft.Dep[*wasm.Runtime](ctx)
	if err != nil {
		return nil, err
	}
	providers, err := graft.Dep[*telemetry.Providers](ctx)
	if err != nil {
		return nil, err
	}
	recorder, err := graft.Dep[*progrock.Recorder](ctx)
	if err != nil {
		return nil, err
	}

	if l, ok := log.(leveler); ok {
		l.SetLevel(cfg.Log.Level)
	}

	return NewComponents(app, log,
		func(context.Context) error { return durable.Close() },
		runtime.Close,
		providers.Shutdown,
		func(context.Context) error { return recorder.Close() },
	), nil
}
