package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmc/internal/adapters/cas"       //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/adapters/shell"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/adapters/wasm"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/wasmc/internal/engine/compiler"
	"go.trai.ch/wasmc/internal/engine/probe"
)

// NodeID is the unique identifier for the pipeline Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Pipeline]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			compiler.NodeID,
			wasm.NodeID,
			shell.NodeID,
			cas.NodeID,
			fs.WorkspaceNodeID,
			probe.NodeID,
			telemetry.TracerNodeID,
			config.ConfigNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Pipeline, error) {
			provider, err := graft.Dep[*compiler.Provider](ctx)
			if err != nil {
				return nil, err
			}
			runtime, err := graft.Dep[*wasm.Runtime](ctx)
			if err != nil {
				return nil, err
			}
			shellEngine, err := graft.Dep[*shell.Engine](ctx)
			if err != nil {
				return nil, err
			}
			cache, err := graft.Dep[ports.ModuleCache](ctx)
			if err != nil {
				return nil, err
			}
			workspace, err := graft.Dep[ports.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			support, err := graft.Dep[domain.CacheSupport](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
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

			var engine ports.CompilerEngine = runtime
			if cfg.Compiler.Engine == domain.EngineShell {
				engine = shellEngine
			}

			return New(provider, engine, runtime, cache, workspace, support, tracer, log,
				WithPromptMarker(cfg.Runtime.PromptMarker),
			), nil
		},
	})
}
