package wasm

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmc/internal/adapters/config"
	"go.trai.ch/wasmc/internal/adapters/logger"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the wazero runtime Graft node.
	NodeID graft.ID = "adapter.wasm"
	// RuntimeNodeID is the unique identifier for the artifact runtime Graft node.
	RuntimeNodeID graft.ID = "adapter.wasm.runtime"
	// ValidatorNodeID is the unique identifier for the module validator Graft node.
	ValidatorNodeID graft.ID = "adapter.wasm.validator"
)

func init() {
	graft.Register(graft.Node[*Runtime]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Runtime, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			var dir string
			if cfg.Cache.Enabled {
				dir = cfg.Cache.Dir
			}
			return NewRuntime(context.WithoutCancel(ctx), dir, log)
		},
	})

	graft.Register(graft.Node[ports.Runtime]{
		ID:        RuntimeNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.Runtime, error) {
			return graft.Dep[*Runtime](ctx)
		},
	})

	graft.Register(graft.Node[ports.ModuleValidator]{
		ID:        ValidatorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{NodeID},
		Run: func(ctx context.Context) (ports.ModuleValidator, error) {
			return graft.Dep[*Runtime](ctx)
		},
	})
}
