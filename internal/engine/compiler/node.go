package compiler

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmc/internal/adapters/cas"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/adapters/logger"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/adapters/registry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
	"go.trai.ch/wasmc/internal/engine/probe"
)

// NodeID is the unique identifier for the compiler provider Graft node.
const NodeID graft.ID = "engine.compiler"

func init() {
	graft.Register(graft.Node[*Provider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{cas.NodeID, registry.NodeID, probe.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Provider, error) {
			cache, err := graft.Dep[ports.ModuleCache](ctx)
			if err != nil {
				return nil, err
			}
			reg, err := graft.Dep[ports.Registry](ctx)
			if err != nil {
				return nil, err
			}
			support, err := graft.Dep[domain.CacheSupport](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			p := NewProvider(cache, reg, support, log)
			p.Warm(ctx)
			return p, nil
		},
	})
}
