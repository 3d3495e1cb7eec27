package probe

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmc/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/adapters/kv"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/adapters/wasm"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
)

// NodeID is the unique identifier for the capability probe Graft node.
const NodeID graft.ID = "engine.probe"

func init() {
	graft.Register(graft.Node[domain.CacheSupport]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{wasm.ValidatorNodeID, kv.NodeID, config.ConfigNodeID, logger.NodeID},
		Run: func(ctx context.Context) (domain.CacheSupport, error) {
			validator, err := graft.Dep[ports.ModuleValidator](ctx)
			if err != nil {
				return false, err
			}
			durable, err := graft.Dep[ports.DurableStore](ctx)
			if err != nil {
				return false, err
			}
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return false, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return false, err
			}

			enabled := cfg.Cache.Enabled && cfg.Cache.Backend != domain.BackendNone
			supported := New(validator, durable, enabled, log).SupportsDurableCache(ctx)
			return domain.CacheSupport(supported), nil
		},
	})
}
