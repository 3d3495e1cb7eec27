package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmc/internal/adapters/config"
	"go.trai.ch/wasmc/internal/adapters/kv"
	"go.trai.ch/wasmc/internal/adapters/logger"
	"go.trai.ch/wasmc/internal/adapters/telemetry"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
)

// NodeID is the unique identifier for the module cache Graft node.
const NodeID graft.ID = "adapter.module_cache"

func init() {
	graft.Register(graft.Node[ports.ModuleCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{kv.NodeID, config.ConfigNodeID, logger.NodeID, telemetry.ProvidersNodeID},
		Run: func(ctx context.Context) (ports.ModuleCache, error) {
			durable, err := graft.Dep[ports.DurableStore](ctx)
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
			providers, err := graft.Dep[*telemetry.Providers](ctx)
			if err != nil {
				return nil, err
			}
			return NewStore(durable, log,
				WithCoalescing(cfg.Cache.Coalesce),
				WithMeter(providers.MeterProvider.Meter(instrumentationName)),
			)
		},
	})
}
