package kv

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmc/internal/adapters/config"
	"go.trai.ch/wasmc/internal/adapters/logger"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
)

// NodeID is the unique identifier for the durable store Graft node.
const NodeID graft.ID = "adapter.durable_store"

func init() {
	graft.Register(graft.Node[ports.DurableStore]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.DurableStore, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return Open(cfg.Cache, log)
		},
	})
}
