package shell

import (
	"context"
	"path/filepath"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmc/internal/adapters/config"
	"go.trai.ch/wasmc/internal/adapters/logger"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
)

// NodeID is the unique identifier for the shell engine Graft node.
const NodeID graft.ID = "adapter.shell_engine"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Engine, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(filepath.Join(cfg.Cache.Dir, "bin"), cfg.Compiler.Env, log), nil
		},
	})
}
