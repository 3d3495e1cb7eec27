package logger

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
)

// NodeID is the unique identifier for the logger Graft node.
const NodeID graft.ID = "adapter.logger"

// levelEnv is read before the configuration exists so that config loading
// itself honors the requested level. The app raises or lowers the level
// again once the configuration is resolved.
const levelEnv = "WASMC_LOG_LEVEL"

func init() {
	graft.Register(graft.Node[ports.Logger]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Logger, error) {
			level := domain.LogLevelInfo
			if v, ok := domain.ParseLogLevel(os.Getenv(levelEnv)); ok {
				level = v
			}
			return NewWithWriter(os.Stderr, level), nil
		},
	})
}
