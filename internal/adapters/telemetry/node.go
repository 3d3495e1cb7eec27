package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.trai.ch/wasmc/internal/adapters/config"
	"go.trai.ch/wasmc/internal/adapters/telemetry/progrock"
	"go.trai.ch/wasmc/internal/build"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/wasmc/internal/core/ports"
)

const (
	// ProvidersNodeID is the unique identifier for the OpenTelemetry providers Graft node.
	ProvidersNodeID graft.ID = "adapter.telemetry.providers"
	// TracerNodeID is the unique identifier for the Telemetry adapter Graft node.
	TracerNodeID graft.ID = "adapter.telemetry"
	// ProgrockNodeID is the unique identifier for the progrock recorder Graft node.
	ProgrockNodeID graft.ID = "adapter.telemetry.progrock"

	instrumentationName = "go.trai.ch/wasmc"
)

func init() {
	graft.Register(graft.Node[*Providers]{
		ID:        ProvidersNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID},
		Run: func(ctx context.Context) (*Providers, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return Setup(context.WithoutCancel(ctx), cfg.Telemetry.Exporter, build.Version, os.Stderr)
		},
	})

	graft.Register(graft.Node[*progrock.Recorder]{
		ID:        ProgrockNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*progrock.Recorder, error) {
			return progrock.New(), nil
		},
	})

	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ConfigNodeID, ProvidersNodeID, ProgrockNodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			cfg, err := graft.Dep[*domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			providers, err := graft.Dep[*Providers](ctx)
			if err != nil {
				return nil, err
			}
			recorder, err := graft.Dep[*progrock.Recorder](ctx)
			if err != nil {
				return nil, err
			}
			return NewTracer(cfg.Telemetry.Exporter, providers, recorder), nil
		},
	})
}

// NewTracer selects the tracer implementation for exporter.
func NewTracer(exporter domain.TelemetryExporter, providers *Providers, recorder *progrock.Recorder) ports.Tracer {
	switch exporter {
	case domain.TelemetryProgrock:
		return recorder
	case domain.TelemetryStdout, domain.TelemetryOTLP:
		return NewOTelTracer(providers.TracerProvider, instrumentationName)
	default:
		return NewNoOpTracer()
	}
}
