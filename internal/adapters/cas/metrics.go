package cas

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	tierMemory  = "memory"
	tierDurable = "durable"
)

type metrics struct {
	hits   metric.Int64Counter
	misses metric.Int64Counter
	loads  metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metrics, error) {
	hits, err := meter.Int64Counter(
		"wasmc.cache.hits",
		metric.WithDescription("Module cache lookups served by a tier"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter(
		"wasmc.cache.misses",
		metric.WithDescription("Module cache lookups absent from both tiers"),
		metric.WithUnit("{lookup}"),
	)
	if err != nil {
		return nil, err
	}

	loads, err := meter.Int64Counter(
		"wasmc.cache.loads",
		metric.WithDescription("Loader invocations after a cache miss"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	return &metrics{hits: hits, misses: misses, loads: loads}, nil
}

func (m *metrics) hit(ctx context.Context, tier string) {
	m.hits.Add(ctx, 1, metric.WithAttributes(attribute.String("cache.tier", tier)))
}

func (m *metrics) miss(ctx context.Context) {
	m.misses.Add(ctx, 1)
}

func (m *metrics) load(ctx context.Context) {
	m.loads.Add(ctx, 1)
}
