// Package telemetry wires OpenTelemetry tracing and metrics.
package telemetry

import (
	"context"
	"errors"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.trai.ch/wasmc/internal/core/domain"
	"go.trai.ch/zerr"
)

const serviceName = "wasmc"

// Providers holds the tracer and meter providers of a session.
type Providers struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider

	shutdown []func(context.Context) error
}

// Setup builds the providers for exporter. Spans and metrics are discarded
// for domain.TelemetryNone and domain.TelemetryProgrock; the stdout exporter
// writes to w. SDK providers are also registered globally.
func Setup(ctx context.Context, exporter domain.TelemetryExporter, version string, w io.Writer) (*Providers, error) {
	var (
		spanExporter   sdktrace.SpanExporter
		metricExporter sdkmetric.Exporter
		err            error
	)

	switch exporter {
	case domain.TelemetryStdout:
		spanExporter, err = stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create stdout trace exporter")
		}
		metricExporter, err = stdoutmetric.New(stdoutmetric.WithWriter(w))
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create stdout metric exporter")
		}
	case domain.TelemetryOTLP:
		if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
			return nil, zerr.Wrap(domain.ErrConfigInvalid, "OTLP endpoint not configured: set OTEL_EXPORTER_OTLP_ENDPOINT")
		}
		spanExporter, err = otlptracegrpc.New(ctx)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create OTLP trace exporter")
		}
		metricExporter, err = otlpmetricgrpc.New(ctx)
		if err != nil {
			return nil, zerr.Wrap(err, "failed to create OTLP metric exporter")
		}
	default:
		return &Providers{
			TracerProvider: tracenoop.NewTracerProvider(),
			MeterProvider:  metricnoop.NewMeterProvider(),
		}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create telemetry resource")
	}

	return NewSDKProviders(res, spanExporter, sdkmetric.NewPeriodicReader(metricExporter)), nil
}

// NewSDKProviders creates SDK providers exporting to spanExporter and reader.
func NewSDKProviders(res *resource.Resource, spanExporter sdktrace.SpanExporter, reader sdkmetric.Reader) *Providers {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(spanExporter),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	return &Providers{
		TracerProvider: tp,
		MeterProvider:  mp,
		shutdown:       []func(context.Context) error{tp.Shutdown, mp.Shutdown},
	}
}

// Shutdown flushes and stops the SDK providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs error
	for _, fn := range p.shutdown {
		errs = errors.Join(errs, fn(ctx))
	}
	p.shutdown = nil
	return errs
}
