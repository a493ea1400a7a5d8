package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer used for iflowscan spans.
const TracerName = "iflowscan"

// ShutdownFn flushes and stops a tracer provider.
type ShutdownFn func(ctx context.Context) error

// SetUp installs a global tracer provider exporting to a jaeger collector.
// An empty collector URL leaves the global no-op provider in place.
func SetUp(ctx context.Context, jaegerURL string, resourceName string) (ShutdownFn, error) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	if jaegerURL == "" {
		return func(context.Context) error { return nil }, nil
	}
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(resourceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(jaegerURL)))
	if err != nil {
		return nil, fmt.Errorf("creating jaeger exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(exp),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// Tracer returns the iflowscan tracer from the given provider, or from the global provider when tp is nil.
func Tracer(tp trace.TracerProvider) trace.Tracer { //nolint:ireturn
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return tp.Tracer(TracerName)
}
