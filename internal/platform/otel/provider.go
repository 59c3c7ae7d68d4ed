// Package otel wires optional OpenTelemetry tracing for service binaries.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	endpointVar = "FOCUSBUDDY_OTEL_ENDPOINT"
	enabledVar  = "FOCUSBUDDY_OTEL_ENABLED"
)

func noopShutdown(context.Context) error { return nil }

// Setup registers a global tracer provider exporting OTLP traces over HTTP.
//
// Tracing is opt-in: when FOCUSBUDDY_OTEL_ENDPOINT is unset or
// FOCUSBUDDY_OTEL_ENABLED is "false", no provider is registered and the
// returned shutdown function is a no-op.
//
// Callers should defer the returned shutdown function so pending spans are
// flushed on exit.
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	endpoint, ok := tracingEndpoint()
	if !ok {
		return noopShutdown, nil
	}

	tp, err := newTracerProvider(ctx, serviceName, endpoint)
	if err != nil {
		return noopShutdown, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

func tracingEndpoint() (string, bool) {
	if strings.EqualFold(os.Getenv(enabledVar), "false") {
		return "", false
	}
	endpoint := os.Getenv(endpointVar)
	return endpoint, endpoint != ""
}

func newTracerProvider(ctx context.Context, serviceName, endpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	), nil
}
