package otel

import (
	"context"
	"errors"
	"log/slog"
	"os"

	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.38.0"
)

const instrumentationName = "github.com/scansoal/scansoal"

var (
	EnableDebug     = os.Getenv("DEBUG") != ""
	EnableTelemetry = os.Getenv("TELEMETRY") != ""
)

// Observable marks providers already wrapped with instrumentation.
type Observable interface {
	otelSetup()
}

// Setup installs the default slog logger and, when telemetry is enabled, the
// OTLP log, metric and trace pipelines. The returned function flushes and
// stops them.
func Setup(ctx context.Context, serviceName, serviceVersion string) (func(context.Context) error, error) {
	level := slog.LevelInfo

	if EnableDebug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	noop := func(context.Context) error { return nil }

	if !EnableTelemetry {
		return noop, nil
	}

	resource, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)

	if err != nil {
		return noop, err
	}

	var shutdowns []shutdownFunc
	var errs []error

	for _, setup := range []func(context.Context, *sdkresource.Resource) (shutdownFunc, error){
		setupMeter,
		setupTracer,
		setupLogger,
	} {
		shutdown, err := setup(ctx, resource)

		if err != nil {
			errs = append(errs, err)
			continue
		}

		shutdowns = append(shutdowns, shutdown)
	}

	shutdown := func(ctx context.Context) error {
		var errs []error

		for _, s := range shutdowns {
			errs = append(errs, s(ctx))
		}

		return errors.Join(errs...)
	}

	return shutdown, errors.Join(errs...)
}
