// Package tracing installs the OpenTelemetry tracer provider used by the
// upstream fetchers.
package tracing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"rotunda/internal/platform/config"
)

// Shutdown flushes and stops the provider.
type Shutdown func(context.Context) error

func noopShutdown(context.Context) error { return nil }

type options struct {
	stdout  io.Writer
	version string
}

// Option configures the provider.
type Option func(*options)

// WithStdoutWriter redirects the stdout exporter.
func WithStdoutWriter(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithVersion sets service.version on every span.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// Init builds a provider from cfg and installs it globally along with the
// W3C trace-context propagator. When tracing is disabled the global no-op
// provider stays in place.
func Init(ctx context.Context, cfg config.TracingConfig, logger *slog.Logger, opts ...Option) (Shutdown, error) {
	if !cfg.Enabled {
		return noopShutdown, nil
	}
	tp, err := NewProvider(ctx, cfg, opts...)
	if err != nil {
		return noopShutdown, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	exporter := "stdout"
	if cfg.Endpoint != "" {
		exporter = "otlp"
	}
	logger.Info("tracing initialized",
		"service", cfg.ServiceName,
		"exporter", exporter,
		"sample_ratio", cfg.SampleRatio,
	)
	return tp.Shutdown, nil
}

// NewProvider builds an SDK tracer provider without installing it.
func NewProvider(ctx context.Context, cfg config.TracingConfig, opts ...Option) (*sdktrace.TracerProvider, error) {
	o := options{stdout: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	exporter, err := newExporter(ctx, cfg, o.stdout)
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}

	attrs := []attribute.KeyValue{attribute.String("service.name", cfg.ServiceName)}
	if o.version != "" {
		attrs = append(attrs, attribute.String("service.version", o.version))
	}
	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
	if err != nil {
		return nil, fmt.Errorf("trace resource: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithResource(res),
	), nil
}

func newExporter(ctx context.Context, cfg config.TracingConfig, stdout io.Writer) (sdktrace.SpanExporter, error) {
	if cfg.Endpoint != "" {
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.Endpoint)}
		if strings.Contains(cfg.Endpoint, "://") {
			opts = []otlptracehttp.Option{otlptracehttp.WithEndpointURL(cfg.Endpoint)}
		}
		if cfg.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	}
	return stdouttrace.New(stdouttrace.WithWriter(stdout))
}
