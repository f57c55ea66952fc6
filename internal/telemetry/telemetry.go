// Package telemetry sets up OpenTelemetry tracing and metrics for a
// lecture session and exposes the instruments the pipeline records into.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.30.0"
	"go.opentelemetry.io/otel/trace"
)

// ServiceName identifies this process in exported telemetry.
const ServiceName = "lecturecast"

// Options selects the exporters.
type Options struct {
	Enabled bool
	// Exporter is "stdout" or "otlp". Empty picks otlp when an endpoint is
	// set and stdout otherwise.
	Exporter     string
	OTLPEndpoint string
	OTLPInsecure bool
	Environment  string
	Version      string
}

// Provider owns the installed tracer and meter providers.
type Provider struct {
	shutdown func(context.Context) error
	handler  http.Handler
	metrics  *Metrics
}

// Setup installs global tracer and meter providers. With telemetry
// disabled it returns a Provider whose metrics are no-ops and whose
// handler is nil.
func Setup(ctx context.Context, opts Options) (*Provider, error) {
	if !opts.Enabled {
		m, err := NewMetrics(otel.Meter(instrumentationName))
		if err != nil {
			return nil, err
		}
		return &Provider{shutdown: func(context.Context) error { return nil }, metrics: m}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(opts.Version),
			attribute.String("deployment.environment", opts.Environment),
		),
	)
	if err != nil {
		return nil, err
	}

	tp, err := initTracer(ctx, opts, res)
	if err != nil {
		return nil, err
	}
	otel.SetTracerProvider(tp)

	mp, handler := initMetrics(res)
	otel.SetMeterProvider(mp)

	m, err := NewMetrics(mp.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	shutdown := func(ctx context.Context) error {
		var errs []error
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	}

	return &Provider{shutdown: shutdown, handler: handler, metrics: m}, nil
}

func initTracer(ctx context.Context, opts Options, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	endpoint := strings.TrimSpace(opts.OTLPEndpoint)
	exporter := opts.Exporter
	if exporter == "" {
		exporter = "stdout"
		if endpoint != "" {
			exporter = "otlp"
		}
	}

	switch exporter {
	case "otlp":
		grpcOpts := []otlptracegrpc.Option{}
		if endpoint != "" {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithEndpoint(endpoint))
		}
		if opts.OTLPInsecure {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		}
		exp, err := otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			return nil, err
		}
		log.Info("Telemetry initialized", "exporter", "otlp", "endpoint", endpoint)
		return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp), sdktrace.WithResource(res)), nil
	case "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, err
		}
		log.Info("Telemetry initialized", "exporter", "stdout")
		return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp), sdktrace.WithResource(res)), nil
	default:
		return nil, errors.New("unknown trace exporter: " + exporter)
	}
}

func initMetrics(res *resource.Resource) (*sdkmetric.MeterProvider, http.Handler) {
	promExporter, err := prometheus.New()
	if err != nil {
		log.Warn("Failed to initialize prometheus exporter", "error", err)
		return sdkmetric.NewMeterProvider(sdkmetric.WithResource(res)), nil
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(promExporter),
		sdkmetric.WithResource(res),
	)
	return mp, promhttp.Handler()
}

// Metrics returns the pipeline instruments.
func (p *Provider) Metrics() *Metrics { return p.metrics }

// Handler returns the Prometheus scrape handler, or nil when metrics
// export is unavailable.
func (p *Provider) Handler() http.Handler { return p.handler }

// Shutdown flushes and stops the exporters.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p == nil || p.shutdown == nil {
		return nil
	}
	return p.shutdown(ctx)
}

// Tracer returns the tracer for a pipeline component.
func Tracer(component string) trace.Tracer {
	return otel.Tracer(instrumentationName + "/" + component)
}
