package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/metric/noop"
)

func TestSetupDisabled(t *testing.T) {
	p, err := Setup(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	if p.Handler() != nil {
		t.Error("disabled telemetry should not expose a handler")
	}
	if p.Metrics() == nil {
		t.Error("disabled telemetry should still provide metrics")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.FrameEnqueued(ctx, 1)
	m.FramePlayed(ctx, 10)
	m.FrameRequeued(ctx)
	m.ChunkFailed(ctx, "mock")
	m.GeneratorRetry(ctx, "introduction")
	m.SectionDelivered(ctx, "introduction", true)
	m.SynthLatency(ctx, 0.1)
}

func TestNewMetricsWithNoopMeter(t *testing.T) {
	m, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics failed: %v", err)
	}
	m.FramePlayed(context.Background(), 4096)
}

func TestUnknownExporter(t *testing.T) {
	_, err := Setup(context.Background(), Options{Enabled: true, Exporter: "carrier-pigeon"})
	if err == nil {
		t.Error("expected error for unknown exporter")
	}
}
