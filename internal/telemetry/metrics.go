package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/studyloop/lecturecast"

// Metrics holds the counters the synthesis and playback pipeline update.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	framesEnqueued   metric.Int64Counter
	framesPlayed     metric.Int64Counter
	framesRequeued   metric.Int64Counter
	bytesPlayed      metric.Int64Counter
	chunksFailed     metric.Int64Counter
	generatorRetries metric.Int64Counter
	sections         metric.Int64Counter
	queueDepth       metric.Int64Gauge
	synthLatency     metric.Float64Histogram
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var (
		m   Metrics
		err error
	)
	if m.framesEnqueued, err = meter.Int64Counter("lecturecast.frames.enqueued",
		metric.WithDescription("Audio frames pushed onto the playback queue")); err != nil {
		return nil, err
	}
	if m.framesPlayed, err = meter.Int64Counter("lecturecast.frames.played",
		metric.WithDescription("Audio frames written to the output device")); err != nil {
		return nil, err
	}
	if m.framesRequeued, err = meter.Int64Counter("lecturecast.frames.requeued",
		metric.WithDescription("Frames pushed back because playback paused")); err != nil {
		return nil, err
	}
	if m.bytesPlayed, err = meter.Int64Counter("lecturecast.bytes.played",
		metric.WithUnit("By")); err != nil {
		return nil, err
	}
	if m.chunksFailed, err = meter.Int64Counter("lecturecast.chunks.failed",
		metric.WithDescription("Text chunks skipped after a synthesis error")); err != nil {
		return nil, err
	}
	if m.generatorRetries, err = meter.Int64Counter("lecturecast.generator.retries"); err != nil {
		return nil, err
	}
	if m.sections, err = meter.Int64Counter("lecturecast.sections.delivered"); err != nil {
		return nil, err
	}
	if m.queueDepth, err = meter.Int64Gauge("lecturecast.queue.depth",
		metric.WithDescription("Frames waiting for playback")); err != nil {
		return nil, err
	}
	if m.synthLatency, err = meter.Float64Histogram("lecturecast.synth.latency",
		metric.WithUnit("s")); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Metrics) FrameEnqueued(ctx context.Context, depth int) {
	if m == nil {
		return
	}
	m.framesEnqueued.Add(ctx, 1)
	m.queueDepth.Record(ctx, int64(depth))
}

func (m *Metrics) FramePlayed(ctx context.Context, bytes int) {
	if m == nil {
		return
	}
	m.framesPlayed.Add(ctx, 1)
	m.bytesPlayed.Add(ctx, int64(bytes))
}

func (m *Metrics) FrameRequeued(ctx context.Context) {
	if m == nil {
		return
	}
	m.framesRequeued.Add(ctx, 1)
}

func (m *Metrics) ChunkFailed(ctx context.Context, engine string) {
	if m == nil {
		return
	}
	m.chunksFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("engine", engine)))
}

func (m *Metrics) GeneratorRetry(ctx context.Context, section string) {
	if m == nil {
		return
	}
	m.generatorRetries.Add(ctx, 1, metric.WithAttributes(attribute.String("section", section)))
}

func (m *Metrics) SectionDelivered(ctx context.Context, section string, fallback bool) {
	if m == nil {
		return
	}
	m.sections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("section", section),
		attribute.Bool("fallback", fallback),
	))
}

// SynthLatency records how long one chunk took to synthesize, in seconds.
func (m *Metrics) SynthLatency(ctx context.Context, seconds float64) {
	if m == nil {
		return
	}
	m.synthLatency.Record(ctx, seconds)
}
