package synth

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/studyloop/lecturecast/internal/audio"
	"github.com/studyloop/lecturecast/internal/chunk"
	"github.com/studyloop/lecturecast/internal/queue"
	"github.com/studyloop/lecturecast/internal/telemetry"
)

// DefaultPeak is the amplitude each chunk is normalized to.
const DefaultPeak = 0.8

// Result summarizes one Speak call.
type Result struct {
	Chunks  int
	Spoken  int
	Skipped int // empty after cleanup
	Failed  int // engine errors
	Frames  int
	Bytes   int64
	Padding int64
}

// Payload returns the synthesized bytes excluding silence padding.
func (r Result) Payload() int64 { return r.Bytes - r.Padding }

// Worker synthesizes chunks one at a time and pushes their frames onto a
// queue. Every Speak call holds the worker lock for its whole run, so a
// shared engine is never entered concurrently.
type Worker struct {
	engine Engine
	queue  *queue.AudioQueue
	mu     *sync.Mutex

	fmtMu  sync.RWMutex
	format audio.Format

	peak    float32
	logger  *log.Logger
	metrics *telemetry.Metrics
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithLock shares a lock between workers that use the same engine.
func WithLock(mu *sync.Mutex) WorkerOption {
	return func(w *Worker) { w.mu = mu }
}

func WithFormat(f audio.Format) WorkerOption {
	return func(w *Worker) { w.format = f }
}

func WithPeak(p float32) WorkerOption {
	return func(w *Worker) { w.peak = p }
}

func WithLogger(l *log.Logger) WorkerOption {
	return func(w *Worker) { w.logger = l }
}

func WithMetrics(m *telemetry.Metrics) WorkerOption {
	return func(w *Worker) { w.metrics = m }
}

// NewWorker creates a worker feeding q. Frames are encoded as Float32
// unless WithFormat or SetFormat says otherwise.
func NewWorker(engine Engine, q *queue.AudioQueue, opts ...WorkerOption) *Worker {
	w := &Worker{
		engine: engine,
		queue:  q,
		format: audio.Float32,
		peak:   DefaultPeak,
		logger: log.WithPrefix("synth"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.mu == nil {
		w.mu = &sync.Mutex{}
	}
	return w
}

// SetFormat changes the frame encoding, normally to match the format the
// device opened with.
func (w *Worker) SetFormat(f audio.Format) {
	w.fmtMu.Lock()
	defer w.fmtMu.Unlock()
	w.format = f
}

func (w *Worker) Format() audio.Format {
	w.fmtMu.RLock()
	defer w.fmtMu.RUnlock()
	return w.format
}

// Multiplier returns the frame size multiplier for chunk i of n: small
// frames for the first quarter so playback starts quickly, double for the
// middle half, quadruple for the rest.
func Multiplier(i, n int) int {
	pos := float64(i) / float64(max(n-1, 1))
	switch {
	case pos < 0.25:
		return 1
	case pos < 0.75:
		return 2
	default:
		return 4
	}
}

// Frames slices data into frames of size bytes, zero-padding the last.
func Frames(data []byte, size int) []queue.Frame {
	if size <= 0 || len(data) == 0 {
		return nil
	}
	frames := make([]queue.Frame, 0, (len(data)+size-1)/size)
	for off := 0; off < len(data); off += size {
		end := off + size
		if end <= len(data) {
			frames = append(frames, queue.Frame{Data: data[off:end:end]})
			continue
		}
		buf := make([]byte, size)
		n := copy(buf, data[off:])
		frames = append(frames, queue.Frame{Data: buf, Padding: size - n})
	}
	return frames
}

// Speak synthesizes chunks in order and enqueues their frames. A chunk
// the engine fails on is logged and skipped. Speak returns early only
// when ctx ends or the queue closes; pushes block while the queue is
// full.
func (w *Worker) Speak(ctx context.Context, chunks []string, v VoiceParams) (Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx, span := telemetry.Tracer("synth").Start(ctx, "synth.speak")
	defer span.End()
	span.SetAttributes(
		attribute.String("engine", w.engine.Name()),
		attribute.Int("chunks", len(chunks)),
		attribute.Float64("rate", v.Rate),
	)

	format := w.Format()
	res := Result{Chunks: len(chunks)}

	for i, text := range chunks {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, "cancelled")
			return res, err
		}

		clean := chunk.CleanForSpeech(text)
		if clean == "" {
			res.Skipped++
			continue
		}

		start := time.Now()
		samples, err := w.engine.Synthesize(ctx, clean, v)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			res.Failed++
			w.metrics.ChunkFailed(ctx, w.engine.Name())
			w.logger.Warn("Synthesis failed, skipping chunk", "chunk", i+1, "of", len(chunks), "error", err)
			continue
		}
		w.metrics.SynthLatency(ctx, time.Since(start).Seconds())

		audio.NormalizePeak(samples, w.peak)
		mult := Multiplier(i, len(chunks))
		frames := Frames(audio.Encode(samples, format), format.FrameBytes(mult))

		for _, f := range frames {
			if err := w.queue.Push(ctx, f); err != nil {
				span.SetStatus(codes.Error, err.Error())
				return res, err
			}
			res.Frames++
			res.Bytes += int64(f.Len())
			res.Padding += int64(f.Padding)
			w.metrics.FrameEnqueued(ctx, w.queue.Len())
		}
		res.Spoken++

		w.logger.Debug("Chunk synthesized and queued",
			"chunk", i+1, "of", len(chunks), "frames", len(frames), "size_mult", mult)
	}

	return res, nil
}

// Job is a Speak call running in its own goroutine.
type Job struct {
	done chan struct{}
	res  Result
	err  error
}

// Go starts Speak in a new goroutine. The caller joins it with Wait.
func (w *Worker) Go(ctx context.Context, chunks []string, v VoiceParams) *Job {
	j := &Job{done: make(chan struct{})}
	go func() {
		defer close(j.done)
		j.res, j.err = w.Speak(ctx, chunks, v)
	}()
	return j
}

// Wait blocks until the job finishes.
func (j *Job) Wait() (Result, error) {
	<-j.done
	return j.res, j.err
}

// Done is closed when the job finishes.
func (j *Job) Done() <-chan struct{} {
	return j.done
}
