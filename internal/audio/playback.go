package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/studyloop/lecturecast/internal/queue"
	"github.com/studyloop/lecturecast/internal/telemetry"
)

// ErrLoopRunning is returned by Start on a loop that is already running.
var ErrLoopRunning = errors.New("playback loop already running")

// RequeuePolicy selects where a frame popped just before a pause goes
// back into the queue.
type RequeuePolicy int

const (
	// RequeueTail appends the frame behind everything already queued.
	// Frames queued after it play first on resume.
	RequeueTail RequeuePolicy = iota
	// RequeueFront puts the frame back at the head so order is kept.
	RequeueFront
)

func (p RequeuePolicy) String() string {
	if p == RequeueFront {
		return "front"
	}
	return "tail"
}

// ParseRequeuePolicy parses "tail" or "front".
func ParseRequeuePolicy(s string) (RequeuePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tail":
		return RequeueTail, nil
	case "front":
		return RequeueFront, nil
	default:
		return RequeueTail, fmt.Errorf("unknown requeue policy %q", s)
	}
}

// LoopConfig tunes the playback loop.
type LoopConfig struct {
	PausePoll  time.Duration
	PopTimeout time.Duration
	Requeue    RequeuePolicy
}

// DefaultLoopConfig returns the standard polling intervals.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		PausePoll:  100 * time.Millisecond,
		PopTimeout: 10 * time.Millisecond,
		Requeue:    RequeueTail,
	}
}

// LoopStats counts what the loop did with the frames it popped.
type LoopStats struct {
	FramesPlayed    int64
	BytesPlayed     int64
	PaddingPlayed   int64
	FramesRequeued  int64
	FramesDiscarded int64
	WriteErrors     int64
}

// PlaybackLoop drains a frame queue into a device for the lifetime of a
// session. A nil or inactive device puts the loop in muted mode: frames
// are consumed and discarded at the same pace rules.
type PlaybackLoop struct {
	queue  *queue.AudioQueue
	device Device
	gate   *Gate
	cfg    LoopConfig

	logger  *log.Logger
	metrics *telemetry.Metrics

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running atomic.Bool

	framesPlayed    atomic.Int64
	bytesPlayed     atomic.Int64
	paddingPlayed   atomic.Int64
	framesRequeued  atomic.Int64
	framesDiscarded atomic.Int64
	writeErrors     atomic.Int64
}

// LoopOption configures a PlaybackLoop.
type LoopOption func(*PlaybackLoop)

func WithLogger(l *log.Logger) LoopOption {
	return func(p *PlaybackLoop) { p.logger = l }
}

func WithMetrics(m *telemetry.Metrics) LoopOption {
	return func(p *PlaybackLoop) { p.metrics = m }
}

// NewPlaybackLoop creates a stopped loop. Zero durations in cfg take the
// defaults.
func NewPlaybackLoop(q *queue.AudioQueue, dev Device, gate *Gate, cfg LoopConfig, opts ...LoopOption) *PlaybackLoop {
	def := DefaultLoopConfig()
	if cfg.PausePoll <= 0 {
		cfg.PausePoll = def.PausePoll
	}
	if cfg.PopTimeout <= 0 {
		cfg.PopTimeout = def.PopTimeout
	}
	if gate == nil {
		gate = &Gate{}
	}
	l := &PlaybackLoop{
		queue:  q,
		device: dev,
		gate:   gate,
		cfg:    cfg,
		logger: log.WithPrefix("playback"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start launches the loop goroutine.
func (l *PlaybackLoop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running.Load() {
		return ErrLoopRunning
	}

	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	l.running.Store(true)

	go l.run(ctx, l.done)
	l.logger.Debug("Playback loop started", "muted", l.Muted(), "requeue", l.cfg.Requeue)
	return nil
}

// Stop halts the loop and waits for it to exit. It is safe to call more
// than once. A write blocked inside the device is only released by
// closing the device.
func (l *PlaybackLoop) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel = nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	l.running.Store(false)
	cancel()
	<-done
	l.logger.Debug("Playback loop stopped", "frames", l.framesPlayed.Load())
}

// Running reports whether the loop goroutine is active.
func (l *PlaybackLoop) Running() bool {
	return l.running.Load()
}

// Muted reports whether frames are being discarded instead of played.
func (l *PlaybackLoop) Muted() bool {
	return l.device == nil || !l.device.Active()
}

// Gate returns the pause gate the loop honors.
func (l *PlaybackLoop) Gate() *Gate {
	return l.gate
}

// Stats returns a snapshot of the loop counters.
func (l *PlaybackLoop) Stats() LoopStats {
	return LoopStats{
		FramesPlayed:    l.framesPlayed.Load(),
		BytesPlayed:     l.bytesPlayed.Load(),
		PaddingPlayed:   l.paddingPlayed.Load(),
		FramesRequeued:  l.framesRequeued.Load(),
		FramesDiscarded: l.framesDiscarded.Load(),
		WriteErrors:     l.writeErrors.Load(),
	}
}

func (l *PlaybackLoop) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer l.running.Store(false)

	for ctx.Err() == nil {
		if l.gate.Blocked() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.cfg.PausePoll):
			}
			continue
		}

		f, err := l.queue.Pop(l.cfg.PopTimeout)
		if errors.Is(err, queue.ErrQueueEmpty) {
			continue
		}
		if err != nil {
			l.logger.Debug("Playback loop exiting", "reason", err)
			return
		}

		// The gate may have closed between the check above and the pop.
		if !l.gate.run(func() { l.deliver(ctx, f) }) {
			l.pushBack(ctx, f)
		}
	}
}

func (l *PlaybackLoop) deliver(ctx context.Context, f queue.Frame) {
	if l.Muted() {
		l.framesDiscarded.Add(1)
		return
	}

	if _, err := l.device.Write(f.Data); err != nil {
		l.writeErrors.Add(1)
		l.framesDiscarded.Add(1)
		l.logger.Warn("Device write failed", "error", err, "bytes", f.Len())
		return
	}

	l.framesPlayed.Add(1)
	l.bytesPlayed.Add(int64(f.Len()))
	l.paddingPlayed.Add(int64(f.Padding))
	l.metrics.FramePlayed(ctx, f.Len())
}

func (l *PlaybackLoop) pushBack(ctx context.Context, f queue.Frame) {
	if err := l.queue.Requeue(f, l.cfg.Requeue == RequeueFront); err != nil {
		l.framesDiscarded.Add(1)
		l.logger.Debug("Dropped frame on pause", "error", err)
		return
	}
	l.framesRequeued.Add(1)
	l.metrics.FrameRequeued(ctx)
}
