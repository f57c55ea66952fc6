// Package lecture sequences the lecture sections: it fetches each
// section's narration, speaks it through the synthesis and playback
// pipeline, runs the question and answer sub-flow, and records the
// transcript. A Controller owns one session at a time.
package lecture

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/studyloop/lecturecast/internal/affect"
	"github.com/studyloop/lecturecast/internal/audio"
	"github.com/studyloop/lecturecast/internal/chunk"
	"github.com/studyloop/lecturecast/internal/content"
	"github.com/studyloop/lecturecast/internal/events"
	"github.com/studyloop/lecturecast/internal/notation"
	"github.com/studyloop/lecturecast/internal/queue"
	"github.com/studyloop/lecturecast/internal/synth"
	"github.com/studyloop/lecturecast/internal/telemetry"
)

// Deliverer supplies a section's narration. content.Retrying is the
// usual implementation.
type Deliverer interface {
	Deliver(ctx context.Context, section string) content.Delivery
}

// Deps are the collaborators a Controller drives. Only Engine is needed;
// every other field has a working default.
type Deps struct {
	Engine synth.Engine
	// Device is opened on Start and closed when the session ends. Nil
	// runs muted.
	Device     audio.Device
	Content    Deliverer
	Answerer   content.Answerer
	Completer  content.Completer
	Classifier affect.Classifier
	Publisher  events.Publisher
	// Asker collects learner input for the question sub-flow. Without one
	// the sub-flow is skipped.
	Asker   Asker
	Logger  *log.Logger
	Metrics *telemetry.Metrics
}

// Config holds the controller's tunables.
type Config struct {
	// Format is "auto", "float32" or "int16". The other format is tried
	// when the first fails to open.
	Format        string
	Muted         bool
	TestBeep      bool
	QueueCapacity int
	Peak          float32
	Loop          audio.LoopConfig
	DrainPoll     time.Duration
	Settle        time.Duration
	MinWords      int
	MaxWords      int
	QAEnabled     bool
	// Seed drives prompt variety. Zero picks a random seed.
	Seed uint64
	// Rate is the neutral speaking rate.
	Rate float64
}

// DefaultConfig returns the standard timings and limits.
func DefaultConfig() Config {
	return Config{
		Format:        "auto",
		QueueCapacity: 1000,
		Peak:          synth.DefaultPeak,
		Loop:          audio.DefaultLoopConfig(),
		DrainPoll:     100 * time.Millisecond,
		Settle:        2 * time.Second,
		MinWords:      chunk.DefaultMinWords,
		MaxWords:      chunk.DefaultMaxWords,
		QAEnabled:     true,
		Rate:          synth.NaturalRate,
	}
}

// session holds the resources of one Start.
type session struct {
	id      string
	queue   *queue.AudioQueue
	worker  *synth.Worker
	loop    *audio.PlaybackLoop
	format  audio.Format
	muted   bool
	opened  bool
	cancel  context.CancelFunc
	done    chan struct{}
	release sync.Once
}

// Controller is the lecture state machine. All methods are safe for
// concurrent use.
type Controller struct {
	deps   Deps
	cfg    Config
	logger *log.Logger
	tracer trace.Tracer

	normalizer *notation.Normalizer
	chunker    *chunk.Chunker
	study      *content.Study

	// engineMu serializes synthesis across sessions.
	engineMu   sync.Mutex
	gate       *audio.Gate
	transcript transcriptLog
	qaEnabled  atomic.Bool

	mu        sync.Mutex
	state     State
	index     int
	jumped    bool
	completed bool
	started   time.Time
	ended     time.Time
	rate      float64
	rng       *rand.Rand
	sess      *session
}

// New creates an idle controller.
func New(deps Deps, cfg Config) *Controller {
	if deps.Engine == nil {
		deps.Engine = synth.NewMockEngine()
	}
	if deps.Content == nil {
		deps.Content = content.NewRetrying(nil, content.Fallback{})
	}
	if deps.Answerer == nil {
		deps.Answerer = content.Fallback{}
	}
	if deps.Classifier == nil {
		deps.Classifier = affect.NewHeuristic()
	}
	if deps.Publisher == nil {
		deps.Publisher = events.Nop{}
	}
	if deps.Logger == nil {
		deps.Logger = log.WithPrefix("lecture")
	}
	if cfg.QueueCapacity <= 0 {
		cfg.QueueCapacity = DefaultConfig().QueueCapacity
	}
	if cfg.Rate <= 0 {
		cfg.Rate = synth.NaturalRate
	}
	if cfg.Peak <= 0 {
		cfg.Peak = synth.DefaultPeak
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	c := &Controller{
		deps:       deps,
		cfg:        cfg,
		logger:     deps.Logger,
		tracer:     telemetry.Tracer("lecture"),
		normalizer: notation.New(),
		chunker:    chunk.New(chunk.WithMinWords(cfg.MinWords), chunk.WithMaxWords(cfg.MaxWords)),
		study:      content.NewStudy(deps.Completer),
		gate:       &audio.Gate{},
		rate:       cfg.Rate,
		rng:        rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	c.qaEnabled.Store(cfg.QAEnabled)
	return c
}

// Start begins the lecture at the first section.
func (c *Controller) Start(ctx context.Context) error {
	return c.StartAt(ctx, 0)
}

// StartAt begins the lecture at section index. The previous transcript is
// cleared, the audio device opened and the playback loop started. Sections
// are delivered in a background goroutine until the lecture completes or
// Stop is called; ctx bounds the whole session.
func (c *Controller) StartAt(ctx context.Context, index int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Active() {
		return newControlError(ErrAlreadyRunning, "start", c.state)
	}
	if !canTransition(c.state, Running) {
		return newControlError(ErrInvalidState, "start", c.state).With("hint", "reset the stopped lecture first")
	}
	if index < 0 || index >= len(content.Sections) {
		return newControlError(ErrInvalidSection, "start", c.state).
			With("index", index).
			With("total", len(content.Sections))
	}

	sess := c.openSession()
	runCtx, cancel := context.WithCancel(ctx)
	sess.cancel = cancel

	c.transcript.clear()
	c.gate.SetPaused(false)
	c.state = Running
	c.index = index
	c.jumped = false
	c.completed = false
	c.started = time.Now()
	c.ended = time.Time{}
	c.rate = c.cfg.Rate
	c.sess = sess

	if c.cfg.TestBeep && !sess.muted {
		if err := sess.queue.Push(runCtx, queue.Frame{Data: audio.Beep(sess.format)}); err != nil {
			c.logger.Debug("Test beep not queued", "error", err)
		}
	}
	if err := sess.loop.Start(runCtx); err != nil {
		c.logger.Error("Playback loop failed to start", "error", err)
	}

	c.logger.Info("Lecture started",
		"session", sess.id,
		"section", content.Sections[index],
		"muted", sess.muted,
		"format", sess.format,
		"qa", c.qaEnabled.Load())
	c.publish(runCtx, sess, events.Started, index, map[string]any{
		"muted":  sess.muted,
		"format": sess.format.String(),
	})

	go c.run(runCtx, sess)
	return nil
}

func (c *Controller) formats() []audio.Format {
	if c.cfg.Format == "int16" {
		return []audio.Format{audio.Int16, audio.Float32}
	}
	return []audio.Format{audio.Float32, audio.Int16}
}

// openSession opens the device and builds the per-session pipeline.
// Callers hold c.mu.
func (c *Controller) openSession() *session {
	sess := &session{
		id:     uuid.NewString(),
		queue:  queue.NewAudioQueue(c.cfg.QueueCapacity),
		format: audio.Float32,
		muted:  c.cfg.Muted || c.deps.Device == nil,
		done:   make(chan struct{}),
	}

	var dev audio.Device
	if !sess.muted {
		f, err := audio.OpenWithFallback(c.deps.Device, c.formats()...)
		if err != nil {
			c.logger.Warn("No usable audio format, continuing without audio", "error", err)
			sess.muted = true
		} else {
			sess.format = f
			sess.opened = true
			dev = c.deps.Device
		}
	}

	sess.worker = synth.NewWorker(c.deps.Engine, sess.queue,
		synth.WithLock(&c.engineMu),
		synth.WithFormat(sess.format),
		synth.WithPeak(c.cfg.Peak),
		synth.WithMetrics(c.deps.Metrics))
	sess.loop = audio.NewPlaybackLoop(sess.queue, dev, c.gate, c.cfg.Loop,
		audio.WithMetrics(c.deps.Metrics))
	return sess
}

// releaseSession stops playback and closes the device once per session.
// Frames still queued are dropped.
func (c *Controller) releaseSession(sess *session) {
	sess.release.Do(func() {
		sess.cancel()
		_ = sess.queue.Close()
		sess.loop.Stop()
		if sess.opened {
			if err := c.deps.Device.Close(); err != nil {
				c.logger.Warn("Audio device close failed", "error", err)
			}
		}
		c.logger.Debug("Lecture session released", "session", sess.id, "stats", sess.loop.Stats())
	})
}

// Pause holds section progression and device writes. Only a running
// lecture can be paused.
func (c *Controller) Pause() error {
	c.mu.Lock()
	if c.state != Running {
		defer c.mu.Unlock()
		return newControlError(ErrNotRunning, "pause", c.state)
	}
	c.state = Paused
	idx, sess := c.index, c.sess
	c.gate.SetPaused(true)
	c.mu.Unlock()

	c.logger.Info("Lecture paused", "section", content.Sections[idx])
	c.publish(context.Background(), sess, events.Paused, idx, nil)
	return nil
}

// Resume continues a paused lecture.
func (c *Controller) Resume() error {
	c.mu.Lock()
	if c.state != Paused {
		defer c.mu.Unlock()
		return newControlError(ErrNotPaused, "resume", c.state)
	}
	c.state = Running
	idx, sess := c.index, c.sess
	c.gate.SetPaused(false)
	c.mu.Unlock()

	c.logger.Info("Lecture resumed", "section", content.Sections[idx])
	c.publish(context.Background(), sess, events.Resumed, idx, nil)
	return nil
}

// PauseForNotes holds audio output without pausing the lecture state.
func (c *Controller) PauseForNotes() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.Active() {
		return newControlError(ErrNotRunning, "pause_for_notes", c.state)
	}
	c.gate.SetPaused(true)
	return nil
}

// ResumeFromNotes releases audio held by PauseForNotes. A lecture paused
// with Pause must be resumed with Resume.
func (c *Controller) ResumeFromNotes() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case Running:
		c.gate.SetPaused(false)
		return nil
	case Paused:
		return newControlError(ErrInvalidState, "resume_from_notes", c.state).With("hint", "use resume")
	default:
		return newControlError(ErrNotRunning, "resume_from_notes", c.state)
	}
}

// SkipToSection moves to section index. It is allowed in any state but
// idle. In an active lecture the audio still queued is dropped and the
// new section begins once the current one reaches its next checkpoint;
// synthesis already in progress is not interrupted.
func (c *Controller) SkipToSection(index int) error {
	c.mu.Lock()
	if c.state == Idle {
		defer c.mu.Unlock()
		return newControlError(ErrNotRunning, "skip_to_section", c.state).With("index", index)
	}
	if index < 0 || index >= len(content.Sections) {
		defer c.mu.Unlock()
		return newControlError(ErrInvalidSection, "skip_to_section", c.state).
			With("index", index).
			With("total", len(content.Sections))
	}
	from := c.index
	c.index = index
	active := c.state.Active()
	c.jumped = active
	sess := c.sess
	c.mu.Unlock()

	dropped := 0
	if active && sess != nil {
		dropped = sess.queue.Clear()
	}
	c.logger.Info("Skipped to section", "from", content.Sections[from], "to", content.Sections[index], "dropped_frames", dropped)
	c.publish(context.Background(), sess, events.Skipped, index, map[string]any{"from": from})
	return nil
}

// Stop ends the session from any state. It waits for the section goroutine
// to exit, which takes at most the remainder of the chunk being
// synthesized. Calling Stop again is a no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	prev := c.state
	sess := c.sess
	idx := c.index
	c.state = Stopped
	if prev.Active() {
		c.ended = time.Now()
	}
	c.gate.SetPaused(false)
	c.mu.Unlock()

	if sess != nil {
		sess.cancel()
		_ = sess.queue.Close()
		<-sess.done
		c.releaseSession(sess)
	}

	if prev != Stopped {
		c.logger.Info("Lecture stopped", "from", prev, "section", content.Sections[idx])
		c.publish(context.Background(), sess, events.Stopped, idx, map[string]any{"from": prev.String()})
	}
	return nil
}

// Reset returns a stopped controller to idle. The transcript is kept
// until the next Start or ClearTranscript.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Idle {
		return nil
	}
	if !canTransition(c.state, Idle) {
		return newControlError(ErrInvalidState, "reset", c.state)
	}
	c.state = Idle
	c.index = 0
	c.jumped = false
	c.completed = false
	return nil
}

// Done returns a channel closed when the current session's section
// goroutine exits. Without a session the channel is already closed.
func (c *Controller) Done() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sess == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return c.sess.done
}

// Wait blocks until the session ends or ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	select {
	case <-c.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// EnableQA turns on the question sub-flow for the following sections.
func (c *Controller) EnableQA() { c.qaEnabled.Store(true) }

// DisableQA turns off the question sub-flow.
func (c *Controller) DisableQA() { c.qaEnabled.Store(false) }

// QAEnabled reports whether the question sub-flow will run.
func (c *Controller) QAEnabled() bool { return c.qaEnabled.Load() }

// run delivers sections until the last one completes or ctx ends.
func (c *Controller) run(ctx context.Context, sess *session) {
	defer close(sess.done)

	ctx, span := c.tracer.Start(ctx, "lecture.run", trace.WithAttributes(attribute.String("session", sess.id)))
	defer span.End()

	for {
		if !c.checkpoint(ctx) {
			return
		}
		idx := c.currentIndex()

		c.playSection(ctx, sess, idx)
		if ctx.Err() != nil {
			return
		}
		c.questionTime(ctx, sess, idx)

		if !c.checkpoint(ctx) {
			return
		}
		if !c.advance(idx) {
			c.finish(ctx, sess)
			return
		}
	}
}

// currentIndex returns the section to play next. A skip made before the
// section starts is consumed here.
func (c *Controller) currentIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jumped = false
	return c.index
}

// advance moves past section idx and reports whether a section remains.
// A skip since idx started takes precedence.
func (c *Controller) advance(idx int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.jumped {
		c.jumped = false
		return true
	}
	if idx+1 >= len(content.Sections) {
		return false
	}
	c.index = idx + 1
	return true
}

// checkpoint blocks while the lecture is paused. It returns false once
// the lecture is stopped or ctx ends.
func (c *Controller) checkpoint(ctx context.Context) bool {
	poll := max(c.cfg.Loop.PausePoll, time.Millisecond)
	for {
		if ctx.Err() != nil {
			return false
		}
		c.mu.Lock()
		st := c.state
		c.mu.Unlock()

		switch st {
		case Running:
			return true
		case Paused:
			if !sleep(ctx, poll) {
				return false
			}
		default:
			return false
		}
	}
}

func (c *Controller) finish(ctx context.Context, sess *session) {
	c.mu.Lock()
	if c.sess != sess || c.state != Running {
		c.mu.Unlock()
		return
	}
	c.state = Stopped
	c.completed = true
	c.ended = time.Now()
	idx := c.index
	elapsed := c.ended.Sub(c.started)
	c.mu.Unlock()

	c.releaseSession(sess)
	c.logger.Info("Lecture completed", "sections", len(content.Sections), "elapsed", elapsed.Round(time.Millisecond))
	c.publish(context.WithoutCancel(ctx), sess, events.Completed, idx, map[string]any{
		"entries": c.transcript.len(),
	})
}

// playSection fetches, records and speaks one section, then waits for
// its audio to drain.
func (c *Controller) playSection(ctx context.Context, sess *session, idx int) {
	name := content.Sections[idx]
	ctx, span := c.tracer.Start(ctx, "lecture.section", trace.WithAttributes(
		attribute.String("section", name),
		attribute.Int("index", idx),
	))
	defer span.End()

	c.logger.Info("Section started", "section", name, "index", idx+1, "of", len(content.Sections))
	c.publish(ctx, sess, events.SectionStarted, idx, nil)

	d := c.deps.Content.Deliver(ctx, name)
	if strings.TrimSpace(d.Text) == "" {
		if ctx.Err() != nil {
			c.logger.Debug("Section abandoned", "section", name, "error", d.Err)
			return
		}
		d.Text, d.Fallback = content.FallbackText(name), true
	}
	span.SetAttributes(attribute.Bool("fallback", d.Fallback), attribute.Int("attempts", d.Attempts))
	c.deps.Metrics.SectionDelivered(ctx, name, d.Fallback)

	c.transcript.append(Entry{
		Section:      name,
		Text:         d.Text,
		Timestamp:    time.Now(),
		SectionIndex: idx,
	})

	res, err := c.say(ctx, sess, d.Text)
	if err != nil {
		c.logger.Debug("Section speech interrupted", "section", name, "error", err)
		return
	}
	if !c.drain(ctx, sess) {
		return
	}

	c.logger.Debug("Section completed", "section", name, "chunks", res.Chunks, "failed", res.Failed, "frames", res.Frames)
	c.publish(ctx, sess, events.SectionCompleted, idx, map[string]any{
		"fallback": d.Fallback,
		"attempts": d.Attempts,
		"chunks":   res.Chunks,
		"failed":   res.Failed,
		"frames":   res.Frames,
	})
}

// say strips, normalizes and chunks text, then synthesizes it on a worker
// goroutine and joins it.
func (c *Controller) say(ctx context.Context, sess *session, text string) (synth.Result, error) {
	chunks := c.chunker.Chunk(c.normalizer.Normalize(chunk.StripMarkdown(text)))
	if len(chunks) == 0 {
		return synth.Result{}, nil
	}
	return sess.worker.Go(ctx, chunks, c.voice()).Wait()
}

// drain waits for the queue to empty, then for the settle delay. The
// delay approximates the device finishing its buffered audio.
func (c *Controller) drain(ctx context.Context, sess *session) bool {
	poll := max(c.cfg.DrainPoll, time.Millisecond)
	for sess.queue.Len() > 0 {
		if !sleep(ctx, poll) {
			return false
		}
	}
	if c.cfg.Settle <= 0 {
		return ctx.Err() == nil
	}
	return sleep(ctx, c.cfg.Settle)
}

func (c *Controller) voice() synth.VoiceParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := synth.DefaultVoice()
	v.Rate = c.rate
	return v
}

func (c *Controller) setRate(r float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rate = r
}

func (c *Controller) publish(ctx context.Context, sess *session, t events.Type, idx int, data map[string]any) {
	e := events.Event{
		Type:         t,
		Section:      content.Sections[idx],
		SectionIndex: idx,
		Time:         time.Now(),
		Data:         data,
	}
	if sess != nil {
		e.Session = sess.id
	}
	if err := c.deps.Publisher.Publish(ctx, e); err != nil {
		c.logger.Debug("Event not published", "type", t, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
