package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/studyloop/lecturecast/internal/audio"
	"github.com/studyloop/lecturecast/internal/chunk"
	"github.com/studyloop/lecturecast/internal/notation"
	"github.com/studyloop/lecturecast/internal/queue"
	"github.com/studyloop/lecturecast/internal/synth"
)

var (
	sayOut    string
	sayEngine string
	sayRate   float64

	sayCmd = &cobra.Command{
		Use:   "say [text...]",
		Short: "Speak text through the lecture pipeline",
		Long: paragraph(fmt.Sprintf("\n%s text the way the lecture does: markdown is stripped, notation is spelled out, and the result is chunked, synthesized and played. "+
			"Reads stdin when no text is given.", keyword("Speak"))),
		Example: paragraph("lecturecast say 'Solve 2x + 3 = 7'\necho '$\\frac{a}{b}$' | lecturecast say --out fraction.pcm"),
		RunE:    runSay,
	}
)

func runSay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logToStderr()

	text, err := inputText(args)
	if err != nil {
		return err
	}

	st, err := buildStack(ctx, cfg, secrets, stackOptions{speech: true, engine: sayEngine})
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	var dev audio.Device = audio.NewOtoDevice()
	if sayOut != "" {
		dev = newFileDevice(sayOut)
	}
	formats := []audio.Format{audio.Float32, audio.Int16}
	if cfg.Audio.Format == "int16" {
		formats = []audio.Format{audio.Int16, audio.Float32}
	}
	format, err := audio.OpenWithFallback(dev, formats...)
	if err != nil {
		return fmt.Errorf("unable to open audio output: %w", err)
	}
	defer dev.Close() //nolint:errcheck

	q := queue.NewAudioQueue(cfg.Audio.QueueCapacity)
	loop := audio.NewPlaybackLoop(q, dev, &audio.Gate{}, audio.LoopConfig{
		PausePoll:  cfg.Audio.PausePoll,
		PopTimeout: cfg.Audio.PopTimeout,
	}, audio.WithMetrics(st.telemetry.Metrics()))
	if err := loop.Start(ctx); err != nil {
		return err //nolint:wrapcheck
	}
	defer loop.Stop()

	chunks := chunk.New(
		chunk.WithMinWords(cfg.Lecture.MinWords),
		chunk.WithMaxWords(cfg.Lecture.MaxWords),
	).Chunk(notation.Normalize(chunk.StripMarkdown(text)))

	rate := cfg.Voice.Rate
	if sayRate > 0 {
		rate = sayRate
	}
	w := synth.NewWorker(st.engine, q,
		synth.WithFormat(format),
		synth.WithPeak(float32(cfg.Audio.Peak)),
		synth.WithMetrics(st.telemetry.Metrics()),
	)
	res, err := w.Speak(ctx, chunks, synth.VoiceParams{Rate: rate})
	_ = q.Close()
	if err != nil && !errors.Is(err, queue.ErrQueueClosed) {
		return fmt.Errorf("unable to synthesize: %w", err)
	}

	// The loop exits once the closed queue is drained.
	for loop.Running() {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(cfg.Audio.DrainPoll):
		}
	}

	log.Info("Spoken",
		"chunks", res.Spoken,
		"failed", res.Failed,
		"audio", humanize.Bytes(uint64(res.Payload())), //nolint:gosec
		"format", format,
	)
	if sayOut != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), subtle(fmt.Sprintf("Wrote %s of %s PCM to %s", humanize.Bytes(uint64(res.Bytes)), format, sayOut))) //nolint:gosec
	}
	return nil
}

// inputText joins args, or reads stdin when there are none.
func inputText(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if yes, err := stdinIsPipe(); err != nil {
		return "", err
	} else if !yes {
		return "", errors.New("no text given: pass it as arguments or pipe it to stdin")
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("unable to read stdin: %w", err)
	}
	return string(b), nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to open file: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// fileDevice is an audio.Device that writes raw PCM to a file.
type fileDevice struct {
	path string

	mu     sync.Mutex
	f      *os.File
	format audio.Format
}

func newFileDevice(path string) *fileDevice {
	return &fileDevice{path: path}
}

func (d *fileDevice) Open(f audio.Format) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f != nil {
		return nil
	}
	file, err := os.Create(d.path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", d.path, err)
	}
	d.f, d.format = file, f
	return nil
}

func (d *fileDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return 0, audio.ErrDeviceNotOpen
	}
	return d.f.Write(p) //nolint:wrapcheck
}

func (d *fileDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err //nolint:wrapcheck
}

func (d *fileDevice) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.f != nil
}

func (d *fileDevice) Format() audio.Format {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.format
}

func init() {
	sayCmd.Flags().StringVarP(&sayOut, "out", "o", "", "write raw PCM frames to this file instead of playing them")
	sayCmd.Flags().StringVar(&sayEngine, "engine", "", "speech engine: piper, gtts or mock (default from config)")
	sayCmd.Flags().Float64Var(&sayRate, "rate", 0, "speaking rate, 2.0 is natural speed (default from config)")
}
