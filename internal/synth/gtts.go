package synth

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/studyloop/lecturecast/internal/audio"
)

const (
	gttsMaxText = 5000
	gttsMaxMP3  = 10 * 1024 * 1024
	gttsMaxPCM  = 50 * 1024 * 1024

	minTempo = 0.5
	maxTempo = 2.0
)

// GTTSConfig configures the Google TTS engine.
type GTTSConfig struct {
	// Language is the gTTS language code, "en" by default.
	Language string
	Slow     bool
	// RequestsPerMinute bounds calls to the service. Zero uses 50.
	RequestsPerMinute int
	Timeout           time.Duration
	// SampleRate is the rate ffmpeg decodes to.
	SampleRate int

	// CLI and FFmpeg name the executables, looked up in PATH.
	CLI    string
	FFmpeg string
}

// GTTSEngine fetches MP3 from Google TTS through gtts-cli and decodes it
// to PCM with ffmpeg. It needs network access.
type GTTSEngine struct {
	cfg     GTTSConfig
	limiter *rate.Limiter
}

// NewGTTSEngine fills defaults. Call Validate to check for the binaries.
func NewGTTSEngine(cfg GTTSConfig) *GTTSEngine {
	if cfg.Language == "" {
		cfg.Language = "en"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 50
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = audio.SampleRate
	}
	if cfg.CLI == "" {
		cfg.CLI = "gtts-cli"
	}
	if cfg.FFmpeg == "" {
		cfg.FFmpeg = "ffmpeg"
	}
	return &GTTSEngine{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
	}
}

func (e *GTTSEngine) Name() string    { return "gtts" }
func (e *GTTSEngine) SampleRate() int { return e.cfg.SampleRate }

// Validate checks that gtts-cli and ffmpeg can be found.
func (e *GTTSEngine) Validate() error {
	for _, bin := range []string{e.cfg.CLI, e.cfg.FFmpeg} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%w: %s not found: %v", ErrEngineUnavailable, bin, err)
		}
	}
	return nil
}

// CLIArgs returns the gtts-cli command line for text.
func (e *GTTSEngine) CLIArgs(text string) []string {
	args := []string{text, "-l", e.cfg.Language}
	if e.cfg.Slow {
		args = append(args, "--slow")
	}
	return append(args, "-o", "-")
}

// FFmpegArgs returns the ffmpeg command line that decodes MP3 on stdin to
// mono s16le on stdout. gTTS has no rate control, so rates other than
// natural are applied with the atempo filter.
func (e *GTTSEngine) FFmpegArgs(v VoiceParams) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", "pipe:0",
		"-f", "s16le",
		"-ar", fmt.Sprint(e.cfg.SampleRate),
		"-ac", "1",
	}
	if tempo := Tempo(v); tempo != 1 {
		args = append(args, "-filter:a", fmt.Sprintf("atempo=%.2f", tempo))
	}
	return append(args, "pipe:1")
}

// Tempo is the playback speed for v, clamped to what atempo accepts.
func Tempo(v VoiceParams) float64 {
	tempo := 1 / v.Stretch()
	return max(minTempo, min(maxTempo, tempo))
}

func (e *GTTSEngine) Synthesize(ctx context.Context, text string, v VoiceParams) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if len(text) > gttsMaxText {
		return nil, fmt.Errorf("text too long: %d characters (max %d)", len(text), gttsMaxText)
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	start := time.Now()
	mp3, err := e.run(ctx, e.cfg.CLI, e.CLIArgs(text), nil, gttsMaxMP3)
	if err != nil {
		return nil, err
	}
	raw, err := e.run(ctx, e.cfg.FFmpeg, e.FFmpegArgs(v), bytes.NewReader(mp3), gttsMaxPCM)
	if err != nil {
		return nil, err
	}

	log.Debug("gTTS synthesized chunk", "chars", len(text), "mp3", len(mp3), "pcm", len(raw), "took", time.Since(start))
	return audio.Resample(audio.Int16ToFloat(raw), e.cfg.SampleRate, audio.SampleRate), nil
}

func (e *GTTSEngine) run(ctx context.Context, bin string, args []string, stdin *bytes.Reader, limit int) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 100 * time.Millisecond
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("synthesis timeout: %w", ctx.Err())
		}
		return nil, fmt.Errorf("%s failed: %w, stderr: %s", bin, err, strings.TrimSpace(stderr.String()))
	}
	out := stdout.Bytes()
	switch {
	case len(out) == 0:
		return nil, fmt.Errorf("%s produced no output", bin)
	case len(out) > limit:
		return nil, fmt.Errorf("%s output too large: %d bytes", bin, len(out))
	}
	return out, nil
}
