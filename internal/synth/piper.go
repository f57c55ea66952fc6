package synth

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"

	"github.com/studyloop/lecturecast/internal/audio"
)

const (
	piperMaxText  = 5000
	piperMaxAudio = 32 * 1024 * 1024
)

// PiperConfig configures the piper engine.
type PiperConfig struct {
	// Binary is the piper executable, looked up in PATH when not absolute.
	Binary string
	// Model is the .onnx voice model (required).
	Model string
	// Config is the model JSON; defaults to the model path plus ".json".
	Config string
	// Speaker selects a speaker in multi-speaker models.
	Speaker string
	// SampleRate is the model's output rate, 22050 for most voices.
	SampleRate int
	// LengthScale is the model's length scale at natural rate.
	LengthScale float64
	Timeout     time.Duration
}

// PiperEngine runs piper once per chunk, writing the text to stdin and
// reading raw signed 16-bit PCM from stdout.
type PiperEngine struct {
	cfg PiperConfig
}

// NewPiperEngine validates paths and fills defaults.
func NewPiperEngine(cfg PiperConfig) (*PiperEngine, error) {
	if cfg.Model == "" {
		return nil, errors.New("piper model path is required")
	}
	model, err := homedir.Expand(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("invalid model path: %w", err)
	}
	if _, err := os.Stat(model); err != nil {
		return nil, fmt.Errorf("model file not found: %w", err)
	}
	cfg.Model = model

	if cfg.Config == "" {
		cfg.Config = model + ".json"
		if _, err := os.Stat(cfg.Config); err != nil {
			cfg.Config = strings.TrimSuffix(model, filepath.Ext(model)) + ".json"
		}
	} else if cfg.Config, err = homedir.Expand(cfg.Config); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}
	if cfg.Binary == "" {
		cfg.Binary = "piper"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = audio.SampleRate
	}
	if cfg.LengthScale <= 0 {
		cfg.LengthScale = 1.0
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &PiperEngine{cfg: cfg}, nil
}

func (e *PiperEngine) Name() string    { return "piper" }
func (e *PiperEngine) SampleRate() int { return e.cfg.SampleRate }

// Validate checks that the piper binary can be found.
func (e *PiperEngine) Validate() error {
	if _, err := exec.LookPath(e.cfg.Binary); err != nil {
		return fmt.Errorf("%w: piper not found: %v", ErrEngineUnavailable, err)
	}
	return nil
}

// Args returns the piper command line for v.
func (e *PiperEngine) Args(v VoiceParams) []string {
	args := []string{
		"--model", e.cfg.Model,
		"--config", e.cfg.Config,
		"--output_raw",
		"--length_scale", fmt.Sprintf("%.3f", e.cfg.LengthScale*v.Stretch()),
	}
	speaker := e.cfg.Speaker
	if v.Voice != "" {
		speaker = v.Voice
	}
	if speaker != "" {
		args = append(args, "--speaker", speaker)
	}
	return args
}

func (e *PiperEngine) Synthesize(ctx context.Context, text string, v VoiceParams) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if len(text) > piperMaxText {
		return nil, fmt.Errorf("text too long: %d characters (max %d)", len(text), piperMaxText)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.cfg.Binary, e.Args(v)...)
	// Stdin is set before Start so piper never sees an empty pipe.
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 100 * time.Millisecond
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("synthesis timeout: %w", ctx.Err())
		}
		return nil, fmt.Errorf("piper failed: %w, stderr: %s", err, strings.TrimSpace(stderr.String()))
	}

	raw := stdout.Bytes()
	if len(raw) == 0 {
		return nil, fmt.Errorf("piper produced no audio, stderr: %s", strings.TrimSpace(stderr.String()))
	}
	if len(raw) > piperMaxAudio {
		return nil, fmt.Errorf("piper output too large: %d bytes", len(raw))
	}

	log.Debug("Piper synthesized chunk", "chars", len(text), "bytes", len(raw), "took", time.Since(start))
	return audio.Resample(audio.Int16ToFloat(raw), e.cfg.SampleRate, audio.SampleRate), nil
}
