package synth

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/studyloop/lecturecast/internal/cache"
)

func TestVoiceParamsStretch(t *testing.T) {
	tests := []struct {
		rate float64
		want float64
	}{
		{NaturalRate, 1},
		{1.0, 2},
		{4.0, 0.5},
		{0, 1},
	}
	for _, tt := range tests {
		if got := (VoiceParams{Rate: tt.rate}).Stretch(); got != tt.want {
			t.Errorf("Stretch(%v) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestCachedEngine(t *testing.T) {
	engine := NewMockEngine()
	c := cache.NewMemory(1 << 24)
	cached := NewCachedEngine(engine, c)

	first, err := cached.Synthesize(context.Background(), "hello there.", DefaultVoice())
	if err != nil {
		t.Fatal(err)
	}
	second, err := cached.Synthesize(context.Background(), "hello there.", DefaultVoice())
	if err != nil {
		t.Fatal(err)
	}

	if len(engine.Calls()) != 1 {
		t.Errorf("engine called %d times, want 1", len(engine.Calls()))
	}
	if len(first) != len(second) {
		t.Errorf("cached audio has %d samples, original %d", len(second), len(first))
	}

	_, _ = cached.Synthesize(context.Background(), "hello there.", VoiceParams{Rate: 1.6})
	if len(engine.Calls()) != 2 {
		t.Error("a different rate should miss the cache")
	}
}

func TestMockEngineRejectsEmptyText(t *testing.T) {
	if _, err := NewMockEngine().Synthesize(context.Background(), "  ", DefaultVoice()); err != ErrEmptyText {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}

func TestPiperEngineArgs(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "voice.onnx")
	if err := os.WriteFile(model, []byte("model"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewPiperEngine(PiperConfig{}); err == nil {
		t.Error("expected error without a model")
	}
	if _, err := NewPiperEngine(PiperConfig{Model: filepath.Join(dir, "missing.onnx")}); err == nil {
		t.Error("expected error for a missing model")
	}

	e, err := NewPiperEngine(PiperConfig{Model: model, Speaker: "3"})
	if err != nil {
		t.Fatal(err)
	}
	args := strings.Join(e.Args(VoiceParams{Rate: 1.6}), " ")
	for _, want := range []string{"--model " + model, "--output_raw", "--length_scale 1.250", "--speaker 3"} {
		if !strings.Contains(args, want) {
			t.Errorf("args %q missing %q", args, want)
		}
	}
	if !strings.Contains(strings.Join(e.Args(VoiceParams{Rate: 2, Voice: "7"}), " "), "--speaker 7") {
		t.Error("voice parameter should override the configured speaker")
	}
	if _, err := e.Synthesize(context.Background(), "", DefaultVoice()); err != ErrEmptyText {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
}
