package synth

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTempo(t *testing.T) {
	tests := []struct {
		rate float64
		want float64
	}{
		{NaturalRate, 1},
		{4, 2},
		{1, 0.5},
		{16, maxTempo},
		{0.1, minTempo},
	}
	for _, tt := range tests {
		if got := Tempo(VoiceParams{Rate: tt.rate}); got != tt.want {
			t.Errorf("Tempo(%v) = %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestGTTSEngineArgs(t *testing.T) {
	e := NewGTTSEngine(GTTSConfig{Language: "en-gb", Slow: true, SampleRate: 24000})

	cli := strings.Join(e.CLIArgs("x squared"), " ")
	if cli != "x squared -l en-gb --slow -o -" {
		t.Errorf("gtts-cli args = %q", cli)
	}

	ff := strings.Join(e.FFmpegArgs(DefaultVoice()), " ")
	for _, want := range []string{"-f s16le", "-ar 24000", "-ac 1", "pipe:1"} {
		if !strings.Contains(ff, want) {
			t.Errorf("ffmpeg args %q missing %q", ff, want)
		}
	}
	if strings.Contains(ff, "atempo") {
		t.Errorf("natural rate should not add a tempo filter: %q", ff)
	}
	if ff := strings.Join(e.FFmpegArgs(VoiceParams{Rate: 4}), " "); !strings.Contains(ff, "atempo=2.00") {
		t.Errorf("fast rate args = %q", ff)
	}
}

func TestGTTSEngineDefaults(t *testing.T) {
	e := NewGTTSEngine(GTTSConfig{})
	if e.Name() != "gtts" || e.cfg.Language != "en" || e.cfg.RequestsPerMinute != 50 {
		t.Errorf("defaults = %+v", e.cfg)
	}
	if _, err := e.Synthesize(context.Background(), " ", DefaultVoice()); err != ErrEmptyText {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	if _, err := e.Synthesize(context.Background(), strings.Repeat("a", gttsMaxText+1), DefaultVoice()); err == nil {
		t.Error("expected an error for oversized text")
	}
}

func TestGTTSEngineMissingBinary(t *testing.T) {
	e := NewGTTSEngine(GTTSConfig{CLI: "lecturecast-missing-gtts-cli"})
	if err := e.Validate(); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("Validate = %v, want ErrEngineUnavailable", err)
	}
	if _, err := e.Synthesize(context.Background(), "hello", DefaultVoice()); err == nil {
		t.Error("expected an error when gtts-cli is missing")
	}
}
