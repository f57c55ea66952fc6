package synth

import (
	"context"
	"errors"
	"testing"
)

func TestFallbackEngineSwitchesAfterFailures(t *testing.T) {
	primary, fallback := NewMockEngine(), NewMockEngine()
	primary.FailOn("boom")
	e := NewFallbackEngine(primary, fallback, 2)
	ctx := context.Background()

	if _, err := e.Synthesize(ctx, "boom one", DefaultVoice()); err == nil {
		t.Fatal("first failure should be returned")
	}
	if e.UsingFallback() {
		t.Fatal("switched after one failure")
	}
	if _, err := e.Synthesize(ctx, "boom two", DefaultVoice()); err != nil {
		t.Fatalf("second failure should be served by the fallback: %v", err)
	}
	if !e.UsingFallback() {
		t.Fatal("expected the fallback to be active")
	}
	if _, err := e.Synthesize(ctx, "hello", DefaultVoice()); err != nil {
		t.Fatal(err)
	}

	if got := len(primary.Calls()); got != 2 {
		t.Errorf("primary calls = %d, want 2", got)
	}
	if got := fallback.Calls(); len(got) != 2 || got[1] != "hello" {
		t.Errorf("fallback calls = %v", got)
	}
}

func TestFallbackEngineSuccessResetsFailures(t *testing.T) {
	primary := NewMockEngine()
	primary.FailOn("boom")
	e := NewFallbackEngine(primary, NewMockEngine(), 2)
	ctx := context.Background()

	for _, text := range []string{"boom", "fine", "boom"} {
		_, _ = e.Synthesize(ctx, text, DefaultVoice())
	}
	if e.UsingFallback() {
		t.Error("failures separated by a success should not switch engines")
	}
	if _, err := e.Synthesize(ctx, " ", DefaultVoice()); !errors.Is(err, ErrEmptyText) {
		t.Errorf("expected ErrEmptyText, got %v", err)
	}
	if e.UsingFallback() {
		t.Error("empty text should not count as an engine failure")
	}
}

func TestFallbackEngineValidate(t *testing.T) {
	missing := NewGTTSEngine(GTTSConfig{CLI: "lecturecast-missing-gtts-cli"})

	e := NewFallbackEngine(missing, NewMockEngine(), 3)
	if err := e.Validate(); err != nil {
		t.Fatal(err)
	}
	if !e.UsingFallback() || e.Name() != "mock" {
		t.Errorf("expected the mock engine after validation, got %s", e.Name())
	}

	both := NewFallbackEngine(missing, missing, 3)
	if err := both.Validate(); !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("Validate = %v, want ErrEngineUnavailable", err)
	}
}
