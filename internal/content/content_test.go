package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/studyloop/lecturecast/internal/affect"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"overloaded", fmt.Errorf("call: %w", ErrOverloaded), true},
		{"timeout", ErrTimeout, true},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"other", errors.New("bad request"), false},
		{"unknown section", ErrUnknownSection, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(tt.err); got != tt.want {
				t.Errorf("Retryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"too many requests", genai.APIError{Code: 429, Message: "quota"}, true},
		{"unavailable", genai.APIError{Code: 503, Message: "overloaded"}, true},
		{"gateway timeout", genai.APIError{Code: 504, Message: "slow"}, true},
		{"bad request", genai.APIError{Code: 400, Message: "invalid"}, false},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), true},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Retryable(classify(tt.err)); got != tt.retryable {
				t.Errorf("Retryable(classify(%v)) = %v, want %v", tt.err, got, tt.retryable)
			}
		})
	}
}

func TestTitle(t *testing.T) {
	tests := map[string]string{
		"fraction_bar_notation": "Fraction Bar Notation",
		"introduction":          "Introduction",
		"real_world_image":      "Real World Image",
	}
	for in, want := range tests {
		if got := Title(in); got != want {
			t.Errorf("Title(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSectionsHaveFallbacksAndBriefs(t *testing.T) {
	if len(Sections) != 8 {
		t.Fatalf("expected 8 sections, got %d", len(Sections))
	}
	for _, s := range Sections {
		if !Known(s) {
			t.Errorf("Known(%q) = false", s)
		}
		if _, ok := fallbackSections[s]; !ok {
			t.Errorf("no fallback text for %q", s)
		}
		if _, ok := sectionBriefs[s]; !ok {
			t.Errorf("no prompt brief for %q", s)
		}
	}
	if Known("nonexistent") {
		t.Error("Known should reject unknown sections")
	}
	if FallbackText("nonexistent") != fallbackGeneric {
		t.Error("unknown section should get the generic fallback")
	}
}

func TestFallbackAnswerFollowsTone(t *testing.T) {
	tests := []struct {
		category affect.Category
		want     string
	}{
		{affect.Curious, "brilliant question"},
		{affect.Simple, "Simply put"},
		{affect.Nervous, "Don't worry"},
		{affect.Neutral, "great question about"},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			q := Question{Text: "why?", Topic: "fraction bar notation", Affect: affect.Result{Category: tt.category}}
			got := FallbackAnswer(q)
			if !strings.Contains(got, tt.want) {
				t.Errorf("answer %q does not contain %q", got, tt.want)
			}
			if !strings.Contains(strings.ToLower(got), "fraction bar notation") {
				t.Errorf("answer %q does not mention the topic", got)
			}
		})
	}
}

type stubAnswerer struct {
	text string
	err  error
}

func (s stubAnswerer) Answer(context.Context, Question) (string, error) { return s.text, s.err }

func TestAnswerOrFallback(t *testing.T) {
	q := Question{Text: "what is a term", Topic: "vocabulary", Affect: affect.Result{Category: affect.Simple}}

	tests := []struct {
		name         string
		answerer     Answerer
		wantFallback bool
	}{
		{"nil answerer", nil, true},
		{"error", stubAnswerer{err: ErrOverloaded}, true},
		{"blank", stubAnswerer{text: "  "}, true},
		{"answer", stubAnswerer{text: "A term is a part of an expression."}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, fallback := AnswerOrFallback(context.Background(), tt.answerer, q)
			if fallback != tt.wantFallback {
				t.Errorf("fallback = %v, want %v", fallback, tt.wantFallback)
			}
			if text == "" {
				t.Error("expected answer text")
			}
		})
	}
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), GeminiConfig{})
	if !errors.Is(err, ErrGeneratorUnavailable) {
		t.Fatalf("expected ErrGeneratorUnavailable, got %v", err)
	}
}
