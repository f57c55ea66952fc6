package chunk

import (
	"strings"
	"testing"
)

func TestCleanForSpeech(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"adds period", "x squared minus four", "x squared minus four."},
		{"keeps question", "is it four?", "is it four?"},
		{"strips symbols", "hello *world* #1 ⊕ done", "hello world 1 done."},
		{"keeps hyphen and colon", "Algebra - Level one: notation", "Algebra - Level one: notation."},
		{"collapses space", "a   b\n\nc.", "a b c."},
		{"nothing left", "⊕ ⊗ **", ""},
		{"only punctuation", " ... ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanForSpeech(tt.input); got != tt.want {
				t.Errorf("CleanForSpeech(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanForSpeechTruncates(t *testing.T) {
	got := CleanForSpeech(strings.Repeat("abcd ", 600))
	if !strings.HasSuffix(got, "...") {
		t.Errorf("long text should end with ellipsis")
	}
	if n := len([]rune(got)); n != MaxSpeechLength+3 {
		t.Errorf("got %d runes, want %d", n, MaxSpeechLength+3)
	}
}
