package chunk

import (
	"fmt"
	"strings"
	"testing"
)

func words(n int, last string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	if last != "" {
		parts[n-1] = last
	}
	return strings.Join(parts, " ")
}

func TestChunkEmpty(t *testing.T) {
	c := New()
	for _, input := range []string{"", "   ", "\n\t"} {
		if got := c.Chunk(input); len(got) != 0 {
			t.Errorf("Chunk(%q) = %q, want no chunks", input, got)
		}
	}
}

func TestChunkShortTextIsOneChunk(t *testing.T) {
	got := New().Chunk("two plus three equals five.")
	if len(got) != 1 || got[0] != "two plus three equals five." {
		t.Errorf("got %q", got)
	}
}

func TestChunkClosesAtBoundaryAfterMinimum(t *testing.T) {
	// Boundary at word 3 is ignored; the one at word 22 closes the chunk.
	text := "a b c. " + words(18, "") + " end, tail words here"
	got := New().Chunk(text)
	if len(got) != 2 {
		t.Fatalf("got %d chunks: %q", len(got), got)
	}
	if n := len(strings.Fields(got[0])); n != 22 {
		t.Errorf("first chunk has %d words, want 22", n)
	}
	if !strings.HasSuffix(got[0], "end,") {
		t.Errorf("first chunk should end at the clause boundary: %q", got[0])
	}
	if got[1] != "tail words here" {
		t.Errorf("last chunk = %q", got[1])
	}
}

func TestChunkHardMaximum(t *testing.T) {
	got := New().Chunk(words(60, ""))
	wantSizes := []int{25, 25, 10}
	if len(got) != len(wantSizes) {
		t.Fatalf("got %d chunks, want %d", len(got), len(wantSizes))
	}
	for i, want := range wantSizes {
		if n := len(strings.Fields(got[i])); n != want {
			t.Errorf("chunk %d has %d words, want %d", i, n, want)
		}
	}
}

func TestChunkPreservesWords(t *testing.T) {
	text := strings.Repeat("x squared minus four equals zero, and then we add seven. ", 12)
	chunks := New(WithMinWords(15), WithMaxWords(25)).Chunk(text)

	var rejoined []string
	for _, c := range chunks {
		if strings.TrimSpace(c) == "" {
			t.Fatal("empty chunk emitted")
		}
		if n := len(strings.Fields(c)); n > 25 {
			t.Errorf("chunk exceeds maximum: %d words", n)
		}
		rejoined = append(rejoined, strings.Fields(c)...)
	}
	if got, want := strings.Join(rejoined, " "), strings.Join(strings.Fields(text), " "); got != want {
		t.Errorf("words not preserved\n got: %q\nwant: %q", got, want)
	}
}

func TestNewClampsMaximum(t *testing.T) {
	minWords, maxWords := New(WithMinWords(30), WithMaxWords(10)).Limits()
	if minWords != 30 || maxWords != 30 {
		t.Errorf("Limits() = %d, %d; want 30, 30", minWords, maxWords)
	}
}
