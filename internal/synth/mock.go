package synth

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/studyloop/lecturecast/internal/audio"
)

// MockEngine produces a tone per chunk instead of speech: 60 ms per word
// at natural rate, with a pitch derived from the text. It is used for
// tests and for running without a speech engine installed.
type MockEngine struct {
	wordDuration time.Duration
	delay        time.Duration

	mu       sync.Mutex
	failOn   []string
	calls    []string
	inFlight atomic.Int32
	maxConc  atomic.Int32
}

// NewMockEngine creates a mock engine.
func NewMockEngine() *MockEngine {
	return &MockEngine{wordDuration: 60 * time.Millisecond}
}

func (e *MockEngine) Name() string    { return "mock" }
func (e *MockEngine) SampleRate() int { return audio.SampleRate }

// SetDelay simulates engine processing time.
func (e *MockEngine) SetDelay(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delay = d
}

// SetWordDuration sets the tone length per word at natural rate.
func (e *MockEngine) SetWordDuration(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if d > 0 {
		e.wordDuration = d
	}
}

// FailOn makes Synthesize fail for any text containing substr.
func (e *MockEngine) FailOn(substr string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failOn = append(e.failOn, substr)
}

func (e *MockEngine) Synthesize(ctx context.Context, text string, v VoiceParams) ([]float32, error) {
	n := e.inFlight.Add(1)
	defer e.inFlight.Add(-1)
	for {
		old := e.maxConc.Load()
		if n <= old || e.maxConc.CompareAndSwap(old, n) {
			break
		}
	}

	e.mu.Lock()
	e.calls = append(e.calls, text)
	delay, failOn, perWord := e.delay, e.failOn, e.wordDuration
	e.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	for _, s := range failOn {
		if strings.Contains(text, s) {
			return nil, fmt.Errorf("mock synthesis failed for %q", s)
		}
	}
	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	words := len(strings.Fields(text))
	d := time.Duration(float64(words) * float64(perWord) * v.Stretch())

	h := fnv.New32a()
	h.Write([]byte(text))
	freq := 220 + float64(h.Sum32()%440)
	return audio.Tone(freq, d, 0.5, audio.SampleRate), nil
}

// Calls returns the texts synthesized so far.
func (e *MockEngine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.calls))
	copy(out, e.calls)
	return out
}

// MaxConcurrent returns the highest number of overlapping Synthesize
// calls observed.
func (e *MockEngine) MaxConcurrent() int {
	return int(e.maxConc.Load())
}
