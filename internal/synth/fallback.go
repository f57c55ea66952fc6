package synth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// FallbackEngine uses primary until it fails maxFailures times in a row,
// then switches to fallback for the rest of its life. A success on the
// primary resets the failure count.
type FallbackEngine struct {
	primary     Engine
	fallback    Engine
	maxFailures int

	mu       sync.Mutex
	failures int
	switched bool
}

// NewFallbackEngine wraps primary and fallback. maxFailures below 1 is
// treated as 1.
func NewFallbackEngine(primary, fallback Engine, maxFailures int) *FallbackEngine {
	return &FallbackEngine{
		primary:     primary,
		fallback:    fallback,
		maxFailures: max(1, maxFailures),
	}
}

func (f *FallbackEngine) active() Engine {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.switched {
		return f.fallback
	}
	return f.primary
}

func (f *FallbackEngine) Name() string    { return f.active().Name() }
func (f *FallbackEngine) SampleRate() int { return f.active().SampleRate() }

// UsingFallback reports whether the engine has switched.
func (f *FallbackEngine) UsingFallback() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.switched
}

// Validate checks the primary and switches right away when it cannot run.
// It only fails when neither engine can run.
func (f *FallbackEngine) Validate() error {
	primaryErr := validate(f.primary)
	if primaryErr == nil {
		return nil
	}
	if err := validate(f.fallback); err != nil {
		return fmt.Errorf("both engines unavailable: %w", errors.Join(primaryErr, err))
	}
	log.Warn("Primary speech engine unavailable, using fallback",
		"primary", f.primary.Name(), "fallback", f.fallback.Name(), "error", primaryErr)
	f.mu.Lock()
	f.switched = true
	f.mu.Unlock()
	return nil
}

func validate(e Engine) error {
	if v, ok := e.(Validator); ok {
		return v.Validate() //nolint:wrapcheck
	}
	return nil
}

func (f *FallbackEngine) Synthesize(ctx context.Context, text string, v VoiceParams) ([]float32, error) {
	if f.UsingFallback() {
		return f.fallback.Synthesize(ctx, text, v) //nolint:wrapcheck
	}

	samples, err := f.primary.Synthesize(ctx, text, v)
	if err == nil {
		f.mu.Lock()
		if f.failures > 0 {
			log.Info("Primary speech engine recovered", "failures", f.failures)
			f.failures = 0
		}
		f.mu.Unlock()
		return samples, nil
	}
	if errors.Is(err, ErrEmptyText) || ctx.Err() != nil {
		return nil, err
	}

	f.mu.Lock()
	f.failures++
	failures := f.failures
	if failures >= f.maxFailures {
		f.switched = true
	}
	f.mu.Unlock()

	log.Warn("Primary speech engine failed", "attempt", failures, "max", f.maxFailures, "error", err)
	if failures < f.maxFailures {
		return nil, err
	}
	log.Warn("Switching to fallback speech engine", "engine", f.fallback.Name())
	samples, ferr := f.fallback.Synthesize(ctx, text, v)
	if ferr != nil {
		return nil, fmt.Errorf("both engines failed: %w", errors.Join(err, ferr))
	}
	return samples, nil
}
