package synth

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/studyloop/lecturecast/internal/audio"
	"github.com/studyloop/lecturecast/internal/cache"
)

// CachedEngine serves repeated chunks from a cache instead of the wrapped
// engine.
type CachedEngine struct {
	engine Engine
	cache  cache.Cache
}

// NewCachedEngine wraps engine with c.
func NewCachedEngine(engine Engine, c cache.Cache) *CachedEngine {
	return &CachedEngine{engine: engine, cache: c}
}

func (e *CachedEngine) Name() string    { return e.engine.Name() }
func (e *CachedEngine) SampleRate() int { return e.engine.SampleRate() }

func (e *CachedEngine) Synthesize(ctx context.Context, text string, v VoiceParams) ([]float32, error) {
	key := cache.Key(e.engine.Name(), v.Voice, text, v.Rate)
	if data, ok := e.cache.Get(key); ok {
		return audio.Decode(data, audio.Float32), nil
	}

	samples, err := e.engine.Synthesize(ctx, text, v)
	if err != nil {
		return nil, err
	}
	if err := e.cache.Put(key, audio.Encode(samples, audio.Float32)); err != nil {
		log.Debug("Audio cache write failed", "error", err)
	}
	return samples, nil
}

// Validate forwards to the wrapped engine.
func (e *CachedEngine) Validate() error {
	if v, ok := e.engine.(Validator); ok {
		return v.Validate()
	}
	return nil
}
