package synth

import (
	"context"
	"errors"
)

// NaturalRate is the rate at which an engine speaks at its own pace.
const NaturalRate = 2.0

var (
	// ErrEmptyText is returned when there is nothing to synthesize.
	ErrEmptyText = errors.New("text cannot be empty")

	// ErrEngineUnavailable is returned when an engine cannot run.
	ErrEngineUnavailable = errors.New("speech engine unavailable")
)

// VoiceParams selects how text is spoken.
type VoiceParams struct {
	// Voice is an engine-specific speaker name or ID. Empty uses the
	// engine default.
	Voice string
	// Rate is the speaking rate; NaturalRate is unchanged speed, higher is
	// faster.
	Rate float64
}

// DefaultVoice speaks with the engine default at natural rate.
func DefaultVoice() VoiceParams {
	return VoiceParams{Rate: NaturalRate}
}

// Stretch returns the duration factor for the rate: 1 at NaturalRate,
// above 1 when slower.
func (v VoiceParams) Stretch() float64 {
	if v.Rate <= 0 {
		return 1
	}
	return NaturalRate / v.Rate
}

// Engine synthesizes text into mono float samples in [-1, 1]. Engines are
// not assumed to be safe for concurrent use.
type Engine interface {
	Name() string
	SampleRate() int
	Synthesize(ctx context.Context, text string, v VoiceParams) ([]float32, error)
}

// Validator is implemented by engines that can check their dependencies
// before first use.
type Validator interface {
	Validate() error
}
